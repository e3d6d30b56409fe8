package payment

import "time"

// CreatedEvent is emitted once a provider accepted the initiation and the
// payment record was persisted.
type CreatedEvent struct {
	PaymentID        string
	OwnerID          string
	AmountMinorUnits int64
	Currency         string
	Method           Method
	TransactionID    string
	OccurredAt       time.Time
}

func (CreatedEvent) EventName() string { return "payment.created" }

func NewCreatedEvent(p *Payment) CreatedEvent {
	return CreatedEvent{
		PaymentID:        p.ID,
		OwnerID:          p.OwnerID,
		AmountMinorUnits: p.Amount.MinorUnits(),
		Currency:         p.Amount.Currency(),
		Method:           p.Method,
		TransactionID:    p.TransactionID,
		OccurredAt:       time.Now().UTC(),
	}
}

// StatusChangedEvent is emitted after every successful status transition.
// Downstream hooks (notification, bookkeeping) subscribe to it.
type StatusChangedEvent struct {
	PaymentID  string
	OwnerID    string
	From       Status
	To         Status
	Reason     string
	OccurredAt time.Time
}

func (StatusChangedEvent) EventName() string { return "payment.status_changed" }

func NewStatusChangedEvent(p *Payment, from Status) StatusChangedEvent {
	return StatusChangedEvent{
		PaymentID:  p.ID,
		OwnerID:    p.OwnerID,
		From:       from,
		To:         p.Status,
		Reason:     p.StatusReason,
		OccurredAt: time.Now().UTC(),
	}
}
