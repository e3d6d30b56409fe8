package payment

import (
	"errors"
	"time"

	"github.com/Gustavonobregab/fastcv-payments/internal/domain/money"
)

var (
	ErrNotFound          = errors.New("payment: not found")
	ErrConflict          = errors.New("payment: already exists")
	ErrVersionConflict   = errors.New("payment: concurrent update detected")
	ErrInvalidAmount     = errors.New("payment: amount must be greater than zero")
	ErrInvalidStatus     = errors.New("payment: unknown status")
	ErrUnsupportedMethod = errors.New("payment: unsupported payment method")
	ErrMissingOwner      = errors.New("payment: owner id is required")
	ErrInvalidTransition = errors.New("payment: invalid status transition")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// ParseStatus validates an externally supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusPaid, StatusFailed, StatusRefunded:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

type Method string

const (
	MethodPix          Method = "pix"
	MethodCreditCard   Method = "credit_card"
	MethodBankTransfer Method = "bank_transfer"
)

// Payment records one charge for a CV analysis. Amount is immutable after
// creation; only status, reason, and timestamps change.
type Payment struct {
	ID            string
	OwnerID       string
	Amount        money.Money
	Method        Method
	Status        Status
	StatusReason  string
	TransactionID string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New creates a Payment in the initial pending state. The provider call has
// already produced transactionID by the time a Payment exists.
func New(id, ownerID string, amount money.Money, method Method, transactionID string) (*Payment, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	return &Payment{
		ID:            id,
		OwnerID:       ownerID,
		Amount:        amount,
		Method:        method,
		Status:        StatusPending,
		TransactionID: transactionID,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ApplyStatus moves the payment to next if the state machine permits it.
func (p *Payment) ApplyStatus(next Status, reason string) error {
	current, err := stateFor(p.Status)
	if err != nil {
		return err
	}

	var target paymentState
	switch next {
	case StatusProcessing:
		target, err = current.OnProviderAccepted(p)
	case StatusPaid:
		target, err = current.OnProviderConfirmed(p)
	case StatusFailed:
		target, err = current.OnProviderFailed(p, reason)
	case StatusRefunded:
		target, err = current.OnReversal(p, reason)
	case StatusPending:
		err = ErrInvalidTransition
	default:
		err = ErrInvalidStatus
	}
	if err != nil {
		return err
	}

	p.Status = target.Status()
	p.touch()
	return nil
}

func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (p *Payment) touch() {
	p.UpdatedAt = time.Now().UTC()
}
