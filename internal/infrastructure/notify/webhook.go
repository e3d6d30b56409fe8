package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domoutbox "github.com/Gustavonobregab/fastcv-payments/internal/domain/outbox"
	dompay "github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
	"github.com/Gustavonobregab/fastcv-payments/internal/observability"
	"github.com/Gustavonobregab/fastcv-payments/internal/observability/logctx"
)

const componentWebhook = "webhook_notifier"

// Webhook forwards payment status changes to a configured endpoint. Delivery
// is best-effort: failures are logged and dropped, never retried here.
type Webhook struct {
	url    string
	client *http.Client
	log    observability.Logger
}

func NewWebhook(url string, timeout time.Duration, logger observability.Logger) *Webhook {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    logger.With(observability.F("component", componentWebhook)),
	}
}

// Start subscribes the notifier to payment status changes.
func (w *Webhook) Start(sub domoutbox.Subscriber) {
	sub.Subscribe(dompay.StatusChangedEvent{}.EventName(), w.handleStatusChanged)
}

type statusChangedPayload struct {
	Event      string    `json:"event"`
	PaymentID  string    `json:"payment_id"`
	OwnerID    string    `json:"owner_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (w *Webhook) handleStatusChanged(ctx context.Context, e domoutbox.Event) error {
	logger := logctx.FromOr(ctx, w.log)

	evt, ok := e.(dompay.StatusChangedEvent)
	if !ok {
		return nil
	}
	if w.url == "" {
		logger.Debug("webhook_skipped_no_url", observability.F("payment_id", evt.PaymentID))
		return nil
	}

	body, err := json.Marshal(statusChangedPayload{
		Event:      e.EventName(),
		PaymentID:  evt.PaymentID,
		OwnerID:    evt.OwnerID,
		From:       string(evt.From),
		To:         string(evt.To),
		Reason:     evt.Reason,
		OccurredAt: evt.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		logger.Warn("webhook_delivery_failed",
			observability.F("payment_id", evt.PaymentID),
			observability.F("error", err.Error()),
		)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		logger.Warn("webhook_rejected",
			observability.F("payment_id", evt.PaymentID),
			observability.F("status", resp.StatusCode),
		)
		return fmt.Errorf("webhook: endpoint returned %d", resp.StatusCode)
	}

	logger.Info("webhook_delivered",
		observability.F("payment_id", evt.PaymentID),
		observability.F("to", string(evt.To)),
	)
	return nil
}
