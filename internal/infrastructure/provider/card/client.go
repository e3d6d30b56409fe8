package card

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dompay "github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
	domprov "github.com/Gustavonobregab/fastcv-payments/internal/domain/provider"
	"github.com/Gustavonobregab/fastcv-payments/internal/observability"
)

const providerName = "card"

// Client integrates with the card acquirer's transactions API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     observability.Logger
	tel     observability.Telemetry
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger observability.Logger, tel observability.Telemetry) *Client {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if tel == nil {
		tel = observability.NopTelemetry()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     logger.With(observability.F("provider", providerName)),
		tel:     tel,
	}
}

type createTransactionRequest struct {
	APIKey         string `json:"api_key"`
	Amount         int64  `json:"amount"`
	PaymentMethod  string `json:"payment_method"`
	Currency       string `json:"currency"`
	SoftDescriptor string `json:"soft_descriptor,omitempty"`
	Metadata       struct {
		OwnerID string `json:"owner_id"`
	} `json:"metadata"`
}

type transactionResponse struct {
	TID    json.Number `json:"tid"`
	Status string      `json:"status"`
}

func (c *Client) Initiate(ctx context.Context, req domprov.InitiateRequest) (*domprov.InitiateResult, error) {
	body := createTransactionRequest{
		APIKey:         c.apiKey,
		Amount:         req.AmountMinorUnits,
		PaymentMethod:  "credit_card",
		Currency:       req.Currency,
		SoftDescriptor: req.Description,
	}
	body.Metadata.OwnerID = req.OwnerID

	var out transactionResponse
	if err := c.do(ctx, "initiate", http.MethodPost, "/1/transactions", body, &out); err != nil {
		return nil, err
	}
	if out.TID.String() == "" {
		return nil, fmt.Errorf("%w: acquirer returned no transaction id", domprov.ErrUnavailable)
	}
	return &domprov.InitiateResult{TransactionID: out.TID.String()}, nil
}

func (c *Client) CheckStatus(ctx context.Context, transactionID string) (dompay.Status, error) {
	var out transactionResponse
	path := fmt.Sprintf("/1/transactions/%s?api_key=%s", transactionID, c.apiKey)
	if err := c.do(ctx, "check_status", http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return mapAcquirerStatus(out.Status)
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	start := time.Now()
	outcome := "success"
	defer func() {
		c.tel.Counter(observability.MExternalRequests).Add(1,
			observability.L("provider", providerName),
			observability.L("operation", operation),
			observability.L("outcome", outcome),
		)
		c.tel.Histogram(observability.MExternalRequestDuration).Observe(time.Since(start).Seconds(),
			observability.L("provider", providerName),
			observability.L("operation", operation),
		)
	}()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			outcome = "error"
			return fmt.Errorf("card: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("card: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("%w: %v", domprov.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		outcome = "error"
		c.log.Warn("card_acquirer_error",
			observability.F("operation", operation),
			observability.F("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: acquirer returned %d", domprov.ErrUnavailable, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			outcome = "error"
			return fmt.Errorf("%w: decode response: %v", domprov.ErrUnavailable, err)
		}
	}
	return nil
}

func mapAcquirerStatus(s string) (dompay.Status, error) {
	switch s {
	case "processing", "authorized", "waiting_payment":
		return dompay.StatusProcessing, nil
	case "paid":
		return dompay.StatusPaid, nil
	case "refused", "chargedback":
		return dompay.StatusFailed, nil
	case "refunded":
		return dompay.StatusRefunded, nil
	default:
		return "", fmt.Errorf("%w: unknown acquirer status %q", domprov.ErrUnavailable, s)
	}
}
