package pix

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

const providerName = "pix"

// Client talks to the pix QR-code gateway. All amounts cross the wire in
// minor units, matching the gateway contract.
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

type createQRCodeRequest struct {
	Amount      int64             `json:"amount"`
	Description string            `json:"description"`
	ExpiresIn   int               `json:"expiresIn"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type qrCodeData struct {
	ID     string `json:"id"`
	BrCode string `json:"brCode"`
	Status string `json:"status"`
}

type qrCodeResponse struct {
	Data  qrCodeData `json:"data"`
	Error string     `json:"error,omitempty"`
}

func (c *Client) Initiate(ctx context.Context, req domprov.InitiateRequest) (*domprov.InitiateResult, error) {
	description := req.Description
	if description == "" {
		description = "FastCV analysis via pix"
	}

	var out qrCodeResponse
	err := c.do(ctx, "initiate", http.MethodPost, "/v1/pixQrCode/create", createQRCodeRequest{
		Amount:      req.AmountMinorUnits,
		Description: description,
		ExpiresIn:   3600,
		Metadata:    map[string]string{"ownerId": req.OwnerID},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Data.ID == "" {
		return nil, fmt.Errorf("%w: gateway returned no transaction id", domprov.ErrUnavailable)
	}

	return &domprov.InitiateResult{
		TransactionID: out.Data.ID,
		QRCode:        out.Data.BrCode,
	}, nil
}

func (c *Client) CheckStatus(ctx context.Context, transactionID string) (dompay.Status, error) {
	var out qrCodeResponse
	path := fmt.Sprintf("/v1/pixQrCode/check?id=%s", transactionID)
	if err := c.do(ctx, "check_status", http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return mapGatewayStatus(out.Data.Status)
}

// Simulate triggers the sandbox payment confirmation for a pending QR code.
func (c *Client) Simulate(ctx context.Context, transactionID string) error {
	var out qrCodeResponse
	path := fmt.Sprintf("/v1/pixQrCode/simulate-payment?id=%s", transactionID)
	return c.do(ctx, "simulate", http.MethodPost, path, nil, &out)
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
			return fmt.Errorf("pix: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("pix: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("%w: %v", domprov.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		outcome = "error"
		c.log.Warn("pix_gateway_error",
			observability.F("operation", operation),
			observability.F("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: gateway returned %d", domprov.ErrUnavailable, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			outcome = "error"
			return fmt.Errorf("%w: decode response: %v", domprov.ErrUnavailable, err)
		}
	}
	return nil
}

func mapGatewayStatus(s string) (dompay.Status, error) {
	switch s {
	case "PENDING":
		return dompay.StatusPending, nil
	case "PAID":
		return dompay.StatusPaid, nil
	case "EXPIRED", "CANCELLED":
		return dompay.StatusFailed, nil
	case "REFUNDED":
		return dompay.StatusRefunded, nil
	default:
		return "", fmt.Errorf("%w: unknown gateway status %q", domprov.ErrUnavailable, s)
	}
}
