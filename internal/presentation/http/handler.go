package httppresentation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apppayment "github.com/Gustavonobregab/fastcv-payments/internal/application/payment"
	"github.com/Gustavonobregab/fastcv-payments/internal/domain/money"
	domainPayment "github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
	domainProvider "github.com/Gustavonobregab/fastcv-payments/internal/domain/provider"
	"github.com/Gustavonobregab/fastcv-payments/internal/observability"
)

const componentHTTPHandler = "http_server"

type Handler struct {
	payments *apppayment.Service
	log      observability.Logger
	tel      observability.Telemetry
}

func NewHandler(payments *apppayment.Service, logger observability.Logger, tel observability.Telemetry) *Handler {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if tel == nil {
		tel = observability.NopTelemetry()
	}
	return &Handler{
		payments: payments,
		log:      logger.With(observability.F("component", componentHTTPHandler)),
		tel:      tel,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	h.handle(mux, "POST /payments", h.handleCreatePayment)
	h.handle(mux, "GET /payments", h.handleListPayments)
	h.handle(mux, "GET /payments/{id}", h.handleGetPayment)
	h.handle(mux, "GET /payments/transaction/{transactionID}", h.handleGetByTransactionID)
	h.handle(mux, "PATCH /payments/{id}/status", h.handleUpdateStatus)
	h.handle(mux, "GET /payments/{id}/provider-status", h.handleProviderStatus)
	h.handle(mux, "POST /payments/{id}/simulate", h.handleSimulatePayment)
	h.handle(mux, "GET /health", h.handleHealth)

	return mux
}

// handle wires one route through the middleware chain:
// trace → request-scoped logger → metrics + access log → handler.
func (h *Handler) handle(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	route := pattern
	wrapped := h.withTrace(
		h.withRequestScope(
			h.withInstrumentation(handler),
		),
	)
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(contextWithRoute(r.Context(), route))
		wrapped.ServeHTTP(w, r)
	})
}

// amountValue tolerates both JSON numbers and strings for the amount field,
// matching what payment clients actually send. Anything else is rejected.
type amountValue string

func (a *amountValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("amount must be a number or a decimal string")
	}
	*a = amountValue(n.String())
	return nil
}

type createPaymentRequest struct {
	Amount      amountValue `json:"amount"`
	Currency    string      `json:"currency"`
	Method      string      `json:"method"`
	OwnerID     string      `json:"owner_id"`
	Description string      `json:"description"`
}

type paymentResponse struct {
	ID               string `json:"id"`
	OwnerID          string `json:"owner_id"`
	Amount           string `json:"amount"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Currency         string `json:"currency"`
	Method           string `json:"method"`
	Status           string `json:"status"`
	StatusReason     string `json:"status_reason,omitempty"`
	TransactionID    string `json:"transaction_id"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func toPaymentResponse(p *domainPayment.Payment) paymentResponse {
	return paymentResponse{
		ID:               p.ID,
		OwnerID:          p.OwnerID,
		Amount:           strconv.FormatFloat(p.Amount.Amount(), 'f', 2, 64),
		AmountMinorUnits: p.Amount.MinorUnits(),
		Currency:         p.Amount.Currency(),
		Method:           string(p.Method),
		Status:           string(p.Status),
		StatusReason:     p.StatusReason,
		TransactionID:    p.TransactionID,
		CreatedAt:        p.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		UpdatedAt:        p.UpdatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.payments.Create(r.Context(), apppayment.CreatePaymentInput{
		Amount:      string(req.Amount),
		Currency:    req.Currency,
		Method:      req.Method,
		OwnerID:     req.OwnerID,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(created))
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (h *Handler) handleGetByTransactionID(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.GetByTransactionID(r.Context(), r.PathValue("transactionID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (h *Handler) handleSimulatePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.SimulatePayment(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.payments.UpdateStatus(r.Context(), r.PathValue("id"), req.Status, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

type providerStatusResponse struct {
	PaymentID      string `json:"payment_id"`
	ProviderStatus string `json:"provider_status"`
}

func (h *Handler) handleProviderStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status, err := h.payments.CheckProviderStatus(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, providerStatusResponse{PaymentID: id, ProviderStatus: string(status)})
}

type listResponse struct {
	Items []paymentResponse `json:"items"`
	Total int               `json:"total"`
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if status := query.Get("status"); status != "" {
		items, err := h.payments.ListByStatus(r.Context(), status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Items: toResponses(items), Total: len(items)})
		return
	}

	if ownerID := query.Get("owner_id"); ownerID != "" {
		items, err := h.payments.ListByOwner(r.Context(), ownerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Items: toResponses(items), Total: len(items)})
		return
	}

	page, err := parseIntParam(query.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	limit, err := parseIntParam(query.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.payments.ListPaginated(r.Context(), page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: toResponses(result.Items), Total: result.Total})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func toResponses(items []*domainPayment.Payment) []paymentResponse {
	out := make([]paymentResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeDomainError maps domain error kinds to status codes. The mapping lives
// only here at the boundary; the core surfaces plain sentinel errors.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainPayment.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, domainPayment.ErrInvalidAmount),
		errors.Is(err, domainPayment.ErrMissingOwner),
		errors.Is(err, domainPayment.ErrInvalidStatus),
		errors.Is(err, apppayment.ErrInvalidPagination):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domainProvider.ErrUnsupportedProvider):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domainPayment.ErrInvalidTransition),
		errors.Is(err, domainPayment.ErrVersionConflict),
		errors.Is(err, domainPayment.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, domainProvider.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
