package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gustavonobregab/fastcv-payments/internal/domain/money"
	"github.com/Gustavonobregab/fastcv-payments/internal/domain/outbox"
	dompay "github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
	domprov "github.com/Gustavonobregab/fastcv-payments/internal/domain/provider"
	"github.com/Gustavonobregab/fastcv-payments/internal/observability"
	"github.com/Gustavonobregab/fastcv-payments/internal/observability/logctx"
)

var ErrInvalidPagination = errors.New("payment: invalid pagination parameters")

const (
	componentPaymentService = "payment_service"
	defaultPage             = 1
	defaultLimit            = 10
)

// Service orchestrates the payment lifecycle: validate the amount through
// Money, dispatch to a provider strategy, persist, and apply status
// transitions. Provider failures are not retried here; retry policy belongs
// to the caller.
type Service struct {
	repo      dompay.Repository
	registry  *domprov.Registry
	publisher outbox.Publisher
	ids       IDGenerator
	log       observability.Logger
	tel       observability.Telemetry
}

func NewService(
	repo dompay.Repository,
	registry *domprov.Registry,
	publisher outbox.Publisher,
	ids IDGenerator,
	logger observability.Logger,
	tel observability.Telemetry,
) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if tel == nil {
		tel = observability.NopTelemetry()
	}
	return &Service{
		repo:      repo,
		registry:  registry,
		publisher: publisher,
		ids:       ids,
		log:       logger.With(observability.F("component", componentPaymentService)),
		tel:       tel,
	}
}

type CreatePaymentInput struct {
	Amount      string
	Currency    string
	Method      string
	OwnerID     string
	Description string
}

// Create validates the request, initiates the charge with the matching
// provider strategy, and persists the payment in the pending state. Nothing
// is persisted when the provider call fails.
func (s *Service) Create(ctx context.Context, input CreatePaymentInput) (*dompay.Payment, error) {
	logger := logctx.FromOr(ctx, s.log).With(
		observability.F("owner_id", input.OwnerID),
		observability.F("method", input.Method),
	)

	amount, err := money.New(input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, dompay.ErrInvalidAmount
	}
	if input.OwnerID == "" {
		return nil, dompay.ErrMissingOwner
	}

	method := dompay.Method(input.Method)
	strategy, err := s.registry.Resolve(method)
	if err != nil {
		return nil, err
	}

	result, err := strategy.Initiate(ctx, domprov.InitiateRequest{
		AmountMinorUnits: amount.MinorUnits(),
		Currency:         amount.Currency(),
		Method:           method,
		OwnerID:          input.OwnerID,
		Description:      input.Description,
	})
	if err != nil {
		logger.Error("provider_initiate_failed", observability.F("error", err.Error()))
		return nil, err
	}

	entity, err := dompay.New(s.ids.NewID(), input.OwnerID, amount, method, result.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, entity); err != nil {
		// Known dual-write gap: the provider has already registered the
		// attempt and there is no compensating cancel here.
		logger.Error("payment_insert_failed",
			observability.F("payment_id", entity.ID),
			observability.F("transaction_id", entity.TransactionID),
			observability.F("error", err.Error()),
		)
		return nil, fmt.Errorf("payment: insert: %w", err)
	}

	s.tel.Counter(observability.MPaymentsCreated).Add(1,
		observability.L("method", string(method)),
	)
	s.publish(ctx, logger, dompay.NewCreatedEvent(entity))

	logger.Info("payment_created",
		observability.F("payment_id", entity.ID),
		observability.F("amount_minor_units", entity.Amount.MinorUnits()),
		observability.F("currency", entity.Amount.Currency()),
	)
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*dompay.Payment, error) {
	if id == "" {
		return nil, dompay.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus applies one state-machine transition and persists it with an
// optimistic version check. The status-changed event feeds the notification
// hook; its delivery never fails the update.
func (s *Service) UpdateStatus(ctx context.Context, id, status, reason string) (*dompay.Payment, error) {
	logger := logctx.FromOr(ctx, s.log).With(
		observability.F("payment_id", id),
		observability.F("target_status", status),
	)

	next, err := dompay.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := entity.Status
	if err := entity.ApplyStatus(next, reason); err != nil {
		logger.Warn("status_transition_rejected",
			observability.F("current_status", string(from)),
			observability.F("error", err.Error()),
		)
		return nil, err
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		logger.Error("payment_update_failed", observability.F("error", err.Error()))
		return nil, err
	}

	s.tel.Counter(observability.MPaymentTransitions).Add(1,
		observability.L("from", string(from)),
		observability.L("to", string(entity.Status)),
	)
	s.publish(ctx, logger, dompay.NewStatusChangedEvent(entity, from))

	logger.Info("payment_status_updated", observability.F("from", string(from)))
	return entity, nil
}

// GetByTransactionID looks a payment up by its provider reference. Provider
// callbacks carry the transaction id, not the payment id.
func (s *Service) GetByTransactionID(ctx context.Context, transactionID string) (*dompay.Payment, error) {
	if transactionID == "" {
		return nil, dompay.ErrNotFound
	}
	return s.repo.FindByTransactionID(ctx, transactionID)
}

func (s *Service) ListByStatus(ctx context.Context, status string) ([]*dompay.Payment, error) {
	parsed, err := dompay.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByStatus(ctx, parsed)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*dompay.Payment, error) {
	if ownerID == "" {
		return nil, dompay.ErrMissingOwner
	}
	return s.repo.FindByOwner(ctx, ownerID)
}

// ListPaginated defaults to the first page of ten when no values are given.
func (s *Service) ListPaginated(ctx context.Context, page, limit int) (*dompay.Page, error) {
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 || limit < 1 {
		return nil, ErrInvalidPagination
	}
	return s.repo.FindPaginated(ctx, page, limit)
}

// CheckProviderStatus polls the provider for the payment's transaction
// reference. It reports the provider's view and does not mutate the record;
// callers decide whether to follow up with UpdateStatus.
func (s *Service) CheckProviderStatus(ctx context.Context, id string) (dompay.Status, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	strategy, err := s.registry.Resolve(entity.Method)
	if err != nil {
		return "", err
	}
	return strategy.CheckStatus(ctx, entity.TransactionID)
}

// SimulatePayment asks the provider's sandbox to settle the transaction.
// Only strategies exposing a simulation hook support it; the record itself is
// untouched until the settlement comes back through UpdateStatus.
func (s *Service) SimulatePayment(ctx context.Context, id string) error {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	strategy, err := s.registry.Resolve(entity.Method)
	if err != nil {
		return err
	}

	sim, ok := strategy.(domprov.Simulator)
	if !ok {
		return fmt.Errorf("%w: %q cannot simulate settlements", domprov.ErrUnsupportedProvider, entity.Method)
	}
	return sim.Simulate(ctx, entity.TransactionID)
}

func (s *Service) publish(ctx context.Context, logger observability.Logger, e outbox.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err.Error()),
		)
	}
}
