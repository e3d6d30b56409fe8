package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
)

var (
	// ErrUnsupportedProvider is returned for payment methods with no
	// registered strategy. There is no default fallback.
	ErrUnsupportedProvider = errors.New("provider: unsupported payment method")
	// ErrUnavailable wraps any failure while talking to an external processor.
	ErrUnavailable = errors.New("provider: request failed")
)

// InitiateRequest carries everything a strategy needs to start a charge.
// Amounts are always in minor units; strategies never see decimals.
type InitiateRequest struct {
	AmountMinorUnits int64
	Currency         string
	Method           payment.Method
	OwnerID          string
	Description      string
}

// InitiateResult is the provider's acknowledgement of a new transaction.
type InitiateResult struct {
	TransactionID string
	// QRCode holds a copy-paste payload for pix-style methods, empty otherwise.
	QRCode string
}

// Strategy talks to one specific external payment processor.
type Strategy interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	CheckStatus(ctx context.Context, transactionID string) (payment.Status, error)
}

// Simulator is implemented by strategies whose processor can force a pending
// transaction to settle, for sandbox and local testing flows.
type Simulator interface {
	Simulate(ctx context.Context, transactionID string) error
}

// Registry maps payment methods to strategies. Dispatch is driven by this
// registration table, not by type switches.
type Registry struct {
	mu         sync.RWMutex
	strategies map[payment.Method]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[payment.Method]Strategy)}
}

func (r *Registry) Register(method payment.Method, s Strategy) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[method] = s
}

// Resolve returns the strategy for the exact method string.
func (r *Registry) Resolve(method payment.Method) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.strategies[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, method)
	}
	return s, nil
}

// Methods lists the registered payment methods.
func (r *Registry) Methods() []payment.Method {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]payment.Method, 0, len(r.strategies))
	for m := range r.strategies {
		methods = append(methods, m)
	}
	return methods
}
