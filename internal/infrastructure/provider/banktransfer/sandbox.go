package banktransfer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	dompay "github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
	domprov "github.com/Gustavonobregab/fastcv-payments/internal/domain/provider"
)

const defaultSuccessRate = 0.7

// Sandbox simulates a bank-transfer processor so the service runs end-to-end
// without external credentials. Initiations succeed with a configurable rate.
type Sandbox struct {
	mu          sync.Mutex
	random      *rand.Rand
	successRate float64
	statuses    map[string]dompay.Status
}

func NewSandbox() *Sandbox {
	return &Sandbox{
		random:      rand.New(rand.NewSource(time.Now().UnixNano())),
		successRate: defaultSuccessRate,
		statuses:    make(map[string]dompay.Status),
	}
}

func (s *Sandbox) Initiate(ctx context.Context, req domprov.InitiateRequest) (*domprov.InitiateResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if req.AmountMinorUnits <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domprov.ErrUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.random.Float64() >= s.successRate {
		return nil, fmt.Errorf("%w: transfer declined", domprov.ErrUnavailable)
	}

	id := "bt_" + uuid.NewString()
	s.statuses[id] = dompay.StatusPending
	return &domprov.InitiateResult{TransactionID: id}, nil
}

func (s *Sandbox) CheckStatus(ctx context.Context, transactionID string) (dompay.Status, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.statuses[transactionID]
	if !ok {
		return "", fmt.Errorf("%w: unknown transaction %q", domprov.ErrUnavailable, transactionID)
	}
	return status, nil
}

// Simulate settles a pending transaction as paid, like a sandbox gateway's
// force-settlement endpoint.
func (s *Sandbox) Simulate(ctx context.Context, transactionID string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.statuses[transactionID]; !ok {
		return fmt.Errorf("%w: unknown transaction %q", domprov.ErrUnavailable, transactionID)
	}
	s.statuses[transactionID] = dompay.StatusPaid
	return nil
}

// SetStatus seeds a provider-side status, mimicking an out-of-band settlement.
func (s *Sandbox) SetStatus(transactionID string, status dompay.Status) {
	s.mu.Lock()
	s.statuses[transactionID] = status
	s.mu.Unlock()
}

// SetSuccessRate clamps the rate into [0, 1]. Primarily for tests.
func (s *Sandbox) SetSuccessRate(rate float64) {
	s.mu.Lock()
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	s.successRate = rate
	s.mu.Unlock()
}
