package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
)

// PaymentRepository is an in-memory payment store. Update performs a
// compare-and-swap on the payment version, which is what keeps concurrent
// status transitions consistent with the state machine.
type PaymentRepository struct {
	mu           sync.RWMutex
	payments     map[string]*domain.Payment
	byOwner      map[string][]string
	transactions map[string]string // provider transaction id -> payment id
	order        []string          // insertion order, oldest first
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments:     make(map[string]*domain.Payment),
		byOwner:      make(map[string][]string),
		transactions: make(map[string]string),
	}
}

func (r *PaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return fmt.Errorf("payment repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[p.ID]; exists {
		return domain.ErrConflict
	}
	if txn := p.TransactionID; txn != "" {
		if _, exists := r.transactions[txn]; exists {
			return domain.ErrConflict
		}
	}

	r.payments[p.ID] = p.Clone()
	r.byOwner[p.OwnerID] = append(r.byOwner[p.OwnerID], p.ID)
	if p.TransactionID != "" {
		r.transactions[p.TransactionID] = p.ID
	}
	r.order = append(r.order, p.ID)
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

// Update stores p only when its version matches the stored record, then bumps
// the version. A mismatch means another writer got there first.
func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return fmt.Errorf("payment repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.payments[p.ID]
	if !exists {
		return domain.ErrNotFound
	}
	if stored.Version != p.Version {
		return domain.ErrVersionConflict
	}

	updated := p.Clone()
	updated.Version++
	r.payments[p.ID] = updated
	p.Version = updated.Version
	return nil
}

func (r *PaymentRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Payment, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[ownerID]
	items := make([]*domain.Payment, 0, len(ids))
	// newest first
	for i := len(ids) - 1; i >= 0; i-- {
		if p, ok := r.payments[ids[i]]; ok {
			items = append(items, p.Clone())
		}
	}
	return items, nil
}

func (r *PaymentRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Payment, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*domain.Payment, 0)
	// newest first
	for i := len(r.order) - 1; i >= 0; i-- {
		if p, ok := r.payments[r.order[i]]; ok && p.Status == status {
			items = append(items, p.Clone())
		}
	}
	return items, nil
}

func (r *PaymentRepository) FindPaginated(ctx context.Context, page, limit int) (*domain.Page, error) {
	_ = ctx
	if page < 1 || limit < 1 {
		return nil, fmt.Errorf("payment repository: page and limit must be positive")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	start := (page - 1) * limit
	items := make([]*domain.Payment, 0, limit)
	// newest first
	for i := total - 1 - start; i >= 0 && len(items) < limit; i-- {
		if p, ok := r.payments[r.order[i]]; ok {
			items = append(items, p.Clone())
		}
	}
	return &domain.Page{Items: items, Total: total}, nil
}

// FindByTransactionID resolves a provider callback reference to a payment.
func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	_ = ctx
	if transactionID == "" {
		return nil, domain.ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.transactions[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}
