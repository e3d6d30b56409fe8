package payment

import "context"

// Page is one slice of the payment listing plus the overall count.
type Page struct {
	Items []*Payment
	Total int
}

type Repository interface {
	Insert(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id string) (*Payment, error)
	// FindByTransactionID resolves a provider transaction reference, the key
	// provider callbacks carry.
	FindByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	// Update persists p only when p.Version matches the stored version,
	// otherwise it returns ErrVersionConflict.
	Update(ctx context.Context, p *Payment) error
	FindByOwner(ctx context.Context, ownerID string) ([]*Payment, error)
	FindByStatus(ctx context.Context, status Status) ([]*Payment, error)
	FindPaginated(ctx context.Context, page, limit int) (*Page, error)
}
