package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Gustavonobregab/fastcv-payments/internal/domain/money"
	domain "github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
)

func newPayment(t *testing.T, id, owner, txn string) *domain.Payment {
	t.Helper()
	m, err := money.New("19.90", "BRL")
	if err != nil {
		t.Fatalf("money.New: %v", err)
	}
	p, err := domain.New(id, owner, m, domain.MethodPix, txn)
	if err != nil {
		t.Fatalf("payment.New: %v", err)
	}
	return p
}

func TestInsertAndFindByID(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	p := newPayment(t, "pay-1", "owner-1", "txn-1")
	if err := repo.Insert(ctx, p); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.FindByID(ctx, "pay-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.Amount.MinorUnits() != 1990 {
		t.Errorf("Amount = %d, want 1990", got.Amount.MinorUnits())
	}

	// stored record must not alias the caller's copy
	got.OwnerID = "mutated"
	again, _ := repo.FindByID(ctx, "pay-1")
	if again.OwnerID != "owner-1" {
		t.Errorf("repository leaked internal state")
	}
}

func TestInsertConflicts(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	if err := repo.Insert(ctx, newPayment(t, "pay-1", "owner-1", "txn-1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.Insert(ctx, newPayment(t, "pay-1", "owner-1", "txn-2")); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate id: err = %v, want ErrConflict", err)
	}
	if err := repo.Insert(ctx, newPayment(t, "pay-2", "owner-1", "txn-1")); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate transaction id: err = %v, want ErrConflict", err)
	}
}

func TestFindByIDMissing(t *testing.T) {
	repo := NewPaymentRepository()
	if _, err := repo.FindByID(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateVersionCheck(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	p := newPayment(t, "pay-1", "owner-1", "txn-1")
	if err := repo.Insert(ctx, p); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	first, _ := repo.FindByID(ctx, "pay-1")
	second, _ := repo.FindByID(ctx, "pay-1")

	if err := first.ApplyStatus(domain.StatusProcessing, ""); err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if first.Version != 2 {
		t.Errorf("Version = %d, want 2 after update", first.Version)
	}

	// second still holds the stale version
	if err := second.ApplyStatus(domain.StatusFailed, "late callback"); err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	if err := repo.Update(ctx, second); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale update: err = %v, want ErrVersionConflict", err)
	}

	got, _ := repo.FindByID(ctx, "pay-1")
	if got.Status != domain.StatusProcessing {
		t.Errorf("Status = %q, want processing (stale writer lost)", got.Status)
	}
}

func TestUpdateMissing(t *testing.T) {
	repo := NewPaymentRepository()
	p := newPayment(t, "pay-1", "owner-1", "txn-1")
	if err := repo.Update(context.Background(), p); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindByOwner(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("pay-%d", i)
		if err := repo.Insert(ctx, newPayment(t, id, "owner-1", "txn-"+id)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if err := repo.Insert(ctx, newPayment(t, "pay-9", "owner-2", "txn-9")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	items, err := repo.FindByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].ID != "pay-3" {
		t.Errorf("first item = %s, want pay-3 (newest first)", items[0].ID)
	}
}

func TestFindByStatus(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("pay-%d", i)
		if err := repo.Insert(ctx, newPayment(t, id, "owner-1", "txn-"+id)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	p, _ := repo.FindByID(ctx, "pay-2")
	if err := p.ApplyStatus(domain.StatusProcessing, ""); err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	pending, err := repo.FindByStatus(ctx, domain.StatusPending)
	if err != nil {
		t.Fatalf("FindByStatus: %v", err)
	}
	if got := ids(pending); len(got) != 2 || got[0] != "pay-3" || got[1] != "pay-1" {
		t.Errorf("pending = %v, want [pay-3 pay-1] (newest first)", got)
	}

	processing, err := repo.FindByStatus(ctx, domain.StatusProcessing)
	if err != nil {
		t.Fatalf("FindByStatus: %v", err)
	}
	if len(processing) != 1 || processing[0].ID != "pay-2" {
		t.Errorf("processing = %v, want [pay-2]", ids(processing))
	}

	refunded, err := repo.FindByStatus(ctx, domain.StatusRefunded)
	if err != nil {
		t.Fatalf("FindByStatus: %v", err)
	}
	if len(refunded) != 0 {
		t.Errorf("refunded = %v, want empty", ids(refunded))
	}
}

func TestFindPaginated(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("pay-%d", i)
		if err := repo.Insert(ctx, newPayment(t, id, "owner-1", "txn-"+id)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	page, err := repo.FindPaginated(ctx, 1, 2)
	if err != nil {
		t.Fatalf("FindPaginated: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("Total = %d, want 5", page.Total)
	}
	if len(page.Items) != 2 || page.Items[0].ID != "pay-5" || page.Items[1].ID != "pay-4" {
		t.Errorf("page 1 = %v, want [pay-5 pay-4]", ids(page.Items))
	}

	page, err = repo.FindPaginated(ctx, 3, 2)
	if err != nil {
		t.Fatalf("FindPaginated: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "pay-1" {
		t.Errorf("page 3 = %v, want [pay-1]", ids(page.Items))
	}

	page, err = repo.FindPaginated(ctx, 4, 2)
	if err != nil {
		t.Fatalf("FindPaginated: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("page past the end = %v, want empty", ids(page.Items))
	}
}

func TestFindByTransactionID(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	if err := repo.Insert(ctx, newPayment(t, "pay-1", "owner-1", "txn-1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.FindByTransactionID(ctx, "txn-1")
	if err != nil {
		t.Fatalf("FindByTransactionID: %v", err)
	}
	if got.ID != "pay-1" {
		t.Errorf("ID = %s, want pay-1", got.ID)
	}

	if _, err := repo.FindByTransactionID(ctx, "txn-404"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func ids(items []*domain.Payment) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}
