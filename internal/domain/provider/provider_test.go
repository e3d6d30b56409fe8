package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
)

type stubStrategy struct{ name string }

func (s *stubStrategy) Initiate(context.Context, InitiateRequest) (*InitiateResult, error) {
	return &InitiateResult{TransactionID: s.name + "-txn"}, nil
}

func (s *stubStrategy) CheckStatus(context.Context, string) (payment.Status, error) {
	return payment.StatusProcessing, nil
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	pix := &stubStrategy{name: "pix"}
	reg.Register(payment.MethodPix, pix)

	got, err := reg.Resolve(payment.MethodPix)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != pix {
		t.Fatalf("Resolve returned a different strategy")
	}
}

func TestRegistryUnknownMethod(t *testing.T) {
	reg := NewRegistry()
	reg.Register(payment.MethodPix, &stubStrategy{name: "pix"})

	if _, err := reg.Resolve(payment.Method("bitcoin")); !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("err = %v, want ErrUnsupportedProvider", err)
	}
}

func TestRegistryNoDefaultFallback(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Resolve(payment.MethodCreditCard); !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("empty registry: err = %v, want ErrUnsupportedProvider", err)
	}
}

func TestRegistryMethods(t *testing.T) {
	reg := NewRegistry()
	reg.Register(payment.MethodPix, &stubStrategy{name: "pix"})
	reg.Register(payment.MethodCreditCard, &stubStrategy{name: "card"})

	if got := len(reg.Methods()); got != 2 {
		t.Fatalf("Methods() returned %d entries, want 2", got)
	}
}
