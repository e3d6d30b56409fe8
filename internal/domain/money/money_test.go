package money

import (
	"errors"
	"strings"
	"testing"
)

func mustNew(t *testing.T, value, currency string) Money {
	t.Helper()
	m, err := New(value, currency)
	if err != nil {
		t.Fatalf("New(%q, %q): %v", value, currency, err)
	}
	return m
}

func TestNewParsesDecimals(t *testing.T) {
	cases := []struct {
		value string
		want  int64
	}{
		{"10.50", 1050},
		{"10,50", 1050},
		{"0.01", 1},
		{"100", 10000},
		{"-3.33", -333},
		{"1.005", 101},
		{" 2.50 ", 250},
	}
	for _, tc := range cases {
		m := mustNew(t, tc.value, "brl")
		if m.MinorUnits() != tc.want {
			t.Errorf("New(%q): minor units = %d, want %d", tc.value, m.MinorUnits(), tc.want)
		}
		if m.Currency() != "BRL" {
			t.Errorf("New(%q): currency = %q, want BRL", tc.value, m.Currency())
		}
	}
}

func TestNewRejectsMalformedInput(t *testing.T) {
	for _, value := range []string{"", "abc", "10.5.0", "ten"} {
		if _, err := New(value, "USD"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("New(%q): err = %v, want ErrInvalidAmount", value, err)
		}
	}
}

func TestNewRejectsBadCurrency(t *testing.T) {
	for _, code := range []string{"", "US", "DOLLARS", "u$d"} {
		if _, err := New("10", code); !errors.Is(err, ErrInvalidCurrency) {
			t.Errorf("New(10, %q): err = %v, want ErrInvalidCurrency", code, err)
		}
	}
}

func TestFromCents(t *testing.T) {
	m, err := FromCents(150, "BRL")
	if err != nil {
		t.Fatalf("FromCents: %v", err)
	}
	if got := m.Amount(); got != 1.50 {
		t.Fatalf("Amount() = %v, want 1.50", got)
	}
}

func TestFromMoneyKeepsMinorUnits(t *testing.T) {
	brl := mustNew(t, "10.50", "BRL")
	usd, err := FromMoney(brl, "usd")
	if err != nil {
		t.Fatalf("FromMoney: %v", err)
	}
	if usd.MinorUnits() != 1050 || usd.Currency() != "USD" {
		t.Fatalf("FromMoney = %d %s, want 1050 USD", usd.MinorUnits(), usd.Currency())
	}

	if _, err := FromMoney(brl, "??"); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("err = %v, want ErrInvalidCurrency", err)
	}
}

func TestAddSubtractRoundTrip(t *testing.T) {
	a := mustNew(t, "19.99", "USD")
	b := mustNew(t, "5.01", "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.MinorUnits() != 2500 {
		t.Fatalf("Add: minor units = %d, want 2500", sum.MinorUnits())
	}

	back, err := sum.Subtract(b)
	if err != nil {
		t.Fatalf("Subtract: %v", err)
	}
	equal, err := back.IsEqualTo(a)
	if err != nil {
		t.Fatalf("IsEqualTo: %v", err)
	}
	if !equal {
		t.Fatalf("a + b - b = %v, want %v", back, a)
	}
}

func TestCurrencyMismatch(t *testing.T) {
	usd := mustNew(t, "10", "USD")
	eur := mustNew(t, "5", "EUR")

	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add: err = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.Subtract(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Subtract: err = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.IsEqualTo(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("IsEqualTo: err = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.IsGreaterThan(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("IsGreaterThan: err = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.IsLessThan(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("IsLessThan: err = %v, want ErrCurrencyMismatch", err)
	}
}

func TestDivide(t *testing.T) {
	m := mustNew(t, "5", "USD")

	if _, err := m.Divide(0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("Divide(0): err = %v, want ErrDivisionByZero", err)
	}

	half, err := m.Divide(2)
	if err != nil {
		t.Fatalf("Divide(2): %v", err)
	}
	if half.MinorUnits() != 250 {
		t.Fatalf("Divide(2): minor units = %d, want 250", half.MinorUnits())
	}

	third, err := m.Divide(3)
	if err != nil {
		t.Fatalf("Divide(3): %v", err)
	}
	if third.MinorUnits() != 167 {
		t.Fatalf("Divide(3): minor units = %d, want 167", third.MinorUnits())
	}
}

func TestMultiplyAndPercentage(t *testing.T) {
	m := mustNew(t, "10", "BRL")

	if got := m.Multiply(1.5).MinorUnits(); got != 1500 {
		t.Errorf("Multiply(1.5): minor units = %d, want 1500", got)
	}
	if got := m.Percentage(10).MinorUnits(); got != 100 {
		t.Errorf("Percentage(10): minor units = %d, want 100", got)
	}
	if got := m.Percentage(33.3).MinorUnits(); got != 333 {
		t.Errorf("Percentage(33.3): minor units = %d, want 333", got)
	}
}

func TestSignPredicates(t *testing.T) {
	zero, _ := Zero("USD")
	if !zero.IsZero() || zero.IsPositive() || zero.IsNegative() {
		t.Errorf("Zero: predicates wrong: %v", zero)
	}

	pos := mustNew(t, "1", "USD")
	if !pos.IsPositive() || pos.IsZero() || pos.IsNegative() {
		t.Errorf("positive: predicates wrong: %v", pos)
	}

	neg := mustNew(t, "-1", "USD")
	if !neg.IsNegative() || neg.IsZero() || neg.IsPositive() {
		t.Errorf("negative: predicates wrong: %v", neg)
	}

	if got := neg.Abs().MinorUnits(); got != 100 {
		t.Errorf("Abs: minor units = %d, want 100", got)
	}
}

func TestRoundSnapsToWholeUnit(t *testing.T) {
	cases := []struct {
		value string
		want  int64
	}{
		{"10.49", 1000},
		{"10.50", 1100},
		{"10.51", 1100},
		{"10.00", 1000},
	}
	for _, tc := range cases {
		m := mustNew(t, tc.value, "USD")
		if got := m.Round().MinorUnits(); got != tc.want {
			t.Errorf("Round(%q): minor units = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestComparisons(t *testing.T) {
	a := mustNew(t, "10", "USD")
	b := mustNew(t, "20", "USD")

	if gt, _ := b.IsGreaterThan(a); !gt {
		t.Error("20 > 10 expected")
	}
	if lt, _ := a.IsLessThan(b); !lt {
		t.Error("10 < 20 expected")
	}
	if eq, _ := a.IsEqualTo(b); eq {
		t.Error("10 == 20 not expected")
	}
}

func TestFormatContainsAmount(t *testing.T) {
	m := mustNew(t, "10.50", "USD")
	if got := m.Format(); !strings.Contains(got, "10.50") {
		t.Errorf("Format() = %q, want it to contain 10.50", got)
	}
}

func TestStringRendersFixedDecimals(t *testing.T) {
	m := mustNew(t, "1.5", "BRL")
	if got := m.String(); got != "BRL 1.50" {
		t.Errorf("String() = %q, want %q", got, "BRL 1.50")
	}
}
