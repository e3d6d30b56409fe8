package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrInvalidAmount    = errors.New("money: invalid amount")
	ErrInvalidCurrency  = errors.New("money: currency must be a 3-letter ISO code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrDivisionByZero   = errors.New("money: division by zero")
)

// Money is an immutable monetary amount held in integer minor units (cents).
// Keeping arithmetic in minor units avoids binary floating-point drift.
type Money struct {
	minorUnits int64
	currency   string
}

// New parses a decimal amount such as "10.50" or "10,50" and converts it to
// minor units, rounding to the nearest cent.
func New(value, currencyCode string) (Money, error) {
	code, err := normalizeCurrency(currencyCode)
	if err != nil {
		return Money{}, err
	}

	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}

	return Money{
		minorUnits: d.Shift(2).Round(0).IntPart(),
		currency:   code,
	}, nil
}

// FromMinorUnits builds a Money from an already-integral minor-unit count.
func FromMinorUnits(minorUnits int64, currencyCode string) (Money, error) {
	code, err := normalizeCurrency(currencyCode)
	if err != nil {
		return Money{}, err
	}
	return Money{minorUnits: minorUnits, currency: code}, nil
}

// FromCents is an alias for FromMinorUnits.
func FromCents(cents int64, currencyCode string) (Money, error) {
	return FromMinorUnits(cents, currencyCode)
}

// FromAmount builds a Money from a major-unit float, rounding to the nearest cent.
func FromAmount(amount float64, currencyCode string) (Money, error) {
	code, err := normalizeCurrency(currencyCode)
	if err != nil {
		return Money{}, err
	}
	return Money{
		minorUnits: decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart(),
		currency:   code,
	}, nil
}

// FromMoney rebuilds the amount under another currency code. No exchange-rate
// conversion happens; callers own the rate math.
func FromMoney(m Money, currencyCode string) (Money, error) {
	return FromMinorUnits(m.minorUnits, currencyCode)
}

// Zero returns a zero-valued Money in the given currency.
func Zero(currencyCode string) (Money, error) {
	return FromMinorUnits(0, currencyCode)
}

func (m Money) MinorUnits() int64 { return m.minorUnits }

func (m Money) Currency() string { return m.currency }

// Amount returns the value in major units. Presentation only; arithmetic stays
// in minor units.
func (m Money) Amount() float64 {
	return float64(m.minorUnits) / 100
}

// Format renders the amount with its currency symbol, e.g. "$10.50".
// Falls back to "<CODE> <amount>" for codes unknown to the CLDR tables.
func (m Money) Format() string {
	unit, err := currency.ParseISO(m.currency)
	if err != nil {
		return fmt.Sprintf("%s %.2f", m.currency, m.Amount())
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.NarrowSymbol(unit.Amount(m.Amount())))
}

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{minorUnits: m.minorUnits + other.minorUnits, currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{minorUnits: m.minorUnits - other.minorUnits, currency: m.currency}, nil
}

// Multiply scales the amount by a scalar, rounding to the nearest minor unit.
func (m Money) Multiply(scalar float64) Money {
	scaled := decimal.NewFromInt(m.minorUnits).Mul(decimal.NewFromFloat(scalar))
	return Money{minorUnits: scaled.Round(0).IntPart(), currency: m.currency}
}

// Divide splits the amount by a scalar, rounding to the nearest minor unit.
func (m Money) Divide(scalar float64) (Money, error) {
	if scalar == 0 {
		return Money{}, ErrDivisionByZero
	}
	divided := decimal.NewFromInt(m.minorUnits).Div(decimal.NewFromFloat(scalar))
	return Money{minorUnits: divided.Round(0).IntPart(), currency: m.currency}, nil
}

// Percentage returns p percent of the amount.
func (m Money) Percentage(p float64) Money {
	scaled := decimal.NewFromInt(m.minorUnits).
		Mul(decimal.NewFromFloat(p)).
		Div(decimal.NewFromInt(100))
	return Money{minorUnits: scaled.Round(0).IntPart(), currency: m.currency}
}

func (m Money) IsEqualTo(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return m.minorUnits == other.minorUnits, nil
}

func (m Money) IsGreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return m.minorUnits > other.minorUnits, nil
}

func (m Money) IsLessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return m.minorUnits < other.minorUnits, nil
}

func (m Money) IsZero() bool { return m.minorUnits == 0 }

func (m Money) IsPositive() bool { return m.minorUnits > 0 }

func (m Money) IsNegative() bool { return m.minorUnits < 0 }

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.minorUnits < 0 {
		return Money{minorUnits: -m.minorUnits, currency: m.currency}
	}
	return m
}

// Round snaps to the nearest whole currency unit (nearest 100 minor units).
func (m Money) Round() Money {
	rounded := decimal.NewFromInt(m.minorUnits).
		Div(decimal.NewFromInt(100)).
		Round(0).
		Mul(decimal.NewFromInt(100))
	return Money{minorUnits: rounded.IntPart(), currency: m.currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, decimal.NewFromInt(m.minorUnits).Shift(-2).StringFixed(2))
}

func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
		}
	}
	return code, nil
}
