package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	KRW Currency = "KRW" // Korean Won (default)
	USD Currency = "USD" // US Dollar
	JPY Currency = "JPY" // Japanese Yen
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = KRW

// minorDigits maps a currency to the number of digits in its minor unit.
// KRW and JPY have no sub-unit; amounts are whole won/yen.
var minorDigits = map[Currency]int32{
	KRW: 0,
	USD: 2,
	JPY: 0,
}

// Money is an immutable value object representing a monetary amount in the
// smallest currency unit. All arithmetic is integer arithmetic: totals are
// sums of price*quantity products and never divide, so no rounding occurs.
type Money struct {
	amount   int64
	currency Currency
}

// NewMoney creates Money from an amount in minor units
func NewMoney(amount int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyKRW creates Money in KRW from an amount in won
func NewMoneyKRW(amount int64) Money {
	return Money{amount: amount, currency: KRW}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: 0, currency: currency}
}

// ZeroKRW returns a zero-value Money in KRW
func ZeroKRW() Money {
	return Zero(KRW)
}

// Amount returns the amount in minor units
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// Add returns a new Money with the sum of both amounts.
// Returns an error if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// MultiplyByInt returns a new Money multiplied by an integer quantity
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{amount: m.amount * factor, currency: m.currency}
}

// Equals returns true if both Money values have the same amount and currency
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount == other.amount
}

// Decimal returns the amount as a decimal in major units, for presentation.
// The integer minor-unit amount stays authoritative; this conversion is
// display-only and never feeds back into arithmetic.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -m.digits())
}

// String returns a human-readable representation, e.g. "3500 KRW"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(m.digits()), m.currency)
}

func (m Money) digits() int32 {
	if d, ok := minorDigits[m.currency]; ok {
		return d
	}
	return 2
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64    `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount,
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   int64    `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Currency == "" {
		v.Currency = DefaultCurrency
	}
	m.amount = v.Amount
	m.currency = v.Currency
	return nil
}
