package models

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "EGP"
	CurrencyLabel   = "جنيه مصري"
	currencyMarker  = "جنيه"
)

// ParsePrice is the compatibility parse for catalog price strings: every
// non-digit is dropped and what is left is read as an integer. "100 جنيه"
// is 100, but "12.50" is 1250. Empty or overflowing input yields 0.
func ParsePrice(price string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, price)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// WithCurrency appends the currency label when the admin typed a bare number.
func WithCurrency(price string) string {
	price = strings.TrimSpace(price)
	if price == "" || strings.Contains(price, currencyMarker) {
		return price
	}
	return price + " " + CurrencyLabel
}

// Money is an amount in minor units (piastres for EGP).
type Money struct {
	Minor    int64  `json:"minor"`
	Currency string `json:"currency"`
}

var (
	ErrNoAmount   = errors.New("no amount in price")
	amountPattern = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)
)

// ParseMoney reads the first number in a price string, treating commas as
// thousands separators.
func ParseMoney(price, currency string) (Money, error) {
	raw := amountPattern.FindString(price)
	if raw == "" {
		return Money{}, ErrNoAmount
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return Money{}, err
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Minor: d.Shift(2).Round(0).IntPart(), Currency: currency}, nil
}

// PriceMoney reads a catalog price as Money. Strings without a readable
// amount fall back to the digit-stripping parse.
func PriceMoney(price string) Money {
	m, err := ParseMoney(price, DefaultCurrency)
	if err != nil {
		return Money{Minor: ParsePrice(price) * 100, Currency: DefaultCurrency}
	}
	return m
}

func (m Money) Times(q int) Money {
	return Money{Minor: m.Minor * int64(q), Currency: m.Currency}
}

func (m Money) Add(o Money) Money {
	return Money{Minor: m.Minor + o.Minor, Currency: m.Currency}
}

// Major returns the amount in whole currency units, rounding half up.
func (m Money) Major() int64 {
	return decimal.New(m.Minor, -2).Round(0).IntPart()
}

func (m Money) String() string {
	return decimal.New(m.Minor, -2).StringFixed(2) + " " + m.Currency
}
