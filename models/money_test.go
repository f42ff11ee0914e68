package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100 جنيه", 100},
		{"720 جنيه مصري", 720},
		{"1,200 EGP", 1200},
		{"12.50", 1250},
		{"", 0},
		{"free", 0},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrice(tt.in))
		})
	}
}

func TestWithCurrency(t *testing.T) {
	assert.Equal(t, "150 جنيه مصري", WithCurrency("150"))
	assert.Equal(t, "150 جنيه", WithCurrency("150 جنيه"))
	assert.Equal(t, "", WithCurrency("  "))
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("12.50 جنيه", "")
	require.NoError(t, err)
	assert.Equal(t, Money{Minor: 1250, Currency: DefaultCurrency}, m)
	assert.Equal(t, "12.50 EGP", m.String())
	assert.Equal(t, int64(13), m.Major())

	m, err = ParseMoney("1,200 جنيه مصري", "EGP")
	require.NoError(t, err)
	assert.Equal(t, int64(120000), m.Minor)

	total := m.Times(2).Add(Money{Minor: 50, Currency: "EGP"})
	assert.Equal(t, int64(240050), total.Minor)

	_, err = ParseMoney("free", "")
	assert.ErrorIs(t, err, ErrNoAmount)
}

func TestOrderStatus(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), s)
		assert.NotEqual(t, string(s), s.Label())
	}
	assert.True(t, StatusReady.InProgress())
	assert.False(t, StatusDelivered.InProgress())
	assert.False(t, StatusCancelled.InProgress())

	_, err := ParseOrderStatus("shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	st, err := ParseOrderStatus("delivered")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, st)
}

func TestPriceMoney(t *testing.T) {
	assert.Equal(t, Money{Minor: 72000, Currency: "EGP"}, PriceMoney("720 جنيه مصري"))
	assert.Equal(t, Money{Minor: 1250, Currency: "EGP"}, PriceMoney("12.50"))
	assert.Equal(t, Money{Minor: 0, Currency: "EGP"}, PriceMoney("مجاناً"))
}
