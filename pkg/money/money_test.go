package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caixa-pdv/pkg/money"
)

func TestFromDecimal_RedondeaAlCentavo(t *testing.T) {
	cases := []struct {
		in   string
		want money.Cents
	}{
		{"18.50", 1850},
		{"0.1", 10},
		{"0.005", 1},
		{"-0.005", -1},
		{"4.504", 450},
		{"100", 10000},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, money.FromDecimal(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestFromFloat_SinErrorBinario(t *testing.T) {
	// 0.1 + 0.2 en float64 es 0.30000000000000004
	assert.Equal(t, money.Cents(30), money.FromFloat(0.1+0.2))
	assert.Equal(t, money.Cents(1999), money.FromFloat(19.99))
}

func TestFromString(t *testing.T) {
	c, err := money.FromString("12.34")
	require.NoError(t, err)
	assert.Equal(t, money.Cents(1234), c)

	_, err = money.FromString("doce")
	assert.Error(t, err)
}

func TestMulQuantity(t *testing.T) {
	assert.Equal(t, money.Cents(900), money.MulQuantity(450, decimal.NewFromInt(2)))
	// 1.255 kg a 10.00 -> 12.55
	assert.Equal(t, money.Cents(1255), money.MulQuantity(1000, decimal.RequireFromString("1.255")))
	// 0.333 kg a 1.99 -> 0.66267 -> 66
	assert.Equal(t, money.Cents(66), money.MulQuantity(199, decimal.RequireFromString("0.333")))
}

func TestSumYString(t *testing.T) {
	assert.Equal(t, money.Cents(1850), money.Sum(900, 950))
	assert.Equal(t, "18.50", money.Cents(1850).String())
	assert.Equal(t, "-0.05", money.Cents(-5).String())
}

func TestPtr(t *testing.T) {
	p := money.Ptr(0)
	if assert.NotNil(t, p) {
		assert.Equal(t, money.Cents(0), *p)
	}
}
