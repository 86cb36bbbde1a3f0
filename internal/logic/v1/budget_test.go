package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

func TestParseMoneyRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max float64
		ok       bool
	}{
		{"$100K – $250K", 100000, 250000, true},
		{"$100k-$250k", 100000, 250000, true},
		{"$1.5M - $2M", 1500000, 2000000, true},
		{"$50,000 to $100,000", 50000, 100000, true},
		{"$250K — $100K", 100000, 250000, true},
		{"$500K+", 500000, 500000, true},
		{"$100-250K", 100000, 250000, true},
		{"75000", 75000, 75000, true},
		{"", 0, 0, false},
		{"contact franchisor", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			min, max, ok := ParseMoneyRange(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.min, min, 0.001)
			assert.InDelta(t, tt.max, max, 0.001)
		})
	}
}

func TestUserBudgetBounds(t *testing.T) {
	min, max, ok := userBudgetBounds(domain.Budget{Min: 100000, Max: 250000, Range: "$1M-$2M"})
	assert.True(t, ok)
	assert.Equal(t, 100000.0, min)
	assert.Equal(t, 250000.0, max)

	min, max, ok = userBudgetBounds(domain.Budget{Max: 80000})
	assert.True(t, ok)
	assert.Equal(t, 80000.0, min)
	assert.Equal(t, 80000.0, max)

	min, max, ok = userBudgetBounds(domain.Budget{Range: "$100K – $250K"})
	assert.True(t, ok)
	assert.Equal(t, 100000.0, min)
	assert.Equal(t, 250000.0, max)

	_, _, ok = userBudgetBounds(domain.Budget{})
	assert.False(t, ok)
}

func TestBrandInvestmentBounds(t *testing.T) {
	min, max, ok := brandInvestmentBounds(domain.BrandAttributes{InvestmentRange: "$90K-$150K"})
	assert.True(t, ok)
	assert.Equal(t, 90000.0, min)
	assert.Equal(t, 150000.0, max)

	min, max, ok = brandInvestmentBounds(domain.BrandAttributes{InvestmentMin: 300000, InvestmentMax: 200000})
	assert.True(t, ok)
	assert.Equal(t, 200000.0, min)
	assert.Equal(t, 300000.0, max)
}
