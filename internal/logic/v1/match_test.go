package v1

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

func budgetPhrases(phrases []string) []string {
	var out []string
	for _, p := range phrases {
		if strings.Contains(strings.ToLower(p), "budget") {
			out = append(out, p)
		}
	}
	return out
}

func TestGenerateMatchReasons_BudgetFitsBelowUserBudget(t *testing.T) {
	profile := domain.UserProfile{Budget: domain.Budget{Min: 100000, Max: 250000}}
	brand := domain.BrandAttributes{InvestmentMin: 90000, InvestmentMax: 150000}

	got := GenerateMatchReasons(profile, brand, domain.FitFlags{Budget: true})

	assert.Contains(t, got.WhyYes, "Investment is about 31% lower than your budget, leaving room for working capital")
	assert.Empty(t, budgetPhrases(got.WhyNot))
}

func TestGenerateMatchReasons_BudgetMismatch(t *testing.T) {
	profile := domain.UserProfile{Budget: domain.Budget{Min: 50000, Max: 100000}}
	brand := domain.BrandAttributes{InvestmentMin: 200000, InvestmentMax: 300000}

	got := GenerateMatchReasons(profile, brand, domain.FitFlags{})

	assert.Contains(t, got.WhyNot, "Investment is about 233% higher than your budget")
	assert.Empty(t, budgetPhrases(got.WhyYes))
}

func TestGenerateMatchReasons_BudgetBuckets(t *testing.T) {
	user := domain.UserProfile{Budget: domain.Budget{Range: "$100K – $200K"}}

	tests := []struct {
		name  string
		brand domain.BrandAttributes
		fits  bool
		yes   string
		no    string
	}{
		{
			name:  "fits near budget",
			brand: domain.BrandAttributes{InvestmentRange: "$140K-$160K"},
			fits:  true,
			yes:   "Investment fits within your budget range",
		},
		{
			name:  "moderately higher",
			brand: domain.BrandAttributes{InvestmentMin: 180000, InvestmentMax: 200000},
			no:    "Investment is about 27% higher than your budget; financing may bridge the gap",
		},
		{
			name:  "outside but close",
			brand: domain.BrandAttributes{InvestmentMin: 150000, InvestmentMax: 170000},
			no:    "Investment falls outside your stated budget range",
		},
		{
			name:  "unknown brand investment",
			brand: domain.BrandAttributes{},
			fits:  true,
			yes:   "Investment level matches your budget",
		},
		{
			name:  "unknown brand investment without fit",
			brand: domain.BrandAttributes{},
			no:    "Investment level may not match your budget",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateMatchReasons(user, tt.brand, domain.FitFlags{Budget: tt.fits})
			if tt.yes != "" {
				assert.Contains(t, got.WhyYes, tt.yes)
				assert.Empty(t, budgetPhrases(got.WhyNot))
			}
			if tt.no != "" {
				assert.Contains(t, got.WhyNot, tt.no)
				assert.Empty(t, budgetPhrases(got.WhyYes))
			}
		})
	}
}

func TestGenerateMatchReasons_Territory(t *testing.T) {
	got := GenerateMatchReasons(domain.UserProfile{Location: "Austin, TX"}, domain.BrandAttributes{}, domain.FitFlags{Territory: true})
	assert.Contains(t, got.WhyYes, "Territories available near Austin, TX")

	got = GenerateMatchReasons(domain.UserProfile{}, domain.BrandAttributes{}, domain.FitFlags{})
	assert.Contains(t, got.WhyNot, "Territory not currently available in your area")
}

func TestGenerateMatchReasons_Lifestyle(t *testing.T) {
	tests := []struct {
		lifestyle string
		fits      bool
		yes, no   string
	}{
		{lifestyle: "Full-Time", fits: true, yes: "Built for hands-on, full-time owner-operators"},
		{lifestyle: "part time", fits: true, yes: "Can be run part-time alongside other commitments"},
		{lifestyle: "semi_absentee", fits: false, no: "Requires more owner involvement than a semi-absentee model"},
		{lifestyle: "", fits: true, yes: "Ownership model aligns with your lifestyle goals"},
		{lifestyle: "retired", fits: false, no: "Ownership model may not align with your lifestyle goals"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.lifestyle, tt.fits), func(t *testing.T) {
			// Budget and territory fit so lifestyle phrases are not truncated away.
			fit := domain.FitFlags{Lifestyle: tt.fits, Budget: true, Territory: true}
			got := GenerateMatchReasons(domain.UserProfile{Lifestyle: tt.lifestyle}, domain.BrandAttributes{}, fit)
			if tt.yes != "" {
				assert.Contains(t, got.WhyYes, tt.yes)
			}
			if tt.no != "" {
				assert.Contains(t, got.WhyNot, tt.no)
			}
		})
	}
}

func TestGenerateMatchReasons_Industry(t *testing.T) {
	fit := domain.FitFlags{Budget: true}
	profile := domain.UserProfile{Industries: []string{"food & beverage", "Fitness"}}

	got := GenerateMatchReasons(profile, domain.BrandAttributes{Category: "Food & Beverage"}, fit)
	assert.Contains(t, got.WhyYes, "Matches your interest in Food & Beverage")

	got = GenerateMatchReasons(profile, domain.BrandAttributes{Sector: "Automotive"}, domain.FitFlags{Budget: true, Territory: true})
	assert.Contains(t, got.WhyNot, "Outside the industries you prioritized")

	got = GenerateMatchReasons(domain.UserProfile{}, domain.BrandAttributes{Sector: "Automotive"}, domain.FitFlags{Budget: true, Territory: true, Lifestyle: true})
	assert.NotContains(t, got.WhyNot, "Outside the industries you prioritized")
}

func TestGenerateMatchReasons_GrowthGoalBonus(t *testing.T) {
	const bonus = "Strong fit for building a multi-unit portfolio"
	profile := domain.UserProfile{Goals: []string{"Multi-unit ownership"}}

	got := GenerateMatchReasons(profile, domain.BrandAttributes{}, domain.FitFlags{Budget: true, Territory: true})
	assert.Contains(t, got.WhyYes, bonus)

	got = GenerateMatchReasons(profile, domain.BrandAttributes{}, domain.FitFlags{Budget: true})
	assert.NotContains(t, got.WhyYes, bonus)

	got = GenerateMatchReasons(domain.UserProfile{Goals: []string{"Work from home"}}, domain.BrandAttributes{}, domain.FitFlags{Budget: true, Territory: true})
	assert.NotContains(t, got.WhyYes, bonus)
}

func TestGenerateMatchReasons_FillerOnlyWhenShort(t *testing.T) {
	// Everything fits: three organic why-yes, no organic why-not.
	profile := domain.UserProfile{
		Budget:     domain.Budget{Min: 100000, Max: 200000},
		Location:   "Austin",
		Lifestyle:  "full-time",
		Industries: []string{"Food"},
		Goals:      []string{"growth"},
	}
	brand := domain.BrandAttributes{InvestmentMin: 140000, InvestmentMax: 160000, Category: "Food"}
	got := GenerateMatchReasons(profile, brand, domain.FitFlags{Budget: true, Territory: true, Lifestyle: true})

	assert.Equal(t, []string{
		"Investment fits within your budget range",
		"Territories available near Austin",
		"Built for hands-on, full-time owner-operators",
	}, got.WhyYes)
	assert.Equal(t, []string{fillerWhyNot[0]}, got.WhyNot)

	// Nothing fits: the industry match is the only organic why-yes.
	got = GenerateMatchReasons(profile, brand, domain.FitFlags{})
	assert.Equal(t, []string{"Matches your interest in Food", fillerWhyYes[0]}, got.WhyYes)
	assert.Len(t, got.WhyNot, 2)
	for _, f := range fillerWhyNot {
		assert.NotContains(t, got.WhyNot, f)
	}
}

func TestGenerateMatchReasons_AlwaysBounded(t *testing.T) {
	profiles := []domain.UserProfile{
		{},
		{Budget: domain.Budget{Range: "$100K – $250K"}, Location: "Austin"},
		{Budget: domain.Budget{Min: 50000, Max: 100000}, Lifestyle: "part-time", Industries: []string{"Retail"}},
		{Budget: domain.Budget{Range: "not sure"}, Lifestyle: "semi-absentee", Industries: []string{"Fitness"}, Goals: []string{"expansion"}},
	}
	brands := []domain.BrandAttributes{
		{},
		{InvestmentMin: 90000, InvestmentMax: 150000, Category: "Retail"},
		{InvestmentRange: "$1M - $2M", Sector: "Fitness"},
		{InvestmentRange: "$20K", Industry: "Services"},
	}

	for pi, profile := range profiles {
		for bi, brand := range brands {
			for mask := 0; mask < 8; mask++ {
				fit := domain.FitFlags{Territory: mask&1 != 0, Lifestyle: mask&2 != 0, Budget: mask&4 != 0}
				name := fmt.Sprintf("profile%d/brand%d/fit%03b", pi, bi, mask)

				got := GenerateMatchReasons(profile, brand, fit)
				require.GreaterOrEqual(t, len(got.WhyYes), 2, name)
				require.LessOrEqual(t, len(got.WhyYes), 3, name)
				require.GreaterOrEqual(t, len(got.WhyNot), 1, name)
				require.LessOrEqual(t, len(got.WhyNot), 2, name)

				budgetYes, budgetNo := len(budgetPhrases(got.WhyYes)), len(budgetPhrases(got.WhyNot))
				assert.False(t, budgetYes > 0 && budgetNo > 0, "budget phrase on both sides: %s", name)

				assert.Equal(t, got, GenerateMatchReasons(profile, brand, fit), "deterministic: %s", name)
			}
		}
	}
}

func TestBound(t *testing.T) {
	filler := []string{"f1", "f2", "f3"}
	assert.Equal(t, []string{"a", "b", "c"}, bound([]string{"a", "b", "c", "d"}, 2, 3, filler))
	assert.Equal(t, []string{"a", "f1"}, bound([]string{"a", "a"}, 2, 3, filler))
	assert.Equal(t, []string{"f1", "f2"}, bound(nil, 2, 3, filler))
	assert.Equal(t, []string{"f1", "f2"}, bound([]string{"f1"}, 2, 3, filler))
}
