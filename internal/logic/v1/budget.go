package v1

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

var moneyPattern = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*([kKmM])?`)

// ParseMoneyRange parses display ranges such as "$100K – $250K",
// "$1.5M-$2M", "$50,000 to $100,000" or "$500K+". A single amount yields
// min == max. K multiplies by 1e3 and M by 1e6; an amount without a suffix
// below 1000 borrows the suffix of the other bound ("$100-250K").
func ParseMoneyRange(s string) (min, max float64, ok bool) {
	matches := moneyPattern.FindAllStringSubmatch(s, 2)
	if len(matches) == 0 {
		return 0, 0, false
	}

	values := make([]float64, 0, 2)
	suffixes := make([]string, 0, 2)
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return 0, 0, false
		}
		values = append(values, v)
		suffixes = append(suffixes, strings.ToUpper(m[2]))
	}

	if len(values) == 2 {
		if suffixes[0] == "" && suffixes[1] != "" && values[0] < 1000 {
			suffixes[0] = suffixes[1]
		}
		if suffixes[1] == "" && suffixes[0] != "" && values[1] < 1000 {
			suffixes[1] = suffixes[0]
		}
	}
	for i := range values {
		values[i] *= suffixMultiplier(suffixes[i])
	}

	min, max = values[0], values[0]
	if len(values) == 2 {
		max = values[1]
	}
	if min > max {
		min, max = max, min
	}
	return min, max, true
}

func suffixMultiplier(suffix string) float64 {
	switch suffix {
	case "K":
		return 1e3
	case "M":
		return 1e6
	}
	return 1
}

// userBudgetBounds prefers explicit bounds and falls back to the range string.
func userBudgetBounds(b domain.Budget) (float64, float64, bool) {
	if b.HasBounds() {
		return completeBounds(b.Min, b.Max)
	}
	return ParseMoneyRange(b.Range)
}

// brandInvestmentBounds prefers explicit bounds and falls back to the range.
func brandInvestmentBounds(a domain.BrandAttributes) (float64, float64, bool) {
	if a.InvestmentMin > 0 || a.InvestmentMax > 0 {
		return completeBounds(a.InvestmentMin, a.InvestmentMax)
	}
	return ParseMoneyRange(a.InvestmentRange)
}

// completeBounds fills a missing bound from the other one.
func completeBounds(min, max float64) (float64, float64, bool) {
	if min <= 0 {
		min = max
	}
	if max <= 0 {
		max = min
	}
	if min > max {
		min, max = max, min
	}
	return min, max, max > 0
}
