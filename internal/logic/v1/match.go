package v1

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// Output bounds of GenerateMatchReasons.
const (
	minWhyYes = 2
	maxWhyYes = 3
	minWhyNot = 1
	maxWhyNot = 2
)

// Budget difference thresholds, in percent of the user's mid budget.
const (
	moderateDiffPct    = 20
	significantDiffPct = 50
)

// Generic phrases used only when organic reasons fall short of the minimum.
var (
	fillerWhyYes = []string{
		"Established brand with proven operating systems",
		"Comprehensive training and ongoing franchisor support",
		"Active franchisee community to learn from",
	}
	fillerWhyNot = []string{
		"Review the Franchise Disclosure Document before committing",
		"Talk with current franchisees about day-to-day operations",
	}
)

var growthKeywords = []string{"growth", "grow", "multi-unit", "multiple units", "expansion", "expand", "scale", "wealth"}

type reasons struct {
	yes []string
	no  []string
}

// GenerateMatchReasons explains how a brand fits a user profile. Rules are
// applied in order (budget, territory, lifestyle, industry, goals); the
// result always has 2-3 why-yes and 1-2 why-not entries.
func GenerateMatchReasons(profile domain.UserProfile, brand domain.BrandAttributes, fit domain.FitFlags) domain.MatchReasons {
	var r reasons

	budgetReason(&r, profile, brand, fit.Budget)
	territoryReason(&r, profile, fit.Territory)
	lifestyleReason(&r, profile, fit.Lifestyle)
	industryReason(&r, profile, brand)
	if fit.Budget && fit.Territory && hasGrowthGoal(profile.Goals) {
		r.yes = append(r.yes, "Strong fit for building a multi-unit portfolio")
	}

	return domain.MatchReasons{
		WhyYes: bound(r.yes, minWhyYes, maxWhyYes, fillerWhyYes),
		WhyNot: bound(r.no, minWhyNot, maxWhyNot, fillerWhyNot),
	}
}

// budgetReason adds exactly one phrase, to why-yes or why-not.
func budgetReason(r *reasons, profile domain.UserProfile, brand domain.BrandAttributes, fits bool) {
	userMin, userMax, userOK := userBudgetBounds(profile.Budget)
	brandMin, brandMax, brandOK := brandInvestmentBounds(brand)
	userMid := (userMin + userMax) / 2

	if !userOK || !brandOK || userMid <= 0 {
		if fits {
			r.yes = append(r.yes, "Investment level matches your budget")
		} else {
			r.no = append(r.no, "Investment level may not match your budget")
		}
		return
	}

	brandMid := (brandMin + brandMax) / 2
	diff := (brandMid - userMid) / userMid * 100
	pct := int(math.Round(math.Abs(diff)))

	switch {
	case fits && diff < -moderateDiffPct:
		r.yes = append(r.yes, fmt.Sprintf("Investment is about %d%% lower than your budget, leaving room for working capital", pct))
	case fits:
		r.yes = append(r.yes, "Investment fits within your budget range")
	case diff > significantDiffPct:
		r.no = append(r.no, fmt.Sprintf("Investment is about %d%% higher than your budget", pct))
	case diff > moderateDiffPct:
		r.no = append(r.no, fmt.Sprintf("Investment is about %d%% higher than your budget; financing may bridge the gap", pct))
	default:
		r.no = append(r.no, "Investment falls outside your stated budget range")
	}
}

func territoryReason(r *reasons, profile domain.UserProfile, fits bool) {
	location := strings.TrimSpace(profile.Location)
	switch {
	case fits && location != "":
		r.yes = append(r.yes, "Territories available near "+location)
	case fits:
		r.yes = append(r.yes, "Territories available in your area")
	case location != "":
		r.no = append(r.no, "No territories currently available in "+location)
	default:
		r.no = append(r.no, "Territory not currently available in your area")
	}
}

func lifestyleReason(r *reasons, profile domain.UserProfile, fits bool) {
	switch normalizeLifestyle(profile.Lifestyle) {
	case "fulltime":
		if fits {
			r.yes = append(r.yes, "Built for hands-on, full-time owner-operators")
		} else {
			r.no = append(r.no, "May not offer the full-time, hands-on role you want")
		}
	case "parttime":
		if fits {
			r.yes = append(r.yes, "Can be run part-time alongside other commitments")
		} else {
			r.no = append(r.no, "Typically needs more than part-time involvement")
		}
	case "semiabsentee":
		if fits {
			r.yes = append(r.yes, "Supports a semi-absentee ownership model with a manager in place")
		} else {
			r.no = append(r.no, "Requires more owner involvement than a semi-absentee model")
		}
	default:
		if fits {
			r.yes = append(r.yes, "Ownership model aligns with your lifestyle goals")
		} else {
			r.no = append(r.no, "Ownership model may not align with your lifestyle goals")
		}
	}
}

// normalizeLifestyle maps "Full-Time", "full time" and "full_time" alike to
// "fulltime".
func normalizeLifestyle(s string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(s) {
		if ch >= 'a' && ch <= 'z' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func industryReason(r *reasons, profile domain.UserProfile, brand domain.BrandAttributes) {
	declared := make([]string, 0, len(profile.Industries))
	for _, ind := range profile.Industries {
		if ind = strings.TrimSpace(ind); ind != "" {
			declared = append(declared, ind)
		}
	}
	if len(declared) == 0 {
		return
	}

	candidates := []string{brand.Category, brand.Sector, brand.Industry}
	hasBrandIndustry := false
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		hasBrandIndustry = true
		for _, ind := range declared {
			if strings.EqualFold(ind, c) {
				r.yes = append(r.yes, "Matches your interest in "+c)
				return
			}
		}
	}
	if hasBrandIndustry {
		r.no = append(r.no, "Outside the industries you prioritized")
	}
}

func hasGrowthGoal(goals []string) bool {
	for _, g := range goals {
		g = strings.ToLower(g)
		for _, kw := range growthKeywords {
			if strings.Contains(g, kw) {
				return true
			}
		}
	}
	return false
}

// bound removes duplicates, truncates to max and pads with filler up to min.
func bound(organic []string, min, max int, filler []string) []string {
	out := make([]string, 0, max)
	for _, s := range organic {
		if len(out) == max {
			break
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	for _, s := range filler {
		if len(out) >= min {
			break
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
