package domain

// BrandAttributes is the franchise brand data compared against a profile.
type BrandAttributes struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name,omitempty"`
	InvestmentMin   float64 `json:"investmentMin,omitempty"`
	InvestmentMax   float64 `json:"investmentMax,omitempty"`
	InvestmentRange string  `json:"investmentRange,omitempty"`
	Category        string  `json:"category,omitempty"`
	Sector          string  `json:"sector,omitempty"`
	Industry        string  `json:"industry,omitempty"`
}

// FitFlags are the fit chips computed upstream for a brand.
type FitFlags struct {
	Territory bool `json:"territory"`
	Lifestyle bool `json:"lifestyle"`
	Budget    bool `json:"budget"`
}

// MatchReasons holds 2-3 why-yes and 1-2 why-not phrases.
type MatchReasons struct {
	WhyYes []string `json:"whyYes"`
	WhyNot []string `json:"whyNot"`
}

// MatchReasonsRequest is the body of the match-reasons endpoint. Profile is
// optional for signed-in users, whose stored profile is used instead.
type MatchReasonsRequest struct {
	Profile *UserProfile    `json:"profile"`
	Brand   BrandAttributes `json:"brand"`
	Fit     FitFlags        `json:"fit"`
}
