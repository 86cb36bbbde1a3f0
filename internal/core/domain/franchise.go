package domain

import "time"

// Franchise is the listing snapshot carried by preference records and
// pending actions.
type Franchise struct {
	ID              string `json:"id" binding:"required"`
	Name            string `json:"name"`
	Logo            string `json:"logo,omitempty"`
	Grade           string `json:"grade,omitempty"`
	InvestmentRange string `json:"investmentRange,omitempty"`
	Sector          string `json:"sector,omitempty"`
	Category        string `json:"category,omitempty"`
}

// Collection names a per-user preference collection.
type Collection string

const (
	CollectionLikes    Collection = "likes"
	CollectionDislikes Collection = "dislikes"
	CollectionSaved    Collection = "saved"
	CollectionCompare  Collection = "compare"
)

// Collections lists every preference collection in display order.
var Collections = []Collection{CollectionLikes, CollectionDislikes, CollectionSaved, CollectionCompare}

// ParseCollection validates a collection name coming from a URL.
func ParseCollection(s string) (Collection, error) {
	for _, c := range Collections {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrUnknownCollection
}

// PreferenceRecord is one entry of a like/dislike/save/compare collection.
// Records are unique per franchise id; the last write wins.
type PreferenceRecord struct {
	FranchiseID     string    `json:"franchiseId"`
	Name            string    `json:"name"`
	Logo            string    `json:"logo,omitempty"`
	Grade           string    `json:"grade,omitempty"`
	InvestmentRange string    `json:"investmentRange,omitempty"`
	Sector          string    `json:"sector,omitempty"`
	Category        string    `json:"category,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewPreferenceRecord builds a record from a franchise snapshot.
func NewPreferenceRecord(f Franchise, at time.Time) PreferenceRecord {
	return PreferenceRecord{
		FranchiseID:     f.ID,
		Name:            f.Name,
		Logo:            f.Logo,
		Grade:           f.Grade,
		InvestmentRange: f.InvestmentRange,
		Sector:          f.Sector,
		Category:        f.Category,
		Timestamp:       at,
	}
}
