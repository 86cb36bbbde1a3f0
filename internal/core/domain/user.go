package domain

import (
	"strings"

	"github.com/goccy/go-json"
)

// User is the signed-in identity persisted under the auth key.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// FullName joins first and last name, falling back to the email.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Budget holds a user's investment budget. Clients send either explicit
// bounds ({"min":100000,"max":250000}) or a display range ("$100K – $250K").
type Budget struct {
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
	Range string  `json:"range,omitempty"`
}

// HasBounds reports whether explicit numeric bounds are present.
func (b Budget) HasBounds() bool {
	return b.Min > 0 || b.Max > 0
}

// UnmarshalJSON accepts both the object and the plain string form.
func (b *Budget) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = Budget{Range: s}
		return nil
	}
	type plain Budget
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Budget(p)
	return nil
}

// UserProfile is free-form preference data, one per user, overwritten
// wholesale on update.
type UserProfile struct {
	Budget     Budget   `json:"budget"`
	Location   string   `json:"location,omitempty"`
	Lifestyle  string   `json:"lifestyle,omitempty"`
	Industries []string `json:"industries,omitempty"`
	Goals      []string `json:"goals,omitempty"`
}

// SignInRequest is the demo-mode sign-in body used when no bearer token is
// presented and unauthenticated fallback is enabled.
type SignInRequest struct {
	ID        string `json:"id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
