package core

import (
	"net/url"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Device identifies the machine a session action originates from; sent along mutating auth calls for audit.
type Device struct {
	Name     string `json:"device"`
	Hardware string `json:"hardware"`
}

// Period filters month-scoped listings. Empty fields are not sent.
type Period struct {
	Month string `json:"month" validate:"omitempty,month"`
	Year  string `json:"year" validate:"omitempty,year"`
}

// Encode adds the period to q.
func (p Period) Encode(q url.Values) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if p.Month != "" {
		q.Set("month", p.Month)
	}
	if p.Year != "" {
		q.Set("year", p.Year)
	}
	return q
}
