package validate

import (
	"regexp"
	"strings"

	"github.com/biter777/countries"
	"github.com/shopspring/decimal"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	// Lowest price a listing may carry.
	minPrice = decimal.RequireFromString("0.1")
	// Prices are (10,2) decimals, so the integral part stays under 10^8.
	maxPrice = decimal.New(1, 8)
)

// Errors accumulates per-field validation messages for 400 responses.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Any() bool { return len(e) > 0 }

// ID validates a resource identifier taken from a path parameter.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 150 {
		return "", false
	}
	return s, true
}

// Password bounds length only; complexity is the caller's business.
func Password(s string) bool {
	return len(s) >= 1 && len(s) <= 128
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Country validates an ISO 3166-1 country code or name.
func Country(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	c := countries.ByName(strings.ToUpper(s))
	if !c.IsValid() {
		return "", false
	}
	return c.Alpha2(), true
}

// ItemName validates a listing title.
func ItemName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 150 {
		return "", false
	}
	return s, true
}

// Price parses a decimal price and enforces the listing bounds:
// at least 0.1, at most two fraction digits, (10,2) overall.
func Price(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, false
	}
	if d.Exponent() < -2 {
		return decimal.Decimal{}, false
	}
	if d.Cmp(minPrice) < 0 || d.Abs().Cmp(maxPrice) >= 0 {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Rate bounds a review rating to 0..10 inclusive.
func Rate(n int) bool { return n >= 0 && n <= 10 }
