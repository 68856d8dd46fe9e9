package validate

import (
	"strings"
	"testing"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"0.1", true},
		{"0.10", true},
		{"5.00", true},
		{"99999999.99", true},
		{"100000000", false},
		{"0.09", false},
		{"0", false},
		{"-3", false},
		{"5.123", false},
		{"junk", false},
		{"", false},
	}
	for _, c := range cases {
		if _, ok := Price(c.in); ok != c.ok {
			t.Errorf("Price(%q) ok=%v, want %v", c.in, ok, c.ok)
		}
	}

	// Rendering pads to the canonical two fraction digits.
	if d, _ := Price(" 5 "); d.StringFixed(2) != "5.00" {
		t.Errorf("Price(5) = %s, want 5.00", d.StringFixed(2))
	}
}

func TestRate(t *testing.T) {
	for _, n := range []int{0, 5, 10} {
		if !Rate(n) {
			t.Errorf("Rate(%d) should pass", n)
		}
	}
	for _, n := range []int{-1, 11, 100} {
		if Rate(n) {
			t.Errorf("Rate(%d) should fail", n)
		}
	}
}

func TestCountry(t *testing.T) {
	if got, ok := Country("de"); !ok || got != "DE" {
		t.Errorf("Country(de) = %q, %v", got, ok)
	}
	if got, ok := Country("US"); !ok || got != "US" {
		t.Errorf("Country(US) = %q, %v", got, ok)
	}
	if _, ok := Country("ZZ"); ok {
		t.Error("Country(ZZ) should fail")
	}
	if _, ok := Country(""); ok {
		t.Error("Country(\"\") should fail")
	}
}

func TestUsername(t *testing.T) {
	if _, ok := Username("  carol  "); !ok {
		t.Error("trimmed username should pass")
	}
	if _, ok := Username(""); ok {
		t.Error("empty username should fail")
	}
	if _, ok := Username(strings.Repeat("a", 151)); ok {
		t.Error("overlong username should fail")
	}
}

func TestEmail(t *testing.T) {
	if got, ok := Email(" a@b.example "); !ok || got != "a@b.example" {
		t.Errorf("Email = %q, %v", got, ok)
	}
	for _, s := range []string{"", "nope", "a@b", "@b.example"} {
		if _, ok := Email(s); ok {
			t.Errorf("Email(%q) should fail", s)
		}
	}
}

func TestErrors(t *testing.T) {
	e := Errors{}
	if e.Any() {
		t.Error("fresh Errors should be empty")
	}
	e.Add("price", "too low")
	e.Add("price", "bad scale")
	if !e.Any() || len(e["price"]) != 2 {
		t.Errorf("Add did not accumulate: %v", e)
	}
}
