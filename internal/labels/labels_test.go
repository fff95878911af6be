package labels

import (
	"regexp"
	"testing"
)

var tokenRe = regexp.MustCompile(`^[a-z0-9_]+$`)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Monstera", "monstera"},
		{"Monstera #2", "monstera_2"},
		{"Фикус Бенджамина", "fikus_bendzhamina"},
		{"Алоэ-вера (кухня)", "aloe_vera_kuhnya"},
		{"  spaced  out  ", "spaced_out"},
		{"already_sanitized", "already_sanitized"},
		{"ЁЖ", "yozh"},
		{"___", "unknown"},
		{"漢字", "unknown"},
		{"", "unknown"},
	}

	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeAlwaysMetricSafe(t *testing.T) {
	inputs := []string{
		"Monstera #2", "Фикус", "!!!", "", "a b c", "Тёща's plant", "-x-",
	}
	for _, in := range inputs {
		out := Sanitize(in)
		if !tokenRe.MatchString(out) {
			t.Errorf("Sanitize(%q) = %q, not a valid label token", in, out)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"Monstera #2", "Фикус Бенджамина", "", "unknown", "a__b"}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
