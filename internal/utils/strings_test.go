package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Ana@Example.COM ", "ana@example.com"},
		{"user@site.com", "user@site.com"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"+55 48 99999-1234", "+5548999991234"},
		{"(48) 3333-4444", "4833334444"},
		{"48+99999", "4899999"},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", "A.B@sub.domain.org"}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = false, want true", e)
		}
	}
	invalid := []string{"", "plain", "a@b", "two@@ats.com", "@nolocal.com"}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = true, want false", e)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	if !IsValidPhone("+55 48 99999-1234") {
		t.Error("full international number should be valid")
	}
	if IsValidPhone("123") {
		t.Error("short number should be invalid")
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Bombinhas Relax", "bombinhas-relax"},
		{"  Combo: Tour + Traslado!  ", "combo-tour-traslado"},
		{"Playa 2024", "playa-2024"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
