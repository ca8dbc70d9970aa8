package isbn

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		identifier string
		want       bool
	}{
		{"9780262033848", true},
		{"978-0-262-03384-8", true},
		{"0262033844", true},
		{"0-262-03384-4", true},
		{"080442957X", true},
		{"9780262033849", false}, // wrong check digit
		{"0262033845", false},    // wrong check digit
		{"1234567", false},       // wrong length
		{"van-der-Waals", false},
		{"977-0-262-03384-8", false}, // not a bookland prefix
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.identifier); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.identifier, got, tt.want)
		}
	}
}

func TestTo13(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"0262033844", "9780262033848"},
		{"0-262-03384-4", "9780262033848"},
		{"9780262033848", "9780262033848"},
		{"978-0-262-03384-8", "9780262033848"},
	}

	for _, tt := range tests {
		got, err := To13(tt.identifier)
		if err != nil {
			t.Errorf("To13(%q): %v", tt.identifier, err)
			continue
		}
		if got != tt.want {
			t.Errorf("To13(%q) = %q, want %q", tt.identifier, got, tt.want)
		}
	}
}

func TestTo13_Invalid(t *testing.T) {
	if _, err := To13("not-an-isbn"); err == nil {
		t.Error("expected error for invalid ISBN")
	}
}
