package resumes

import (
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Staff Engineer", "staff-engineer"},
		{"  Senior   Gopher!  ", "senior-gopher"},
		{"C++ / Go (2026)", "c-go-2026"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcode Résumé", "ünïcode-résumé"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	t.Parallel()

	valid := []string{"a", "staff-engineer", "v2", "a-b-c"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}

	invalid := []string{"", "-leading", "trailing-", "Has-Upper", "with space", "dot.dot"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestRandomNameShape(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+ \d{4}$`)
	for i := 0; i < 20; i++ {
		name := RandomName()
		if !pattern.MatchString(name) {
			t.Fatalf("unexpected generated name %q", name)
		}
		if !IsValidSlug(Slugify(name)) {
			t.Fatalf("generated name %q does not slugify cleanly", name)
		}
	}
}
