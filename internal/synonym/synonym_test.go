package synonym

import "testing"

func TestMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want bool
	}{
		{"klant", "customer", true},
		{"Customer", "KLANT", true}, // case-insensitive both directions
		{"customer", "client", true},
		{"rekening", "account", true},
		{"sleutel", "key", true},
		{"Bank-Key", "bank_key", true}, // identical after normalization
		{"klant", "address", false},
		{"unknown", "alsounknown", false},
	}
	for _, c := range cases {
		if got := Match(c.a, c.b); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	syns := Lookup("klant")
	if len(syns) == 0 {
		t.Fatalf("expected synonyms for klant")
	}
	seen := map[string]bool{}
	for _, s := range syns {
		seen[s] = true
	}
	if !seen["customer"] || !seen["client"] {
		t.Errorf("missing expected synonyms: %v", syns)
	}

	// Value terms resolve back to the whole group.
	syns = Lookup("customer")
	seen = map[string]bool{}
	for _, s := range syns {
		seen[s] = true
	}
	if !seen["klant"] || !seen["client"] {
		t.Errorf("reverse lookup incomplete: %v", syns)
	}

	if got := Lookup("nonexistent"); got != nil {
		t.Errorf("expected nil for unknown term, got %v", got)
	}
}
