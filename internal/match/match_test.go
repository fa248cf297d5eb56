package match

import (
	"context"
	"testing"

	"fieldmap/internal/fielddef"
	"fieldmap/internal/fuzzy"
	"fieldmap/internal/targetdef"
)

func def(name, desc string) fielddef.Definition {
	d := fielddef.Definition{DType: "Character", Nullable: true}
	d.FieldName = &name
	if desc != "" {
		d.Description = &desc
	}
	return d
}

func tgt(table, name, desc string) targetdef.Field {
	return targetdef.Field{Table: table, Name: name, Description: desc}
}

func mustMatch(tb testing.TB, m *Matcher, sources []fielddef.Definition, targets []targetdef.Field) []Result {
	tb.Helper()
	results, err := m.Match(context.Background(), sources, targets)
	if err != nil {
		tb.Fatalf("Match: %v", err)
	}
	return results
}

func TestExactMatch(t *testing.T) {
	t.Parallel()

	m := New(fuzzy.DefaultConfig())
	results := mustMatch(t, m,
		[]fielddef.Definition{def("Bank-Key", "")},
		[]targetdef.Field{
			tgt("S_BUT0BK", "BANK_KEY", "Bank Key"),
			tgt("S_BUT0BK", "BANK_CTRY", "Bank Country"),
		})

	r := results[0]
	if r.Type != TypeExact || r.Confidence != 1 {
		t.Fatalf("expected exact match, got %s (%v)", r.Type, r.Confidence)
	}
	if r.Target == nil || r.Target.Name != "BANK_KEY" {
		t.Fatalf("wrong target: %v", r.Target)
	}
}

func TestExactMatchOnDescription(t *testing.T) {
	t.Parallel()

	m := New(fuzzy.DefaultConfig())
	results := mustMatch(t, m,
		[]fielddef.Definition{def("KOL1", "Business Partner Number")},
		[]targetdef.Field{tgt("S_BUT000", "PARTNER", "Business  Partner Number")})

	if results[0].Type != TypeExact {
		t.Fatalf("expected description-based exact match, got %s", results[0].Type)
	}
}

func TestSynonymMatch(t *testing.T) {
	t.Parallel()

	m := New(fuzzy.DefaultConfig())
	results := mustMatch(t, m,
		[]fielddef.Definition{def("klant", "")},
		[]targetdef.Field{
			tgt("S_BUT000", "ADDRESS", "Address"),
			tgt("S_BUT000", "CUSTOMER", "Customer Number"),
		})

	r := results[0]
	if r.Type != TypeSynonym {
		t.Fatalf("expected synonym match, got %s", r.Type)
	}
	if r.Target.Name != "CUSTOMER" {
		t.Fatalf("wrong target: %s", r.Target.Name)
	}
	if r.Confidence != synonymConfidence {
		t.Fatalf("confidence: got %v", r.Confidence)
	}
}

func TestFuzzyMatch(t *testing.T) {
	t.Parallel()

	m := New(fuzzy.DefaultConfig())
	results := mustMatch(t, m,
		[]fielddef.Definition{def("PARTNR", "")},
		[]targetdef.Field{
			tgt("S_BUT000", "PARTNER", ""),
			tgt("S_BUT000", "ZZFIELD", ""),
		})

	r := results[0]
	if r.Type != TypeFuzzy {
		t.Fatalf("expected fuzzy match, got %s", r.Type)
	}
	if r.Target.Name != "PARTNER" {
		t.Fatalf("wrong target: %s", r.Target.Name)
	}
	if r.Confidence < 0.6 || r.Confidence >= 1 {
		t.Fatalf("confidence out of range: %v", r.Confidence)
	}
}

func TestNoMatchCarriesSuggestions(t *testing.T) {
	t.Parallel()

	cfg := fuzzy.DefaultConfig()
	cfg.Threshold = 0.95 // force the near-miss below threshold
	m := New(cfg)
	results := mustMatch(t, m,
		[]fielddef.Definition{def("PARTNR", "")},
		[]targetdef.Field{tgt("S_BUT000", "PARTNER", "")})

	r := results[0]
	if r.Matched() {
		t.Fatalf("expected no match at threshold 0.95, got %s", r.Type)
	}
	if r.Type != TypeNone {
		t.Fatalf("type: got %s", r.Type)
	}
	if len(r.Suggestions) == 0 {
		t.Fatalf("expected near-miss suggestion")
	}
	if r.Suggestions[0].Target.Name != "PARTNER" {
		t.Fatalf("suggestion target: got %s", r.Suggestions[0].Target.Name)
	}

	// PRT scores about 0.63 against PARTNER, so at 0.7 it stays unmatched
	// but still carries capped suggestions.
	cfg.Threshold = 0.7
	cfg.MaxSuggestions = 2
	m = New(cfg)
	results = mustMatch(t, m,
		[]fielddef.Definition{def("PRT", "")},
		[]targetdef.Field{
			tgt("S_BUT000", "PARTNER", ""),
			tgt("S_BUT000", "PARTNER2", ""),
			tgt("S_BUT000", "PARTNER3", ""),
		})
	r = results[0]
	if r.Matched() {
		t.Fatalf("expected no match for PRT, got %s (%v)", r.Type, r.Confidence)
	}
	if len(r.Suggestions) == 0 || len(r.Suggestions) > 2 {
		t.Fatalf("suggestion cap: got %d, want 1..2", len(r.Suggestions))
	}
}

func TestFuzzyDisabled(t *testing.T) {
	t.Parallel()

	cfg := fuzzy.DefaultConfig()
	cfg.Enabled = false
	m := New(cfg)
	results := mustMatch(t, m,
		[]fielddef.Definition{def("PARTNR", "")},
		[]targetdef.Field{tgt("S_BUT000", "PARTNER", "")})

	if results[0].Matched() {
		t.Fatalf("fuzzy disabled but matched via %s", results[0].Type)
	}
	if results[0].Suggestions != nil {
		t.Fatalf("expected no suggestions with fuzzy disabled")
	}
}

func TestTargetClaimedOnce(t *testing.T) {
	t.Parallel()

	m := New(fuzzy.DefaultConfig())
	results := mustMatch(t, m,
		[]fielddef.Definition{
			def("PARTNER", ""),
			def("Partner", ""), // same normalized name, later in source order
		},
		[]targetdef.Field{tgt("S_BUT000", "PARTNER", "")})

	if !results[0].Matched() {
		t.Fatalf("first source should claim the target")
	}
	if results[1].Matched() {
		t.Fatalf("second source must not re-claim the target")
	}
}

func TestMatchDeterministic(t *testing.T) {
	t.Parallel()

	sources := []fielddef.Definition{
		def("Bank-Key", "Bank Key"),
		def("klant", "Customer"),
		def("PARTNR", ""),
		def("UNRELATED_XQ", ""),
	}
	targets := []targetdef.Field{
		tgt("S_BUT0BK", "BANK_KEY", "Bank Key"),
		tgt("S_BUT000", "CUSTOMER", "Customer Number"),
		tgt("S_BUT000", "PARTNER", "Business Partner"),
	}
	m := New(fuzzy.DefaultConfig())

	first := mustMatch(t, m, sources, targets)
	for range 5 {
		again := mustMatch(t, m, sources, targets)
		for i := range first {
			if first[i].Type != again[i].Type || first[i].Confidence != again[i].Confidence {
				t.Fatalf("result %d unstable: %v vs %v", i, first[i], again[i])
			}
			a, b := first[i].Target, again[i].Target
			if (a == nil) != (b == nil) || (a != nil && a.Name != b.Name) {
				t.Fatalf("result %d target unstable", i)
			}
		}
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	t.Parallel()

	m := New(fuzzy.DefaultConfig())
	if results := mustMatch(t, m, nil, nil); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}

	// Sources with no targets: everything unmatched.
	results := mustMatch(t, m, []fielddef.Definition{def("F1", "")}, nil)
	if results[0].Matched() || results[0].Type != TypeNone {
		t.Fatalf("expected unmatched result, got %v", results[0])
	}
}

func TestMatchCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(fuzzy.DefaultConfig())
	_, err := m.Match(ctx, []fielddef.Definition{def("F1", "")}, nil)
	if err == nil {
		t.Fatalf("expected context error")
	}
}
