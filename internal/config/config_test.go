package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// -----------------------------------------------------------------------------
// Run decoding tests
// -----------------------------------------------------------------------------
//
// These tests validate that the top-level Run JSON structure decodes into the
// intended Go struct graph. We prefer parsing from JSON strings here to keep
// tests hermetic and focused on the API surface rather than filesystem wiring.

func TestRun_DecodeRoundTrip(t *testing.T) {
	t.Parallel()

	const js = `{
	  "object":  "m140",
	  "variant": "bnka",
	  "source":  { "path": "data/m140/bnka/fields.csv" },
	  "targets": { "path": "config/m140/bnka/catalog.csv" },
	  "fuzzy": {
	    "threshold": 0.7,
	    "max_suggestions": 5,
	    "levenshtein_weight": 0.4,
	    "jaro_winkler_weight": 0.6
	  },
	  "output": {
	    "mapping": "out/m140/bnka/mapping.yaml",
	    "catalog": "out/m140/bnka/catalog.json"
	  },
	  "storage": {
	    "kind": "sqlite",
	    "db": { "dsn": "file:catalog.db", "table": "field_catalog", "auto_create_table": true },
	    "options": { "busy_timeout_ms": 5000 }
	  }
	}`

	var r Run
	if err := json.Unmarshal([]byte(js), &r); err != nil {
		t.Fatalf("json.Unmarshal(Run): %v", err)
	}

	if r.Object != "m140" || r.Variant != "bnka" {
		t.Fatalf("object/variant = %q/%q, want m140/bnka", r.Object, r.Variant)
	}
	if r.Source.Path != "data/m140/bnka/fields.csv" {
		t.Fatalf("source.path = %q", r.Source.Path)
	}
	if r.Targets.Path != "config/m140/bnka/catalog.csv" {
		t.Fatalf("targets.path = %q", r.Targets.Path)
	}

	// Fuzzy
	if r.Fuzzy.Threshold != 0.7 || r.Fuzzy.MaxSuggestions != 5 {
		t.Fatalf("fuzzy decoded = %#v", r.Fuzzy)
	}
	if r.Fuzzy.LevenshteinWeight != 0.4 || r.Fuzzy.JaroWinklerWeight != 0.6 {
		t.Fatalf("fuzzy weights = %#v", r.Fuzzy)
	}

	// Output
	if r.Output.Mapping != "out/m140/bnka/mapping.yaml" || r.Output.Catalog != "out/m140/bnka/catalog.json" {
		t.Fatalf("output decoded = %#v", r.Output)
	}

	// Storage
	if r.Storage.Kind != "sqlite" {
		t.Fatalf("storage.kind = %q, want sqlite", r.Storage.Kind)
	}
	db := r.Storage.DB
	if db.DSN != "file:catalog.db" || db.Table != "field_catalog" || !db.AutoCreateTable {
		t.Fatalf("storage.db = %#v", db)
	}
	if got := r.Storage.Options.Int("busy_timeout_ms", 0); got != 5000 {
		t.Fatalf("storage.options.busy_timeout_ms = %d, want 5000", got)
	}
}

func TestRun_OmittedBlocksDecodeToZero(t *testing.T) {
	t.Parallel()

	const js = `{"object": "m140", "variant": "bnka", "source": {"path": "x.csv"}}`
	var r Run
	if err := json.Unmarshal([]byte(js), &r); err != nil {
		t.Fatalf("json.Unmarshal(Run): %v", err)
	}
	if r.Storage.Kind != "" || r.Targets.Path != "" {
		t.Fatalf("run = %#v, want zero storage and targets", r)
	}
	// Options must be usable without nil checks even when never decoded.
	if got := r.Storage.Options.String("k", "def"); got != "def" {
		t.Fatalf("Options.String on zero Options = %q, want def", got)
	}
}

func TestFuzzy_ConfigDefaults(t *testing.T) {
	t.Parallel()

	// Empty block behaves like the package defaults with fuzzy enabled.
	cfg := Fuzzy{}.Config()
	if !cfg.Enabled {
		t.Fatalf("Enabled = false, want true for empty block")
	}
	if cfg.Threshold != 0.6 || cfg.MaxSuggestions != 3 {
		t.Fatalf("defaults = %#v", cfg)
	}
	if cfg.LevenshteinWeight != 0.5 || cfg.JaroWinklerWeight != 0.5 {
		t.Fatalf("default weights = %#v", cfg)
	}

	// Explicit values win over defaults.
	cfg = Fuzzy{Disabled: true, Threshold: 0.8, MaxSuggestions: 1, LevenshteinWeight: 1}.Config()
	if cfg.Enabled || cfg.Threshold != 0.8 || cfg.MaxSuggestions != 1 {
		t.Fatalf("explicit config = %#v", cfg)
	}
	if cfg.LevenshteinWeight != 1 || cfg.JaroWinklerWeight != 0 {
		t.Fatalf("explicit weights = %#v", cfg)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	const js = `{"object": "m140", "variant": "bnka", "source": {"path": "fields.csv"}}`
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Object != "m140" || r.Source.Path != "fields.csv" {
		t.Fatalf("loaded = %#v", r)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("Load(missing) should fail")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("Load(bad json) should fail")
	}
}

// -----------------------------------------------------------------------------
// Options helper tests (hermetic).
// -----------------------------------------------------------------------------
//
// These tests validate minimal, deliberate coercion behavior and defaults. This
// protects against accidental changes in helper semantics that would silently
// alter run behavior across the application.

func TestOptions_String_Bool_Int_DefaultsAndCoercion(t *testing.T) {
	t.Parallel()

	o := Options{
		"s": "hello",
		"b": true,
		"i": float64(42), // encoding/json decodes numbers as float64
	}

	// String
	if got := o.String("s", "def"); got != "hello" {
		t.Fatalf("String(s) = %q, want hello", got)
	}
	if got := o.String("missing", "def"); got != "def" {
		t.Fatalf("String(missing) = %q, want def", got)
	}

	// Bool
	if got := o.Bool("b", false); got != true {
		t.Fatalf("Bool(b) = %v, want true", got)
	}
	if got := o.Bool("missing", true); got != true {
		t.Fatalf("Bool(missing) = %v, want true", got)
	}

	// Int (float64 → int)
	if got := o.Int("i", 0); got != 42 {
		t.Fatalf("Int(i) = %d, want 42", got)
	}
	if got := o.Int("missing", 7); got != 7 {
		t.Fatalf("Int(missing) = %d, want 7", got)
	}
}

func TestOptions_StringMap(t *testing.T) {
	t.Parallel()

	o := Options{
		"m": map[string]any{"A": "a", "B": "b", "X": 1}, // non-string value "X" must be ignored
	}

	sm := o.StringMap("m")
	if !reflect.DeepEqual(sm, map[string]string{"A": "a", "B": "b"}) {
		t.Fatalf("StringMap(m) = %#v, want {A:a B:b}", sm)
	}
	// Missing key → empty map (not nil).
	sm2 := o.StringMap("missing")
	if sm2 == nil || len(sm2) != 0 {
		t.Fatalf("StringMap(missing) = %#v, want empty map", sm2)
	}
}

// -----------------------------------------------------------------------------
// Options.UnmarshalJSON behavior tests
// -----------------------------------------------------------------------------
//
// These tests ensure that decoding Options from JSON yields a non-nil, empty
// map when the field is missing or explicitly null. This avoids nil-checks at
// call sites and is a deliberate design choice for simplicity.

func TestOptions_UnmarshalJSON_NullYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Opts Options `json:"options"`
	}

	const jsNull = `{"options": null}`
	var w wrapper
	if err := json.Unmarshal([]byte(jsNull), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.Opts == nil || len(w.Opts) != 0 {
		t.Fatalf("Opts after null unmarshal = %#v, want non-nil empty map", w.Opts)
	}
}

func TestOptions_UnmarshalJSON_ObjectDecodesAsMap(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Opts Options `json:"options"`
	}

	const jsObj = `{"options": {"a":"x","b":true,"n": 3}}`
	var w wrapper
	if err := json.Unmarshal([]byte(jsObj), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if w.Opts.String("a", "") != "x" {
		t.Fatalf("Opts.String(a) = %q, want x", w.Opts.String("a", ""))
	}
	if w.Opts.Bool("b", false) != true {
		t.Fatalf("Opts.Bool(b) = %v, want true", w.Opts.Bool("b", false))
	}
	if w.Opts.Int("n", 0) != 3 {
		t.Fatalf("Opts.Int(n) = %d, want 3", w.Opts.Int("n", 0))
	}
}
