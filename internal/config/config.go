// Package config defines the JSON-serializable configuration model for a
// field mapping run. It is intentionally small, explicit, and dependency-free
// so that run definitions can be loaded from disk and passed through the
// program without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "object":  "m140",
//	  "variant": "bnka",
//	  "source":  { "path": "data/m140/bnka/fields.csv" },
//	  "targets": { "path": "config/m140/bnka/catalog.csv" },
//	  "fuzzy":   { "threshold": 0.6, "max_suggestions": 3 },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "file:catalog.db", "table": "field_catalog" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"fieldmap/internal/fuzzy"
)

// Run describes one mapping run in JSON. It is the top-level object decoded
// from a run file (e.g., configs/runs/*.json).
type Run struct {
	// Object is the migration object identifier (e.g., "m140").
	Object string `json:"object"`

	// Variant is the structure variant within the object (e.g., "bnka").
	Variant string `json:"variant"`

	// Source points at the CSV of source field definitions.
	Source Source `json:"source"`

	// Targets points at the target field catalog CSV. Optional; when empty,
	// matching is skipped and only the source catalog is produced.
	Targets Source `json:"targets"`

	// Memory points at the central mapping memory YAML holding reviewed skip
	// rules and manual mappings. Optional.
	Memory Source `json:"memory"`

	// Fuzzy tunes the fuzzy matching stage.
	Fuzzy Fuzzy `json:"fuzzy"`

	// Output names the files the run writes.
	Output Output `json:"output"`

	// Storage describes where the normalized field catalog is persisted.
	// Optional; when Kind is empty no database write happens.
	Storage Storage `json:"storage"`
}

// Source holds a local filesystem input.
type Source struct {
	// Path is the local filesystem path to the input CSV.
	Path string `json:"path"`
}

// Output names the artifacts a run writes. Empty values disable the artifact.
type Output struct {
	// Mapping is the destination path for the mapping YAML.
	Mapping string `json:"mapping"`

	// Catalog is the destination path for the normalized catalog JSON.
	Catalog string `json:"catalog"`
}

// Fuzzy configures the fuzzy matching stage. Zero values fall back to the
// package defaults, so an empty block behaves like fuzzy.DefaultConfig.
type Fuzzy struct {
	// Disabled turns fuzzy matching off entirely; exact and synonym matching
	// still run.
	Disabled bool `json:"disabled"`

	// Threshold is the minimum combined similarity to accept a fuzzy match.
	Threshold float64 `json:"threshold"`

	// MaxSuggestions caps the review suggestions kept per unmatched field.
	MaxSuggestions int `json:"max_suggestions"`

	// LevenshteinWeight and JaroWinklerWeight blend the two similarity
	// algorithms. They are renormalized, so only their ratio matters.
	LevenshteinWeight float64 `json:"levenshtein_weight"`
	JaroWinklerWeight float64 `json:"jaro_winkler_weight"`
}

// Config materializes the fuzzy settings, applying defaults for zero values.
func (f Fuzzy) Config() fuzzy.Config {
	cfg := fuzzy.DefaultConfig()
	cfg.Enabled = !f.Disabled
	if f.Threshold > 0 {
		cfg.Threshold = f.Threshold
	}
	if f.MaxSuggestions > 0 {
		cfg.MaxSuggestions = f.MaxSuggestions
	}
	if f.LevenshteinWeight > 0 || f.JaroWinklerWeight > 0 {
		cfg.LevenshteinWeight = f.LevenshteinWeight
		cfg.JaroWinklerWeight = f.JaroWinklerWeight
	}
	return cfg
}

// Storage selects the sink used to persist the field catalog.
type Storage struct {
	// Kind selects the storage implementation. Current values: "sqlite",
	// "postgres", "mysql".
	Kind string `json:"kind"`

	// DB configures the database sink shared across backends.
	DB DBConfig `json:"db"`

	// Options is a free-form map interpreted by the selected backend
	// (e.g., sqlite pragmas).
	Options Options `json:"options"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the connection string for the selected driver.
	DSN string `json:"dsn"`

	// Table is the destination table name (e.g., "field_catalog").
	Table string `json:"table"`

	// AutoCreateTable should the process automatically create the DB table.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Load reads and decodes a run file from disk.
func Load(path string) (Run, error) {
	var r Run
	b, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("decode config %s: %w", path, err)
	}
	return r, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a key
// is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
// If the value is neither float64 nor int, def is returned.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty map
// when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object in JSON decodes to a non-nil, empty Options map. This
// simplifies call sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
