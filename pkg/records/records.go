// Package records defines the loosely-typed record shape shared by parsers,
// matchers, and storage backends. A Record is a column-name keyed map; a key
// mapped to nil means "present but empty", while a missing key means the
// attribute was never determined.
package records

// Record is a single parsed row keyed by canonical column name.
type Record map[string]any

// String returns the string value for key, or "" when the key is missing,
// nil, or not a string.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Has reports whether key is present in the record, regardless of value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
