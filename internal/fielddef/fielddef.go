// Package fielddef parses CSV field-definition extracts into normalized,
// typed definition records. An extract describes the columns of a source
// system table (name, type, description, length, key flag, occurrence count)
// under header spellings that vary in case and spacing across systems.
//
// The parser is deliberately lenient: missing columns, empty cells, and
// non-numeric numeric fields never fail the parse. Only an unreadable file
// is an error. Content irregularities resolve into documented defaults or
// omitted attributes, so a downstream mapping stage always receives a
// correctly shaped sequence.
package fielddef

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"fieldmap/pkg/records"
)

// DefaultType is assigned when the data-type cell is empty, whitespace-only,
// or the column is missing from the header.
const DefaultType = "string"

// Definition is one normalized field-definition record. Optional attributes
// use pointers so that "never determined" stays distinguishable from an empty
// string or a false flag.
type Definition struct {
	// FieldName is the source field identifier. Nil when the extract has no
	// field-name column at all; it may point at an empty string when the
	// column exists but the cell is blank.
	FieldName *string

	// Description is the trimmed human-readable label, nil when the cell is
	// empty or the column is missing.
	Description *string

	// DType is the declared primitive type name, case preserved. Never empty;
	// falls back to DefaultType.
	DType string

	// FieldCount is the 1-based ordinal among all emitted records. Blank rows
	// do not consume an ordinal.
	FieldCount int

	// Length is the numeric field length, nil when the cell is empty,
	// non-numeric, or the column is missing. Zero-padding is tolerated.
	Length *int

	// IsKey points at true when the is-key marker cell is non-empty. It is
	// never set to false; absence means the marker was not present.
	IsKey *bool

	// Nullable is derived: false exactly when IsKey is set, true otherwise.
	Nullable bool
}

// Record converts the definition into the shared loosely-typed record shape.
// Absent optional attributes stay absent from the map, except the description,
// which is carried as an explicit nil so consumers can tell "no description"
// from "no description column".
func (d Definition) Record() records.Record {
	rec := records.Record{
		"dtype":       d.DType,
		"field_count": d.FieldCount,
		"nullable":    d.Nullable,
	}
	if d.FieldName != nil {
		rec["field_name"] = *d.FieldName
	}
	if d.Description != nil {
		rec["field_description"] = *d.Description
	} else {
		rec["field_description"] = nil
	}
	if d.Length != nil {
		rec["length"] = *d.Length
	}
	if d.IsKey != nil {
		rec["is_key"] = *d.IsKey
	}
	return rec
}

// Name returns the field name or "" when it was never determined.
func (d Definition) Name() string {
	if d.FieldName == nil {
		return ""
	}
	return *d.FieldName
}

// Text returns the description or "" when it was never determined.
func (d Definition) Text() string {
	if d.Description == nil {
		return ""
	}
	return *d.Description
}

// Logical column indexes resolved from the header row. -1 means the column is
// not present in this extract.
type columns struct {
	tableName int
	fieldName int
	dataType  int
	fieldText int
	length    int
	isKey     int
	occ       int
	fromTotal int
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// resolveColumns builds the logical-column index from the header row. Matching
// is case-insensitive and tolerant of irregular spacing; unrecognized headers
// are ignored. The first occurrence of a recognized name wins.
func resolveColumns(header []string) columns {
	cols := columns{
		tableName: -1,
		fieldName: -1,
		dataType:  -1,
		fieldText: -1,
		length:    -1,
		isKey:     -1,
		occ:       -1,
		fromTotal: -1,
	}
	for i, raw := range header {
		if i == 0 {
			raw = strings.TrimPrefix(raw, utf8BOM)
		}
		// Lowercase and collapse runs of whitespace to a single space.
		name := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
		switch name {
		case "table name":
			if cols.tableName < 0 {
				cols.tableName = i
			}
		case "field name":
			if cols.fieldName < 0 {
				cols.fieldName = i
			}
		case "data type":
			if cols.dataType < 0 {
				cols.dataType = i
			}
		case "field text":
			if cols.fieldText < 0 {
				cols.fieldText = i
			}
		case "length":
			if cols.length < 0 {
				cols.length = i
			}
		case "is key":
			if cols.isKey < 0 {
				cols.isKey = i
			}
		case "# of occ":
			if cols.occ < 0 {
				cols.occ = i
			}
		case "from total":
			if cols.fromTotal < 0 {
				cols.fromTotal = i
			}
		}
	}
	return cols
}

// cell returns the raw cell at logical column idx and whether the column was
// resolved and the row is wide enough to contain it.
func cell(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}

// blank reports whether the row has no non-whitespace content in any cell.
func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Parse reads the field-definition CSV at path and returns the normalized
// definitions in file order. It fails only when the file cannot be opened or
// read; content irregularities degrade into defaults or skipped rows.
func Parse(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseReader(f)
}

// ParseReader is Parse over an arbitrary reader. A reader with no rows at all
// (empty input) and a header row with zero data rows both yield an empty,
// non-nil sequence.
func ParseReader(r io.Reader) ([]Definition, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return []Definition{}, nil
	}
	if err != nil {
		if isParseError(err) {
			// Unusable header line; treat the extract as header-less.
			return []Definition{}, nil
		}
		return nil, err
	}
	cols := resolveColumns(header)

	defs := []Definition{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if isParseError(err) {
				// Malformed line; soft-fail and keep going.
				continue
			}
			return nil, err
		}
		if blank(row) {
			continue
		}

		d := Definition{
			DType:      DefaultType,
			FieldCount: len(defs) + 1,
			Nullable:   true,
		}
		if v, ok := cell(row, cols.fieldName); ok {
			name := v
			d.FieldName = &name
		}
		if v, ok := cell(row, cols.fieldText); ok {
			if t := strings.TrimSpace(v); t != "" {
				d.Description = &t
			}
		}
		if v, ok := cell(row, cols.dataType); ok {
			if t := strings.TrimSpace(v); t != "" {
				d.DType = t
			}
		}
		if v, ok := cell(row, cols.length); ok {
			// Base-10 with tolerated zero-padding; anything else is omitted.
			if n, perr := strconv.Atoi(strings.TrimSpace(v)); perr == nil {
				d.Length = &n
			}
		}
		if v, ok := cell(row, cols.isKey); ok && strings.TrimSpace(v) != "" {
			key := true
			d.IsKey = &key
			d.Nullable = false
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// isParseError distinguishes csv content errors (soft-fail) from underlying
// reader errors (fatal).
func isParseError(err error) bool {
	var pe *csv.ParseError
	return errors.As(err, &pe)
}
