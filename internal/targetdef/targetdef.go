// Package targetdef loads target field catalogs. A target catalog is a CSV
// export of the destination template's field list; header spellings vary per
// export tool, so loading goes through the shared CSV parser with a header
// alias map.
package targetdef

import (
	"os"
	"strconv"
	"strings"

	"fieldmap/internal/parser/csv"
	"fieldmap/pkg/records"
)

// Field is one destination field a source definition can map onto.
type Field struct {
	// Table is the destination structure name, e.g. "S_BUT000". InternalTable
	// strips the conventional "S_" prefix.
	Table string

	// Name is the destination field identifier, the join key for mapping.
	Name string

	// Description is the human-readable label.
	Description string

	// DataType and Length describe the destination primitive.
	DataType string
	Length   *int

	// Mandatory marks required fields; Key marks mandatory fields in the key
	// group.
	Mandatory bool
	Key       bool

	// Group is the field group, "default" when the export has none.
	Group string
}

// InternalTable returns the table name without the conventional "S_" prefix.
func (f Field) InternalTable() string {
	return strings.TrimPrefix(f.Table, "S_")
}

// ID returns the destination identifier "table.field" used in mapping
// documents.
func (f Field) ID() string {
	return f.InternalTable() + "." + f.Name
}

// headerAliases maps the header spellings seen across export tools onto
// canonical keys. Lookup is case-insensitive.
var headerAliases = map[string]string{
	"sap structure":     "sap_table",
	"sap table":         "sap_table",
	"table":             "sap_table",
	"sap field":         "sap_field",
	"field":             "sap_field",
	"field description": "field_description",
	"description":       "field_description",
	"type":              "data_type",
	"data type":         "data_type",
	"length":            "length",
	"importance":        "importance",
	"mandatory":         "importance",
	"group name":        "field_group",
	"field group":       "field_group",
	"sheet name":        "sheet_name",
	"decimal":           "decimal",
}

// Load reads the target catalog CSV at path. Rows without both a field name
// and a table are skipped; everything else degrades into zero values.
func Load(path string) ([]Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := csv.NewParser(csv.Options{
		HasHeader: true,
		TrimSpace: true,
		HeaderMap: headerAliases,
	})
	recs, _, err := p.Parse(f)
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(recs))
	for _, rec := range recs {
		fld := fromRecord(rec)
		if fld.Name == "" || fld.Table == "" {
			continue
		}
		fields = append(fields, fld)
	}
	return fields, nil
}

// fromRecord shapes one parsed row into a Field.
func fromRecord(rec records.Record) Field {
	fld := Field{
		Table:       rec.String("sap_table"),
		Name:        rec.String("sap_field"),
		Description: rec.String("field_description"),
		DataType:    rec.String("data_type"),
		Group:       strings.ToLower(rec.String("field_group")),
	}
	if fld.DataType == "" {
		fld.DataType = "Text"
	}
	if fld.Group == "" {
		fld.Group = "default"
	}
	if n, err := strconv.Atoi(strings.TrimSpace(rec.String("length"))); err == nil {
		fld.Length = &n
	}
	switch strings.ToLower(rec.String("importance")) {
	case "mandatory", "true", "1", "yes", "x":
		fld.Mandatory = true
	}
	fld.Key = fld.Mandatory && fld.Group == "key"
	return fld
}
