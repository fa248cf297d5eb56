// Package fingerprint derives a stable content hash for a parsed field
// catalog. The hash covers every definition in input order, so two catalogs
// with the same fields produce the same fingerprint and any semantic change
// (value, presence, or order) produces a different one.
//
// Absent optional values hash as "\x00" so that an absent field_name and a
// present-but-empty one never collide.
package fingerprint

import (
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"

	"fieldmap/internal/fielddef"
)

const (
	absent   = "\x00"
	fieldSep = "\x1f"
	defSep   = "\x1e"
)

// Catalog hashes the definitions and returns the fingerprint as a 16-char
// lowercase hex string.
func Catalog(defs []fielddef.Definition) string {
	h := xxh3.New()
	for _, d := range defs {
		writePart(h, strPtr(d.FieldName))
		writePart(h, strPtr(d.Description))
		writePart(h, d.DType)
		writePart(h, strconv.Itoa(d.FieldCount))
		if d.Length != nil {
			writePart(h, strconv.Itoa(*d.Length))
		} else {
			writePart(h, absent)
		}
		writePart(h, strconv.FormatBool(d.IsKey != nil))
		writePart(h, strconv.FormatBool(d.Nullable))
		h.WriteString(defSep)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func writePart(h *xxh3.Hasher, s string) {
	h.WriteString(s)
	h.WriteString(fieldSep)
}

func strPtr(p *string) string {
	if p == nil {
		return absent
	}
	return *p
}
