package parser

import (
	"io"

	"fieldmap/pkg/records"
)

// Parser turns raw input bytes into records, reporting how many malformed
// rows were skipped.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
