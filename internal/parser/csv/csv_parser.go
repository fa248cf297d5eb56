// Package csv implements a streaming CSV parser with optional on-the-fly
// scrubbing of known bad byte sequences found in real-world extracts. It never
// buffers the whole input, so large files are safe to parse.
package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"fieldmap/internal/parser"
	"fieldmap/pkg/records"
)

var _ parser.Parser = (*Parser)(nil)

// Scrub describes one literal find/replace applied to the byte stream before
// it reaches the CSV reader. Typical use is repairing a known broken quoting
// sequence that a source system emits consistently.
type Scrub struct {
	Pattern     string
	Replacement string
}

// Options configures the parser. All fields are optional; zero values get
// sensible defaults.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// ExpectedFields, when > 0, enforces a fixed field count per record. Rows
	// with a different width are skipped (soft-fail) and counted.
	ExpectedFields int

	// HeaderMap maps source header names to canonical keys. Headers without a
	// mapping fall back to lowercase with spaces replaced by underscores.
	// Only applies when HasHeader is true.
	HeaderMap map[string]string

	// Scrubs lists streaming byte rewrites applied in order before parsing.
	// When any scrub is configured the CSV reader runs in a lenient mode
	// (LazyQuotes, variable field count) and width is enforced after read.
	Scrubs []Scrub
}

// Parser parses CSV input according to Options. It may be reused across
// inputs but is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// rewriteChunk is the block size used by the streaming rewriter.
const rewriteChunk = 64 * 1024

// rewriter is an io.Reader performing a rolling find/replace of a single
// literal pattern. Matches spanning chunk boundaries are handled by carrying
// the last len(pattern)-1 bytes of each processed block into the next one.
type rewriter struct {
	src     *bufio.Reader
	pattern []byte
	repl    []byte
	carry   []byte
	pending bytes.Buffer
	done    bool
}

func newRewriter(r io.Reader, s Scrub) *rewriter {
	return &rewriter{
		src:     bufio.NewReaderSize(r, rewriteChunk),
		pattern: []byte(s.Pattern),
		repl:    []byte(s.Replacement),
	}
}

// Read implements io.Reader. Each call drains the pending buffer first; when
// empty, one chunk is read from the source, the carry is prepended, the
// pattern is replaced, and the trailing len(pattern)-1 bytes are withheld as
// the new carry. EOF flushes the remaining carry.
func (rw *rewriter) Read(p []byte) (int, error) {
	for {
		if rw.pending.Len() > 0 {
			return rw.pending.Read(p)
		}
		if rw.done {
			return 0, io.EOF
		}

		chunk := make([]byte, rewriteChunk)
		n, err := rw.src.Read(chunk)
		if n > 0 {
			block := chunk[:n]
			if len(rw.carry) > 0 {
				block = append(append([]byte{}, rw.carry...), block...)
				rw.carry = rw.carry[:0]
			}
			if len(rw.pattern) > 0 && !bytes.Equal(rw.pattern, rw.repl) {
				block = bytes.ReplaceAll(block, rw.pattern, rw.repl)
			}
			if hold := len(rw.pattern) - 1; hold > 0 && len(block) > hold {
				rw.pending.Write(block[:len(block)-hold])
				rw.carry = append(rw.carry, block[len(block)-hold:]...)
			} else if hold > 0 {
				// Block too short to emit safely; keep it all as carry.
				rw.carry = append(rw.carry, block...)
			} else {
				rw.pending.Write(block)
			}
		}

		switch {
		case err == io.EOF:
			rw.pending.Write(rw.carry)
			rw.carry = rw.carry[:0]
			rw.done = true
		case err != nil:
			return 0, err
		}
	}
}

// Parse consumes CSV records from r and returns the parsed rows along with the
// number of rows skipped due to parse errors or field-count mismatches.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	for _, s := range p.opt.Scrubs {
		r = newRewriter(r, s)
	}

	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	if len(p.opt.Scrubs) > 0 {
		// Scrubbed streams may still carry quoting oddities; relax the reader
		// and enforce width ourselves after each read.
		cr.LazyQuotes = true
		cr.FieldsPerRecord = -1
	}

	var headers []string
	if p.opt.HasHeader {
		h, err := cr.Read()
		if err == io.EOF {
			return []records.Record{}, 0, nil
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = canonicalHeaders(h, p.opt)
	} else if p.opt.ExpectedFields > 0 {
		headers = make([]string, p.opt.ExpectedFields)
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}

	const logLimit = 400
	var out []records.Record
	var skipped int
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < logLimit {
				log.Printf("skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}
		if len(headers) > 0 && len(row) != len(headers) {
			if skipped < logLimit {
				log.Printf("skipping row %d: expected %d fields, got %d", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[keyFor(i, headers)] = emptyToNil(val)
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

// keyFor returns the column key for index idx, synthesizing "col_N" when no
// header is available.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil; other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// canonicalHeaders resolves header cells to canonical keys via HeaderMap,
// falling back to lowercase-with-underscores. HeaderMap lookups are
// case-insensitive after whitespace trimming. A UTF-8 BOM on the first cell
// is stripped.
func canonicalHeaders(h []string, opt Options) []string {
	lookup := make(map[string]string, len(opt.HeaderMap))
	for k, v := range opt.HeaderMap {
		lookup[strings.ToLower(strings.TrimSpace(k))] = v
	}
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if m, ok := lookup[strings.ToLower(c)]; ok {
			res[i] = m
			continue
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
