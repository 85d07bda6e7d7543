// Package csvimport reads header-keyed CSV files for bulk loading.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const utf8BOM = "\xEF\xBB\xBF"

// sniffSize is how much of the file is checked for valid UTF-8 up front
const sniffSize = 4096

// Parser reads a CSV file whose first row names the columns.
// Header names are matched case-insensitively.
type Parser struct {
	reader  *csv.Reader
	headers []string
	index   map[string]int
	line    int
}

// Option configures a Parser
type Option func(*csv.Reader)

// WithDelimiter sets the field delimiter (default ',')
func WithDelimiter(d rune) Option {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// NewParser strips a UTF-8 byte order mark, checks the encoding and reads
// the header row.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	truncated := len(head) == sniffSize
	if strings.HasPrefix(string(head), utf8BOM) {
		_, _ = buf.Discard(len(utf8BOM))
		head = head[len(utf8BOM):]
	}
	if len(strings.TrimSpace(string(head))) == 0 {
		return nil, ErrEmptyFile
	}
	if !validPrefix(head, truncated) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(reader)
	}

	p := &Parser{reader: reader, index: make(map[string]int)}
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// validPrefix reports whether b is UTF-8, allowing a rune cut in half at
// the end of a truncated sniff window
func validPrefix(b []byte, truncated bool) bool {
	if utf8.Valid(b) {
		return true
	}
	if !truncated {
		return false
	}
	for i := 1; i < utf8.UTFMax && i < len(b); i++ {
		if utf8.Valid(b[:len(b)-i]) {
			return true
		}
	}
	return false
}

func (p *Parser) readHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.line = 1

	p.headers = make([]string, len(record))
	for i, h := range record {
		name := normalizeHeader(h)
		p.headers[i] = name
		if _, dup := p.index[name]; !dup && name != "" {
			p.index[name] = i
		}
	}
	if len(p.index) == 0 {
		return ErrMissingHeader
	}
	return nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Headers returns the normalized header names in file order
func (p *Parser) Headers() []string {
	return p.headers
}

// HasHeader reports whether a column is present
func (p *Parser) HasHeader(name string) bool {
	_, ok := p.index[normalizeHeader(name)]
	return ok
}

// RequireHeaders returns a MissingColumnsError naming every absent column
func (p *Parser) RequireHeaders(names ...string) error {
	var missing []string
	for _, name := range names {
		if !p.HasHeader(name) {
			missing = append(missing, normalizeHeader(name))
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// Row is one data line keyed by normalized header name
type Row struct {
	Line   int
	values map[string]string
}

// Get returns the trimmed value of a column, or "" when absent
func (r *Row) Get(column string) string {
	return r.values[normalizeHeader(column)]
}

// IsEmpty reports whether every field is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next non-blank row, or io.EOF at the end of the file.
// A malformed line yields a RowError and reading may continue.
func (p *Parser) Next() (*Row, error) {
	for {
		record, err := p.reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				p.line = parseErr.StartLine
			} else {
				p.line++
			}
			return nil, NewRowError(p.line, "", ErrCodeMalformedRow, err.Error())
		}
		p.line, _ = p.reader.FieldPos(0)

		row := &Row{Line: p.line, values: make(map[string]string, len(p.index))}
		for name, i := range p.index {
			if i < len(record) {
				row.values[name] = strings.TrimSpace(record[i])
			}
		}
		if row.IsEmpty() {
			continue
		}
		return row, nil
	}
}
