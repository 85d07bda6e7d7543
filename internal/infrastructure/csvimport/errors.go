package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// Row error codes
const (
	ErrCodeMalformedRow  = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidFormat = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeInvalidLength = "ERR_IMPORT_INVALID_LENGTH"
	ErrCodeDuplicate     = "ERR_IMPORT_DUPLICATE_IN_FILE"
	ErrCodeRejected      = "ERR_IMPORT_REJECTED"
)

var (
	// ErrEmptyFile is returned when the file has no content
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not UTF-8
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")

	// ErrMissingHeader is returned when the first row names no columns
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// MissingColumnsError lists required columns absent from the header
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "CSV file missing required columns: " + strings.Join(e.Columns, ", ")
}

// RowError reports a problem with one line of the file
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column %q: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// NewRowError creates a RowError
func NewRowError(line int, column, code, message string) RowError {
	return RowError{Line: line, Column: column, Code: code, Message: message}
}

// DefaultMaxErrors caps how many row errors an Errors keeps
const DefaultMaxErrors = 100

// Errors collects row errors up to a limit while counting all of them
type Errors struct {
	items []RowError
	max   int
	total int
}

// NewErrors creates a collection keeping at most max errors
func NewErrors(max int) *Errors {
	if max <= 0 {
		max = DefaultMaxErrors
	}
	return &Errors{max: max}
}

// Add records err, dropping it from the list once the limit is reached
func (e *Errors) Add(err RowError) {
	e.total++
	if len(e.items) < e.max {
		e.items = append(e.items, err)
	}
}

// Items returns the kept errors in the order they were added
func (e *Errors) Items() []RowError {
	return e.items
}

// Total counts every error added, including dropped ones
func (e *Errors) Total() int {
	return e.total
}

// Truncated reports whether errors were dropped
func (e *Errors) Truncated() bool {
	return e.total > len(e.items)
}

// HasErrors reports whether any error was added
func (e *Errors) HasErrors() bool {
	return e.total > 0
}
