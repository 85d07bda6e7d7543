package printing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Renderer engine names
const (
	EngineFPDF     = "fpdf"
	EngineChromedp = "chromedp"
)

// InvoiceDocument is everything printed on an invoice. All figures are
// computed by the caller; renderers only lay them out.
type InvoiceDocument struct {
	BusinessName     string
	BusinessSubtitle string
	CurrencySymbol   string
	InvoiceNumber    string
	IssueDate        time.Time
	CustomerName     string
	Notes            string
	// Lines are printed in slice order
	Lines      []DocumentLine
	Subtotal   decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal
}

// DocumentLine is one row of the item table
type DocumentLine struct {
	Description string
	Quantity    int64
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Validate checks the fields every layout needs
func (d *InvoiceDocument) Validate() error {
	if d == nil {
		return NewRenderError(ErrCodeInvalidDocument, "document is nil", nil)
	}
	if strings.TrimSpace(d.InvoiceNumber) == "" {
		return NewRenderError(ErrCodeInvalidDocument, "invoice number is empty", nil)
	}
	if d.IssueDate.IsZero() {
		return NewRenderError(ErrCodeInvalidDocument, "issue date is missing", nil)
	}
	return nil
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer turns an invoice document into PDF bytes
type PDFRenderer interface {
	// Render lays out the document as a PDF
	Render(ctx context.Context, doc *InvoiceDocument) (*RenderResult, error)
	// Engine names the implementation
	Engine() string
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering or storage
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	ErrCodeInvalidTemplate = "INVALID_TEMPLATE"
	ErrCodeStorageFailed   = "STORAGE_FAILED"
	ErrCodeNotFound        = "DOCUMENT_NOT_FOUND"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsStorageError reports whether err came from a storage operation
func IsStorageError(err error) bool {
	var re *RenderError
	if !errors.As(err, &re) {
		return false
	}
	return re.Code == ErrCodeStorageFailed || re.Code == ErrCodeNotFound
}

// estimatePageCount counts page objects in the PDF
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// "/Type /Pages" also matches the prefix
	count -= bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count, 1)
}
