package printing

import (
	"bytes"
	"context"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	fpdfMargin     = 15.0
	fpdfLineHeight = 5.0
	fpdfRowHeight  = 7.0
	fpdfFont       = "Helvetica"
)

// columnWeights are the relative widths of Description, Qty, Rate, Amount
var columnWeights = [4]float64{4, 1, 2, 2}

// FPDFConfig contains configuration for the fpdf renderer
type FPDFConfig struct {
	// PageSize is an fpdf size name such as "A4" or "Letter"
	PageSize string
	// DisableCompression leaves page streams readable
	DisableCompression bool
	// Logger for debug output
	Logger *zap.Logger
}

// FPDFRenderer writes invoices with the pure-Go fpdf library. Document
// dates are pinned to the issue date and the catalog is sorted, so the
// same document always produces the same bytes.
type FPDFRenderer struct {
	config *FPDFConfig
	logger *zap.Logger
}

// NewFPDFRenderer creates a new fpdf-based PDF renderer
func NewFPDFRenderer(config *FPDFConfig) *FPDFRenderer {
	if config == nil {
		config = &FPDFConfig{}
	}
	if config.PageSize == "" {
		config.PageSize = "A4"
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FPDFRenderer{config: config, logger: logger}
}

// Engine returns "fpdf"
func (r *FPDFRenderer) Engine() string {
	return EngineFPDF
}

// Render lays out the invoice and returns the PDF bytes
func (r *FPDFRenderer) Render(ctx context.Context, doc *InvoiceDocument) (*RenderResult, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}

	startTime := time.Now()

	pdf := fpdf.New("P", "mm", r.config.PageSize, "")
	pdf.SetCreationDate(doc.IssueDate)
	pdf.SetModificationDate(doc.IssueDate)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(!r.config.DisableCompression)
	pdf.SetTitle(doc.InvoiceNumber, true)
	pdf.SetSubject("Invoice "+doc.InvoiceNumber, true)
	pdf.SetCreator(doc.BusinessName, true)
	pdf.SetMargins(fpdfMargin, fpdfMargin, fpdfMargin)
	pdf.SetAutoPageBreak(false, fpdfMargin)

	w := &invoiceWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		doc: doc,
	}
	w.write()

	if err := pdf.Error(); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "fpdf layout failed", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "fpdf output failed", err)
	}
	if buf.Len() == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	renderDuration := time.Since(startTime)
	r.logger.Debug("PDF rendered",
		zap.String("engine", EngineFPDF),
		zap.String("invoice_number", doc.InvoiceNumber),
		zap.Int("bytes", buf.Len()),
		zap.Int("pages", pdf.PageCount()),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        buf.Bytes(),
		PageCount:      pdf.PageCount(),
		RenderDuration: renderDuration,
	}, nil
}

// Close is a no-op; fpdf holds no external resources
func (r *FPDFRenderer) Close() error {
	return nil
}

// invoiceWriter draws one document onto an fpdf instance
type invoiceWriter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	doc    *InvoiceDocument
	widths [4]float64
}

func (w *invoiceWriter) write() {
	pdf := w.pdf
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*fpdfMargin
	var totalWeight float64
	for _, cw := range columnWeights {
		totalWeight += cw
	}
	for i, cw := range columnWeights {
		w.widths[i] = contentW * cw / totalWeight
	}

	pdf.SetFont(fpdfFont, "B", 16)
	pdf.CellFormat(0, 8, w.tr(w.doc.BusinessName), "", 1, "L", false, 0, "")
	pdf.SetFont(fpdfFont, "", 10)
	pdf.CellFormat(0, fpdfLineHeight, w.tr(w.doc.BusinessSubtitle), "", 1, "L", false, 0, "")
	pdf.Ln(fpdfLineHeight)

	pdf.SetFont(fpdfFont, "B", 10)
	pdf.CellFormat(0, fpdfLineHeight, w.tr("Invoice No: "+w.doc.InvoiceNumber), "", 1, "L", false, 0, "")
	pdf.SetFont(fpdfFont, "", 10)
	pdf.CellFormat(0, fpdfLineHeight, "Date: "+FormatDate(w.doc.IssueDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, fpdfLineHeight, w.tr("Customer: "+w.doc.CustomerName), "", 1, "L", false, 0, "")
	pdf.Ln(fpdfLineHeight)

	w.tableHeader()
	for _, line := range w.doc.Lines {
		w.tableRow(line)
	}
	pdf.Ln(fpdfLineHeight)

	w.ensureSpace(4 * fpdfLineHeight)
	money := func(label string, v string) string {
		return w.tr(label + w.doc.CurrencySymbol + v)
	}
	pdf.SetFont(fpdfFont, "B", 10)
	pdf.CellFormat(0, fpdfLineHeight, money("Total: ", FormatAmount(w.doc.Subtotal)), "", 1, "L", false, 0, "")
	pdf.SetFont(fpdfFont, "", 10)
	pdf.CellFormat(0, fpdfLineHeight, money("Amount Paid: ", FormatAmount(w.doc.AmountPaid)), "", 1, "L", false, 0, "")
	pdf.SetFont(fpdfFont, "B", 10)
	pdf.CellFormat(0, fpdfLineHeight, money("Balance Due: ", FormatAmount(w.doc.BalanceDue)), "", 1, "L", false, 0, "")

	if w.doc.Notes != "" {
		pdf.Ln(fpdfLineHeight)
		w.ensureSpace(2 * fpdfLineHeight)
		pdf.SetFont(fpdfFont, "", 9)
		pdf.MultiCell(0, fpdfLineHeight, w.tr(w.doc.Notes), "", "L", false)
	}
}

func (w *invoiceWriter) tableHeader() {
	w.pdf.SetFont(fpdfFont, "B", 10)
	labels := [4]string{"Description", "Qty", "Rate", "Amount"}
	aligns := [4]string{"L", "R", "R", "R"}
	for i, label := range labels {
		ln := 0
		if i == len(labels)-1 {
			ln = 1
		}
		w.pdf.CellFormat(w.widths[i], fpdfRowHeight, label, "1", ln, aligns[i], false, 0, "")
	}
	w.pdf.SetFont(fpdfFont, "", 10)
}

// tableRow draws one item; long descriptions wrap and the row grows.
// A row that would cross the bottom margin starts a new page with the
// header repeated.
func (w *invoiceWriter) tableRow(line DocumentLine) {
	pdf := w.pdf
	descLines := pdf.SplitText(w.tr(line.Description), w.widths[0])
	if len(descLines) == 0 {
		descLines = []string{""}
	}
	height := max(fpdfRowHeight, float64(len(descLines))*fpdfLineHeight+2)

	if w.ensureSpace(height) {
		w.tableHeader()
	}

	x, y := pdf.GetXY()
	pdf.Rect(x, y, w.widths[0], height, "D")
	for i, text := range descLines {
		pdf.SetXY(x, y+1+float64(i)*fpdfLineHeight)
		pdf.CellFormat(w.widths[0], fpdfLineHeight, text, "", 0, "L", false, 0, "")
	}

	pdf.SetXY(x+w.widths[0], y)
	pdf.CellFormat(w.widths[1], height, formatInt(line.Quantity), "1", 0, "R", false, 0, "")
	pdf.CellFormat(w.widths[2], height, FormatAmount(line.Rate), "1", 0, "R", false, 0, "")
	pdf.CellFormat(w.widths[3], height, FormatAmount(line.Amount), "1", 0, "R", false, 0, "")
	pdf.SetXY(x, y+height)
}

// ensureSpace adds a page when fewer than height millimetres remain.
// It reports whether a page was added.
func (w *invoiceWriter) ensureSpace(height float64) bool {
	_, pageH := w.pdf.GetPageSize()
	if w.pdf.GetY()+height <= pageH-fpdfMargin {
		return false
	}
	w.pdf.AddPage()
	return true
}

// Ensure FPDFRenderer implements PDFRenderer
var _ PDFRenderer = (*FPDFRenderer)(nil)
