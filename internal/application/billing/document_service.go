package billing

import (
	"context"
	"errors"
	"time"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/logger"
	infra "github.com/imperialbinding/billing/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// DocumentSettings holds the letterhead printed on every invoice
type DocumentSettings struct {
	BusinessName     string
	BusinessSubtitle string
	CurrencySymbol   string
}

// DefaultDocumentSettings returns the Imperial Binding Works letterhead
func DefaultDocumentSettings() DocumentSettings {
	return DocumentSettings{
		BusinessName:     "Imperial Binding Works",
		BusinessSubtitle: "Book Binding & Finishing",
		CurrencySymbol:   "Rs.",
	}
}

// DocumentMirror copies rendered PDFs to remote object storage
type DocumentMirror interface {
	// Upload stores data under key, replacing any previous object
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// PresignGetObject returns a time-limited download URL for key
	PresignGetObject(ctx context.Context, key string, expires time.Duration) (string, error)
}

// DocumentService renders invoices to PDF and stores them
type DocumentService struct {
	invoiceRepo domain.InvoiceRepository
	balances    *BalanceCalculator
	renderer    infra.PDFRenderer
	storage     infra.PDFStorage
	mirror      DocumentMirror
	settings    DocumentSettings
	clock       shared.Clock
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// NewDocumentService creates a new DocumentService. mirror may be nil.
func NewDocumentService(
	invoiceRepo domain.InvoiceRepository,
	balances *BalanceCalculator,
	renderer infra.PDFRenderer,
	storage infra.PDFStorage,
	mirror DocumentMirror,
	settings DocumentSettings,
	clock shared.Clock,
	logger *zap.Logger,
) *DocumentService {
	defaults := DefaultDocumentSettings()
	if settings.BusinessName == "" {
		settings.BusinessName = defaults.BusinessName
	}
	if settings.BusinessSubtitle == "" {
		settings.BusinessSubtitle = defaults.BusinessSubtitle
	}
	if settings.CurrencySymbol == "" {
		settings.CurrencySymbol = defaults.CurrencySymbol
	}
	if clock == nil {
		clock = shared.NewSystemClock(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		invoiceRepo: invoiceRepo,
		balances:    balances,
		renderer:    renderer,
		storage:     storage,
		mirror:      mirror,
		settings:    settings,
		clock:       clock,
		metrics:     NoopMetricsRecorder{},
		logger:      logger,
	}
}

// SetMetrics installs a metrics recorder
func (s *DocumentService) SetMetrics(metrics MetricsRecorder) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// MirrorEnabled reports whether PDFs are copied to object storage
func (s *DocumentService) MirrorEnabled() bool {
	return s.mirror != nil
}

// Generate renders the invoice and writes {invoiceNumber}.pdf.
// Amount paid and balance due are the customer's totals, not the invoice's.
func (s *DocumentService) Generate(ctx context.Context, invoiceID uint64) (*GeneratedDocument, error) {
	log := logger.For(ctx, s.logger)

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	totals, err := s.balances.Totals(ctx, invoice.CustomerID)
	if err != nil {
		return nil, err
	}

	doc := s.buildDocument(invoice, totals)

	start := time.Now()
	result, err := s.renderer.Render(ctx, doc)
	s.metrics.RecordDocumentRendered(ctx, s.renderer.Engine(), time.Since(start), err)
	if err != nil {
		log.Error("failed to render invoice",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.String("engine", s.renderer.Engine()),
			zap.Error(err))
		return nil, toDomainError(err, shared.CodeRenderFailed, "Failed to render invoice "+invoice.InvoiceNumber)
	}

	stored, err := s.storage.Store(ctx, invoice.InvoiceNumber, result.PDFData)
	if err != nil {
		log.Error("failed to store invoice PDF",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err))
		return nil, toDomainError(err, shared.CodeStorageFailed, "Failed to store invoice "+invoice.InvoiceNumber)
	}

	generated := &GeneratedDocument{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		FileName:      stored.FileName,
		Path:          stored.Path,
		Size:          stored.Size,
		PageCount:     result.PageCount,
		Engine:        s.renderer.Engine(),
		Data:          result.PDFData,
	}

	if s.mirror != nil {
		key := MirrorKey(invoice.InvoiceNumber)
		if err := s.mirror.Upload(ctx, key, result.PDFData, "application/pdf"); err != nil {
			log.Warn("failed to mirror invoice PDF",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.String("key", key),
				zap.Error(err))
		} else {
			generated.MirrorKey = key
		}
	}

	log.Info("invoice PDF generated",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("path", stored.Path),
		zap.Int64("size", stored.Size),
		zap.Int("pages", result.PageCount),
		zap.Duration("render_duration", result.RenderDuration))

	return generated, nil
}

// PresignedURL renders the invoice, mirrors it and returns a download link
func (s *DocumentService) PresignedURL(ctx context.Context, invoiceID uint64, expires time.Duration) (*DocumentURLResponse, error) {
	if s.mirror == nil {
		return nil, shared.ErrServiceDisabled
	}
	if expires <= 0 {
		expires = 15 * time.Minute
	}

	generated, err := s.Generate(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if generated.MirrorKey == "" {
		return nil, shared.NewDomainError(shared.CodeStorageFailed, "Failed to mirror invoice "+generated.InvoiceNumber)
	}

	url, err := s.mirror.PresignGetObject(ctx, generated.MirrorKey, expires)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeStorageFailed, "Failed to presign invoice "+generated.InvoiceNumber, err)
	}

	return &DocumentURLResponse{
		InvoiceNumber: generated.InvoiceNumber,
		URL:           url,
		ExpiresAt:     s.clock.Now().Add(expires),
	}, nil
}

// MirrorKey is the object key of a mirrored invoice PDF
func MirrorKey(invoiceNumber string) string {
	return "invoices/" + invoiceNumber + ".pdf"
}

func (s *DocumentService) buildDocument(invoice *domain.Invoice, totals domain.CustomerBalance) *infra.InvoiceDocument {
	lines := make([]infra.DocumentLine, len(invoice.Items))
	for i, item := range invoice.Items {
		lines[i] = infra.DocumentLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		}
	}

	return &infra.InvoiceDocument{
		BusinessName:     s.settings.BusinessName,
		BusinessSubtitle: s.settings.BusinessSubtitle,
		CurrencySymbol:   s.settings.CurrencySymbol,
		InvoiceNumber:    invoice.InvoiceNumber,
		IssueDate:        invoice.IssueDate,
		CustomerName:     invoice.CustomerName,
		Notes:            invoice.Notes,
		Lines:            lines,
		Subtotal:         invoice.Subtotal,
		AmountPaid:       totals.TotalPaid,
		BalanceDue:       totals.Balance(),
	}
}

// toDomainError converts printing errors into domain errors with a stable code
func toDomainError(err error, code, message string) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if infra.IsStorageError(err) {
		code = shared.CodeStorageFailed
	}
	return shared.WrapDomainError(code, message, err)
}
