package persistence

import (
	"context"
	"strings"

	"github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts the invoice header and copies the generated ID back
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Omit("Customer", "Items").Create(model).Error; err != nil {
		return wrapError("create invoice", err)
	}
	invoice.ID = model.ID
	invoice.CreatedAt = model.CreatedAt
	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = model.ID
	}
	return nil
}

// CreateItem inserts one invoice line
func (r *GormInvoiceRepository) CreateItem(ctx context.Context, item *billing.InvoiceItem) error {
	model := models.InvoiceItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapError("create invoice item", err)
	}
	item.ID = model.ID
	return nil
}

// UpdateSubtotal stores the final subtotal
func (r *GormInvoiceRepository) UpdateSubtotal(ctx context.Context, invoiceID uint64, subtotal decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ?", invoiceID).
		Update("subtotal", subtotal)
	if result.Error != nil {
		return wrapError("update invoice subtotal", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("invoice", invoiceID)
	}
	return nil
}

// FindByID finds an invoice with its items in position order
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uint64) (*billing.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr("find invoice", "invoice", id, err)
	}
	return model.ToDomain(), nil
}

// FindAll finds invoices matching the filter, without items
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	filter = filter.Normalize()

	var invoiceModels []models.InvoiceModel
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter.Search).
		Preload("Customer").
		Order(orderClause(filter, InvoiceSortFields)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, wrapError("list invoices", err)
	}
	return invoicesToDomain(invoiceModels), nil
}

// FindByCustomer finds every invoice of a customer, newest first
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uint64) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("customer_id = ?", customerID).
		Order("issue_date DESC, id DESC").
		Find(&invoiceModels).Error
	if err != nil {
		return nil, wrapError("list customer invoices", err)
	}
	return invoicesToDomain(invoiceModels), nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter.Search)
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapError("count invoices", err)
	}
	return count, nil
}

// sumResult receives a single aggregated amount. SQLite hands SUM over
// DECIMAL back as a float, so the sums are rounded with billing.RoundMoney.
type sumResult struct {
	Total decimal.Decimal
}

// SumSubtotalByCustomer totals invoice subtotals for a customer
func (r *GormInvoiceRepository) SumSubtotalByCustomer(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	var result sumResult
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(subtotal), 0) AS total").
		Where("customer_id = ?", customerID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, wrapError("sum invoice subtotals", err)
	}
	return billing.RoundMoney(result.Total), nil
}

// applySearch matches the search term against the invoice number
func (r *GormInvoiceRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return query
	}
	return query.Where("UPPER(invoice_number) LIKE ?", "%"+strings.ToUpper(search)+"%")
}

func invoicesToDomain(invoiceModels []models.InvoiceModel) []billing.Invoice {
	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
