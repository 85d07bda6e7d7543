package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a customer and copies the generated ID back
func (r *GormCustomerRepository) Create(ctx context.Context, customer *billing.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapError("create customer", err)
	}
	customer.ID = model.ID
	customer.CreatedAt = model.CreatedAt
	return nil
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint64) (*billing.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr("find customer", "customer", id, err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Customer, error) {
	filter = filter.Normalize()

	var customerModels []models.CustomerModel
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter.Search).
		Order(orderClause(filter, CustomerSortFields)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, wrapError("list customers", err)
	}

	customers := make([]billing.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers, nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter.Search)
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapError("count customers", err)
	}
	return count, nil
}

// customerBalanceRow is one line of the with-balance report
type customerBalanceRow struct {
	ID            uint64
	Name          string
	Email         string
	Phone         string
	Address       string
	CreatedAt     time.Time
	TotalInvoiced decimal.Decimal
	TotalPaid     decimal.Decimal
}

const customersWithBalanceSQL = `
SELECT c.id, c.name, c.email, c.phone, c.address, c.created_at,
       COALESCE(i.total, 0) AS total_invoiced,
       COALESCE(p.total, 0) AS total_paid
FROM customers c
LEFT JOIN (SELECT customer_id, SUM(subtotal) AS total FROM invoices GROUP BY customer_id) i
       ON i.customer_id = c.id
LEFT JOIN (SELECT customer_id, SUM(amount_paid) AS total FROM payments GROUP BY customer_id) p
       ON p.customer_id = c.id
ORDER BY c.id`

// FindAllWithBalance aggregates invoice and payment totals for every customer.
// Each side is grouped separately so a customer with several invoices and
// several payments is not double counted.
func (r *GormCustomerRepository) FindAllWithBalance(ctx context.Context) ([]billing.CustomerBalance, error) {
	var rows []customerBalanceRow
	if err := r.db.WithContext(ctx).Raw(customersWithBalanceSQL).Scan(&rows).Error; err != nil {
		return nil, wrapError("list customer balances", err)
	}

	result := make([]billing.CustomerBalance, len(rows))
	for i, row := range rows {
		result[i] = billing.CustomerBalance{
			Customer: billing.Customer{
				BaseEntity: shared.BaseEntity{ID: row.ID, CreatedAt: row.CreatedAt},
				Name:       row.Name,
				Email:      row.Email,
				Phone:      row.Phone,
				Address:    row.Address,
			},
			TotalInvoiced: billing.RoundMoney(row.TotalInvoiced),
			TotalPaid:     billing.RoundMoney(row.TotalPaid),
		}
	}
	return result, nil
}

// applySearch matches the search term against name, email and phone
func (r *GormCustomerRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	return query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ billing.CustomerRepository = (*GormCustomerRepository)(nil)
