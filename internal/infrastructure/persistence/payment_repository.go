package persistence

import (
	"context"

	"github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a payment and copies the generated ID back
func (r *GormPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Omit("Customer").Create(model).Error; err != nil {
		return wrapError("create payment", err)
	}
	payment.ID = model.ID
	payment.CreatedAt = model.CreatedAt
	return nil
}

// FindAll finds payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Payment, error) {
	filter = filter.Normalize()

	var paymentModels []models.PaymentModel
	err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Preload("Customer").
		Order(orderClause(filter, PaymentSortFields)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&paymentModels).Error
	if err != nil {
		return nil, wrapError("list payments", err)
	}
	return paymentsToDomain(paymentModels), nil
}

// FindByCustomer finds every payment of a customer, newest first
func (r *GormPaymentRepository) FindByCustomer(ctx context.Context, customerID uint64) ([]billing.Payment, error) {
	var paymentModels []models.PaymentModel
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("customer_id = ?", customerID).
		Order("payment_date DESC, id DESC").
		Find(&paymentModels).Error
	if err != nil {
		return nil, wrapError("list customer payments", err)
	}
	return paymentsToDomain(paymentModels), nil
}

// Count counts all payments
func (r *GormPaymentRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).Count(&count).Error; err != nil {
		return 0, wrapError("count payments", err)
	}
	return count, nil
}

// SumAmountByCustomer totals payments for a customer
func (r *GormPaymentRepository) SumAmountByCustomer(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	var result sumResult
	err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount_paid), 0) AS total").
		Where("customer_id = ?", customerID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, wrapError("sum payments", err)
	}
	return billing.RoundMoney(result.Total), nil
}

func paymentsToDomain(paymentModels []models.PaymentModel) []billing.Payment {
	payments := make([]billing.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return payments
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
