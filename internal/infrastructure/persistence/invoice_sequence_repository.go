package persistence

import (
	"context"

	"github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceSequenceRepository implements InvoiceSequenceRepository using GORM.
// It must be used inside a transaction for the row lock to mean anything.
type GormInvoiceSequenceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceSequenceRepository creates a new GormInvoiceSequenceRepository
func NewGormInvoiceSequenceRepository(db *gorm.DB) *GormInvoiceSequenceRepository {
	return &GormInvoiceSequenceRepository{db: db}
}

// LockForYear ensures the year's counter row exists, then reads it with
// SELECT ... FOR UPDATE. SQLite ignores the locking clause and relies on
// its database-level write lock instead.
func (r *GormInvoiceSequenceRepository) LockForYear(ctx context.Context, year int) (*billing.InvoiceSequence, error) {
	db := r.db.WithContext(ctx)

	seed := &models.InvoiceSequenceModel{Year: year, LastNumber: 0}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, wrapError("initialise invoice sequence", err)
	}

	var model models.InvoiceSequenceModel
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("year = ?", year).
		First(&model).Error
	if err != nil {
		return nil, notFoundOr("lock invoice sequence", "invoice sequence", uint64(year), err)
	}
	return model.ToDomain(), nil
}

// Save stores the counter's last number
func (r *GormInvoiceSequenceRepository) Save(ctx context.Context, seq *billing.InvoiceSequence) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceSequenceModel{}).
		Where("year = ?", seq.Year).
		Update("last_number", seq.LastNumber)
	if result.Error != nil {
		return wrapError("save invoice sequence", result.Error)
	}
	return nil
}

// FindByYear reads the counter without locking it
func (r *GormInvoiceSequenceRepository) FindByYear(ctx context.Context, year int) (*billing.InvoiceSequence, error) {
	var model models.InvoiceSequenceModel
	if err := r.db.WithContext(ctx).Where("year = ?", year).First(&model).Error; err != nil {
		return nil, notFoundOr("find invoice sequence", "invoice sequence", uint64(year), err)
	}
	return model.ToDomain(), nil
}

// Ensure GormInvoiceSequenceRepository implements InvoiceSequenceRepository
var _ billing.InvoiceSequenceRepository = (*GormInvoiceSequenceRepository)(nil)
