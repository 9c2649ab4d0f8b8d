package persistence

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCurrencyRepository implements CurrencyRepository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByCode finds a currency and its rates by ISO code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code valueobject.CurrencyCode) (*finance.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).
		Preload("Rates", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		}).
		Where("tenant_id = ? AND code = ?", tenantID, code.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a currency and replaces its rates
func (r *GormCurrencyRepository) Save(ctx context.Context, currency *finance.Currency) error {
	model := &models.CurrencyModel{}
	model.FromDomain(currency)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Rates").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("currency_id = ?", currency.ID).Delete(&models.CurrencyRateModel{}).Error; err != nil {
			return err
		}
		if len(model.Rates) == 0 {
			return nil
		}
		return tx.Create(&model.Rates).Error
	})
}

// Ensure GormCurrencyRepository implements CurrencyRepository
var _ finance.CurrencyRepository = (*GormCurrencyRepository)(nil)
