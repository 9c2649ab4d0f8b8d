package persistence

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaxRepository implements TaxRepository using GORM
type GormTaxRepository struct {
	db *gorm.DB
}

// NewGormTaxRepository creates a new GormTaxRepository
func NewGormTaxRepository(db *gorm.DB) *GormTaxRepository {
	return &GormTaxRepository{db: db}
}

// FindByID finds a tax by ID
func (r *GormTaxRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Tax, error) {
	var model models.TaxModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the active taxes among ids in sequence order
func (r *GormTaxRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (finance.Taxes, error) {
	if len(ids) == 0 {
		return finance.Taxes{}, nil
	}
	var taxModels []models.TaxModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ? AND active = ?", tenantID, ids, true).
		Order("sequence ASC, id ASC").
		Find(&taxModels).Error; err != nil {
		return nil, err
	}
	taxes := make(finance.Taxes, len(taxModels))
	for i := range taxModels {
		taxes[i] = taxModels[i].ToDomain()
	}
	return taxes, nil
}

// Save creates or updates a tax
func (r *GormTaxRepository) Save(ctx context.Context, tax *finance.Tax) error {
	model := &models.TaxModel{}
	model.FromDomain(tax)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormTaxRepository implements TaxRepository
var _ finance.TaxRepository = (*GormTaxRepository)(nil)
