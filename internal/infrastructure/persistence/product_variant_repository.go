package persistence

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductVariantRepository implements ProductVariantRepository using GORM
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewGormProductVariantRepository creates a new GormProductVariantRepository
func NewGormProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// FindByID finds a variant by ID within a tenant
func (r *GormProductVariantRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductVariant, error) {
	var model models.ProductVariantModel
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

// FindByIDs finds multiple variants by their IDs. Unknown IDs are skipped.
func (r *GormProductVariantRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductVariant, error) {
	if len(ids) == 0 {
		return []*catalog.ProductVariant{}, nil
	}
	var variantModels []models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&variantModels).Error; err != nil {
		return nil, err
	}
	return variantsToDomain(variantModels), nil
}

// FindByTemplate returns the variants of a template ordered by code
func (r *GormProductVariantRepository) FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]*catalog.ProductVariant, error) {
	var variantModels []models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND template_id = ?", tenantID, templateID).
		Order("code ASC").
		Find(&variantModels).Error; err != nil {
		return nil, err
	}
	return variantsToDomain(variantModels), nil
}

// Save creates or updates a variant
func (r *GormProductVariantRepository) Save(ctx context.Context, variant *catalog.ProductVariant) error {
	return r.db.WithContext(ctx).Save(models.ProductVariantModelFromDomain(variant)).Error
}

func variantsToDomain(variantModels []models.ProductVariantModel) []*catalog.ProductVariant {
	variants := make([]*catalog.ProductVariant, len(variantModels))
	for i := range variantModels {
		variants[i] = variantModels[i].ToDomain()
	}
	return variants
}

// Ensure GormProductVariantRepository implements ProductVariantRepository
var _ catalog.ProductVariantRepository = (*GormProductVariantRepository)(nil)
