package persistence

import (
	"context"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormModelAccessRepository implements ModelAccessRepository using GORM
type GormModelAccessRepository struct {
	db *gorm.DB
}

// NewGormModelAccessRepository creates a new GormModelAccessRepository
func NewGormModelAccessRepository(db *gorm.DB) *GormModelAccessRepository {
	return &GormModelAccessRepository{db: db}
}

// FindByModel returns the access rules of a model
func (r *GormModelAccessRepository) FindByModel(ctx context.Context, tenantID uuid.UUID, model string) ([]identity.ModelAccess, error) {
	var accessModels []models.ModelAccessModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND model = ?", tenantID, model).
		Order("name").
		Find(&accessModels).Error; err != nil {
		return nil, err
	}
	rules := make([]identity.ModelAccess, len(accessModels))
	for i := range accessModels {
		rules[i] = accessModels[i].ToDomain()
	}
	return rules, nil
}

// Save creates or updates an access rule
func (r *GormModelAccessRepository) Save(ctx context.Context, access *identity.ModelAccess) error {
	model := &models.ModelAccessModel{}
	model.FromDomain(access)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormModelAccessRepository implements ModelAccessRepository
var _ identity.ModelAccessRepository = (*GormModelAccessRepository)(nil)
