package persistence

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/settings"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConfigParameterRepository implements ConfigParameterRepository using GORM
type GormConfigParameterRepository struct {
	db *gorm.DB
}

// NewGormConfigParameterRepository creates a new GormConfigParameterRepository
func NewGormConfigParameterRepository(db *gorm.DB) *GormConfigParameterRepository {
	return &GormConfigParameterRepository{db: db}
}

// FindByKey finds a parameter by key
func (r *GormConfigParameterRepository) FindByKey(ctx context.Context, tenantID uuid.UUID, key string) (*settings.ConfigParameter, error) {
	var model models.ConfigParameterModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND key = ?", tenantID, key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a parameter. The key is unique per tenant.
func (r *GormConfigParameterRepository) Create(ctx context.Context, param *settings.ConfigParameter) error {
	model := &models.ConfigParameterModel{}
	model.FromDomain(param)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	// seq is generated by the database
	var seq int64
	if err := r.db.WithContext(ctx).
		Model(&models.ConfigParameterModel{}).
		Where("id = ?", param.ID).
		Pluck("seq", &seq).Error; err != nil {
		return err
	}
	param.Seq = seq
	return nil
}

// UpdateValue writes value with a raw UPDATE so no hook or cached row is involved
func (r *GormConfigParameterRepository) UpdateValue(ctx context.Context, id uuid.UUID, value string) error {
	result := r.db.WithContext(ctx).Exec("UPDATE config_parameters SET value = ? WHERE id = ?", value, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormConfigParameterRepository implements ConfigParameterRepository
var _ settings.ConfigParameterRepository = (*GormConfigParameterRepository)(nil)
