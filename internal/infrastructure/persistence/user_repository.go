package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID, groups included
func (r *GormUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.withGroups(ctx, &model)
}

// FindByUsername finds a user by username within the tenant
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(username) = ?", tenantID, strings.ToLower(strings.TrimSpace(username))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.withGroups(ctx, &model)
}

// Save creates or updates a user and replaces its groups
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserGroupModel{}).Error; err != nil {
			return err
		}
		if len(user.Groups) > 0 {
			groupModels := make([]models.UserGroupModel, len(user.Groups))
			for i, group := range user.Groups {
				groupModels[i] = models.UserGroupModel{
					UserID:    user.ID,
					GroupName: group,
					TenantID:  user.TenantID,
					CreatedAt: time.Now(),
				}
			}
			if err := tx.Create(&groupModels).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormUserRepository) withGroups(ctx context.Context, model *models.UserModel) (*identity.User, error) {
	var groupModels []models.UserGroupModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", model.ID).
		Order("group_name").
		Find(&groupModels).Error; err != nil {
		return nil, err
	}
	groups := make([]string, len(groupModels))
	for i, g := range groupModels {
		groups[i] = g.GroupName
	}
	return model.ToDomain(groups), nil
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
