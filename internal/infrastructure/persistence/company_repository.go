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

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Company, error) {
	var model models.CompanyModel
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

// FindFirst returns the company with the lowest sequence
func (r *GormCompanyRepository) FindFirst(ctx context.Context, tenantID uuid.UUID) (*finance.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("seq ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *finance.Company) error {
	model := &models.CompanyModel{}
	model.FromDomain(company)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ finance.CompanyRepository = (*GormCompanyRepository)(nil)
