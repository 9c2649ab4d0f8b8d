package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/productext/internal/domain/pricing"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPricelistRepository implements PricelistRepository using GORM
type GormPricelistRepository struct {
	db *gorm.DB
}

// NewGormPricelistRepository creates a new GormPricelistRepository
func NewGormPricelistRepository(db *gorm.DB) *GormPricelistRepository {
	return &GormPricelistRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC, id ASC")
}

// FindByID loads a pricelist with its items
func (r *GormPricelistRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pricing.Pricelist, error) {
	var model models.PricelistModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists pricelists with their items
func (r *GormPricelistRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*pricing.Pricelist, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PricelistModel{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if v, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, PricelistSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var pricelistModels []models.PricelistModel
	if err := query.
		Preload("Items", preloadItems).
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&pricelistModels).Error; err != nil {
		return nil, 0, err
	}

	pricelists := make([]*pricing.Pricelist, len(pricelistModels))
	for i := range pricelistModels {
		pricelists[i] = pricelistModels[i].ToDomain()
	}
	return pricelists, total, nil
}

// Save creates or updates a pricelist and replaces its items
func (r *GormPricelistRepository) Save(ctx context.Context, pricelist *pricing.Pricelist) error {
	model := &models.PricelistModel{}
	model.FromDomain(pricelist)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("pricelist_id = ?", pricelist.ID).Delete(&models.PricelistItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// Ensure GormPricelistRepository implements PricelistRepository
var _ pricing.PricelistRepository = (*GormPricelistRepository)(nil)
