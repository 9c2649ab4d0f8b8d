package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductTemplateRepository implements ProductTemplateRepository using GORM
type GormProductTemplateRepository struct {
	db *gorm.DB
}

// NewGormProductTemplateRepository creates a new GormProductTemplateRepository
func NewGormProductTemplateRepository(db *gorm.DB) *GormProductTemplateRepository {
	return &GormProductTemplateRepository{db: db}
}

// FindByID finds a template by ID within a tenant
func (r *GormProductTemplateRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductTemplate, error) {
	var model models.ProductTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.withTaxes(ctx, &model)
}

// FindByCode finds a template by its code within a tenant
func (r *GormProductTemplateRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.ProductTemplate, error) {
	var model models.ProductTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.withTaxes(ctx, &model)
}

// FindByIDs finds multiple templates by their IDs. Unknown IDs are skipped.
func (r *GormProductTemplateRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductTemplate, error) {
	if len(ids) == 0 {
		return []*catalog.ProductTemplate{}, nil
	}
	var templateModels []models.ProductTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&templateModels).Error; err != nil {
		return nil, err
	}
	return r.toDomain(ctx, templateModels)
}

// FindAll finds the templates matching the filter
func (r *GormProductTemplateRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.ProductTemplate, int64, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ProductTemplateModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, ProductTemplateSortFields, "code")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var templateModels []models.ProductTemplateModel
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&templateModels).Error; err != nil {
		return nil, 0, err
	}

	templates, err := r.toDomain(ctx, templateModels)
	if err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

// FindWithPlannedPriceAfter returns up to limit templates with a list price
// type set and seq greater than afterSeq, in seq order
func (r *GormProductTemplateRepository) FindWithPlannedPriceAfter(ctx context.Context, tenantID uuid.UUID, afterSeq int64, limit int) ([]*catalog.ProductTemplate, error) {
	var templateModels []models.ProductTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND list_price_type <> '' AND seq > ?", tenantID, afterSeq).
		Order("seq ASC").
		Limit(limit).
		Find(&templateModels).Error; err != nil {
		return nil, err
	}
	return r.toDomain(ctx, templateModels)
}

// FindTenantsWithPlannedPrices lists the tenants owning planned prices
func (r *GormProductTemplateRepository) FindTenantsWithPlannedPrices(ctx context.Context) ([]uuid.UUID, error) {
	var tenantIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ProductTemplateModel{}).
		Where("list_price_type <> ''").
		Distinct("tenant_id").
		Order("tenant_id").
		Pluck("tenant_id", &tenantIDs).Error; err != nil {
		return nil, err
	}
	return tenantIDs, nil
}

// ExistsByCode checks if a template with the given code exists in the tenant
func (r *GormProductTemplateRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductTemplateModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a template and replaces its taxes
func (r *GormProductTemplateRepository) Save(ctx context.Context, tmpl *catalog.ProductTemplate) error {
	model := models.ProductTemplateModelFromDomain(tmpl)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", tmpl.ID).Delete(&models.ProductTemplateTaxModel{}).Error; err != nil {
			return err
		}
		if len(tmpl.TaxIDs) == 0 {
			return nil
		}
		now := time.Now()
		links := make([]models.ProductTemplateTaxModel, len(tmpl.TaxIDs))
		for i, taxID := range tmpl.TaxIDs {
			links[i] = models.ProductTemplateTaxModel{
				TemplateID: tmpl.ID,
				TaxID:      taxID,
				TenantID:   tmpl.TenantID,
				Position:   i,
				CreatedAt:  now,
			}
		}
		return tx.Create(&links).Error
	})
}

// UpdateListPrice writes the list price with a single UPDATE statement.
// Version and timestamps are left untouched.
func (r *GormProductTemplateRepository) UpdateListPrice(ctx context.Context, id uuid.UUID, listPrice decimal.Decimal) error {
	result := r.db.WithContext(ctx).Exec("UPDATE product_templates SET list_price = ? WHERE id = ?", listPrice, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductTemplateRepository) withTaxes(ctx context.Context, model *models.ProductTemplateModel) (*catalog.ProductTemplate, error) {
	templates, err := r.toDomain(ctx, []models.ProductTemplateModel{*model})
	if err != nil {
		return nil, err
	}
	return templates[0], nil
}

// toDomain converts models and attaches their taxes with one query
func (r *GormProductTemplateRepository) toDomain(ctx context.Context, templateModels []models.ProductTemplateModel) ([]*catalog.ProductTemplate, error) {
	if len(templateModels) == 0 {
		return []*catalog.ProductTemplate{}, nil
	}
	ids := make([]uuid.UUID, len(templateModels))
	for i := range templateModels {
		ids[i] = templateModels[i].ID
	}

	var links []models.ProductTemplateTaxModel
	if err := r.db.WithContext(ctx).
		Where("template_id IN ?", ids).
		Order("template_id, position").
		Find(&links).Error; err != nil {
		return nil, err
	}
	taxIDs := make(map[uuid.UUID][]uuid.UUID, len(templateModels))
	for _, link := range links {
		taxIDs[link.TemplateID] = append(taxIDs[link.TemplateID], link.TaxID)
	}

	templates := make([]*catalog.ProductTemplate, len(templateModels))
	for i := range templateModels {
		templates[i] = templateModels[i].ToDomain(taxIDs[templateModels[i].ID])
	}
	return templates, nil
}

func (r *GormProductTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", search, search)
	}
	if v, ok := filter.Filters["list_price_type"]; ok {
		query = query.Where("list_price_type = ?", v)
	}
	if v, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", v)
	}
	return query
}

// Ensure GormProductTemplateRepository implements ProductTemplateRepository
var _ catalog.ProductTemplateRepository = (*GormProductTemplateRepository)(nil)
