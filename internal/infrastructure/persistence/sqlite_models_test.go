package persistence

import (
	"testing"
	"time"

	"github.com/erp/productext/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLite has no BIGSERIAL, so tables with a generated seq get their own
// migration structs where seq is the autoincrement key and id stays unique.

type ProductTemplateModelSQLite struct {
	Seq                     int64     `gorm:"primaryKey;autoIncrement"`
	ID                      uuid.UUID `gorm:"type:text;uniqueIndex"`
	TenantID                uuid.UUID `gorm:"type:text;not null;index"`
	Version                 int       `gorm:"not null;default:1"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
	Code                    string          `gorm:"not null"`
	Name                    string          `gorm:"not null"`
	CompanyID               *uuid.UUID      `gorm:"type:text"`
	CurrencyCode            string          `gorm:"not null"`
	ListPrice               decimal.Decimal `gorm:"type:text;not null;default:0"`
	StandardPrice           decimal.Decimal `gorm:"type:text;not null;default:0"`
	ReplenishmentCost       decimal.Decimal `gorm:"type:text;not null;default:0"`
	PackOK                  bool            `gorm:"column:pack_ok;not null;default:false"`
	PackComponentPrice      string          `gorm:"not null;default:'detailed'"`
	Active                  bool            `gorm:"not null;default:true"`
	ListPriceType           string          `gorm:"not null;default:''"`
	ComputedListPriceManual decimal.Decimal `gorm:"type:text;not null;default:0"`
	SaleMargin              decimal.Decimal `gorm:"type:text;not null;default:0"`
	SaleSurcharge           decimal.Decimal `gorm:"type:text;not null;default:0"`
	OtherCurrencyCode       string          `gorm:"not null;default:''"`
	OtherCurrencyListPrice  decimal.Decimal `gorm:"type:text;not null;default:0"`
}

func (ProductTemplateModelSQLite) TableName() string { return "product_templates" }

type CompanyModelSQLite struct {
	Seq          int64     `gorm:"primaryKey;autoIncrement"`
	ID           uuid.UUID `gorm:"type:text;uniqueIndex"`
	TenantID     uuid.UUID `gorm:"type:text;not null;index"`
	Version      int       `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string `gorm:"not null"`
	CurrencyCode string `gorm:"not null"`
}

func (CompanyModelSQLite) TableName() string { return "companies" }

type ConfigParameterModelSQLite struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement"`
	ID        uuid.UUID `gorm:"type:text;uniqueIndex"`
	TenantID  uuid.UUID `gorm:"type:text;not null;uniqueIndex:idx_config_parameter_tenant_key,priority:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Key       string `gorm:"not null;uniqueIndex:idx_config_parameter_tenant_key,priority:2"`
	Value     string `gorm:"not null;default:''"`
}

func (ConfigParameterModelSQLite) TableName() string { return "config_parameters" }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// every pooled connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&ProductTemplateModelSQLite{},
		&CompanyModelSQLite{},
		&ConfigParameterModelSQLite{},
		&models.ProductTemplateTaxModel{},
		&models.ProductVariantModel{},
		&models.CurrencyModel{},
		&models.CurrencyRateModel{},
		&models.TaxModel{},
		&models.PricelistModel{},
		&models.PricelistItemModel{},
		&models.UserModel{},
		&models.UserGroupModel{},
		&models.ModelAccessModel{},
	)
	require.NoError(t, err)
	return db
}
