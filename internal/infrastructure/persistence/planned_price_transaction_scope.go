package persistence

import (
	"context"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/settings"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Repositories handed to fn share the transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. The transaction is rolled
// back when fn returns an error and committed otherwise.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos catalogapp.PlannedPriceRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Templates returns the template repository bound to the transaction.
func (r *gormTransactionalRepositories) Templates() catalog.ProductTemplateRepository {
	return NewGormProductTemplateRepository(r.tx)
}

// Parameters returns the config parameter repository bound to the transaction.
func (r *gormTransactionalRepositories) Parameters() settings.ConfigParameterRepository {
	return NewGormConfigParameterRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ catalogapp.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements PlannedPriceRepositories
var _ catalogapp.PlannedPriceRepositories = (*gormTransactionalRepositories)(nil)
