// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: base persistence models (BaseModel, TenantAggregateModel)
//   - catalog.go: product templates, variants and their taxes
//   - finance.go: companies, currencies, rates and taxes
//   - pricing.go: pricelists and pricelist items
//   - identity.go: users, groups and model access rules
//   - settings.go: config parameters
//
// Columns named seq are BIGSERIAL and assigned by the database. Models map
// them read-only so inserts never write them.
package models
