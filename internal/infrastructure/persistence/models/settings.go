package models

import (
	"github.com/erp/productext/internal/domain/settings"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
)

// ConfigParameterModel is the persistence model for a config parameter.
type ConfigParameterModel struct {
	BaseModel
	Seq      int64     `gorm:"column:seq;->"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_config_parameter_tenant_key,priority:1"`
	Key      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_config_parameter_tenant_key,priority:2"`
	Value    string    `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (ConfigParameterModel) TableName() string {
	return "config_parameters"
}

// ToDomain converts the persistence model to a domain ConfigParameter.
func (m *ConfigParameterModel) ToDomain() *settings.ConfigParameter {
	return &settings.ConfigParameter{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Seq:      m.Seq,
		TenantID: m.TenantID,
		Key:      m.Key,
		Value:    m.Value,
	}
}

// FromDomain populates the persistence model from a domain ConfigParameter.
func (m *ConfigParameterModel) FromDomain(p *settings.ConfigParameter) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Seq = p.Seq
	m.TenantID = p.TenantID
	m.Key = p.Key
	m.Value = p.Value
}
