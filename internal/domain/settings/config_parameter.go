package settings

import (
	"strconv"
	"strings"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
)

// ConfigParameter is a tenant-scoped key/value setting
type ConfigParameter struct {
	shared.BaseEntity
	// Seq is assigned by storage and addresses the row in direct updates.
	Seq      int64
	TenantID uuid.UUID
	Key      string
	Value    string
}

// NewConfigParameter creates a parameter with an initial value
func NewConfigParameter(tenantID uuid.UUID, key, value string) (*ConfigParameter, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Parameter key cannot be empty")
	}
	if len(key) > 255 {
		return nil, shared.NewDomainError("INVALID_KEY", "Parameter key cannot exceed 255 characters")
	}
	return &ConfigParameter{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Key:        key,
		Value:      value,
	}, nil
}

// Int64Value parses the value as an integer. Empty values read as zero.
func (p *ConfigParameter) Int64Value() (int64, error) {
	v := strings.TrimSpace(p.Value)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, shared.NewDomainError("INVALID_PARAMETER", "Parameter "+p.Key+" is not an integer: "+p.Value)
	}
	return n, nil
}
