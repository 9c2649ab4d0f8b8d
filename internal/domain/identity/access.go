package identity

import (
	"fmt"
	"strings"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
)

// AccessMode is the kind of operation being checked
type AccessMode string

const (
	AccessModeRead   AccessMode = "read"
	AccessModeWrite  AccessMode = "write"
	AccessModeCreate AccessMode = "create"
	AccessModeUnlink AccessMode = "unlink"
)

// IsValid returns true for a known access mode
func (m AccessMode) IsValid() bool {
	switch m {
	case AccessModeRead, AccessModeWrite, AccessModeCreate, AccessModeUnlink:
		return true
	}
	return false
}

// Model names guarded by the catalog
const (
	ModelProductTemplate = "product.template"
	ModelProductProduct  = "product.product"
	ModelPricelist       = "product.pricelist"
	ModelIrModel         = "ir.model"
)

// ModelAccess grants operations on a model to a group. An empty Group grants
// them to every user.
type ModelAccess struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	Model      string
	Group      string
	PermRead   bool
	PermWrite  bool
	PermCreate bool
	PermUnlink bool
}

// NewModelAccess creates a rule granting modes on model to group
func NewModelAccess(tenantID uuid.UUID, model, group string, modes ...AccessMode) (*ModelAccess, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model cannot be empty")
	}
	if len(modes) == 0 {
		return nil, shared.NewDomainError("INVALID_ACCESS_MODE", "At least one access mode is required")
	}
	group = strings.TrimSpace(group)
	name := "access_" + strings.ReplaceAll(model, ".", "_")
	if group != "" {
		name += "_" + strings.ReplaceAll(group, ".", "_")
	}
	access := &ModelAccess{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     name,
		Model:    model,
		Group:    group,
	}
	for _, mode := range modes {
		switch mode {
		case AccessModeRead:
			access.PermRead = true
		case AccessModeWrite:
			access.PermWrite = true
		case AccessModeCreate:
			access.PermCreate = true
		case AccessModeUnlink:
			access.PermUnlink = true
		default:
			return nil, shared.NewDomainError("INVALID_ACCESS_MODE", "Unknown access mode: "+string(mode))
		}
	}
	return access, nil
}

// Grants reports whether the rule allows mode
func (a ModelAccess) Grants(mode AccessMode) bool {
	switch mode {
	case AccessModeRead:
		return a.PermRead
	case AccessModeWrite:
		return a.PermWrite
	case AccessModeCreate:
		return a.PermCreate
	case AccessModeUnlink:
		return a.PermUnlink
	}
	return false
}

// AppliesTo reports whether the rule is relevant for the user
func (a ModelAccess) AppliesTo(user *User) bool {
	return a.Group == "" || user.HasGroup(a.Group)
}

// ModelRef is a record of the model registry. Checks may be given a ModelRef
// instead of a model name; only records of kind "ir.model" are accepted.
type ModelRef struct {
	Kind  string
	Model string
}

// ErrInvalidModel is returned when a check receives something that is not a
// model name nor a model registry record
var ErrInvalidModel = shared.NewDomainError("INVALID_MODEL", "Invalid model object")

// ResolveModel returns the model name designated by model
func ResolveModel(model any) (string, error) {
	switch m := model.(type) {
	case string:
		return m, nil
	case ModelRef:
		return resolveRef(&m)
	case *ModelRef:
		if m == nil {
			return "", ErrInvalidModel
		}
		return resolveRef(m)
	default:
		return "", shared.NewDomainError(ErrInvalidModel.Code, fmt.Sprintf("Invalid model object of type %T", model))
	}
}

func resolveRef(ref *ModelRef) (string, error) {
	if ref.Kind != ModelIrModel {
		return "", ErrInvalidModel
	}
	return ref.Model, nil
}
