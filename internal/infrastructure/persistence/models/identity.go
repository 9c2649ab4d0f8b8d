package models

import (
	"time"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	TenantAggregateModel
	Username     string              `gorm:"type:varchar(100);not null;index"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	CompanyID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	IsSuperuser  bool                `gorm:"not null;default:false"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
// Groups live in their own table and are attached by the repository.
func (m *UserModel) ToDomain(groups []string) *identity.User {
	if groups == nil {
		groups = make([]string, 0)
	}
	return &identity.User{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Username:            m.Username,
		PasswordHash:        m.PasswordHash,
		CompanyID:           m.CompanyID,
		IsSuperuser:         m.IsSuperuser,
		Status:              m.Status,
		Groups:              groups,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.CompanyID = u.CompanyID
	m.IsSuperuser = u.IsSuperuser
	m.Status = u.Status
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserGroupModel is the persistence model for the user/group relationship.
type UserGroupModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupName string    `gorm:"column:group_name;type:varchar(200);primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserGroupModel) TableName() string {
	return "user_groups"
}

// ModelAccessModel is the persistence model for a model access rule.
type ModelAccessModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index:idx_model_access_tenant_model,priority:1"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Model      string    `gorm:"type:varchar(100);not null;index:idx_model_access_tenant_model,priority:2"`
	GroupName  string    `gorm:"column:group_name;type:varchar(200);not null;default:''"`
	PermRead   bool      `gorm:"not null;default:false"`
	PermWrite  bool      `gorm:"not null;default:false"`
	PermCreate bool      `gorm:"not null;default:false"`
	PermUnlink bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ModelAccessModel) TableName() string {
	return "model_access"
}

// ToDomain converts the persistence model to a domain ModelAccess.
func (m *ModelAccessModel) ToDomain() identity.ModelAccess {
	return identity.ModelAccess{
		ID:         m.ID,
		TenantID:   m.TenantID,
		Name:       m.Name,
		Model:      m.Model,
		Group:      m.GroupName,
		PermRead:   m.PermRead,
		PermWrite:  m.PermWrite,
		PermCreate: m.PermCreate,
		PermUnlink: m.PermUnlink,
	}
}

// FromDomain populates the persistence model from a domain ModelAccess.
func (m *ModelAccessModel) FromDomain(a *identity.ModelAccess) {
	m.ID = a.ID
	m.TenantID = a.TenantID
	m.Name = a.Name
	m.Model = a.Model
	m.GroupName = a.Group
	m.PermRead = a.PermRead
	m.PermWrite = a.PermWrite
	m.PermCreate = a.PermCreate
	m.PermUnlink = a.PermUnlink
}
