package identity

import (
	"time"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	TenantID uuid.UUID
	Username string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	User        UserInfo
}

// UserInfo contains basic user information
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Username    string    `json:"username"`
	IsSuperuser bool      `json:"is_superuser"`
	Groups      []string  `json:"groups"`
	Status      string    `json:"status"`
}

// CreateUserInput contains the input for creating a user
type CreateUserInput struct {
	TenantID    uuid.UUID
	CompanyID   uuid.UUID
	Username    string
	Password    string
	IsSuperuser bool
	Groups      []string
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	groups := make([]string, len(u.Groups))
	copy(groups, u.Groups)
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		CompanyID:   u.CompanyID,
		Username:    u.Username,
		IsSuperuser: u.IsSuperuser,
		Groups:      groups,
		Status:      string(u.Status),
	}
}

// GrantAccessInput contains the input for granting model access to a group
type GrantAccessInput struct {
	TenantID uuid.UUID
	Model    string
	// Group is empty to grant the modes to every user.
	Group string
	Modes []identity.AccessMode
}
