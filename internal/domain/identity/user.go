package identity

import (
	"regexp"
	"slices"
	"strings"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

const bcryptCost = 12

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is an account that operates on the catalog.
// Groups hold qualified group identifiers such as
// "product_management_group.group_products_management".
type User struct {
	shared.TenantAggregateRoot
	Username     string
	PasswordHash string
	CompanyID    uuid.UUID
	IsSuperuser  bool
	Status       UserStatus
	Groups       []string
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID, companyID uuid.UUID, username, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        string(hash),
		CompanyID:           companyID,
		Status:              UserStatusActive,
		Groups:              make([]string, 0),
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HasGroup reports whether the user belongs to the group
func (u *User) HasGroup(group string) bool {
	return slices.Contains(u.Groups, group)
}

// AddGroup adds the user to a group
func (u *User) AddGroup(group string) error {
	group = strings.TrimSpace(group)
	if group == "" {
		return shared.NewDomainError("INVALID_GROUP", "Group cannot be empty")
	}
	if u.HasGroup(group) {
		return nil
	}
	u.Groups = append(u.Groups, group)
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserGroupsChangedEvent(u))
	return nil
}

// RemoveGroup removes the user from a group
func (u *User) RemoveGroup(group string) {
	idx := slices.Index(u.Groups, group)
	if idx < 0 {
		return
	}
	u.Groups = slices.Delete(u.Groups, idx, idx+1)
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserGroupsChangedEvent(u))
}

// Deactivate prevents the user from signing in
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.Touch()
	u.IncrementVersion()
}

// IsActive returns true if the user can sign in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}
