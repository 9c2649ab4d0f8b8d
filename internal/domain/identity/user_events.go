package identity

import (
	"github.com/erp/productext/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type for users
const AggregateTypeUser = "User"

const (
	EventTypeUserCreated       = "UserCreated"
	EventTypeUserGroupsChanged = "UserGroupsChanged"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.TenantID),
		Username:        user.Username,
	}
}

// UserGroupsChangedEvent is published when group membership changes
type UserGroupsChangedEvent struct {
	shared.BaseDomainEvent
	Groups []string `json:"groups"`
}

// NewUserGroupsChangedEvent creates a new UserGroupsChangedEvent
func NewUserGroupsChangedEvent(user *User) *UserGroupsChangedEvent {
	groups := make([]string, len(user.Groups))
	copy(groups, user.Groups)
	return &UserGroupsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserGroupsChanged, AggregateTypeUser, user.ID, user.TenantID),
		Groups:          groups,
	}
}
