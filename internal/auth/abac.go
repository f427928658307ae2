package auth

import (
	errors "github.com/frahmantamala/maintenance-management/internal"
)

const (
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// ABACPolicy decides access to resources that have an owning user, such as
// intervention requests.
type ABACPolicy struct {
	checker PermissionChecker
}

func NewABACPolicy(checker PermissionChecker) *ABACPolicy {
	if checker == nil {
		checker = NewPermissionChecker()
	}
	return &ABACPolicy{checker: checker}
}

// Allow grants managers every action, holders of permission every action, any
// principal read access and the owner update and delete.
func (p *ABACPolicy) Allow(u *User, ownerID int64, permission string, action string) bool {
	if u == nil || u.ID == 0 {
		return false
	}
	if p.checker.IsManager(u.Roles) {
		return true
	}
	if permission != "" && p.checker.HasAnyPermission(u.Permissions, []string{permission}) {
		return true
	}

	switch action {
	case ActionRead:
		return true
	case ActionUpdate, ActionDelete:
		return u.ID == ownerID
	}
	return false
}

// Authorize is Allow returning ErrNotOwner on refusal.
func (p *ABACPolicy) Authorize(u *User, ownerID int64, permission string, action string) error {
	if p.Allow(u, ownerID, permission, action) {
		return nil
	}
	return errors.ErrNotOwner
}
