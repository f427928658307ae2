package auth

import (
	"context"
	"slices"
	"time"

	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
)

const (
	RoleAdministrator = "Administrator"
	RoleManager       = "Manager"
	RoleTechnician    = "Technician"
	RoleOperator      = "Operator"
	RoleViewer        = "Viewer"
)

// ValidatorRoles may validate work orders.
var ValidatorRoles = []string{RoleAdministrator, RoleManager}

// User is the authenticated principal attached to a request.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   *string  `json:"firstName,omitempty"`
	LastName    *string  `json:"lastName,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	TokenID     string   `json:"-"`
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

func (u *User) HasPermission(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

func (u *User) HasAnyPermission(permissions []string) bool {
	for _, p := range permissions {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

func (u *User) IsManager() bool {
	return u.HasAnyRole(RoleAdministrator, RoleManager)
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdministrator)
}

// UserInfo is the public view of a principal.
type UserInfo struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName *string  `json:"firstName,omitempty"`
	LastName  *string  `json:"lastName,omitempty"`
	Roles     []string `json:"roles"`
}

func newUserInfo(row *userDatamodel.User, roles []string) UserInfo {
	if roles == nil {
		roles = []string{}
	}
	return UserInfo{
		ID:        row.ID,
		Username:  row.Username,
		Email:     row.Email,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Roles:     roles,
	}
}

// AuthResult is returned by login, register and refresh.
type AuthResult struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Expiry       time.Time `json:"expiry"`
	User         UserInfo  `json:"user"`
}

type ResetTokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
