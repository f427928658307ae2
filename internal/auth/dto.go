package auth

import (
	"strings"

	"github.com/frahmantamala/maintenance-management/internal/core/common/validation"
)

// LoginDTO accepts either a username or an email in Username.
type LoginDTO struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", strings.TrimSpace(d.Username)).Required()
	v.Field("password", d.Password).Required()
	return v.Err()
}

type RegisterDTO struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Role            *string `json:"role,omitempty"`
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(50)
	v.Field("email", d.Email).Required().Email().MaxLength(100)
	v.Field("password", d.Password).Required().MinLength(6).MaxLength(100)
	v.Field("confirmPassword", d.ConfirmPassword).Equals(d.Password, "passwords do not match")
	v.Field("firstName", d.FirstName).MaxLength(100)
	v.Field("lastName", d.LastName).MaxLength(100)
	return v.Err()
}

// RequestedRole defaults to Operator.
func (d RegisterDTO) RequestedRole() string {
	if d.Role == nil || strings.TrimSpace(*d.Role) == "" {
		return RoleOperator
	}
	return strings.TrimSpace(*d.Role)
}

// RefreshTokenDTO carries the previous session token. The paired refresh token
// is accepted for compatibility but carries no claims.
type RefreshTokenDTO struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (d RefreshTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("token", d.Token).Required()
	return v.Err()
}

type ChangePasswordDTO struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (d ChangePasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("currentPassword", d.CurrentPassword).Required()
	v.Field("newPassword", d.NewPassword).Required().MinLength(6).MaxLength(100)
	v.Field("confirmNewPassword", d.ConfirmNewPassword).Equals(d.NewPassword, "passwords do not match")
	return v.Err()
}

type ResetPasswordTokenDTO struct {
	Email string `json:"email"`
}

func (d ResetPasswordTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	return v.Err()
}

type ResetPasswordDTO struct {
	Email              string `json:"email"`
	Token              string `json:"token"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (d ResetPasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("token", d.Token).Required()
	v.Field("newPassword", d.NewPassword).Required().MinLength(6).MaxLength(100)
	v.Field("confirmNewPassword", d.ConfirmNewPassword).Equals(d.NewPassword, "passwords do not match")
	return v.Err()
}

type RoleAssignmentDTO struct {
	UserID   int64  `json:"userId"`
	RoleName string `json:"roleName"`
}

func (d RoleAssignmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", d.UserID).Required().Min(1)
	v.Field("roleName", strings.TrimSpace(d.RoleName)).Required()
	return v.Err()
}
