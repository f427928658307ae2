package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) first(ctx context.Context, query string, arg interface{}) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := database.Conn(ctx, r.db).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AuthRepository) GetUserByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetUserByEmail matches case-insensitively; emails are stored lower-cased.
func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *userDatamodel.User) error {
	return database.Conn(ctx, r.db).Create(user).Error
}

func (r *AuthRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return database.Conn(ctx, r.db).Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *AuthRepository) GetRoleByName(ctx context.Context, name string) (*userDatamodel.Role, error) {
	var role userDatamodel.Role
	err := database.Conn(ctx, r.db).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *AuthRepository) GetUserRoles(ctx context.Context, userID int64) ([]string, error) {
	var roles []string
	err := database.Conn(ctx, r.db).
		Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &roles).Error
	return roles, err
}

func (r *AuthRepository) GetPermissionsForRoles(ctx context.Context, roles []string) ([]string, error) {
	if len(roles) == 0 {
		return []string{}, nil
	}
	var permissions []string
	err := database.Conn(ctx, r.db).
		Table("permissions").
		Distinct().
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.name IN ?", roles).
		Order("permissions.name ASC").
		Pluck("permissions.name", &permissions).Error
	return permissions, err
}

func (r *AuthRepository) HasRole(ctx context.Context, userID, roleID int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&userDatamodel.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	return count > 0, err
}

func (r *AuthRepository) AddUserRole(ctx context.Context, assignment *userDatamodel.UserRole) error {
	return database.Conn(ctx, r.db).Create(assignment).Error
}

func (r *AuthRepository) RemoveUserRole(ctx context.Context, userID, roleID int64) error {
	return database.Conn(ctx, r.db).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&userDatamodel.UserRole{}).Error
}
