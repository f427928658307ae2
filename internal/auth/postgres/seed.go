package postgres

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
)

var roleDescriptions = map[string]string{
	auth.RoleAdministrator: "Full access, manages users and roles",
	auth.RoleManager:       "Plans and validates maintenance work",
	auth.RoleTechnician:    "Executes work orders",
	auth.RoleOperator:      "Files intervention requests",
	auth.RoleViewer:        "Read-only access",
}

// SeedAccessControl makes sure every role, every permission and the default
// grants of auth.RolePermissions exist. Running it twice is a no-op.
func SeedAccessControl(ctx context.Context, db *gorm.DB) error {
	conn := database.Conn(ctx, db)

	roleNames := make([]string, 0, len(auth.RolePermissions))
	for name := range auth.RolePermissions {
		roleNames = append(roleNames, name)
	}
	sort.Strings(roleNames)

	permissions := map[string]int64{}
	for _, roleName := range roleNames {
		role := userDatamodel.Role{Name: roleName, Description: roleDescriptions[roleName]}
		if err := conn.Where(userDatamodel.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roleName, err)
		}

		for _, permName := range auth.RolePermissions[roleName] {
			permID, ok := permissions[permName]
			if !ok {
				perm := userDatamodel.Permission{Name: permName}
				if err := conn.Where(userDatamodel.Permission{Name: permName}).FirstOrCreate(&perm).Error; err != nil {
					return fmt.Errorf("seed permission %s: %w", permName, err)
				}
				permID = perm.ID
				permissions[permName] = permID
			}

			grant := userDatamodel.RolePermission{RoleID: role.ID, PermissionID: permID}
			if err := conn.Where(grant).FirstOrCreate(&grant).Error; err != nil {
				return fmt.Errorf("grant %s to %s: %w", permName, roleName, err)
			}
		}
	}
	return nil
}

// EnsureUser creates user unless the username is taken, then grants roles.
// The stored row is written back into user.
func EnsureUser(ctx context.Context, db *gorm.DB, user *userDatamodel.User, roles ...string) error {
	conn := database.Conn(ctx, db)

	if err := conn.Where(userDatamodel.User{Username: user.Username}).FirstOrCreate(user).Error; err != nil {
		return fmt.Errorf("seed user %s: %w", user.Username, err)
	}

	for _, roleName := range roles {
		var role userDatamodel.Role
		if err := conn.Where("name = ?", roleName).First(&role).Error; err != nil {
			return fmt.Errorf("role %s: %w", roleName, err)
		}
		link := userDatamodel.UserRole{UserID: user.ID, RoleID: role.ID}
		if err := conn.Where(link).FirstOrCreate(&link).Error; err != nil {
			return fmt.Errorf("grant role %s to %s: %w", roleName, user.Username, err)
		}
	}
	return nil
}
