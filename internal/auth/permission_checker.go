package auth

import "context"

const (
	PermEquipmentManage     = "equipment.manage"
	PermEquipmentDelete     = "equipment.delete"
	PermEmployeesManage     = "employees.manage"
	PermWorkOrdersManage    = "workorders.manage"
	PermWorkOrdersValidate  = "workorders.validate"
	PermWorkOrdersDelete    = "workorders.delete"
	PermWorkflowsManage     = "workflows.manage"
	PermInterventionsManage = "interventions.manage"
	PermUsersManage         = "users.manage"
)

// RolePermissions is the default grant table used when seeding.
var RolePermissions = map[string][]string{
	RoleAdministrator: {
		PermEquipmentManage, PermEquipmentDelete, PermEmployeesManage,
		PermWorkOrdersManage, PermWorkOrdersValidate, PermWorkOrdersDelete,
		PermWorkflowsManage, PermInterventionsManage, PermUsersManage,
	},
	RoleManager: {
		PermEquipmentManage, PermEquipmentDelete, PermEmployeesManage,
		PermWorkOrdersManage, PermWorkOrdersValidate, PermWorkOrdersDelete,
		PermWorkflowsManage, PermInterventionsManage,
	},
	RoleTechnician: {PermWorkOrdersManage},
	RoleOperator:   {},
	RoleViewer:     {},
}

type PermissionChecker interface {
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	HasAnyRole(userRoles []string, requiredRoles []string) bool
	IsValidator(userRoles []string) bool
	IsManager(userRoles []string) bool
	IsAdmin(userRoles []string) bool
}

// DefaultPermissionChecker answers from the roles and permissions already
// attached to the principal.
type DefaultPermissionChecker struct{}

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, user *User, permission string) (bool, error) {
	return c.HasAnyPermission(user.Permissions, []string{permission}), nil
}

func (c *DefaultPermissionChecker) HasAnyRoleCtx(ctx context.Context, user *User, roles []string) (bool, error) {
	return c.HasAnyRole(user.Roles, roles), nil
}

func (c *DefaultPermissionChecker) IsValidatorCtx(ctx context.Context, user *User) (bool, error) {
	return c.IsValidator(user.Roles), nil
}

func (c *DefaultPermissionChecker) IsManagerCtx(ctx context.Context, user *User) (bool, error) {
	return c.IsManager(user.Roles), nil
}

func (c *DefaultPermissionChecker) IsAdminCtx(ctx context.Context, user *User) (bool, error) {
	return c.IsAdmin(user.Roles), nil
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	return intersects(userPermissions, requiredPermissions)
}

func (c *DefaultPermissionChecker) HasAnyRole(userRoles []string, requiredRoles []string) bool {
	return intersects(userRoles, requiredRoles)
}

func (c *DefaultPermissionChecker) IsValidator(userRoles []string) bool {
	return intersects(userRoles, ValidatorRoles)
}

func (c *DefaultPermissionChecker) IsManager(userRoles []string) bool {
	return intersects(userRoles, []string{RoleAdministrator, RoleManager})
}

func (c *DefaultPermissionChecker) IsAdmin(userRoles []string) bool {
	return intersects(userRoles, []string{RoleAdministrator})
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
