package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/maintenance-management/internal/transport"
)

type PermissionAuthorizer interface {
	HasPermission(ctx context.Context, user *User, permission string) (bool, error)
	HasAnyRoleCtx(ctx context.Context, user *User, roles []string) (bool, error)
	IsValidatorCtx(ctx context.Context, user *User) (bool, error)
	IsManagerCtx(ctx context.Context, user *User) (bool, error)
	IsAdminCtx(ctx context.Context, user *User) (bool, error)
}

type RBACAuthorization struct {
	authorizer PermissionAuthorizer
	logger     *slog.Logger
	base       *transport.BaseHandler
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		authorizer: authorizer,
		logger:     logger,
		base:       transport.NewBaseHandler(logger),
	}
}

// guard runs check against the request principal and answers 401, 403 or 500
// before next when it does not pass.
func (ra *RBACAuthorization) guard(name string, check func(ctx context.Context, u *User) (bool, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context", "check", name)
				ra.base.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			allowed, err := check(r.Context(), user)
			if err != nil {
				ra.logger.ErrorContext(r.Context(), "authorization check failed", "check", name, "error", err, "user_id", user.ID)
				ra.base.WriteError(w, http.StatusInternalServerError, "An internal error occurred")
				return
			}

			if !allowed {
				ra.logger.WarnContext(r.Context(), "access denied",
					"check", name,
					"user_id", user.ID,
					"user_roles", user.Roles)
				ra.base.WriteError(w, http.StatusForbidden, "Insufficient role for this operation")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, permission string) http.HandlerFunc {
	return ra.Middleware(permission)(next).ServeHTTP
}

// Middleware requires a permission.
func (ra *RBACAuthorization) Middleware(permission string) func(http.Handler) http.Handler {
	return ra.guard("permission:"+permission, func(ctx context.Context, u *User) (bool, error) {
		return ra.authorizer.HasPermission(ctx, u, permission)
	})
}

// RequireRoles passes when the principal holds any of roles.
func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return ra.guard("roles", func(ctx context.Context, u *User) (bool, error) {
		return ra.authorizer.HasAnyRoleCtx(ctx, u, roles)
	})
}

func (ra *RBACAuthorization) RequireValidator() func(http.Handler) http.Handler {
	return ra.guard("validator", ra.authorizer.IsValidatorCtx)
}

func (ra *RBACAuthorization) RequireManager() func(http.Handler) http.Handler {
	return ra.guard("manager", ra.authorizer.IsManagerCtx)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.guard("admin", ra.authorizer.IsAdminCtx)
}
