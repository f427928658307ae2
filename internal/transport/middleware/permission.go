package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/transport"
)

// RequirePermissions passes when the principal holds any of permissions.
func RequirePermissions(lg *slog.Logger, permissions ...string) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				base.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !user.HasAnyPermission(permissions) {
				base.Logger.WarnContext(r.Context(), "access denied: user lacks required permissions",
					"user_id", user.ID,
					"required_permissions", permissions,
					"user_permissions", user.Permissions)
				base.WriteError(w, http.StatusForbidden, "Insufficient permissions for this operation")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
