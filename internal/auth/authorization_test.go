package auth

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	errors "github.com/frahmantamala/maintenance-management/internal"
)

type failingAuthorizer struct {
	*DefaultPermissionChecker
}

func (failingAuthorizer) HasPermission(context.Context, *User, string) (bool, error) {
	return false, stderrors.New("permission store down")
}

var _ = ginkgo.Describe("Authorization", func() {
	var (
		manager  *User
		tech     *User
		operator *User
	)

	ginkgo.BeforeEach(func() {
		manager = &User{ID: 1, Roles: []string{RoleManager}, Permissions: RolePermissions[RoleManager]}
		tech = &User{ID: 2, Roles: []string{RoleTechnician}, Permissions: RolePermissions[RoleTechnician]}
		operator = &User{ID: 3, Roles: []string{RoleOperator}}
	})

	ginkgo.Describe("ABACPolicy", func() {
		var policy *ABACPolicy

		ginkgo.BeforeEach(func() {
			policy = NewABACPolicy(nil)
		})

		ginkgo.It("should let the owner update and delete", func() {
			gomega.Expect(policy.Allow(operator, operator.ID, PermInterventionsManage, ActionUpdate)).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(operator, operator.ID, PermInterventionsManage, ActionDelete)).To(gomega.BeTrue())
		})

		ginkgo.It("should refuse a non-owner without the permission", func() {
			err := policy.Authorize(tech, operator.ID, PermInterventionsManage, ActionUpdate)
			gomega.Expect(err).To(gomega.Equal(errors.ErrNotOwner))
		})

		ginkgo.It("should let managers act on anything", func() {
			gomega.Expect(policy.Allow(manager, operator.ID, "", ActionDelete)).To(gomega.BeTrue())
		})

		ginkgo.It("should let anyone read", func() {
			gomega.Expect(policy.Allow(tech, operator.ID, PermInterventionsManage, ActionRead)).To(gomega.BeTrue())
		})

		ginkgo.It("should refuse anonymous principals", func() {
			gomega.Expect(policy.Allow(nil, 1, "", ActionRead)).To(gomega.BeFalse())
		})

		ginkgo.It("should refuse unknown actions to non-owners", func() {
			gomega.Expect(policy.Allow(operator, operator.ID, "", ActionManage)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("RBACAuthorization", func() {
		var (
			rbac   *RBACAuthorization
			called bool
			next   http.Handler
		)

		serve := func(mw func(http.Handler) http.Handler, u *User) int {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if u != nil {
				req = req.WithContext(ContextWithUser(req.Context(), u))
			}
			w := httptest.NewRecorder()
			mw(next).ServeHTTP(w, req)
			return w.Code
		}

		ginkgo.BeforeEach(func() {
			called = false
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusNoContent)
			})
			rbac = NewRBACAuthorization(NewPermissionChecker(), slog.New(slog.NewTextHandler(io.Discard, nil)))
		})

		ginkgo.It("should pass a principal holding the permission", func() {
			gomega.Expect(serve(rbac.Middleware(PermWorkOrdersManage), tech)).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(called).To(gomega.BeTrue())
		})

		ginkgo.It("should forbid a principal lacking the permission", func() {
			gomega.Expect(serve(rbac.Middleware(PermWorkOrdersValidate), tech)).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(called).To(gomega.BeFalse())
		})

		ginkgo.It("should require authentication", func() {
			gomega.Expect(serve(rbac.RequireManager(), nil)).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should restrict validators to Administrator and Manager", func() {
			gomega.Expect(serve(rbac.RequireValidator(), manager)).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(serve(rbac.RequireValidator(), tech)).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should answer 500 when the check fails", func() {
			rbac = NewRBACAuthorization(failingAuthorizer{NewPermissionChecker()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
			gomega.Expect(serve(rbac.Middleware(PermWorkOrdersManage), manager)).To(gomega.Equal(http.StatusInternalServerError))
		})
	})
})
