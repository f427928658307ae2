package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/core/metrics"
	"github.com/frahmantamala/maintenance-management/internal/employee"
	"github.com/frahmantamala/maintenance-management/internal/equipment"
	"github.com/frahmantamala/maintenance-management/internal/intervention"
	"github.com/frahmantamala/maintenance-management/internal/transport/middleware"
	"github.com/frahmantamala/maintenance-management/internal/transport/swagger"
	"github.com/frahmantamala/maintenance-management/internal/workflow"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
)

// Handlers groups everything the router mounts. Nil handlers leave their
// routes out.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	Equipment    *equipment.Handler
	Employee     *employee.Handler
	WorkOrder    *workorder.Handler
	Workflow     *workflow.Handler
	Intervention *intervention.Handler

	// OpenAPI serves the JSON document behind the Swagger UI.
	OpenAPI http.Handler
	// RateLimiter guards the anonymous auth endpoints when set.
	RateLimiter *middleware.RateLimiter
}

type Options struct {
	AllowedOrigins []string
	// MetricsPath mounts the Prometheus handler when not empty.
	MetricsPath string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Instrument)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if opts.MetricsPath != "" {
		router.Method(http.MethodGet, opts.MetricsPath, metrics.Handler())
	}
	if h.OpenAPI != nil {
		router.Method(http.MethodGet, swagger.SpecPath, h.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}
		rbac := h.RBAC
		staff := rbac.RequireRoles(auth.RoleAdministrator, auth.RoleManager)
		field := rbac.RequireRoles(auth.RoleAdministrator, auth.RoleManager, auth.RoleTechnician)

		r.Route("/auth", func(ar chi.Router) {
			ar.Group(func(pub chi.Router) {
				if h.RateLimiter != nil {
					pub.Use(h.RateLimiter.Handler)
				}
				pub.Post("/login", h.Auth.Login)
				pub.Post("/register", h.Auth.Register)
				pub.Post("/refresh-token", h.Auth.RefreshToken)
				pub.Post("/reset-password", h.Auth.ResetPassword)
			})

			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Post("/revoke-token", h.Auth.RevokeToken)
				pr.Post("/change-password", h.Auth.ChangePassword)
				pr.Get("/me", h.Auth.Me)

				pr.Group(func(adm chi.Router) {
					adm.Use(rbac.RequireAdmin())
					adm.Post("/assign-role", h.Auth.AssignRole)
					adm.Post("/remove-role", h.Auth.RemoveRole)
					adm.Post("/reset-password/token", h.Auth.IssueResetToken)
				})
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Equipment != nil {
				pr.Route("/equipements", func(er chi.Router) {
					er.Get("/", h.Equipment.List)
					er.Get("/reference/{reference}", h.Equipment.GetByReference)
					er.Get("/{id}", h.Equipment.Get)
					er.Get("/{id}/organes", h.Equipment.ListOrgans)
					er.With(staff).Post("/", h.Equipment.Create)
					er.With(staff).Put("/{id}", h.Equipment.Update)
					er.With(staff).Post("/{id}/organes", h.Equipment.CreateOrgan)
					er.With(rbac.Middleware(auth.PermEquipmentDelete)).Delete("/{id}", h.Equipment.Delete)
					er.With(rbac.Middleware(auth.PermEquipmentDelete)).Delete("/{id}/organes/{organId}", h.Equipment.DeleteOrgan)
				})
			}

			if h.Employee != nil {
				pr.Route("/employes", func(er chi.Router) {
					er.Get("/", h.Employee.List)
					er.Get("/equipes", h.Employee.ListTeams)
					er.Get("/equipes/{teamId}", h.Employee.GetTeam)
					er.Get("/equipes/{teamId}/membres", h.Employee.ListTeamMembers)
					er.Get("/competences", h.Employee.ListCompetences)
					er.Get("/competences/{competenceId}", h.Employee.GetCompetence)
					er.Get("/competences/{competenceId}/employes", h.Employee.ListCompetenceHolders)
					er.Get("/{id}", h.Employee.Get)
					er.Group(func(mr chi.Router) {
						mr.Use(staff)
						mr.Post("/", h.Employee.Create)
						mr.Put("/{id}", h.Employee.Update)
						mr.Delete("/{id}", h.Employee.Delete)
						mr.Post("/{id}/competences/{competenceId}", h.Employee.AssignCompetence)
						mr.Delete("/{id}/competences/{competenceId}", h.Employee.RemoveCompetence)

						mr.Post("/equipes", h.Employee.CreateTeam)
						mr.Delete("/equipes/{teamId}", h.Employee.DeleteTeam)
						mr.Post("/equipes/{teamId}/membres/{employeeId}", h.Employee.AddTeamMember)
						mr.Delete("/equipes/{teamId}/membres/{employeeId}", h.Employee.RemoveTeamMember)

						mr.Post("/competences", h.Employee.CreateCompetence)
						mr.Delete("/competences/{competenceId}", h.Employee.DeleteCompetence)
					})
				})
			}

			if h.WorkOrder != nil {
				pr.Route("/ordres-travail", func(wr chi.Router) {
					wr.Get("/", h.WorkOrder.List)
					wr.Get("/generate-number", h.WorkOrder.GenerateNumber)
					wr.Get("/numero/{number}", h.WorkOrder.GetByNumber)
					wr.Get("/{id}", h.WorkOrder.Get)

					wr.Group(func(fr chi.Router) {
						fr.Use(field)
						fr.Post("/", h.WorkOrder.Create)
						fr.Put("/{id}", h.WorkOrder.Update)
						fr.Patch("/{id}/progression", h.WorkOrder.UpdateProgression)
					})
					wr.With(rbac.RequireValidator()).Patch("/{id}/validate", h.WorkOrder.Validate)
					wr.With(middleware.RequirePermissions(logger, auth.PermWorkOrdersDelete)).Delete("/{id}", h.WorkOrder.Delete)

					if h.Workflow != nil {
						wr.Get("/{id}/workflow/history", h.Workflow.History)
						wr.Group(func(fr chi.Router) {
							fr.Use(field)
							fr.Put("/{id}/workflow", h.Workflow.Attach)
							fr.Post("/{id}/workflow/steps", h.Workflow.AdvanceStep)
							fr.Patch("/{id}/workflow/history/{historyId}", h.Workflow.CloseStep)
						})
					}
				})
			}

			if h.Workflow != nil {
				pr.Route("/workflows", func(fr chi.Router) {
					fr.Get("/", h.Workflow.List)
					fr.Get("/{id}", h.Workflow.Get)
					fr.With(rbac.Middleware(auth.PermWorkflowsManage)).Post("/", h.Workflow.Create)
				})
			}

			if h.Intervention != nil {
				pr.Route("/demandes-intervention", func(ir chi.Router) {
					ir.Get("/", h.Intervention.List)
					ir.Get("/{id}", h.Intervention.Get)
					ir.Post("/", h.Intervention.Create)
					ir.Put("/{id}", h.Intervention.Update)
					ir.Delete("/{id}", h.Intervention.Delete)
					ir.With(staff).Patch("/{id}/statut", h.Intervention.UpdateStatus)
					ir.With(field).Post("/{id}/ordres-travail", h.Intervention.CreateWorkOrder)
				})
			}
		})
	})
}
