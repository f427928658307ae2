// Package app wires repositories, services and HTTP handlers together.
package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/auth"
	authPostgres "github.com/frahmantamala/maintenance-management/internal/auth/postgres"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/employee"
	employeePostgres "github.com/frahmantamala/maintenance-management/internal/employee/postgres"
	"github.com/frahmantamala/maintenance-management/internal/equipment"
	equipmentPostgres "github.com/frahmantamala/maintenance-management/internal/equipment/postgres"
	"github.com/frahmantamala/maintenance-management/internal/intervention"
	interventionPostgres "github.com/frahmantamala/maintenance-management/internal/intervention/postgres"
	"github.com/frahmantamala/maintenance-management/internal/transport"
	"github.com/frahmantamala/maintenance-management/internal/transport/rest"
	"github.com/frahmantamala/maintenance-management/internal/workflow"
	workflowPostgres "github.com/frahmantamala/maintenance-management/internal/workflow/postgres"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
	workorderPostgres "github.com/frahmantamala/maintenance-management/internal/workorder/postgres"
)

type Dependencies struct {
	DB        *gorm.DB
	Tokens    auth.TokenStore
	Publisher events.Publisher
	Security  internal.SecurityConfig
	Logger    *slog.Logger
}

type App struct {
	Auth          *auth.Service
	Equipment     *equipment.Service
	Employees     *employee.Service
	Workflows     *workflow.Service
	WorkOrders    *workorder.Service
	Interventions *intervention.Service

	// Handlers has every domain handler set. Health, OpenAPI and the rate
	// limiter are left to the caller.
	Handlers rest.Handlers
}

func New(deps Dependencies) *App {
	lg := deps.Logger
	transactor := database.NewTransactor(deps.DB)
	sec := deps.Security

	tokens := auth.NewJWTTokenGenerator(sec.JWTSecret, sec.Issuer, sec.Audience, sec.TokenExpiry())
	authService := auth.NewService(
		authPostgres.NewAuthRepository(deps.DB),
		tokens,
		deps.Tokens,
		transactor,
		auth.Options{
			BCryptCost:    sec.BCryptCost,
			ResetTokenTTL: sec.ResetTokenTTL,
		},
		lg,
	)

	equipmentService := equipment.NewService(equipmentPostgres.NewEquipmentRepository(deps.DB), transactor, lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(deps.DB), lg)
	workflowService := workflow.NewService(workflowPostgres.NewWorkflowRepository(deps.DB), transactor, deps.Publisher, lg)
	workOrderService := workorder.NewService(
		workorderPostgres.NewWorkOrderRepository(deps.DB),
		equipmentService,
		employeeService,
		workflowService,
		transactor,
		deps.Publisher,
		lg,
	)
	interventionService := intervention.NewService(
		interventionPostgres.NewInterventionRepository(deps.DB),
		equipmentService,
		workOrderService,
		auth.NewABACPolicy(nil),
		transactor,
		deps.Publisher,
		lg,
	)

	base := transport.NewBaseHandler(lg)
	return &App{
		Auth:          authService,
		Equipment:     equipmentService,
		Employees:     employeeService,
		Workflows:     workflowService,
		WorkOrders:    workOrderService,
		Interventions: interventionService,
		Handlers: rest.Handlers{
			Auth:         auth.NewHandler(base, authService),
			RBAC:         auth.NewRBACAuthorization(auth.NewPermissionChecker(), lg),
			Equipment:    equipment.NewHandler(base, equipmentService),
			Employee:     employee.NewHandler(base, employeeService),
			WorkOrder:    workorder.NewHandler(base, workOrderService),
			Workflow:     workflow.NewHandler(base, workflowService),
			Intervention: intervention.NewHandler(base, interventionService),
		},
	}
}
