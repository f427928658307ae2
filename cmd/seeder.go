package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/app"
	"github.com/frahmantamala/maintenance-management/internal/auth"
	authPostgres "github.com/frahmantamala/maintenance-management/internal/auth/postgres"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
	workflowDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workflow"
	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/equipment"
	"github.com/frahmantamala/maintenance-management/internal/workflow"
	"github.com/frahmantamala/maintenance-management/pkg/logger"
)

const seedTimeout = time.Minute

var (
	seedAdminUsername string
	seedAdminEmail    string
	seedAdminPassword string
)

// seededTables are truncated by --clear, children first.
var seededTables = []string{
	"workflow_history",
	"work_orders",
	"intervention_requests",
	"workflow_steps",
	"workflows",
	"organs",
	"equipments",
	"employee_competences",
	"competences",
	"team_members",
	"teams",
	"employees",
	"role_permissions",
	"user_roles",
	"permissions",
	"roles",
	"users",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed roles, permissions, an administrator account and sample maintenance data for development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := logger.Init(cfg.Environment, cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		db, err := database.Open(cfg.Database, false)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}

		ctx, cancel := internal.WithTimeout(cmd.Context(), seedTimeout)
		defer cancel()
		return seed(ctx, db, cfg, lg)
	},
}

func seed(ctx context.Context, db *gorm.DB, cfg *internal.Config, lg *slog.Logger) error {
	if clearData {
		for _, table := range seededTables {
			if err := db.WithContext(ctx).Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		lg.Info("cleared seeded tables", "tables", len(seededTables))
	}

	if err := authPostgres.SeedAccessControl(ctx, db); err != nil {
		return err
	}
	lg.Info("seeded roles and permissions", "roles", len(auth.RolePermissions))

	hash, err := auth.HashPassword(seedAdminPassword, cfg.Security.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &userDatamodel.User{
		Username:     seedAdminUsername,
		Email:        seedAdminEmail,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := authPostgres.EnsureUser(ctx, db, admin, auth.RoleAdministrator); err != nil {
		return err
	}
	lg.Info("seeded administrator", "username", admin.Username, "user_id", admin.ID)

	a := app.New(app.Dependencies{
		DB:        db,
		Tokens:    auth.NewMemoryTokenStore(),
		Publisher: events.NewEventBus(lg),
		Security:  cfg.Security,
		Logger:    lg,
	})

	if err := seedEquipment(ctx, a.Equipment, lg); err != nil {
		return err
	}
	return seedWorkflows(ctx, db, a.Workflows, lg)
}

type sampleEquipment struct {
	dto    equipment.EquipmentDTO
	organs []string
}

func strPtr(s string) *string { return &s }

var sampleEquipments = []sampleEquipment{
	{
		dto: equipment.EquipmentDTO{
			Reference: "PRS-001", Name: "Hydraulic press",
			Type: strPtr("Press"), Manufacturer: strPtr("Schuler"),
			Location: strPtr("Hall A"), OperationalState: strPtr("Operational"),
		},
		organs: []string{"Hydraulic pump", "Ram", "Control panel"},
	},
	{
		dto: equipment.EquipmentDTO{
			Reference: "CNV-010", Name: "Assembly line conveyor",
			Type: strPtr("Conveyor"), Location: strPtr("Hall B"), OperationalState: strPtr("Operational"),
		},
		organs: []string{"Drive motor", "Belt"},
	},
	{
		dto: equipment.EquipmentDTO{
			Reference: "CMP-002", Name: "Air compressor",
			Type: strPtr("Compressor"), Location: strPtr("Utilities"), OperationalState: strPtr("Degraded"),
		},
		organs: []string{"Filter", "Pressure valve"},
	},
}

func seedEquipment(ctx context.Context, service *equipment.Service, lg *slog.Logger) error {
	for _, sample := range sampleEquipments {
		if existing, err := service.GetByReference(ctx, sample.dto.Reference); err == nil && existing != nil {
			lg.Info("equipment already seeded", "reference", sample.dto.Reference)
			continue
		}

		created, err := service.Create(ctx, sample.dto)
		if err != nil {
			return fmt.Errorf("seed equipment %s: %w", sample.dto.Reference, err)
		}
		for _, name := range sample.organs {
			if _, err := service.CreateOrgan(ctx, created.ID, equipment.OrganDTO{Name: name}); err != nil {
				return fmt.Errorf("seed organ %s on %s: %w", name, created.Reference, err)
			}
		}
		lg.Info("seeded equipment", "reference", created.Reference, "organs", len(sample.organs))
	}
	return nil
}

var sampleWorkflows = []workflow.CreateWorkflowDTO{
	{
		Name:        "Corrective repair",
		Description: strPtr("Diagnose, repair and hand the equipment back to production"),
		Steps: []workflow.StepDTO{
			{Name: "Diagnosis", Order: 1},
			{Name: "Repair", Order: 2},
			{Name: "Test run", Order: 3},
			{Name: "Hand-over", Order: 4},
		},
	},
	{
		Name: "Preventive inspection",
		Steps: []workflow.StepDTO{
			{Name: "Lock-out", Order: 1},
			{Name: "Inspection", Order: 2},
			{Name: "Report", Order: 3},
		},
	},
}

func seedWorkflows(ctx context.Context, db *gorm.DB, service *workflow.Service, lg *slog.Logger) error {
	for _, dto := range sampleWorkflows {
		var count int64
		if err := db.WithContext(ctx).Model(&workflowDatamodel.Workflow{}).Where("name = ?", dto.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup workflow %s: %w", dto.Name, err)
		}
		if count > 0 {
			lg.Info("workflow already seeded", "name", dto.Name)
			continue
		}

		created, err := service.Create(ctx, dto)
		if err != nil {
			return fmt.Errorf("seed workflow %s: %w", dto.Name, err)
		}
		lg.Info("seeded workflow", "name", created.Name, "steps", len(created.Steps))
	}
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminUsername, "admin-username", "admin", "administrator username")
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@maintenance.local", "administrator email")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "ChangeMe123!", "administrator password")
}
