// Package databasetest opens throwaway SQLite databases carrying the full
// schema, for repository and handler tests.
package databasetest

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	employeeDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/employee"
	equipmentDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/equipment"
	interventionDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/intervention"
	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
	workflowDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workflow"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
)

// Models lists every table of the schema in dependency order.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&userDatamodel.Role{},
		&userDatamodel.UserRole{},
		&userDatamodel.Permission{},
		&userDatamodel.RolePermission{},
		&equipmentDatamodel.Equipment{},
		&equipmentDatamodel.Organ{},
		&employeeDatamodel.Employee{},
		&employeeDatamodel.Team{},
		&employeeDatamodel.TeamMember{},
		&employeeDatamodel.Competence{},
		&employeeDatamodel.EmployeeCompetence{},
		&workflowDatamodel.Workflow{},
		&workflowDatamodel.Step{},
		&workorderDatamodel.WorkOrder{},
		&workflowDatamodel.History{},
		&interventionDatamodel.Request{},
	}
}

// Open returns an in-memory database with every table migrated. The pool is
// pinned to one connection because each SQLite :memory: connection is a
// separate database.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}
