package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/employee"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/maintenance-management/internal/employee"
)

var sorting = paging.Sorting{
	Columns: map[string]string{
		"lastname":  "last_name",
		"firstname": "first_name",
		"createdat": "created_at",
	},
	Default: "last_name",
}

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context, filter paging.Filter) ([]*employeeDatamodel.Employee, int64, error) {
	query := database.Conn(ctx, r.db).Model(&employeeDatamodel.Employee{}).
		Scopes(
			paging.Search(filter, "last_name", "first_name"),
			paging.DateRange(filter, "created_at"),
		).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*employeeDatamodel.Employee
	if err := query.Scopes(paging.Page(filter, sorting)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	if err := database.Conn(ctx, r.db).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, row *employeeDatamodel.Employee) error {
	return database.Conn(ctx, r.db).Create(row).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, row *employeeDatamodel.Employee) error {
	return database.Conn(ctx, r.db).Save(row).Error
}

var nameSorting = paging.Sorting{
	Columns: map[string]string{
		"name":      "name",
		"createdat": "created_at",
	},
	Default: "name",
}

// Delete removes the employee with its memberships and competences.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&employeeDatamodel.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&employeeDatamodel.EmployeeCompetence{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employeeDatamodel.Employee{}, id).Error
	})
}

func (r *EmployeeRepository) HasWorkOrders(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&workorderDatamodel.WorkOrder{}).
		Where("technician_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) LeadsTeam(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&employeeDatamodel.Team{}).
		Where("leader_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) ListTeams(ctx context.Context, filter paging.Filter) ([]*employeeDatamodel.Team, int64, error) {
	query := database.Conn(ctx, r.db).Model(&employeeDatamodel.Team{}).
		Scopes(
			paging.Search(filter, "name"),
			paging.DateRange(filter, "created_at"),
		).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*employeeDatamodel.Team
	if err := query.Scopes(paging.Page(filter, nameSorting)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *EmployeeRepository) GetTeam(ctx context.Context, id int64) (*employeeDatamodel.Team, error) {
	var row employeeDatamodel.Team
	if err := database.Conn(ctx, r.db).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) CreateTeam(ctx context.Context, row *employeeDatamodel.Team) error {
	return database.Conn(ctx, r.db).Create(row).Error
}

func (r *EmployeeRepository) DeleteTeam(ctx context.Context, id int64) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&employeeDatamodel.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employeeDatamodel.Team{}, id).Error
	})
}

func (r *EmployeeRepository) ListTeamMembers(ctx context.Context, teamID int64) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).
		Joins("JOIN team_members ON team_members.employee_id = employees.id").
		Where("team_members.team_id = ?", teamID).
		Order("employees.last_name, employees.first_name").
		Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) IsTeamMember(ctx context.Context, teamID, employeeID int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&employeeDatamodel.TeamMember{}).
		Where("team_id = ? AND employee_id = ?", teamID, employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) AddTeamMember(ctx context.Context, member *employeeDatamodel.TeamMember) error {
	return database.Conn(ctx, r.db).Create(member).Error
}

func (r *EmployeeRepository) RemoveTeamMember(ctx context.Context, teamID, employeeID int64) (bool, error) {
	result := database.Conn(ctx, r.db).
		Where("team_id = ? AND employee_id = ?", teamID, employeeID).
		Delete(&employeeDatamodel.TeamMember{})
	return result.RowsAffected > 0, result.Error
}

func (r *EmployeeRepository) ListCompetences(ctx context.Context, filter paging.Filter) ([]*employeeDatamodel.Competence, int64, error) {
	query := database.Conn(ctx, r.db).Model(&employeeDatamodel.Competence{}).
		Scopes(
			paging.Search(filter, "name", "description"),
			paging.DateRange(filter, "created_at"),
		).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*employeeDatamodel.Competence
	if err := query.Scopes(paging.Page(filter, nameSorting)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *EmployeeRepository) GetCompetence(ctx context.Context, id int64) (*employeeDatamodel.Competence, error) {
	var row employeeDatamodel.Competence
	if err := database.Conn(ctx, r.db).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) CreateCompetence(ctx context.Context, row *employeeDatamodel.Competence) error {
	return database.Conn(ctx, r.db).Create(row).Error
}

func (r *EmployeeRepository) DeleteCompetence(ctx context.Context, id int64) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("competence_id = ?", id).Delete(&employeeDatamodel.EmployeeCompetence{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employeeDatamodel.Competence{}, id).Error
	})
}

func (r *EmployeeRepository) ListByCompetence(ctx context.Context, competenceID int64) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).
		Joins("JOIN employee_competences ON employee_competences.employee_id = employees.id").
		Where("employee_competences.competence_id = ?", competenceID).
		Order("employees.last_name, employees.first_name").
		Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) HasCompetence(ctx context.Context, employeeID, competenceID int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&employeeDatamodel.EmployeeCompetence{}).
		Where("employee_id = ? AND competence_id = ?", employeeID, competenceID).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) AddCompetence(ctx context.Context, link *employeeDatamodel.EmployeeCompetence) error {
	return database.Conn(ctx, r.db).Create(link).Error
}

func (r *EmployeeRepository) RemoveCompetence(ctx context.Context, employeeID, competenceID int64) (bool, error) {
	result := database.Conn(ctx, r.db).
		Where("employee_id = ? AND competence_id = ?", employeeID, competenceID).
		Delete(&employeeDatamodel.EmployeeCompetence{})
	return result.RowsAffected > 0, result.Error
}
