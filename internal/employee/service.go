package employee

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/employee"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter paging.Filter) ([]*employeeDatamodel.Employee, int64, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, employee *employeeDatamodel.Employee) error
	Update(ctx context.Context, employee *employeeDatamodel.Employee) error
	Delete(ctx context.Context, id int64) error
	HasWorkOrders(ctx context.Context, id int64) (bool, error)
	LeadsTeam(ctx context.Context, id int64) (bool, error)

	ListTeams(ctx context.Context, filter paging.Filter) ([]*employeeDatamodel.Team, int64, error)
	GetTeam(ctx context.Context, id int64) (*employeeDatamodel.Team, error)
	CreateTeam(ctx context.Context, team *employeeDatamodel.Team) error
	DeleteTeam(ctx context.Context, id int64) error
	ListTeamMembers(ctx context.Context, teamID int64) ([]*employeeDatamodel.Employee, error)
	IsTeamMember(ctx context.Context, teamID, employeeID int64) (bool, error)
	AddTeamMember(ctx context.Context, member *employeeDatamodel.TeamMember) error
	// RemoveTeamMember reports whether a membership was removed.
	RemoveTeamMember(ctx context.Context, teamID, employeeID int64) (bool, error)

	ListCompetences(ctx context.Context, filter paging.Filter) ([]*employeeDatamodel.Competence, int64, error)
	GetCompetence(ctx context.Context, id int64) (*employeeDatamodel.Competence, error)
	CreateCompetence(ctx context.Context, competence *employeeDatamodel.Competence) error
	DeleteCompetence(ctx context.Context, id int64) error
	ListByCompetence(ctx context.Context, competenceID int64) ([]*employeeDatamodel.Employee, error)
	HasCompetence(ctx context.Context, employeeID, competenceID int64) (bool, error)
	AddCompetence(ctx context.Context, link *employeeDatamodel.EmployeeCompetence) error
	// RemoveCompetence reports whether an assignment was removed.
	RemoveCompetence(ctx context.Context, employeeID, competenceID int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter paging.Filter) (paging.Result[*Employee], error) {
	filter = filter.Normalize()
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return paging.Result[*Employee]{}, errors.NewInternalError("failed to list employees", err)
	}

	items := make([]*Employee, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row)
	}
	return paging.NewResult(items, total, filter), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load employee", err)
	}
	if row == nil {
		return nil, errors.ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto EmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employee := &Employee{}
	employee.apply(dto)
	row := ToDataModel(employee)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "employee_id", row.ID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto EmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	employee.apply(dto)

	row := ToDataModel(employee)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", id)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	assigned, err := s.repo.HasWorkOrders(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to check employee assignments", err)
	}
	if assigned {
		return errors.ErrEmployeeInUse
	}

	leads, err := s.repo.LeadsTeam(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to check employee teams", err)
	}
	if leads {
		return errors.ErrEmployeeInUse.WithMessage("Employee leads a team")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete employee", err)
	}
	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

// Exists lets work orders check the technician they are assigned to.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, errors.NewInternalError("failed to load employee", err)
	}
	return row != nil, nil
}

func (s *Service) ListTeams(ctx context.Context, filter paging.Filter) (paging.Result[*Team], error) {
	filter = filter.Normalize()
	rows, total, err := s.repo.ListTeams(ctx, filter)
	if err != nil {
		return paging.Result[*Team]{}, errors.NewInternalError("failed to list teams", err)
	}

	items := make([]*Team, len(rows))
	for i, row := range rows {
		items[i] = TeamFromDataModel(row)
	}
	return paging.NewResult(items, total, filter), nil
}

// GetTeam returns the team with its members.
func (s *Service) GetTeam(ctx context.Context, id int64) (*Team, error) {
	team, err := s.team(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListTeamMembers(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load team members", err)
	}
	team.Members = fromDataModels(members)
	return team, nil
}

func (s *Service) CreateTeam(ctx context.Context, dto TeamDTO) (*Team, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, dto.LeaderID); err != nil {
		return nil, err
	}

	row := &employeeDatamodel.Team{Name: strings.TrimSpace(dto.Name), LeaderID: dto.LeaderID}
	if err := s.repo.CreateTeam(ctx, row); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateTeam
		}
		return nil, errors.NewInternalError("failed to create team", err)
	}

	s.logger.Info("team created", "team_id", row.ID, "leader_id", row.LeaderID)
	return TeamFromDataModel(row), nil
}

// DeleteTeam removes the team and its memberships. The members themselves stay.
func (s *Service) DeleteTeam(ctx context.Context, id int64) error {
	if _, err := s.team(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTeam(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete team", err)
	}
	s.logger.Info("team deleted", "team_id", id)
	return nil
}

func (s *Service) ListByTeam(ctx context.Context, teamID int64) ([]*Employee, error) {
	if _, err := s.team(ctx, teamID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListTeamMembers(ctx, teamID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load team members", err)
	}
	return fromDataModels(rows), nil
}

func (s *Service) AssignToTeam(ctx context.Context, teamID, employeeID int64) error {
	if _, err := s.team(ctx, teamID); err != nil {
		return err
	}
	if _, err := s.Get(ctx, employeeID); err != nil {
		return err
	}

	member, err := s.repo.IsTeamMember(ctx, teamID, employeeID)
	if err != nil {
		return errors.NewInternalError("failed to check team membership", err)
	}
	if member {
		return errors.ErrAlreadyTeamMember
	}

	if err := s.repo.AddTeamMember(ctx, &employeeDatamodel.TeamMember{TeamID: teamID, EmployeeID: employeeID}); err != nil {
		if database.IsUniqueViolation(err) {
			return errors.ErrAlreadyTeamMember
		}
		return errors.NewInternalError("failed to add team member", err)
	}
	s.logger.Info("employee added to team", "team_id", teamID, "employee_id", employeeID)
	return nil
}

func (s *Service) RemoveFromTeam(ctx context.Context, teamID, employeeID int64) error {
	if _, err := s.team(ctx, teamID); err != nil {
		return err
	}
	removed, err := s.repo.RemoveTeamMember(ctx, teamID, employeeID)
	if err != nil {
		return errors.NewInternalError("failed to remove team member", err)
	}
	if !removed {
		return errors.ErrNotTeamMember
	}
	s.logger.Info("employee removed from team", "team_id", teamID, "employee_id", employeeID)
	return nil
}

func (s *Service) ListCompetences(ctx context.Context, filter paging.Filter) (paging.Result[*Competence], error) {
	filter = filter.Normalize()
	rows, total, err := s.repo.ListCompetences(ctx, filter)
	if err != nil {
		return paging.Result[*Competence]{}, errors.NewInternalError("failed to list competences", err)
	}

	items := make([]*Competence, len(rows))
	for i, row := range rows {
		items[i] = CompetenceFromDataModel(row)
	}
	return paging.NewResult(items, total, filter), nil
}

func (s *Service) GetCompetence(ctx context.Context, id int64) (*Competence, error) {
	row, err := s.repo.GetCompetence(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load competence", err)
	}
	if row == nil {
		return nil, errors.ErrCompetenceNotFound
	}
	return CompetenceFromDataModel(row), nil
}

func (s *Service) CreateCompetence(ctx context.Context, dto CompetenceDTO) (*Competence, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &employeeDatamodel.Competence{Name: strings.TrimSpace(dto.Name), Description: dto.Description}
	if err := s.repo.CreateCompetence(ctx, row); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateCompetence
		}
		return nil, errors.NewInternalError("failed to create competence", err)
	}

	s.logger.Info("competence created", "competence_id", row.ID, "name", row.Name)
	return CompetenceFromDataModel(row), nil
}

// DeleteCompetence removes the competence and its assignments.
func (s *Service) DeleteCompetence(ctx context.Context, id int64) error {
	if _, err := s.GetCompetence(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCompetence(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete competence", err)
	}
	s.logger.Info("competence deleted", "competence_id", id)
	return nil
}

func (s *Service) ListByCompetence(ctx context.Context, competenceID int64) ([]*Employee, error) {
	if _, err := s.GetCompetence(ctx, competenceID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByCompetence(ctx, competenceID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load employees", err)
	}
	return fromDataModels(rows), nil
}

func (s *Service) AssignCompetence(ctx context.Context, employeeID, competenceID int64) error {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return err
	}
	if _, err := s.GetCompetence(ctx, competenceID); err != nil {
		return err
	}

	has, err := s.repo.HasCompetence(ctx, employeeID, competenceID)
	if err != nil {
		return errors.NewInternalError("failed to check competence", err)
	}
	if has {
		return errors.ErrCompetenceAssigned
	}

	link := &employeeDatamodel.EmployeeCompetence{EmployeeID: employeeID, CompetenceID: competenceID}
	if err := s.repo.AddCompetence(ctx, link); err != nil {
		if database.IsUniqueViolation(err) {
			return errors.ErrCompetenceAssigned
		}
		return errors.NewInternalError("failed to assign competence", err)
	}
	s.logger.Info("competence assigned", "employee_id", employeeID, "competence_id", competenceID)
	return nil
}

func (s *Service) RemoveCompetence(ctx context.Context, employeeID, competenceID int64) error {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return err
	}
	removed, err := s.repo.RemoveCompetence(ctx, employeeID, competenceID)
	if err != nil {
		return errors.NewInternalError("failed to remove competence", err)
	}
	if !removed {
		return errors.ErrCompetenceMissing
	}
	s.logger.Info("competence removed", "employee_id", employeeID, "competence_id", competenceID)
	return nil
}

func (s *Service) team(ctx context.Context, id int64) (*Team, error) {
	row, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load team", err)
	}
	if row == nil {
		return nil, errors.ErrTeamNotFound
	}
	return TeamFromDataModel(row), nil
}
