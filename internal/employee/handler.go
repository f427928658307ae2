package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter paging.Filter) (paging.Result[*Employee], error)
	Get(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, dto EmployeeDTO) (*Employee, error)
	Update(ctx context.Context, id int64, dto EmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, id int64) error

	ListTeams(ctx context.Context, filter paging.Filter) (paging.Result[*Team], error)
	GetTeam(ctx context.Context, id int64) (*Team, error)
	CreateTeam(ctx context.Context, dto TeamDTO) (*Team, error)
	DeleteTeam(ctx context.Context, id int64) error
	ListByTeam(ctx context.Context, teamID int64) ([]*Employee, error)
	AssignToTeam(ctx context.Context, teamID, employeeID int64) error
	RemoveFromTeam(ctx context.Context, teamID, employeeID int64) error

	ListCompetences(ctx context.Context, filter paging.Filter) (paging.Result[*Competence], error)
	GetCompetence(ctx context.Context, id int64) (*Competence, error)
	CreateCompetence(ctx context.Context, dto CompetenceDTO) (*Competence, error)
	DeleteCompetence(ctx context.Context, id int64) error
	ListByCompetence(ctx context.Context, competenceID int64) ([]*Employee, error)
	AssignCompetence(ctx context.Context, employeeID, competenceID int64) error
	RemoveCompetence(ctx context.Context, employeeID, competenceID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), paging.FromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employees retrieved", page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	employee, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employee retrieved", employee)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	employee, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Employee created", employee)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto EmployeeDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	employee, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employee updated", employee)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employee deleted", nil)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListTeams(r.Context(), paging.FromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Teams retrieved", page)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "teamId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	team, err := h.Service.GetTeam(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Team retrieved", team)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var dto TeamDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	team, err := h.Service.CreateTeam(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Team created", team)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "teamId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteTeam(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Team deleted", nil)
}

func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "teamId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	members, err := h.Service.ListByTeam(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Team members retrieved", members)
}

func (h *Handler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID, employeeID, ok := h.pair(w, r, "teamId", "employeeId")
	if !ok {
		return
	}

	if err := h.Service.AssignToTeam(r.Context(), teamID, employeeID); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employee added to team", nil)
}

func (h *Handler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID, employeeID, ok := h.pair(w, r, "teamId", "employeeId")
	if !ok {
		return
	}

	if err := h.Service.RemoveFromTeam(r.Context(), teamID, employeeID); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employee removed from team", nil)
}

func (h *Handler) ListCompetences(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListCompetences(r.Context(), paging.FromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Competences retrieved", page)
}

func (h *Handler) GetCompetence(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "competenceId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	competence, err := h.Service.GetCompetence(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Competence retrieved", competence)
}

func (h *Handler) CreateCompetence(w http.ResponseWriter, r *http.Request) {
	var dto CompetenceDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	competence, err := h.Service.CreateCompetence(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Competence created", competence)
}

func (h *Handler) DeleteCompetence(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "competenceId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteCompetence(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Competence deleted", nil)
}

func (h *Handler) ListCompetenceHolders(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "competenceId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	holders, err := h.Service.ListByCompetence(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employees retrieved", holders)
}

func (h *Handler) AssignCompetence(w http.ResponseWriter, r *http.Request) {
	employeeID, competenceID, ok := h.pair(w, r, "id", "competenceId")
	if !ok {
		return
	}

	if err := h.Service.AssignCompetence(r.Context(), employeeID, competenceID); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Competence assigned", nil)
}

func (h *Handler) RemoveCompetence(w http.ResponseWriter, r *http.Request) {
	employeeID, competenceID, ok := h.pair(w, r, "id", "competenceId")
	if !ok {
		return
	}

	if err := h.Service.RemoveCompetence(r.Context(), employeeID, competenceID); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Competence removed", nil)
}

// pair parses two path ids and answers the error itself.
func (h *Handler) pair(w http.ResponseWriter, r *http.Request, first, second string) (int64, int64, bool) {
	a, err := h.ParseID(r, first)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return 0, 0, false
	}
	b, err := h.ParseID(r, second)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return 0, 0, false
	}
	return a, b, true
}
