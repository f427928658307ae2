package workorder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) (paging.Result[*WorkOrder], error)
	Get(ctx context.Context, id int64) (*WorkOrder, error)
	GetByNumber(ctx context.Context, number string) (*WorkOrder, error)
	GenerateNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, createdBy *int64, dto CreateWorkOrderDTO) (*WorkOrder, error)
	Update(ctx context.Context, id int64, dto UpdateWorkOrderDTO) (*WorkOrder, error)
	UpdateProgression(ctx context.Context, id int64, dto ProgressionDTO) (*WorkOrder, error)
	Validate(ctx context.Context, id, validatorID int64, dto ValidateDTO) (*WorkOrder, error)
	Delete(ctx context.Context, id int64) error
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
	filter, err := h.listFilter(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	page, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Work orders retrieved", page)
}

func (h *Handler) listFilter(r *http.Request) (ListFilter, error) {
	filter := ListFilter{
		Filter:   paging.FromRequest(r),
		Status:   h.QueryString(r, "status"),
		Priority: h.QueryString(r, "priority"),
	}

	var err error
	if filter.EquipmentID, err = h.QueryInt64(r, "equipmentId"); err != nil {
		return filter, err
	}
	if filter.TechnicianID, err = h.QueryInt64(r, "technicianId"); err != nil {
		return filter, err
	}
	if filter.InterventionRequestID, err = h.QueryInt64(r, "interventionRequestId"); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	workOrder, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Work order retrieved", workOrder)
}

func (h *Handler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	workOrder, err := h.Service.GetByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Work order retrieved", workOrder)
}

func (h *Handler) GenerateNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.Service.GenerateNumber(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Work order number generated", map[string]string{"number": number})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateWorkOrderDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var createdBy *int64
	if user, ok := auth.UserFromContext(r.Context()); ok {
		createdBy = &user.ID
	}

	workOrder, err := h.Service.Create(r.Context(), createdBy, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Work order created", workOrder)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateWorkOrderDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	workOrder, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Work order updated", workOrder)
}

func (h *Handler) UpdateProgression(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto ProgressionDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	workOrder, err := h.Service.UpdateProgression(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Work order progression updated", workOrder)
}

// Validate records the caller as validator.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, errors.ErrInvalidToken)
		return
	}

	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto ValidateDTO
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(w, r, &dto); err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
	}

	workOrder, err := h.Service.Validate(r.Context(), id, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Work order validated", workOrder)
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
	h.WriteSuccess(w, http.StatusOK, "Work order deleted", nil)
}
