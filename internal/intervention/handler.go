package intervention

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/transport"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) (paging.Result[*Request], error)
	Get(ctx context.Context, id int64) (*Request, error)
	Create(ctx context.Context, principal *auth.User, dto CreateRequestDTO) (*Request, error)
	Update(ctx context.Context, principal *auth.User, id int64, dto UpdateRequestDTO) (*Request, error)
	UpdateStatus(ctx context.Context, id int64, dto StatusDTO) (*Request, error)
	Delete(ctx context.Context, principal *auth.User, id int64) error
	CreateWorkOrder(ctx context.Context, principal *auth.User, id int64, dto workorder.CreateWorkOrderDTO) (*workorder.WorkOrder, error)
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
	filter := ListFilter{
		Filter:   paging.FromRequest(r),
		Status:   h.QueryString(r, "status"),
		Priority: h.QueryString(r, "priority"),
	}
	var err error
	if filter.EquipmentID, err = h.QueryInt64(r, "equipmentId"); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if filter.RequesterID, err = h.QueryInt64(r, "requesterId"); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	page, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Intervention requests retrieved", page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	request, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Intervention request retrieved", request)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, errors.ErrInvalidToken)
		return
	}

	var dto CreateRequestDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	request, err := h.Service.Create(r.Context(), principal, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Intervention request created", request)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, errors.ErrInvalidToken)
		return
	}
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateRequestDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	request, err := h.Service.Update(r.Context(), principal, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Intervention request updated", request)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto StatusDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	request, err := h.Service.UpdateStatus(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Intervention request status updated", request)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, errors.ErrInvalidToken)
		return
	}
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), principal, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Intervention request deleted", nil)
}

func (h *Handler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.UserFromContext(r.Context())
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto workorder.CreateWorkOrderDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	created, err := h.Service.CreateWorkOrder(r.Context(), principal, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Work order created from intervention request", created)
}
