package equipment

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) (paging.Result[*Equipment], error)
	Get(ctx context.Context, id int64) (*Equipment, error)
	GetByReference(ctx context.Context, reference string) (*Equipment, error)
	Create(ctx context.Context, dto EquipmentDTO) (*Equipment, error)
	Update(ctx context.Context, id int64, dto EquipmentDTO) (*Equipment, error)
	Delete(ctx context.Context, id int64) error
	ListOrgans(ctx context.Context, equipmentID int64) ([]*Organ, error)
	CreateOrgan(ctx context.Context, equipmentID int64, dto OrganDTO) (*Organ, error)
	DeleteOrgan(ctx context.Context, equipmentID, organID int64) error
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
		Filter: paging.FromRequest(r),
		Type:   h.QueryString(r, "type"),
	}
	var err error
	if filter.ProductionLineID, err = h.QueryInt64(r, "productionLineId"); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	page, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Equipment retrieved", page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	equipment, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Equipment retrieved", equipment)
}

func (h *Handler) GetByReference(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.Service.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Equipment retrieved", equipment)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto EquipmentDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	equipment, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Equipment created", equipment)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto EquipmentDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	equipment, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Equipment updated", equipment)
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
	h.WriteSuccess(w, http.StatusOK, "Equipment deleted", nil)
}

func (h *Handler) ListOrgans(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	organs, err := h.Service.ListOrgans(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Organs retrieved", organs)
}

func (h *Handler) CreateOrgan(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto OrganDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	organ, err := h.Service.CreateOrgan(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Organ created", organ)
}

func (h *Handler) DeleteOrgan(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	organID, err := h.ParseID(r, "organId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteOrgan(r.Context(), id, organID); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Organ deleted", nil)
}
