package workflow

import (
	"context"
	"net/http"

	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter paging.Filter) (paging.Result[*Workflow], error)
	Get(ctx context.Context, id int64) (*Workflow, error)
	Create(ctx context.Context, dto CreateWorkflowDTO) (*Workflow, error)
	Attach(ctx context.Context, workOrderID int64, dto AttachDTO) (*Workflow, error)
	AdvanceStep(ctx context.Context, workOrderID int64, recordedBy *int64, dto AdvanceStepDTO) (*HistoryRecord, error)
	CloseStep(ctx context.Context, workOrderID, historyID int64, dto CloseStepDTO) (*HistoryRecord, error)
	History(ctx context.Context, workOrderID int64) ([]*HistoryRecord, error)
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
	h.WriteSuccess(w, http.StatusOK, "Workflows retrieved", page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	wf, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Workflow retrieved", wf)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateWorkflowDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	wf, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Workflow created", wf)
}

func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto AttachDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	wf, err := h.Service.Attach(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Workflow attached", wf)
}

func (h *Handler) AdvanceStep(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto AdvanceStepDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var recordedBy *int64
	if user, ok := auth.UserFromContext(r.Context()); ok {
		recordedBy = &user.ID
	}

	record, err := h.Service.AdvanceStep(r.Context(), id, recordedBy, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Workflow step recorded", record)
}

func (h *Handler) CloseStep(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	historyID, err := h.ParseID(r, "historyId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CloseStepDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	record, err := h.Service.CloseStep(r.Context(), id, historyID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Workflow step closed", record)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	records, err := h.Service.History(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Workflow history retrieved", records)
}
