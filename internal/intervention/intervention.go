package intervention

import (
	"time"

	interventionDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/intervention"
)

type Status string

const (
	StatusNew               Status = "New"
	StatusAwaitingWorkOrder Status = "AwaitingWorkOrder"
	StatusClosed            Status = "Closed"
)

var Statuses = []string{string(StatusNew), string(StatusAwaitingWorkOrder), string(StatusClosed)}

type Request struct {
	ID                 int64     `json:"id"`
	EquipmentID        int64     `json:"equipmentId"`
	ProblemDescription string    `json:"problemDescription"`
	RequestedAt        time.Time `json:"requestedAt"`
	RequesterID        int64     `json:"requesterId"`
	Status             Status    `json:"status"`
	Priority           string    `json:"priority"`
	StatusComment      *string   `json:"statusComment,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (r *Request) IsClosed() bool {
	return r.Status == StatusClosed
}

func ToDataModel(r *Request) *interventionDatamodel.Request {
	return &interventionDatamodel.Request{
		ID:                 r.ID,
		EquipmentID:        r.EquipmentID,
		ProblemDescription: r.ProblemDescription,
		RequestedAt:        r.RequestedAt,
		RequesterID:        r.RequesterID,
		Status:             string(r.Status),
		Priority:           r.Priority,
		StatusComment:      r.StatusComment,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func FromDataModel(row *interventionDatamodel.Request) *Request {
	return &Request{
		ID:                 row.ID,
		EquipmentID:        row.EquipmentID,
		ProblemDescription: row.ProblemDescription,
		RequestedAt:        row.RequestedAt,
		RequesterID:        row.RequesterID,
		Status:             Status(row.Status),
		Priority:           row.Priority,
		StatusComment:      row.StatusComment,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
