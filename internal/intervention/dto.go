package intervention

import (
	"strings"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/common/validation"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
)

type CreateRequestDTO struct {
	EquipmentID        int64   `json:"equipmentId"`
	ProblemDescription string  `json:"problemDescription"`
	Priority           *string `json:"priority,omitempty"`
}

func (d CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("equipmentId", d.EquipmentID).Required().Min(1)
	v.Field("problemDescription", strings.TrimSpace(d.ProblemDescription)).Required()
	v.Field("priority", d.Priority).OneOf(workorder.Priorities...)
	return v.Err()
}

type UpdateRequestDTO struct {
	EquipmentID        int64  `json:"equipmentId"`
	ProblemDescription string `json:"problemDescription"`
	Priority           string `json:"priority"`
}

func (d UpdateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("equipmentId", d.EquipmentID).Required().Min(1)
	v.Field("problemDescription", strings.TrimSpace(d.ProblemDescription)).Required()
	v.Field("priority", d.Priority).Required().OneOf(workorder.Priorities...)
	return v.Err()
}

type StatusDTO struct {
	Status  string  `json:"status"`
	Comment *string `json:"comment,omitempty"`
}

func (d StatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(Statuses...)
	return v.Err()
}

type ListFilter struct {
	paging.Filter
	EquipmentID *int64
	RequesterID *int64
	Status      *string
	Priority    *string
}

func (f ListFilter) Validate() error {
	v := validation.NewValidator()
	v.Field("status", f.Status).OneOf(Statuses...)
	v.Field("priority", f.Priority).OneOf(workorder.Priorities...)
	return v.Err()
}
