package workorder

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/common/validation"
)

type CreateWorkOrderDTO struct {
	// Number is generated when left empty.
	Number                string     `json:"number,omitempty"`
	EquipmentID           int64      `json:"equipmentId"`
	OrganID               *int64     `json:"organId,omitempty"`
	TaskDescription       string     `json:"taskDescription"`
	PlannedStart          *time.Time `json:"plannedStart,omitempty"`
	PlannedEnd            *time.Time `json:"plannedEnd,omitempty"`
	TechnicianID          *int64     `json:"technicianId,omitempty"`
	Priority              *string    `json:"priority,omitempty"`
	MaintenanceType       *string    `json:"maintenanceType,omitempty"`
	FaultCauseID          *int64     `json:"faultCauseId,omitempty"`
	// InterventionRequestID is set by the intervention request flow only,
	// which checks the request and moves it to AwaitingWorkOrder.
	InterventionRequestID *int64     `json:"-"`
	SubcontractorID       *int64     `json:"subcontractorId,omitempty"`
	WorkflowID            *int64     `json:"workflowId,omitempty"`
	Remarks               *string    `json:"remarks,omitempty"`
}

func (d CreateWorkOrderDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("number", strings.TrimSpace(d.Number)).MaxLength(50)
	v.Field("equipmentId", d.EquipmentID).Required().Min(1)
	v.Field("taskDescription", strings.TrimSpace(d.TaskDescription)).Required()
	v.Field("priority", d.Priority).OneOf(Priorities...)
	v.Field("maintenanceType", d.MaintenanceType).OneOf(MaintenanceTypes...)
	v.Field("plannedEnd", d.PlannedEnd).Custom(plannedOrder(d.PlannedStart, d.PlannedEnd))
	return v.Err()
}

// UpdateWorkOrderDTO replaces the planning fields. Status, progression and
// validation have their own operations.
type UpdateWorkOrderDTO struct {
	EquipmentID     int64      `json:"equipmentId"`
	OrganID         *int64     `json:"organId,omitempty"`
	TaskDescription string     `json:"taskDescription"`
	PlannedStart    *time.Time `json:"plannedStart,omitempty"`
	PlannedEnd      *time.Time `json:"plannedEnd,omitempty"`
	TechnicianID    *int64     `json:"technicianId,omitempty"`
	Priority        string     `json:"priority"`
	MaintenanceType string     `json:"maintenanceType"`
	FaultCauseID    *int64     `json:"faultCauseId,omitempty"`
	SubcontractorID *int64     `json:"subcontractorId,omitempty"`
	Remarks         *string    `json:"remarks,omitempty"`
}

func (d UpdateWorkOrderDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("equipmentId", d.EquipmentID).Required().Min(1)
	v.Field("taskDescription", strings.TrimSpace(d.TaskDescription)).Required()
	v.Field("priority", d.Priority).Required().OneOf(Priorities...)
	v.Field("maintenanceType", d.MaintenanceType).Required().OneOf(MaintenanceTypes...)
	v.Field("plannedEnd", d.PlannedEnd).Custom(plannedOrder(d.PlannedStart, d.PlannedEnd))
	return v.Err()
}

type ProgressionDTO struct {
	Progression    *int       `json:"progression"`
	Status         *string    `json:"status,omitempty"`
	ActualStart    *time.Time `json:"actualStart,omitempty"`
	ActualEnd      *time.Time `json:"actualEnd,omitempty"`
	TimeSpentHours *float64   `json:"timeSpentHours,omitempty"`
	Solution       *string    `json:"solution,omitempty"`
	Remarks        *string    `json:"remarks,omitempty"`
	RealCost       *float64   `json:"realCost,omitempty"`
}

func (d ProgressionDTO) Validate() error {
	v := validation.NewValidator()
	// Required treats 0 as missing, which is a valid progression.
	v.Field("progression", d.Progression).Custom(func(interface{}) *errors.AppError {
		if d.Progression == nil {
			return errors.NewValidationFieldError("progression", "progression is required", errors.ErrCodeValidationFailed)
		}
		return nil
	}).Between(0, CompleteProgression)
	v.Field("status", d.Status).OneOf(Statuses...)
	v.Field("timeSpentHours", d.TimeSpentHours).Min(0)
	v.Field("realCost", d.RealCost).Min(0)
	return v.Err()
}

type ValidateDTO struct {
	Comment *string `json:"comment,omitempty"`
}

// ListFilter adds the work-order specific criteria to the common paging filter.
type ListFilter struct {
	paging.Filter
	EquipmentID           *int64
	TechnicianID          *int64
	InterventionRequestID *int64
	Status                *string
	Priority              *string
}

func (f ListFilter) Validate() error {
	v := validation.NewValidator()
	v.Field("status", f.Status).OneOf(Statuses...)
	v.Field("priority", f.Priority).OneOf(Priorities...)
	return v.Err()
}

func plannedOrder(start, end *time.Time) func(interface{}) *errors.AppError {
	return func(interface{}) *errors.AppError {
		if start != nil && end != nil && end.Before(*start) {
			return errors.NewValidationFieldError("plannedEnd", "plannedEnd must not be before plannedStart", errors.ErrCodeInvalidDate)
		}
		return nil
	}
}
