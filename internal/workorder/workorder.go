package workorder

import (
	"time"

	errors "github.com/frahmantamala/maintenance-management/internal"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
)

type Status string

const (
	StatusToDo       Status = "ToDo"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
	StatusValidated  Status = "Validated"
)

var Statuses = []string{string(StatusToDo), string(StatusInProgress), string(StatusDone), string(StatusValidated)}

type Priority string

const (
	PriorityUrgent Priority = "Urgent"
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var Priorities = []string{string(PriorityUrgent), string(PriorityHigh), string(PriorityMedium), string(PriorityLow)}

type MaintenanceType string

const (
	MaintenanceCorrective            MaintenanceType = "Corrective"
	MaintenancePreventiveRepetitive  MaintenanceType = "PreventiveRepetitive"
	MaintenancePreventiveConditional MaintenanceType = "PreventiveConditional"
)

var MaintenanceTypes = []string{
	string(MaintenanceCorrective),
	string(MaintenancePreventiveRepetitive),
	string(MaintenancePreventiveConditional),
}

const CompleteProgression = 100

type WorkOrder struct {
	ID                    int64           `json:"id"`
	Number                string          `json:"number"`
	EquipmentID           int64           `json:"equipmentId"`
	OrganID               *int64          `json:"organId,omitempty"`
	TaskDescription       string          `json:"taskDescription"`
	PlannedStart          *time.Time      `json:"plannedStart,omitempty"`
	PlannedEnd            *time.Time      `json:"plannedEnd,omitempty"`
	ActualStart           *time.Time      `json:"actualStart,omitempty"`
	ActualEnd             *time.Time      `json:"actualEnd,omitempty"`
	TechnicianID          *int64          `json:"technicianId,omitempty"`
	Status                Status          `json:"status"`
	Priority              Priority        `json:"priority"`
	MaintenanceType       MaintenanceType `json:"maintenanceType"`
	TimeSpentHours        *float64        `json:"timeSpentHours,omitempty"`
	RealCost              *float64        `json:"realCost,omitempty"`
	Progression           int             `json:"progression"`
	FaultCauseID          *int64          `json:"faultCauseId,omitempty"`
	InterventionRequestID *int64          `json:"interventionRequestId,omitempty"`
	SubcontractorID       *int64          `json:"subcontractorId,omitempty"`
	WorkflowID            *int64          `json:"workflowId,omitempty"`
	ValidatedAt           *time.Time      `json:"validatedAt,omitempty"`
	ValidatorID           *int64          `json:"validatorId,omitempty"`
	ValidationComment     *string         `json:"validationComment,omitempty"`
	Solution              *string         `json:"solution,omitempty"`
	Remarks               *string         `json:"remarks,omitempty"`
	CreatedBy             *int64          `json:"createdBy,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// IsLocked reports whether the work order has been validated. A validated
// work order accepts no further changes.
func (w *WorkOrder) IsLocked() bool {
	return w.Status == StatusValidated
}

// ApplyProgression records execution progress. Status may move freely between
// ToDo, InProgress and Done; Done needs a progression of 100. Validated is only
// reached through Validate.
func (w *WorkOrder) ApplyProgression(dto ProgressionDTO, now time.Time) error {
	if w.IsLocked() {
		return errors.ErrWorkOrderLocked
	}

	status := w.Status
	if dto.Status != nil {
		status = Status(*dto.Status)
	}
	if status == StatusValidated {
		return errors.ErrInvalidWorkOrderStatus.WithMessage("Work orders are validated through the validation endpoint")
	}

	progression := *dto.Progression
	if status == StatusDone && progression != CompleteProgression {
		return errors.ErrInvalidWorkOrderStatus.WithMessage("A work order can only be Done at 100% progression")
	}

	if dto.ActualStart != nil {
		w.ActualStart = dto.ActualStart
	}
	if dto.ActualEnd != nil {
		w.ActualEnd = dto.ActualEnd
	}
	if status != StatusToDo && w.ActualStart == nil {
		start := now
		w.ActualStart = &start
	}
	if status == StatusDone && w.ActualEnd == nil {
		end := now
		w.ActualEnd = &end
	}
	if w.ActualStart != nil && w.ActualEnd != nil && w.ActualEnd.Before(*w.ActualStart) {
		return errors.NewValidationFieldError("actualEnd", "actualEnd must not be before actualStart", errors.ErrCodeInvalidDate)
	}

	w.Status = status
	w.Progression = progression
	if dto.TimeSpentHours != nil {
		w.TimeSpentHours = dto.TimeSpentHours
	}
	if dto.RealCost != nil {
		w.RealCost = dto.RealCost
	}
	if dto.Solution != nil {
		w.Solution = dto.Solution
	}
	if dto.Remarks != nil {
		w.Remarks = dto.Remarks
	}
	return nil
}

// Validate closes the lifecycle. Only a Done work order can be validated.
func (w *WorkOrder) Validate(validatorID int64, comment *string, now time.Time) error {
	if w.IsLocked() {
		return errors.ErrWorkOrderLocked
	}
	if w.Status != StatusDone {
		return errors.ErrInvalidWorkOrderStatus.WithMessage("Only Done work orders can be validated")
	}

	validatedAt := now
	w.Status = StatusValidated
	w.ValidatedAt = &validatedAt
	w.ValidatorID = &validatorID
	w.ValidationComment = comment
	return nil
}

func (w *WorkOrder) applyPlanning(dto UpdateWorkOrderDTO) {
	w.EquipmentID = dto.EquipmentID
	w.OrganID = dto.OrganID
	w.TaskDescription = dto.TaskDescription
	w.PlannedStart = dto.PlannedStart
	w.PlannedEnd = dto.PlannedEnd
	w.TechnicianID = dto.TechnicianID
	w.Priority = Priority(dto.Priority)
	w.MaintenanceType = MaintenanceType(dto.MaintenanceType)
	w.FaultCauseID = dto.FaultCauseID
	w.SubcontractorID = dto.SubcontractorID
	w.Remarks = dto.Remarks
}

// planningColumns and its siblings are the columns each operation owns.
// Saves write only these so concurrent changes to other columns survive.
func (w *WorkOrder) planningColumns() map[string]interface{} {
	return map[string]interface{}{
		"equipment_id":     w.EquipmentID,
		"organ_id":         w.OrganID,
		"task_description": w.TaskDescription,
		"planned_start":    w.PlannedStart,
		"planned_end":      w.PlannedEnd,
		"technician_id":    w.TechnicianID,
		"priority":         string(w.Priority),
		"maintenance_type": string(w.MaintenanceType),
		"fault_cause_id":   w.FaultCauseID,
		"subcontractor_id": w.SubcontractorID,
		"remarks":          w.Remarks,
	}
}

func (w *WorkOrder) progressionColumns() map[string]interface{} {
	return map[string]interface{}{
		"status":           string(w.Status),
		"progression":      w.Progression,
		"actual_start":     w.ActualStart,
		"actual_end":       w.ActualEnd,
		"time_spent_hours": w.TimeSpentHours,
		"real_cost":        w.RealCost,
		"solution":         w.Solution,
		"remarks":          w.Remarks,
	}
}

func (w *WorkOrder) validationColumns() map[string]interface{} {
	return map[string]interface{}{
		"status":             string(w.Status),
		"validated_at":       w.ValidatedAt,
		"validator_id":       w.ValidatorID,
		"validation_comment": w.ValidationComment,
	}
}

func FromDataModel(row *workorderDatamodel.WorkOrder) *WorkOrder {
	return &WorkOrder{
		ID:                    row.ID,
		Number:                row.Number,
		EquipmentID:           row.EquipmentID,
		OrganID:               row.OrganID,
		TaskDescription:       row.TaskDescription,
		PlannedStart:          row.PlannedStart,
		PlannedEnd:            row.PlannedEnd,
		ActualStart:           row.ActualStart,
		ActualEnd:             row.ActualEnd,
		TechnicianID:          row.TechnicianID,
		Status:                Status(row.Status),
		Priority:              Priority(row.Priority),
		MaintenanceType:       MaintenanceType(row.MaintenanceType),
		TimeSpentHours:        row.TimeSpentHours,
		RealCost:              row.RealCost,
		Progression:           row.Progression,
		FaultCauseID:          row.FaultCauseID,
		InterventionRequestID: row.InterventionRequestID,
		SubcontractorID:       row.SubcontractorID,
		WorkflowID:            row.WorkflowID,
		ValidatedAt:           row.ValidatedAt,
		ValidatorID:           row.ValidatorID,
		ValidationComment:     row.ValidationComment,
		Solution:              row.Solution,
		Remarks:               row.Remarks,
		CreatedBy:             row.CreatedBy,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
}
