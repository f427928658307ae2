package workflow

import (
	"time"

	workflowDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workflow"
)

type StepStatus string

const (
	StepInProgress StepStatus = "InProgress"
	StepCompleted  StepStatus = "Completed"
	StepRejected   StepStatus = "Rejected"
)

var StepStatuses = []string{string(StepInProgress), string(StepCompleted), string(StepRejected)}

// ClosingStatuses are the outcomes a history record can be closed with.
var ClosingStatuses = []string{string(StepCompleted), string(StepRejected)}

type Workflow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Steps       []*Step   `json:"steps"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FirstStep returns the step with the lowest order, or nil for an empty template.
func (w *Workflow) FirstStep() *Step {
	var first *Step
	for _, s := range w.Steps {
		if first == nil || s.Order < first.Order {
			first = s
		}
	}
	return first
}

func (w *Workflow) HasStep(stepID int64) bool {
	for _, s := range w.Steps {
		if s.ID == stepID {
			return true
		}
	}
	return false
}

type Step struct {
	ID          int64   `json:"id"`
	WorkflowID  int64   `json:"workflowId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Order       int     `json:"order"`
}

// HistoryRecord is one attempt at a step. Closed records are never modified.
type HistoryRecord struct {
	ID          int64      `json:"id"`
	WorkOrderID int64      `json:"workOrderId"`
	StepID      int64      `json:"stepId"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Status      StepStatus `json:"status"`
	Comment     *string    `json:"comment,omitempty"`
	RecordedBy  *int64     `json:"recordedBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (h *HistoryRecord) IsClosed() bool {
	return h.EndTime != nil
}

func FromDataModel(row *workflowDatamodel.Workflow, steps []*workflowDatamodel.Step) *Workflow {
	w := &Workflow{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Steps:       make([]*Step, len(steps)),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	for i, s := range steps {
		w.Steps[i] = StepFromDataModel(s)
	}
	return w
}

func StepFromDataModel(row *workflowDatamodel.Step) *Step {
	return &Step{
		ID:          row.ID,
		WorkflowID:  row.WorkflowID,
		Name:        row.Name,
		Description: row.Description,
		Order:       row.Order,
	}
}

func HistoryFromDataModel(row *workflowDatamodel.History) *HistoryRecord {
	return &HistoryRecord{
		ID:          row.ID,
		WorkOrderID: row.WorkOrderID,
		StepID:      row.StepID,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		Status:      StepStatus(row.Status),
		Comment:     row.Comment,
		RecordedBy:  row.RecordedBy,
		CreatedAt:   row.CreatedAt,
	}
}
