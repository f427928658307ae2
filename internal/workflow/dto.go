package workflow

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/common/validation"
)

type StepDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Order       int     `json:"order"`
}

type CreateWorkflowDTO struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Steps       []StepDTO `json:"steps"`
}

func (d CreateWorkflowDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(100)
	v.Field("steps", d.Steps).Custom(func(interface{}) *errors.AppError {
		if len(d.Steps) == 0 {
			return errors.NewValidationFieldError("steps", "steps must contain at least one step", errors.ErrCodeValidationFailed)
		}
		return nil
	})

	seen := make(map[int]bool, len(d.Steps))
	for i, step := range d.Steps {
		prefix := fmt.Sprintf("steps[%d].", i)
		v.Field(prefix+"name", strings.TrimSpace(step.Name)).Required().MaxLength(100)
		v.Field(prefix+"order", step.Order).Min(1)

		order := step.Order
		duplicate := seen[order]
		seen[order] = true
		v.Field(prefix+"order", order).Custom(func(interface{}) *errors.AppError {
			if duplicate {
				return errors.NewValidationFieldError(prefix+"order",
					fmt.Sprintf("step order %d is used more than once", order), errors.ErrCodeDuplicateWorkflowStep)
			}
			return nil
		})
	}
	return v.Err()
}

type AttachDTO struct {
	WorkflowID int64 `json:"workflowId"`
}

func (d AttachDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("workflowId", d.WorkflowID).Required().Min(1)
	return v.Err()
}

// AdvanceStepDTO appends a history record. StartTime defaults to now.
type AdvanceStepDTO struct {
	StepID    int64      `json:"stepId"`
	Status    string     `json:"status"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Comment   *string    `json:"comment,omitempty"`
}

func (d AdvanceStepDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("stepId", d.StepID).Required().Min(1)
	v.Field("status", d.Status).Required().OneOf(StepStatuses...)
	v.Field("endTime", d.EndTime).Custom(endAfterStart(d.StartTime, d.EndTime))
	return v.Err()
}

// CloseStepDTO sets the end of an open record. EndTime defaults to now.
type CloseStepDTO struct {
	Status  string     `json:"status"`
	EndTime *time.Time `json:"endTime,omitempty"`
	Comment *string    `json:"comment,omitempty"`
}

func (d CloseStepDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(ClosingStatuses...)
	return v.Err()
}

func endAfterStart(start, end *time.Time) func(interface{}) *errors.AppError {
	return func(interface{}) *errors.AppError {
		if start != nil && end != nil && end.Before(*start) {
			return errors.NewValidationFieldError("endTime", "endTime must not be before startTime", errors.ErrCodeInvalidDate)
		}
		return nil
	}
}
