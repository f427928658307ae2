package workflow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	workflowDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workflow"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter paging.Filter) ([]*workflowDatamodel.Workflow, int64, error)
	GetByID(ctx context.Context, id int64) (*workflowDatamodel.Workflow, error)
	ListSteps(ctx context.Context, workflowID int64) ([]*workflowDatamodel.Step, error)
	Create(ctx context.Context, row *workflowDatamodel.Workflow, steps []*workflowDatamodel.Step) error

	GetWorkOrder(ctx context.Context, id int64) (*workorderDatamodel.WorkOrder, error)
	AttachWorkflow(ctx context.Context, workOrderID, workflowID int64) error

	AppendHistory(ctx context.Context, row *workflowDatamodel.History) error
	GetHistory(ctx context.Context, id int64) (*workflowDatamodel.History, error)
	// CloseHistory reports false when the record was already closed.
	CloseHistory(ctx context.Context, row *workflowDatamodel.History) (bool, error)
	ListHistory(ctx context.Context, workOrderID int64) ([]*workflowDatamodel.History, error)
}

type Service struct {
	repo       RepositoryAPI
	transactor database.Transactor
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, transactor database.Transactor, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		transactor: transactor,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter paging.Filter) (paging.Result[*Workflow], error) {
	filter = filter.Normalize()
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return paging.Result[*Workflow]{}, errors.NewInternalError("failed to list workflows", err)
	}

	items := make([]*Workflow, len(rows))
	for i, row := range rows {
		steps, err := s.repo.ListSteps(ctx, row.ID)
		if err != nil {
			return paging.Result[*Workflow]{}, errors.NewInternalError("failed to load workflow steps", err)
		}
		items[i] = FromDataModel(row, steps)
	}
	return paging.NewResult(items, total, filter), nil
}

// Get returns the workflow with its steps ordered by their order.
func (s *Service) Get(ctx context.Context, id int64) (*Workflow, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load workflow", err)
	}
	if row == nil {
		return nil, errors.ErrWorkflowNotFound
	}

	steps, err := s.repo.ListSteps(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load workflow steps", err)
	}
	return FromDataModel(row, steps), nil
}

func (s *Service) Create(ctx context.Context, dto CreateWorkflowDTO) (*Workflow, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &workflowDatamodel.Workflow{
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
	}
	steps := make([]*workflowDatamodel.Step, len(dto.Steps))
	for i, step := range dto.Steps {
		steps[i] = &workflowDatamodel.Step{
			Name:        strings.TrimSpace(step.Name),
			Description: step.Description,
			Order:       step.Order,
		}
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, row, steps); err != nil {
			if database.IsUniqueViolation(err) {
				return errors.NewValidationFieldError("steps", "step orders must be unique", errors.ErrCodeDuplicateWorkflowStep)
			}
			return errors.NewInternalError("failed to create workflow", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workflow created", "workflow_id", row.ID, "steps", len(steps))
	return s.Get(ctx, row.ID)
}

// Attach points the work order at a workflow. No history is written.
func (s *Service) Attach(ctx context.Context, workOrderID int64, dto AttachDTO) (*Workflow, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var attached *Workflow
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.openWorkOrder(ctx, workOrderID); err != nil {
			return err
		}
		wf, err := s.Get(ctx, dto.WorkflowID)
		if err != nil {
			return err
		}
		if err := s.repo.AttachWorkflow(ctx, workOrderID, wf.ID); err != nil {
			return errors.NewInternalError("failed to attach workflow", err)
		}
		attached = wf
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workflow attached", "work_order_id", workOrderID, "workflow_id", dto.WorkflowID)
	return attached, nil
}

// Start attaches the workflow and opens its first step. It joins the caller's
// transaction so the work order and its first record commit together.
func (s *Service) Start(ctx context.Context, workOrderID, workflowID int64, recordedBy *int64) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		wf, err := s.Get(ctx, workflowID)
		if err != nil {
			return err
		}
		if err := s.repo.AttachWorkflow(ctx, workOrderID, wf.ID); err != nil {
			return errors.NewInternalError("failed to attach workflow", err)
		}

		first := wf.FirstStep()
		if first == nil {
			return nil
		}
		_, err = s.appendRecord(ctx, &workflowDatamodel.History{
			WorkOrderID: workOrderID,
			StepID:      first.ID,
			StartTime:   s.now().UTC(),
			Status:      string(StepInProgress),
			RecordedBy:  recordedBy,
		})
		return err
	})
}

// AdvanceStep appends a history record. Steps may repeat or be taken out of
// order, but must belong to the attached workflow.
func (s *Service) AdvanceStep(ctx context.Context, workOrderID int64, recordedBy *int64, dto AdvanceStepDTO) (*HistoryRecord, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var record *HistoryRecord
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		wo, err := s.openWorkOrder(ctx, workOrderID)
		if err != nil {
			return err
		}
		if wo.WorkflowID == nil {
			return errors.ErrNoWorkflowAttached
		}
		wf, err := s.Get(ctx, *wo.WorkflowID)
		if err != nil {
			return err
		}
		if !wf.HasStep(dto.StepID) {
			return errors.ErrStepNotFound
		}

		start := s.now().UTC()
		if dto.StartTime != nil {
			start = dto.StartTime.UTC()
		}
		record, err = s.appendRecord(ctx, &workflowDatamodel.History{
			WorkOrderID: workOrderID,
			StepID:      dto.StepID,
			StartTime:   start,
			EndTime:     dto.EndTime,
			Status:      dto.Status,
			Comment:     dto.Comment,
			RecordedBy:  recordedBy,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workflow step recorded",
		"work_order_id", workOrderID,
		"step_id", dto.StepID,
		"history_id", record.ID,
		"status", record.Status)
	return record, nil
}

// CloseStep sets the end of an open record. Closed records are immutable.
func (s *Service) CloseStep(ctx context.Context, workOrderID, historyID int64, dto CloseStepDTO) (*HistoryRecord, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var record *HistoryRecord
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.openWorkOrder(ctx, workOrderID); err != nil {
			return err
		}

		row, err := s.repo.GetHistory(ctx, historyID)
		if err != nil {
			return errors.NewInternalError("failed to load workflow history", err)
		}
		if row == nil || row.WorkOrderID != workOrderID {
			return errors.ErrHistoryNotFound
		}
		if row.EndTime != nil {
			return errors.ErrHistoryClosed
		}

		end := s.now().UTC()
		if dto.EndTime != nil {
			end = dto.EndTime.UTC()
		}
		if end.Before(row.StartTime) {
			return errors.NewValidationFieldError("endTime", "endTime must not be before startTime", errors.ErrCodeInvalidDate)
		}

		row.EndTime = &end
		row.Status = dto.Status
		if dto.Comment != nil {
			row.Comment = dto.Comment
		}
		closed, err := s.repo.CloseHistory(ctx, row)
		if err != nil {
			return errors.NewInternalError("failed to close workflow history", err)
		}
		if !closed {
			return errors.ErrHistoryClosed
		}

		record = HistoryFromDataModel(row)
		database.AfterCommit(ctx, func() {
			s.publish(ctx, events.NewStepRecordedEvent(workOrderID, row.StepID, row.ID, row.Status))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workflow step closed", "work_order_id", workOrderID, "history_id", historyID, "status", dto.Status)
	return record, nil
}

// History lists the records of a work order in insertion order.
func (s *Service) History(ctx context.Context, workOrderID int64) ([]*HistoryRecord, error) {
	wo, err := s.repo.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load work order", err)
	}
	if wo == nil {
		return nil, errors.ErrWorkOrderNotFound
	}

	rows, err := s.repo.ListHistory(ctx, workOrderID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load workflow history", err)
	}
	records := make([]*HistoryRecord, len(rows))
	for i, row := range rows {
		records[i] = HistoryFromDataModel(row)
	}
	return records, nil
}

func (s *Service) openWorkOrder(ctx context.Context, id int64) (*workorderDatamodel.WorkOrder, error) {
	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load work order", err)
	}
	if wo == nil {
		return nil, errors.ErrWorkOrderNotFound
	}
	if wo.Status == string(workorder.StatusValidated) {
		return nil, errors.ErrWorkOrderLocked
	}
	return wo, nil
}

func (s *Service) appendRecord(ctx context.Context, row *workflowDatamodel.History) (*HistoryRecord, error) {
	if err := s.repo.AppendHistory(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to append workflow history", err)
	}
	database.AfterCommit(ctx, func() {
		s.publish(ctx, events.NewStepRecordedEvent(row.WorkOrderID, row.StepID, row.ID, row.Status))
	})
	return HistoryFromDataModel(row), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
