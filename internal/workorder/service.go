package workorder

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/maintenance-management/internal/core/events"
)

type RepositoryAPI interface {
	NumberChecker
	List(ctx context.Context, filter ListFilter) ([]*workorderDatamodel.WorkOrder, int64, error)
	GetByID(ctx context.Context, id int64) (*workorderDatamodel.WorkOrder, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*workorderDatamodel.WorkOrder, error)
	GetByNumber(ctx context.Context, number string) (*workorderDatamodel.WorkOrder, error)
	Create(ctx context.Context, workOrder *workorderDatamodel.WorkOrder) error
	UpdateColumns(ctx context.Context, id int64, columns map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id int64) error
	HasHistory(ctx context.Context, id int64) (bool, error)
}

type EquipmentChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
	OrganBelongs(ctx context.Context, equipmentID, organID int64) (bool, error)
}

type TechnicianChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// WorkflowStarter attaches a workflow to a freshly created work order and
// opens its first step. It runs inside the caller's transaction.
type WorkflowStarter interface {
	Start(ctx context.Context, workOrderID, workflowID int64, recordedBy *int64) error
}

type Service struct {
	repo        RepositoryAPI
	numbers     *NumberGenerator
	equipment   EquipmentChecker
	technicians TechnicianChecker
	workflows   WorkflowStarter
	transactor  database.Transactor
	publisher   events.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(
	repo RepositoryAPI,
	equipment EquipmentChecker,
	technicians TechnicianChecker,
	workflows WorkflowStarter,
	transactor database.Transactor,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		numbers:     NewNumberGenerator(repo),
		equipment:   equipment,
		technicians: technicians,
		workflows:   workflows,
		transactor:  transactor,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) GenerateNumber(ctx context.Context) (string, error) {
	return s.numbers.Generate(ctx)
}

// Create stores a work order in ToDo. With a workflowId the workflow is
// attached and its first step opened in the same transaction.
func (s *Service) Create(ctx context.Context, createdBy *int64, dto CreateWorkOrderDTO) (*WorkOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var created *workorderDatamodel.WorkOrder
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, dto.EquipmentID, dto.OrganID, dto.TechnicianID); err != nil {
			return err
		}

		number, err := s.resolveNumber(ctx, dto.Number)
		if err != nil {
			return err
		}

		row := &workorderDatamodel.WorkOrder{
			Number:                number,
			EquipmentID:           dto.EquipmentID,
			OrganID:               dto.OrganID,
			TaskDescription:       strings.TrimSpace(dto.TaskDescription),
			PlannedStart:          dto.PlannedStart,
			PlannedEnd:            dto.PlannedEnd,
			TechnicianID:          dto.TechnicianID,
			Status:                string(StatusToDo),
			Priority:              valueOr(dto.Priority, string(PriorityMedium)),
			MaintenanceType:       valueOr(dto.MaintenanceType, string(MaintenanceCorrective)),
			Progression:           0,
			FaultCauseID:          dto.FaultCauseID,
			InterventionRequestID: dto.InterventionRequestID,
			SubcontractorID:       dto.SubcontractorID,
			Remarks:               dto.Remarks,
			CreatedBy:             createdBy,
		}
		if err := s.repo.Create(ctx, row); err != nil {
			if database.IsUniqueViolation(err) {
				return errors.ErrDuplicateWorkOrder
			}
			return errors.NewInternalError("failed to create work order", err)
		}

		if dto.WorkflowID != nil {
			if s.workflows == nil {
				return errors.NewInternalError("workflow engine not configured", nil)
			}
			if err := s.workflows.Start(ctx, row.ID, *dto.WorkflowID, createdBy); err != nil {
				return err
			}
			row.WorkflowID = dto.WorkflowID
		}

		created = row
		database.AfterCommit(ctx, func() {
			s.publish(ctx, events.NewWorkOrderCreatedEvent(row.ID, row.Number, row.EquipmentID, row.Priority, createdBy))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order created",
		"work_order_id", created.ID,
		"number", created.Number,
		"equipment_id", created.EquipmentID)
	return FromDataModel(created), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*WorkOrder, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load work order", err)
	}
	if row == nil {
		return nil, errors.ErrWorkOrderNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*WorkOrder, error) {
	row, err := s.repo.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, errors.NewInternalError("failed to load work order", err)
	}
	if row == nil {
		return nil, errors.ErrWorkOrderNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) (paging.Result[*WorkOrder], error) {
	if err := filter.Validate(); err != nil {
		return paging.Result[*WorkOrder]{}, err
	}
	filter.Filter = filter.Filter.Normalize()

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return paging.Result[*WorkOrder]{}, errors.NewInternalError("failed to list work orders", err)
	}

	items := make([]*WorkOrder, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row)
	}
	return paging.NewResult(items, total, filter.Filter), nil
}

// Update replaces the planning fields of a work order that is not validated.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateWorkOrderDTO) (*WorkOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *WorkOrder
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		workOrder, err := s.getForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if workOrder.IsLocked() {
			return errors.ErrWorkOrderLocked
		}
		if err := s.checkReferences(ctx, dto.EquipmentID, dto.OrganID, dto.TechnicianID); err != nil {
			return err
		}

		workOrder.applyPlanning(dto)
		if err := s.save(ctx, workOrder, workOrder.planningColumns()); err != nil {
			return err
		}
		updated = workOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order updated", "work_order_id", id)
	return updated, nil
}

func (s *Service) UpdateProgression(ctx context.Context, id int64, dto ProgressionDTO) (*WorkOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *WorkOrder
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		workOrder, err := s.getForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := workOrder.ApplyProgression(dto, s.now().UTC()); err != nil {
			return err
		}
		if err := s.save(ctx, workOrder, workOrder.progressionColumns()); err != nil {
			return err
		}
		updated = workOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order progression updated",
		"work_order_id", id,
		"progression", updated.Progression,
		"status", updated.Status)
	return updated, nil
}

func (s *Service) Validate(ctx context.Context, id, validatorID int64, dto ValidateDTO) (*WorkOrder, error) {
	var validated *WorkOrder
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		workOrder, err := s.getForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := workOrder.Validate(validatorID, dto.Comment, s.now().UTC()); err != nil {
			return err
		}
		if err := s.save(ctx, workOrder, workOrder.validationColumns()); err != nil {
			return err
		}
		validated = workOrder
		database.AfterCommit(ctx, func() {
			s.publish(ctx, events.NewWorkOrderValidatedEvent(workOrder.ID, workOrder.Number, validatorID))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order validated", "work_order_id", id, "validator_id", validatorID)
	return validated, nil
}

// Delete removes a work order that has no workflow history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.getForUpdate(ctx, id); err != nil {
			return err
		}

		hasHistory, err := s.repo.HasHistory(ctx, id)
		if err != nil {
			return errors.NewInternalError("failed to check work order history", err)
		}
		if hasHistory {
			return errors.ErrWorkOrderHasHistory
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return errors.NewInternalError("failed to delete work order", err)
		}
		s.logger.Info("work order deleted", "work_order_id", id)
		return nil
	})
}

func (s *Service) resolveNumber(ctx context.Context, requested string) (string, error) {
	number := strings.TrimSpace(requested)
	if number == "" {
		return s.numbers.Generate(ctx)
	}

	exists, err := s.repo.NumberExists(ctx, number)
	if err != nil {
		return "", errors.NewInternalError("failed to check work order number", err)
	}
	if exists {
		return "", errors.ErrDuplicateWorkOrder
	}
	return number, nil
}

func (s *Service) checkReferences(ctx context.Context, equipmentID int64, organID, technicianID *int64) error {
	if s.equipment != nil {
		ok, err := s.equipment.Exists(ctx, equipmentID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrEquipmentNotFound
		}
		if organID != nil {
			ok, err := s.equipment.OrganBelongs(ctx, equipmentID, *organID)
			if err != nil {
				return err
			}
			if !ok {
				return errors.ErrOrganNotFound
			}
		}
	}

	if technicianID != nil && s.technicians != nil {
		ok, err := s.technicians.Exists(ctx, *technicianID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrEmployeeNotFound
		}
	}
	return nil
}

func (s *Service) getForUpdate(ctx context.Context, id int64) (*WorkOrder, error) {
	row, err := s.repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load work order", err)
	}
	if row == nil {
		return nil, errors.ErrWorkOrderNotFound
	}
	return FromDataModel(row), nil
}

// save writes only the columns owned by the calling operation. The write is
// refused when the work order was validated after it was read.
func (s *Service) save(ctx context.Context, workOrder *WorkOrder, columns map[string]interface{}) error {
	now := s.now().UTC()
	columns["updated_at"] = now
	saved, err := s.repo.UpdateColumns(ctx, workOrder.ID, columns)
	if err != nil {
		return errors.NewInternalError("failed to save work order", err)
	}
	if !saved {
		return errors.ErrWorkOrderLocked
	}
	workOrder.UpdatedAt = now
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
