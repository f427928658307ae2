package intervention

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/auth"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	interventionDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/intervention"
	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*interventionDatamodel.Request, int64, error)
	GetByID(ctx context.Context, id int64) (*interventionDatamodel.Request, error)
	Create(ctx context.Context, row *interventionDatamodel.Request) error
	Update(ctx context.Context, row *interventionDatamodel.Request) error
	Delete(ctx context.Context, id int64) error
	HasWorkOrders(ctx context.Context, id int64) (bool, error)
}

type EquipmentChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// WorkOrderCreator is satisfied by workorder.Service.
type WorkOrderCreator interface {
	Create(ctx context.Context, createdBy *int64, dto workorder.CreateWorkOrderDTO) (*workorder.WorkOrder, error)
}

type Service struct {
	repo       RepositoryAPI
	equipment  EquipmentChecker
	workOrders WorkOrderCreator
	policy     *auth.ABACPolicy
	transactor database.Transactor
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(
	repo RepositoryAPI,
	equipment EquipmentChecker,
	workOrders WorkOrderCreator,
	policy *auth.ABACPolicy,
	transactor database.Transactor,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	if policy == nil {
		policy = auth.NewABACPolicy(nil)
	}
	return &Service{
		repo:       repo,
		equipment:  equipment,
		workOrders: workOrders,
		policy:     policy,
		transactor: transactor,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) (paging.Result[*Request], error) {
	if err := filter.Validate(); err != nil {
		return paging.Result[*Request]{}, err
	}
	filter.Filter = filter.Filter.Normalize()

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return paging.Result[*Request]{}, errors.NewInternalError("failed to list intervention requests", err)
	}
	items := make([]*Request, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row)
	}
	return paging.NewResult(items, total, filter.Filter), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Request, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load intervention request", err)
	}
	if row == nil {
		return nil, errors.ErrInterventionMissing
	}
	return FromDataModel(row), nil
}

// Create files a request in status New on behalf of the principal.
func (s *Service) Create(ctx context.Context, principal *auth.User, dto CreateRequestDTO) (*Request, error) {
	if principal == nil {
		return nil, errors.ErrInvalidToken
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	priority := string(workorder.PriorityMedium)
	if dto.Priority != nil && *dto.Priority != "" {
		priority = *dto.Priority
	}

	row := &interventionDatamodel.Request{
		EquipmentID:        dto.EquipmentID,
		ProblemDescription: strings.TrimSpace(dto.ProblemDescription),
		RequestedAt:        s.now().UTC(),
		RequesterID:        principal.ID,
		Status:             string(StatusNew),
		Priority:           priority,
	}
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureEquipment(ctx, dto.EquipmentID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return errors.NewInternalError("failed to create intervention request", err)
		}
		database.AfterCommit(ctx, func() {
			s.publish(ctx, events.NewInterventionCreatedEvent(row.ID, row.EquipmentID, row.RequesterID, row.Priority))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("intervention request created",
		"request_id", row.ID,
		"equipment_id", row.EquipmentID,
		"requester_id", row.RequesterID)
	return FromDataModel(row), nil
}

// Update is open to the requester and to managers. Closed requests are frozen.
func (s *Service) Update(ctx context.Context, principal *auth.User, id int64, dto UpdateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *Request
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.Authorize(principal, request.RequesterID, auth.PermInterventionsManage, auth.ActionUpdate); err != nil {
			return err
		}
		if request.IsClosed() {
			return errors.ErrInterventionClosed
		}
		if err := s.ensureEquipment(ctx, dto.EquipmentID); err != nil {
			return err
		}

		request.EquipmentID = dto.EquipmentID
		request.ProblemDescription = strings.TrimSpace(dto.ProblemDescription)
		request.Priority = dto.Priority
		if err := s.save(ctx, request); err != nil {
			return err
		}
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("intervention request updated", "request_id", id)
	return updated, nil
}

// UpdateStatus is the administrative transition, gated to managers at the route.
func (s *Service) UpdateStatus(ctx context.Context, id int64, dto StatusDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *Request
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		request.Status = Status(dto.Status)
		request.StatusComment = dto.Comment
		if err := s.save(ctx, request); err != nil {
			return err
		}
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("intervention request status changed", "request_id", id, "status", dto.Status)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, principal *auth.User, id int64) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.Authorize(principal, request.RequesterID, auth.PermInterventionsManage, auth.ActionDelete); err != nil {
			return err
		}

		hasOrders, err := s.repo.HasWorkOrders(ctx, id)
		if err != nil {
			return errors.NewInternalError("failed to check intervention work orders", err)
		}
		if hasOrders {
			return errors.ErrInterventionInUse
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return errors.NewInternalError("failed to delete intervention request", err)
		}
		s.logger.Info("intervention request deleted", "request_id", id)
		return nil
	})
}

// CreateWorkOrder creates a work order linked to the request and moves the
// request to AwaitingWorkOrder, both or neither.
func (s *Service) CreateWorkOrder(ctx context.Context, principal *auth.User, id int64, dto workorder.CreateWorkOrderDTO) (*workorder.WorkOrder, error) {
	var createdBy *int64
	if principal != nil {
		createdBy = &principal.ID
	}

	var created *workorder.WorkOrder
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if request.IsClosed() {
			return errors.ErrInterventionClosed
		}

		dto.InterventionRequestID = &request.ID
		if dto.EquipmentID == 0 {
			dto.EquipmentID = request.EquipmentID
		}
		if strings.TrimSpace(dto.TaskDescription) == "" {
			dto.TaskDescription = request.ProblemDescription
		}
		if dto.Priority == nil {
			priority := request.Priority
			dto.Priority = &priority
		}

		created, err = s.workOrders.Create(ctx, createdBy, dto)
		if err != nil {
			return err
		}

		request.Status = StatusAwaitingWorkOrder
		return s.save(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order created from intervention request",
		"request_id", id,
		"work_order_id", created.ID,
		"number", created.Number)
	return created, nil
}

func (s *Service) ensureEquipment(ctx context.Context, equipmentID int64) error {
	if s.equipment == nil {
		return nil
	}
	ok, err := s.equipment.Exists(ctx, equipmentID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrEquipmentNotFound
	}
	return nil
}

func (s *Service) save(ctx context.Context, request *Request) error {
	row := ToDataModel(request)
	if err := s.repo.Update(ctx, row); err != nil {
		return errors.NewInternalError("failed to save intervention request", err)
	}
	request.UpdatedAt = row.UpdatedAt
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
