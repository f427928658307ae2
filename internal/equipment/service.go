package equipment

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	equipmentDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/equipment"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*equipmentDatamodel.Equipment, int64, error)
	GetByID(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error)
	GetByReference(ctx context.Context, reference string) (*equipmentDatamodel.Equipment, error)
	Create(ctx context.Context, equipment *equipmentDatamodel.Equipment) error
	Update(ctx context.Context, equipment *equipmentDatamodel.Equipment) error
	Delete(ctx context.Context, id int64) error
	// IsReferenced reports whether work orders or intervention requests point at the equipment.
	IsReferenced(ctx context.Context, id int64) (bool, error)

	ListOrgans(ctx context.Context, equipmentID int64) ([]*equipmentDatamodel.Organ, error)
	GetOrgan(ctx context.Context, equipmentID, organID int64) (*equipmentDatamodel.Organ, error)
	CreateOrgan(ctx context.Context, organ *equipmentDatamodel.Organ) error
	DeleteOrgan(ctx context.Context, organID int64) error
	IsOrganReferenced(ctx context.Context, organID int64) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	transactor database.Transactor
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, transactor database.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		transactor: transactor,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) (paging.Result[*Equipment], error) {
	if err := filter.Validate(); err != nil {
		return paging.Result[*Equipment]{}, err
	}
	filter.Filter = filter.Filter.Normalize()
	if filter.Type != nil {
		trimmed := strings.TrimSpace(*filter.Type)
		filter.Type = &trimmed
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return paging.Result[*Equipment]{}, errors.NewInternalError("failed to list equipment", err)
	}

	items := make([]*Equipment, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row)
	}
	return paging.NewResult(items, total, filter.Filter), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Equipment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load equipment", err)
	}
	if row == nil {
		return nil, errors.ErrEquipmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByReference(ctx context.Context, reference string) (*Equipment, error) {
	row, err := s.repo.GetByReference(ctx, strings.TrimSpace(reference))
	if err != nil {
		return nil, errors.NewInternalError("failed to load equipment", err)
	}
	if row == nil {
		return nil, errors.ErrEquipmentNotFound
	}
	return FromDataModel(row), nil
}

// Create stores a new equipment. The unique index on reference settles races
// the pre-check cannot see.
func (s *Service) Create(ctx context.Context, dto EquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureReferenceFree(ctx, dto.normalizedReference(), 0); err != nil {
		return nil, err
	}

	equipment := &Equipment{}
	equipment.apply(dto)
	row := ToDataModel(equipment)
	if err := s.repo.Create(ctx, row); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateReference
		}
		return nil, errors.NewInternalError("failed to create equipment", err)
	}

	s.logger.Info("equipment created", "equipment_id", row.ID, "reference", row.Reference)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto EquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load equipment", err)
	}
	if row == nil {
		return nil, errors.ErrEquipmentNotFound
	}

	if err := s.ensureReferenceFree(ctx, dto.normalizedReference(), id); err != nil {
		return nil, err
	}

	equipment := FromDataModel(row)
	equipment.apply(dto)
	updated := ToDataModel(equipment)
	if err := s.repo.Update(ctx, updated); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateReference
		}
		return nil, errors.NewInternalError("failed to update equipment", err)
	}

	s.logger.Info("equipment updated", "equipment_id", id)
	return FromDataModel(updated), nil
}

// Delete removes an equipment and its organs. Equipment still referenced by
// work orders or intervention requests is kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return errors.NewInternalError("failed to load equipment", err)
		}
		if row == nil {
			return errors.ErrEquipmentNotFound
		}

		referenced, err := s.repo.IsReferenced(ctx, id)
		if err != nil {
			return errors.NewInternalError("failed to check equipment usage", err)
		}
		if referenced {
			return errors.ErrEquipmentInUse
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return errors.NewInternalError("failed to delete equipment", err)
		}
		s.logger.Info("equipment deleted", "equipment_id", id, "reference", row.Reference)
		return nil
	})
}

func (s *Service) ListOrgans(ctx context.Context, equipmentID int64) ([]*Organ, error) {
	if _, err := s.Get(ctx, equipmentID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListOrgans(ctx, equipmentID)
	if err != nil {
		return nil, errors.NewInternalError("failed to list organs", err)
	}
	organs := make([]*Organ, len(rows))
	for i, row := range rows {
		organs[i] = OrganFromDataModel(row)
	}
	return organs, nil
}

func (s *Service) CreateOrgan(ctx context.Context, equipmentID int64, dto OrganDTO) (*Organ, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, equipmentID); err != nil {
		return nil, err
	}

	row := &equipmentDatamodel.Organ{
		EquipmentID: equipmentID,
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
	}
	if err := s.repo.CreateOrgan(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to create organ", err)
	}

	s.logger.Info("organ created", "equipment_id", equipmentID, "organ_id", row.ID)
	return OrganFromDataModel(row), nil
}

func (s *Service) DeleteOrgan(ctx context.Context, equipmentID, organID int64) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		organ, err := s.repo.GetOrgan(ctx, equipmentID, organID)
		if err != nil {
			return errors.NewInternalError("failed to load organ", err)
		}
		if organ == nil {
			return errors.ErrOrganNotFound
		}

		referenced, err := s.repo.IsOrganReferenced(ctx, organID)
		if err != nil {
			return errors.NewInternalError("failed to check organ usage", err)
		}
		if referenced {
			return errors.ErrOrganInUse
		}

		if err := s.repo.DeleteOrgan(ctx, organID); err != nil {
			return errors.NewInternalError("failed to delete organ", err)
		}
		s.logger.Info("organ deleted", "equipment_id", equipmentID, "organ_id", organID)
		return nil
	})
}

// Exists is used by work orders and intervention requests to check the
// equipment they point at.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, errors.NewInternalError("failed to load equipment", err)
	}
	return row != nil, nil
}

func (s *Service) OrganBelongs(ctx context.Context, equipmentID, organID int64) (bool, error) {
	organ, err := s.repo.GetOrgan(ctx, equipmentID, organID)
	if err != nil {
		return false, errors.NewInternalError("failed to load organ", err)
	}
	return organ != nil, nil
}

func (s *Service) ensureReferenceFree(ctx context.Context, reference string, selfID int64) error {
	existing, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return errors.NewInternalError("failed to check equipment reference", err)
	}
	if existing != nil && existing.ID != selfID {
		return errors.ErrDuplicateReference
	}
	return nil
}
