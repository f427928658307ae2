package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	equipmentDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/equipment"
	interventionDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/intervention"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/maintenance-management/internal/equipment"
)

var sorting = paging.Sorting{
	Columns: map[string]string{
		"name":      "name",
		"reference": "reference",
		"type":      "equipment_type",
		"createdat": "created_at",
	},
	Default: "name",
}

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.RepositoryAPI {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) List(ctx context.Context, filter equipment.ListFilter) ([]*equipmentDatamodel.Equipment, int64, error) {
	query := database.Conn(ctx, r.db).Model(&equipmentDatamodel.Equipment{}).
		Scopes(
			paging.Search(filter.Filter, "name", "reference", "equipment_type"),
			paging.DateRange(filter.Filter, "created_at"),
			criteria(filter),
		).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*equipmentDatamodel.Equipment
	if err := query.Scopes(paging.Page(filter.Filter, sorting)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func criteria(filter equipment.ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Type != nil {
			db = db.Where("LOWER(equipment_type) = LOWER(?)", *filter.Type)
		}
		if filter.ProductionLineID != nil {
			db = db.Where("production_line_id = ?", *filter.ProductionLineID)
		}
		return db
	}
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *EquipmentRepository) GetByReference(ctx context.Context, reference string) (*equipmentDatamodel.Equipment, error) {
	return r.first(ctx, "reference = ?", reference)
}

func (r *EquipmentRepository) first(ctx context.Context, query string, arg interface{}) (*equipmentDatamodel.Equipment, error) {
	var row equipmentDatamodel.Equipment
	if err := database.Conn(ctx, r.db).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, row *equipmentDatamodel.Equipment) error {
	return database.Conn(ctx, r.db).Create(row).Error
}

func (r *EquipmentRepository) Update(ctx context.Context, row *equipmentDatamodel.Equipment) error {
	return database.Conn(ctx, r.db).Save(row).Error
}

// Delete removes the equipment together with its organs.
func (r *EquipmentRepository) Delete(ctx context.Context, id int64) error {
	conn := database.Conn(ctx, r.db)
	if err := conn.Where("equipment_id = ?", id).Delete(&equipmentDatamodel.Organ{}).Error; err != nil {
		return err
	}
	return conn.Delete(&equipmentDatamodel.Equipment{}, id).Error
}

func (r *EquipmentRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	conn := database.Conn(ctx, r.db)

	var orders int64
	if err := conn.Model(&workorderDatamodel.WorkOrder{}).Where("equipment_id = ?", id).Count(&orders).Error; err != nil {
		return false, err
	}
	if orders > 0 {
		return true, nil
	}

	var requests int64
	if err := conn.Model(&interventionDatamodel.Request{}).Where("equipment_id = ?", id).Count(&requests).Error; err != nil {
		return false, err
	}
	return requests > 0, nil
}

func (r *EquipmentRepository) ListOrgans(ctx context.Context, equipmentID int64) ([]*equipmentDatamodel.Organ, error) {
	var rows []*equipmentDatamodel.Organ
	err := database.Conn(ctx, r.db).
		Where("equipment_id = ?", equipmentID).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *EquipmentRepository) GetOrgan(ctx context.Context, equipmentID, organID int64) (*equipmentDatamodel.Organ, error) {
	var row equipmentDatamodel.Organ
	err := database.Conn(ctx, r.db).
		Where("id = ? AND equipment_id = ?", organID, equipmentID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EquipmentRepository) CreateOrgan(ctx context.Context, row *equipmentDatamodel.Organ) error {
	return database.Conn(ctx, r.db).Create(row).Error
}

func (r *EquipmentRepository) DeleteOrgan(ctx context.Context, organID int64) error {
	return database.Conn(ctx, r.db).Delete(&equipmentDatamodel.Organ{}, organID).Error
}

func (r *EquipmentRepository) IsOrganReferenced(ctx context.Context, organID int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&workorderDatamodel.WorkOrder{}).
		Where("organ_id = ?", organID).
		Count(&count).Error
	return count > 0, err
}
