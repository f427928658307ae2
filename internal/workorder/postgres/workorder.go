package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	workflowDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workflow"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/maintenance-management/internal/workorder"
)

var sorting = paging.Sorting{
	Columns: map[string]string{
		"number":       "number",
		"status":       "status",
		"priority":     "priority",
		"progression":  "progression",
		"plannedstart": "planned_start",
		"createdat":    "created_at",
	},
	Default: "created_at",
}

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) workorder.RepositoryAPI {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) List(ctx context.Context, filter workorder.ListFilter) ([]*workorderDatamodel.WorkOrder, int64, error) {
	query := database.Conn(ctx, r.db).Model(&workorderDatamodel.WorkOrder{}).
		Scopes(
			paging.Search(filter.Filter, "number", "task_description"),
			paging.DateRange(filter.Filter, "created_at"),
			criteria(filter),
		).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*workorderDatamodel.WorkOrder
	if err := query.Scopes(paging.Page(filter.Filter, sorting)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func criteria(filter workorder.ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.EquipmentID != nil {
			db = db.Where("equipment_id = ?", *filter.EquipmentID)
		}
		if filter.TechnicianID != nil {
			db = db.Where("technician_id = ?", *filter.TechnicianID)
		}
		if filter.InterventionRequestID != nil {
			db = db.Where("intervention_request_id = ?", *filter.InterventionRequestID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.Priority != nil {
			db = db.Where("priority = ?", *filter.Priority)
		}
		return db
	}
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id int64) (*workorderDatamodel.WorkOrder, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByIDForUpdate holds a row lock until the surrounding transaction ends.
func (r *WorkOrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*workorderDatamodel.WorkOrder, error) {
	var row workorderDatamodel.WorkOrder
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkOrderRepository) GetByNumber(ctx context.Context, number string) (*workorderDatamodel.WorkOrder, error) {
	return r.first(ctx, "number = ?", number)
}

func (r *WorkOrderRepository) first(ctx context.Context, query string, arg interface{}) (*workorderDatamodel.WorkOrder, error) {
	var row workorderDatamodel.WorkOrder
	if err := database.Conn(ctx, r.db).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkOrderRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&workorderDatamodel.WorkOrder{}).
		Where("number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *WorkOrderRepository) Create(ctx context.Context, row *workorderDatamodel.WorkOrder) error {
	return database.Conn(ctx, r.db).Create(row).Error
}

// UpdateColumns writes the given columns of a work order that is not
// validated and reports whether a row was changed.
func (r *WorkOrderRepository) UpdateColumns(ctx context.Context, id int64, columns map[string]interface{}) (bool, error) {
	result := database.Conn(ctx, r.db).Model(&workorderDatamodel.WorkOrder{}).
		Where("id = ? AND status <> ?", id, string(workorder.StatusValidated)).
		Updates(columns)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *WorkOrderRepository) Delete(ctx context.Context, id int64) error {
	return database.Conn(ctx, r.db).Delete(&workorderDatamodel.WorkOrder{}, id).Error
}

func (r *WorkOrderRepository) HasHistory(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&workflowDatamodel.History{}).
		Where("work_order_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
