package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	interventionDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/intervention"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/maintenance-management/internal/intervention"
)

var sorting = paging.Sorting{
	Columns: map[string]string{
		"requestedat": "requested_at",
		"status":      "status",
		"priority":    "priority",
		"createdat":   "created_at",
	},
	Default: "requested_at",
}

type InterventionRepository struct {
	db *gorm.DB
}

func NewInterventionRepository(db *gorm.DB) intervention.RepositoryAPI {
	return &InterventionRepository{db: db}
}

func (r *InterventionRepository) List(ctx context.Context, filter intervention.ListFilter) ([]*interventionDatamodel.Request, int64, error) {
	query := database.Conn(ctx, r.db).Model(&interventionDatamodel.Request{}).
		Scopes(
			paging.Search(filter.Filter, "problem_description"),
			paging.DateRange(filter.Filter, "requested_at"),
			func(db *gorm.DB) *gorm.DB {
				if filter.EquipmentID != nil {
					db = db.Where("equipment_id = ?", *filter.EquipmentID)
				}
				if filter.RequesterID != nil {
					db = db.Where("requester_id = ?", *filter.RequesterID)
				}
				if filter.Status != nil {
					db = db.Where("status = ?", *filter.Status)
				}
				if filter.Priority != nil {
					db = db.Where("priority = ?", *filter.Priority)
				}
				return db
			},
		).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*interventionDatamodel.Request
	if err := query.Scopes(paging.Page(filter.Filter, sorting)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *InterventionRepository) GetByID(ctx context.Context, id int64) (*interventionDatamodel.Request, error) {
	var row interventionDatamodel.Request
	if err := database.Conn(ctx, r.db).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *InterventionRepository) Create(ctx context.Context, row *interventionDatamodel.Request) error {
	return database.Conn(ctx, r.db).Create(row).Error
}

func (r *InterventionRepository) Update(ctx context.Context, row *interventionDatamodel.Request) error {
	return database.Conn(ctx, r.db).Save(row).Error
}

func (r *InterventionRepository) Delete(ctx context.Context, id int64) error {
	return database.Conn(ctx, r.db).Delete(&interventionDatamodel.Request{}, id).Error
}

func (r *InterventionRepository) HasWorkOrders(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&workorderDatamodel.WorkOrder{}).
		Where("intervention_request_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
