package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	workflowDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workflow"
	workorderDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/maintenance-management/internal/workflow"
)

var sorting = paging.Sorting{
	Columns: map[string]string{
		"name":      "name",
		"createdat": "created_at",
	},
	Default: "name",
}

type WorkflowRepository struct {
	db *gorm.DB
}

func NewWorkflowRepository(db *gorm.DB) workflow.RepositoryAPI {
	return &WorkflowRepository{db: db}
}

func (r *WorkflowRepository) List(ctx context.Context, filter paging.Filter) ([]*workflowDatamodel.Workflow, int64, error) {
	query := database.Conn(ctx, r.db).Model(&workflowDatamodel.Workflow{}).
		Scopes(
			paging.Search(filter, "name"),
			paging.DateRange(filter, "created_at"),
		).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*workflowDatamodel.Workflow
	if err := query.Scopes(paging.Page(filter, sorting)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id int64) (*workflowDatamodel.Workflow, error) {
	var row workflowDatamodel.Workflow
	if err := database.Conn(ctx, r.db).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkflowRepository) ListSteps(ctx context.Context, workflowID int64) ([]*workflowDatamodel.Step, error) {
	var rows []*workflowDatamodel.Step
	err := database.Conn(ctx, r.db).
		Where("workflow_id = ?", workflowID).
		Order("step_order ASC").
		Find(&rows).Error
	return rows, err
}

// Create inserts the workflow then its steps; callers wrap it in a transaction.
func (r *WorkflowRepository) Create(ctx context.Context, row *workflowDatamodel.Workflow, steps []*workflowDatamodel.Step) error {
	conn := database.Conn(ctx, r.db)
	if err := conn.Create(row).Error; err != nil {
		return err
	}
	if len(steps) == 0 {
		return nil
	}
	for _, s := range steps {
		s.WorkflowID = row.ID
	}
	return conn.Create(&steps).Error
}

func (r *WorkflowRepository) GetWorkOrder(ctx context.Context, id int64) (*workorderDatamodel.WorkOrder, error) {
	var row workorderDatamodel.WorkOrder
	if err := database.Conn(ctx, r.db).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkflowRepository) AttachWorkflow(ctx context.Context, workOrderID, workflowID int64) error {
	return database.Conn(ctx, r.db).Model(&workorderDatamodel.WorkOrder{}).
		Where("id = ?", workOrderID).
		Update("workflow_id", workflowID).Error
}

func (r *WorkflowRepository) AppendHistory(ctx context.Context, row *workflowDatamodel.History) error {
	return database.Conn(ctx, r.db).Create(row).Error
}

func (r *WorkflowRepository) GetHistory(ctx context.Context, id int64) (*workflowDatamodel.History, error) {
	var row workflowDatamodel.History
	if err := database.Conn(ctx, r.db).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CloseHistory only touches rows whose end_time is still null.
func (r *WorkflowRepository) CloseHistory(ctx context.Context, row *workflowDatamodel.History) (bool, error) {
	result := database.Conn(ctx, r.db).Model(&workflowDatamodel.History{}).
		Where("id = ? AND end_time IS NULL", row.ID).
		Updates(map[string]interface{}{
			"end_time": row.EndTime,
			"status":   row.Status,
			"comment":  row.Comment,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *WorkflowRepository) ListHistory(ctx context.Context, workOrderID int64) ([]*workflowDatamodel.History, error) {
	var rows []*workflowDatamodel.History
	err := database.Conn(ctx, r.db).
		Where("work_order_id = ?", workOrderID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
