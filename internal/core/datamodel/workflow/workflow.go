package workflow

import "time"

type Workflow struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:100;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Workflow) TableName() string { return "workflows" }

type Step struct {
	ID          int64     `gorm:"primaryKey"`
	WorkflowID  int64     `gorm:"column:workflow_id;not null;uniqueIndex:idx_workflow_steps_order"`
	Name        string    `gorm:"column:name;size:100;not null"`
	Description *string   `gorm:"column:description"`
	Order       int       `gorm:"column:step_order;not null;uniqueIndex:idx_workflow_steps_order"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Step) TableName() string { return "workflow_steps" }

// History rows are append-only; once EndTime is set the row is never updated.
type History struct {
	ID          int64      `gorm:"primaryKey"`
	WorkOrderID int64      `gorm:"column:work_order_id;index;not null"`
	StepID      int64      `gorm:"column:step_id;not null"`
	StartTime   time.Time  `gorm:"column:start_time;not null"`
	EndTime     *time.Time `gorm:"column:end_time"`
	Status      string     `gorm:"column:status;size:20;not null"`
	Comment     *string    `gorm:"column:comment"`
	RecordedBy  *int64     `gorm:"column:recorded_by"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (History) TableName() string { return "workflow_history" }
