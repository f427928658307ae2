package workorder

import "time"

type WorkOrder struct {
	ID                    int64      `gorm:"primaryKey"`
	Number                string     `gorm:"column:number;size:50;uniqueIndex;not null"`
	EquipmentID           int64      `gorm:"column:equipment_id;index;not null"`
	OrganID               *int64     `gorm:"column:organ_id;index"`
	TaskDescription       string     `gorm:"column:task_description;not null"`
	PlannedStart          *time.Time `gorm:"column:planned_start"`
	PlannedEnd            *time.Time `gorm:"column:planned_end"`
	ActualStart           *time.Time `gorm:"column:actual_start"`
	ActualEnd             *time.Time `gorm:"column:actual_end"`
	TechnicianID          *int64     `gorm:"column:technician_id;index"`
	Status                string     `gorm:"column:status;size:20;not null;default:ToDo"`
	Priority              string     `gorm:"column:priority;size:20;not null;default:Medium"`
	MaintenanceType       string     `gorm:"column:maintenance_type;size:30;not null;default:Corrective"`
	TimeSpentHours        *float64   `gorm:"column:time_spent_hours"`
	RealCost              *float64   `gorm:"column:real_cost"`
	Progression           int        `gorm:"column:progression;not null;default:0"`
	FaultCauseID          *int64     `gorm:"column:fault_cause_id"`
	InterventionRequestID *int64     `gorm:"column:intervention_request_id;index"`
	SubcontractorID       *int64     `gorm:"column:subcontractor_id"`
	WorkflowID            *int64     `gorm:"column:workflow_id;index"`
	ValidatedAt           *time.Time `gorm:"column:validated_at"`
	ValidatorID           *int64     `gorm:"column:validator_id"`
	ValidationComment     *string    `gorm:"column:validation_comment"`
	Solution              *string    `gorm:"column:solution"`
	Remarks               *string    `gorm:"column:remarks"`
	CreatedBy             *int64     `gorm:"column:created_by"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkOrder) TableName() string { return "work_orders" }
