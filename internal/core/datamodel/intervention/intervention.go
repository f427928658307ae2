package intervention

import "time"

type Request struct {
	ID                 int64     `gorm:"primaryKey"`
	EquipmentID        int64     `gorm:"column:equipment_id;index;not null"`
	ProblemDescription string    `gorm:"column:problem_description;not null"`
	RequestedAt        time.Time `gorm:"column:requested_at;not null"`
	RequesterID        int64     `gorm:"column:requester_id;index;not null"`
	Status             string    `gorm:"column:status;size:30;not null;default:New"`
	Priority           string    `gorm:"column:priority;size:20;not null;default:Medium"`
	StatusComment      *string   `gorm:"column:status_comment"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string { return "intervention_requests" }
