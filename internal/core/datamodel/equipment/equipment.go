package equipment

import "time"

type Equipment struct {
	ID                int64      `gorm:"primaryKey"`
	Reference         string     `gorm:"column:reference;size:50;uniqueIndex;not null"`
	Name              string     `gorm:"column:name;size:255;not null"`
	Type              *string    `gorm:"column:equipment_type;size:100"`
	Manufacturer      *string    `gorm:"column:manufacturer;size:100"`
	Model             *string    `gorm:"column:model;size:100"`
	CommissioningDate *time.Time `gorm:"column:commissioning_date"`
	Location          *string    `gorm:"column:location;size:255"`
	ProductionLineID  *int64     `gorm:"column:production_line_id"`
	Description       *string    `gorm:"column:description"`
	OperationalState  *string    `gorm:"column:operational_state;size:50"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Equipment) TableName() string { return "equipments" }

type Organ struct {
	ID          int64     `gorm:"primaryKey"`
	EquipmentID int64     `gorm:"column:equipment_id;index;not null"`
	Name        string    `gorm:"column:name;size:100;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Organ) TableName() string { return "organs" }
