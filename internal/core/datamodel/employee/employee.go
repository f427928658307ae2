package employee

import "time"

type Employee struct {
	ID           int64     `gorm:"primaryKey"`
	LastName     string    `gorm:"column:last_name;size:100;not null"`
	FirstName    string    `gorm:"column:first_name;size:100;not null"`
	Contact      *string   `gorm:"column:contact;size:100"`
	InternalRole *string   `gorm:"column:internal_role;size:50"`
	UserID       *int64    `gorm:"column:user_id;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string { return "employees" }

type Team struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;size:100;uniqueIndex;not null"`
	LeaderID  int64     `gorm:"column:leader_id;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Team) TableName() string { return "teams" }

type TeamMember struct {
	TeamID     int64 `gorm:"column:team_id;primaryKey"`
	EmployeeID int64 `gorm:"column:employee_id;primaryKey;index"`
}

func (TeamMember) TableName() string { return "team_members" }

type Competence struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:100;uniqueIndex;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Competence) TableName() string { return "competences" }

type EmployeeCompetence struct {
	EmployeeID   int64 `gorm:"column:employee_id;primaryKey"`
	CompetenceID int64 `gorm:"column:competence_id;primaryKey;index"`
}

func (EmployeeCompetence) TableName() string { return "employee_competences" }
