package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/employee"
)

// Team groups employees under a leader. Members are loaded by GetTeam only.
type Team struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	LeaderID  int64       `json:"leaderId"`
	Members   []*Employee `json:"members,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func TeamFromDataModel(row *employeeDatamodel.Team) *Team {
	return &Team{
		ID:        row.ID,
		Name:      row.Name,
		LeaderID:  row.LeaderID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type Competence struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func CompetenceFromDataModel(row *employeeDatamodel.Competence) *Competence {
	return &Competence{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func fromDataModels(rows []*employeeDatamodel.Employee) []*Employee {
	items := make([]*Employee, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row)
	}
	return items
}
