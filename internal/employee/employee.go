package employee

import (
	"strings"
	"time"

	employeeDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/employee"
)

// Employee is a plant staff member; work orders reference technicians by
// employee id.
type Employee struct {
	ID           int64     `json:"id"`
	LastName     string    `json:"lastName"`
	FirstName    string    `json:"firstName"`
	Contact      *string   `json:"contact,omitempty"`
	InternalRole *string   `json:"internalRole,omitempty"`
	UserID       *int64    `json:"userId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e *Employee) apply(dto EmployeeDTO) {
	e.LastName = strings.TrimSpace(dto.LastName)
	e.FirstName = strings.TrimSpace(dto.FirstName)
	e.Contact = dto.Contact
	e.InternalRole = dto.InternalRole
	e.UserID = dto.UserID
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		LastName:     e.LastName,
		FirstName:    e.FirstName,
		Contact:      e.Contact,
		InternalRole: e.InternalRole,
		UserID:       e.UserID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModel(row *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:           row.ID,
		LastName:     row.LastName,
		FirstName:    row.FirstName,
		Contact:      row.Contact,
		InternalRole: row.InternalRole,
		UserID:       row.UserID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
