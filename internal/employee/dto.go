package employee

import (
	"strings"

	"github.com/frahmantamala/maintenance-management/internal/core/common/validation"
)

type EmployeeDTO struct {
	LastName     string  `json:"lastName"`
	FirstName    string  `json:"firstName"`
	Contact      *string `json:"contact,omitempty"`
	InternalRole *string `json:"internalRole,omitempty"`
	UserID       *int64  `json:"userId,omitempty"`
}

func (d EmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("lastName", strings.TrimSpace(d.LastName)).Required().MaxLength(100)
	v.Field("firstName", strings.TrimSpace(d.FirstName)).Required().MaxLength(100)
	v.Field("contact", d.Contact).MaxLength(100)
	v.Field("internalRole", d.InternalRole).MaxLength(50)
	v.Field("userId", d.UserID).Min(1)
	return v.Err()
}

type TeamDTO struct {
	Name     string `json:"name"`
	LeaderID int64  `json:"leaderId"`
}

func (d TeamDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(100)
	v.Field("leaderId", d.LeaderID).Required().Min(1)
	return v.Err()
}

type CompetenceDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (d CompetenceDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(100)
	return v.Err()
}
