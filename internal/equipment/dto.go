package equipment

import (
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/maintenance-management/internal/core/common/paging"
	"github.com/frahmantamala/maintenance-management/internal/core/common/validation"
)

var referencePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// EquipmentDTO is the body of both create and update requests.
type EquipmentDTO struct {
	Reference         string     `json:"reference"`
	Name              string     `json:"name"`
	Type              *string    `json:"type,omitempty"`
	Manufacturer      *string    `json:"manufacturer,omitempty"`
	Model             *string    `json:"model,omitempty"`
	CommissioningDate *time.Time `json:"commissioningDate,omitempty"`
	Location          *string    `json:"location,omitempty"`
	ProductionLineID  *int64     `json:"productionLineId,omitempty"`
	Description       *string    `json:"description,omitempty"`
	OperationalState  *string    `json:"operationalState,omitempty"`
}

func (d EquipmentDTO) normalizedReference() string {
	return strings.TrimSpace(d.Reference)
}

func (d EquipmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("reference", d.normalizedReference()).Required().MaxLength(50).
		Pattern(referencePattern, "reference may only contain upper-case letters, digits and dashes")
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(255)
	v.Field("type", d.Type).MaxLength(100)
	v.Field("manufacturer", d.Manufacturer).MaxLength(100)
	v.Field("model", d.Model).MaxLength(100)
	v.Field("commissioningDate", d.CommissioningDate).NotFuture()
	v.Field("location", d.Location).MaxLength(255)
	v.Field("operationalState", d.OperationalState).MaxLength(50)
	return v.Err()
}

type OrganDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (d OrganDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(100)
	return v.Err()
}

// ListFilter narrows the equipment list by type and production line.
type ListFilter struct {
	paging.Filter
	Type             *string
	ProductionLineID *int64
}

func (f ListFilter) Validate() error {
	v := validation.NewValidator()
	v.Field("type", f.Type).MaxLength(100)
	v.Field("productionLineId", f.ProductionLineID).Min(1)
	return v.Err()
}
