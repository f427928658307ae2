package equipment

import (
	"time"

	equipmentDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/equipment"
)

type Equipment struct {
	ID                int64      `json:"id"`
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
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Organ is a sub-component of an equipment that work orders can target.
type Organ struct {
	ID          int64     `json:"id"`
	EquipmentID int64     `json:"equipmentId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// apply copies the editable fields of dto onto the equipment.
func (e *Equipment) apply(dto EquipmentDTO) {
	e.Reference = dto.normalizedReference()
	e.Name = dto.Name
	e.Type = dto.Type
	e.Manufacturer = dto.Manufacturer
	e.Model = dto.Model
	e.CommissioningDate = dto.CommissioningDate
	e.Location = dto.Location
	e.ProductionLineID = dto.ProductionLineID
	e.Description = dto.Description
	e.OperationalState = dto.OperationalState
}

func ToDataModel(e *Equipment) *equipmentDatamodel.Equipment {
	return &equipmentDatamodel.Equipment{
		ID:                e.ID,
		Reference:         e.Reference,
		Name:              e.Name,
		Type:              e.Type,
		Manufacturer:      e.Manufacturer,
		Model:             e.Model,
		CommissioningDate: e.CommissioningDate,
		Location:          e.Location,
		ProductionLineID:  e.ProductionLineID,
		Description:       e.Description,
		OperationalState:  e.OperationalState,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func FromDataModel(row *equipmentDatamodel.Equipment) *Equipment {
	return &Equipment{
		ID:                row.ID,
		Reference:         row.Reference,
		Name:              row.Name,
		Type:              row.Type,
		Manufacturer:      row.Manufacturer,
		Model:             row.Model,
		CommissioningDate: row.CommissioningDate,
		Location:          row.Location,
		ProductionLineID:  row.ProductionLineID,
		Description:       row.Description,
		OperationalState:  row.OperationalState,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func OrganFromDataModel(row *equipmentDatamodel.Organ) *Organ {
	return &Organ{
		ID:          row.ID,
		EquipmentID: row.EquipmentID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
}
