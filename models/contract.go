package models

import (
	"time"
)

// ContractKind tags the two contract shapes. Both share the same computation
// and persistence; the kind drives item validation and the overlap scope.
type ContractKind string

const (
	ContractKindGeneral  ContractKind = "GENERAL"
	ContractKindProfesor ContractKind = "PROFESOR"
)

// IsValid checks if the contract kind is known
func (k ContractKind) IsValid() bool {
	return k == ContractKindGeneral || k == ContractKindProfesor
}

// Contract item types: DOCENCIA is subject-teaching load, the rest are
// general activity codes.
const (
	ItemTypeDocencia      = "DOCENCIA"
	ItemTypeCoordinacion  = "COORDINACION"
	ItemTypeInvestigacion = "INVESTIGACION"
	ItemTypeExtension     = "EXTENSION"
	ItemTypeGestion       = "GESTION"
)

// IsValidItemType checks if the item type code is known
func IsValidItemType(tipo string) bool {
	validTypes := []string{
		ItemTypeDocencia,
		ItemTypeCoordinacion,
		ItemTypeInvestigacion,
		ItemTypeExtension,
		ItemTypeGestion,
	}
	for _, t := range validTypes {
		if t == tipo {
			return true
		}
	}
	return false
}

// WeeksPerMonth is the institutional convention for converting weekly hours
// and rates into monthly figures.
const WeeksPerMonth = 4

// Contract is an employment contract header. Contracts are immutable once
// created: the only supported change is a hard delete of header plus items.
// All aggregate fields are derived from the items, never supplied by callers.
type Contract struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Kind     ContractKind `gorm:"not null;index:idx_contract_person_kind" json:"kind"`
	PersonID string       `gorm:"type:uuid;not null;index:idx_contract_person_kind" json:"person_id"`
	Periodo  string       `json:"periodo"` // e.g. "2025-1"

	FechaInicio time.Time  `gorm:"not null;index" json:"fecha_inicio"`
	FechaFin    *time.Time `gorm:"index" json:"fecha_fin,omitempty"` // null = unbounded

	// Derived aggregates
	TotalHorasSemanales float64  `json:"total_horas_semanales"`
	HorasMensuales      float64  `json:"horas_mensuales"`
	MontoHoraPromedio   *float64 `json:"monto_hora_promedio,omitempty"` // null when zero hours
	TotalMensual        float64  `json:"total_mensual"`

	Observaciones *string `gorm:"type:text" json:"observaciones,omitempty"`
	CreatedByID   *string `gorm:"type:uuid" json:"created_by_id,omitempty"`

	// Por-vencer reminder bookkeeping
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`

	Person Person         `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Items  []ContractItem `gorm:"foreignKey:ContractID" json:"items,omitempty"`
}

func (Contract) TableName() string {
	return "contracts"
}

// IsActiveOn reports whether the date falls inside [FechaInicio, FechaFin],
// with a null FechaFin meaning unbounded future.
func (c *Contract) IsActiveOn(date time.Time) bool {
	if date.Before(c.FechaInicio) {
		return false
	}
	return c.FechaFin == nil || !date.After(*c.FechaFin)
}

// ContractItem is one line of work inside a contract. SubtotalMensual is
// always HorasSemanales * WeeksPerMonth * MontoHora.
type ContractItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ContractID uint   `gorm:"not null;index" json:"contract_id"`
	TipoItem   string `gorm:"not null" json:"tipo_item"`

	// DOCENCIA items reference a materia; activity items carry a description
	MateriaID            *string `gorm:"type:uuid;index" json:"materia_id,omitempty"`
	ActividadDescripcion *string `json:"actividad_descripcion,omitempty"`

	// General contracts resolve tariffs per profile; professor contracts by cargo only
	ProfileID *string `gorm:"type:uuid" json:"profile_id,omitempty"`

	CargoCodigo     string  `gorm:"not null" json:"cargo_codigo"`
	HorasSemanales  float64 `gorm:"not null" json:"horas_semanales"`
	MontoHora       float64 `gorm:"not null" json:"monto_hora"`
	SubtotalMensual float64 `gorm:"not null" json:"subtotal_mensual"`

	Materia *Materia `gorm:"foreignKey:MateriaID" json:"materia,omitempty"`
	Profile *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

func (ContractItem) TableName() string {
	return "contract_items"
}

// IsDocencia reports whether this is a subject-teaching item
func (i *ContractItem) IsDocencia() bool {
	return i.TipoItem == ItemTypeDocencia
}
