package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common cargo codes. The set is open (tariff rows define what exists), these
// are the institution's usual ones and what the seeder loads.
const (
	CargoTitular  = "TIT"
	CargoAdjunto  = "ADJ"
	CargoAuxiliar = "AUX"
	CargoJefeTP   = "JTP"
)

// TariffRate is the hourly rate for a (profile, cargo) pair. AplicaMaterias
// distinguishes subject-teaching tariffs from general-activity tariffs; a
// cargo code may carry one row of each.
type TariffRate struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProfileID      string  `gorm:"type:uuid;not null;index:idx_tariff_key,unique" json:"profile_id"`
	CargoCodigo    string  `gorm:"not null;index:idx_tariff_key,unique" json:"cargo_codigo"` // stored uppercased
	AplicaMaterias bool    `gorm:"index:idx_tariff_key,unique" json:"aplica_materias"`
	MontoHora      float64 `gorm:"not null" json:"monto_hora"`
	Activo         bool    `gorm:"default:true;index" json:"activo"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

func (t *TariffRate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (TariffRate) TableName() string {
	return "tariff_rates"
}
