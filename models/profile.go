package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileCode is the closed set of institutional role archetypes. Role checks
// go through these constants and the capability helpers below, never through
// free-form string comparison.
type ProfileCode string

const (
	ProfileProfesor       ProfileCode = "PROFESOR"
	ProfileCoordinador    ProfileCode = "COORDINADOR"
	ProfileAdministrativo ProfileCode = "ADMINISTRATIVO"
	ProfileRRHH           ProfileCode = "RRHH"
	ProfileInvestigador   ProfileCode = "INVESTIGADOR"
)

// AllProfileCodes returns every valid profile code
func AllProfileCodes() []ProfileCode {
	return []ProfileCode{
		ProfileProfesor,
		ProfileCoordinador,
		ProfileAdministrativo,
		ProfileRRHH,
		ProfileInvestigador,
	}
}

// IsValid checks membership in the closed enumeration
func (c ProfileCode) IsValid() bool {
	for _, code := range AllProfileCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// CanTeach reports whether the profile can hold DOCENCIA contract items
func (c ProfileCode) CanTeach() bool {
	return c == ProfileProfesor
}

// CanManageLegajos reports whether the profile can force legajo states,
// set grace periods and bulk-import persons
func (c ProfileCode) CanManageLegajos() bool {
	return c == ProfileRRHH
}

// DisplayName returns a human-readable profile name
func (c ProfileCode) DisplayName() string {
	names := map[ProfileCode]string{
		ProfileProfesor:       "Profesor",
		ProfileCoordinador:    "Coordinador",
		ProfileAdministrativo: "Administrativo",
		ProfileRRHH:           "Recursos Humanos",
		ProfileInvestigador:   "Investigador",
	}
	if name, ok := names[c]; ok {
		return name
	}
	return string(c)
}

// Profile is a role archetype row. One row per code, seeded at startup.
type Profile struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Codigo ProfileCode `gorm:"not null;uniqueIndex" json:"codigo"`
	Nombre string      `gorm:"not null" json:"nombre"`
	Activo bool        `gorm:"default:true" json:"activo"`

	Tarifas []TariffRate `gorm:"foreignKey:ProfileID" json:"tarifas,omitempty"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileAssignment links a person to a profile. At most one active row per
// (person, profile) pair; re-assigning updates the existing row in place.
type ProfileAssignment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID  string `gorm:"type:uuid;not null;index:idx_person_profile,unique" json:"person_id"`
	ProfileID string `gorm:"type:uuid;not null;index:idx_person_profile,unique" json:"profile_id"`
	Vigente   bool   `gorm:"default:true;index" json:"vigente"`

	// Audit fields
	AsignadoPorID *string   `gorm:"type:uuid" json:"asignado_por_id,omitempty"`
	AsignadoAt    time.Time `json:"asignado_at"`

	Person  Person  `gorm:"foreignKey:PersonID" json:"-"`
	Profile Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

func (a *ProfileAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.AsignadoAt.IsZero() {
		a.AsignadoAt = time.Now()
	}
	return nil
}

func (ProfileAssignment) TableName() string {
	return "profile_assignments"
}
