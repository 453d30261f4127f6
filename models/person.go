package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sex codes used by the identity core
const (
	SexFemale = "F"
	SexMale   = "M"
	SexOther  = "X"
)

// Person is the identity core of a legajo. Persons are never hard-deleted;
// everything else in the dossier hangs off this row.
type Person struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Nombre          string     `gorm:"not null" json:"nombre"`
	Apellido        string     `gorm:"not null" json:"apellido"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento,omitempty"`
	Sexo            *string    `json:"sexo,omitempty"`
	Telefono        *string    `json:"telefono,omitempty"`
	Email           *string    `gorm:"index" json:"email,omitempty"`

	// Dossier relationships
	Identification *Identification     `gorm:"foreignKey:PersonID" json:"identification,omitempty"`
	Domicilios     []Domicile          `gorm:"foreignKey:PersonID" json:"domicilios,omitempty"`
	Titulos        []Title             `gorm:"foreignKey:PersonID" json:"titulos,omitempty"`
	Documentos     []PersonDocument    `gorm:"foreignKey:PersonID" json:"documentos,omitempty"`
	Asignaciones   []ProfileAssignment `gorm:"foreignKey:PersonID" json:"asignaciones,omitempty"`
	Legajo         *LegajoEstado       `gorm:"foreignKey:PersonID" json:"legajo,omitempty"`
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (Person) TableName() string {
	return "persons"
}

// NombreCompleto returns "Apellido, Nombre" for display and emails
func (p *Person) NombreCompleto() string {
	return strings.TrimSpace(p.Apellido + ", " + p.Nombre)
}

// HasCoreIdentity reports whether the identity core is complete:
// name, surname, birth date and sex all present.
func (p *Person) HasCoreIdentity() bool {
	return strings.TrimSpace(p.Nombre) != "" &&
		strings.TrimSpace(p.Apellido) != "" &&
		p.FechaNacimiento != nil &&
		p.Sexo != nil && strings.TrimSpace(*p.Sexo) != ""
}

// Identification holds the DNI/CUIL pair. At most one row per person.
type Identification struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID string `gorm:"type:uuid;not null;uniqueIndex" json:"person_id"`
	DNI      string `gorm:"index" json:"dni"`
	CUIL     string `gorm:"column:cuil;index" json:"cuil"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (i *Identification) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

func (Identification) TableName() string {
	return "identifications"
}

// IsComplete reports whether both DNI and CUIL are loaded
func (i *Identification) IsComplete() bool {
	return strings.TrimSpace(i.DNI) != "" && strings.TrimSpace(i.CUIL) != ""
}
