package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Domicile is one declared address for a person. A person may have several;
// the checklist only requires that at least one exists.
type Domicile struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID     string  `gorm:"type:uuid;not null;index" json:"person_id"`
	Calle        string  `gorm:"not null" json:"calle"`
	Numero       string  `json:"numero"`
	Piso         *string `json:"piso,omitempty"`
	Ciudad       string  `json:"ciudad"`
	Provincia    string  `json:"provincia"`
	CodigoPostal string  `json:"codigo_postal"`
	Principal    bool    `gorm:"default:false" json:"principal"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (d *Domicile) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

func (Domicile) TableName() string {
	return "domiciles"
}

// Barrio is a neighborhood from the institutional catalog
type Barrio struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Nombre string `gorm:"not null;uniqueIndex" json:"nombre"`
	Ciudad string `json:"ciudad"`
}

func (b *Barrio) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

func (Barrio) TableName() string {
	return "barrios"
}

// PersonBarrio links a person to their neighborhood. The checklist requires
// at least one link row in addition to a domicile row.
type PersonBarrio struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PersonID string `gorm:"type:uuid;not null;index:idx_person_barrio,unique" json:"person_id"`
	BarrioID string `gorm:"type:uuid;not null;index:idx_person_barrio,unique" json:"barrio_id"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
	Barrio Barrio `gorm:"foreignKey:BarrioID" json:"barrio,omitempty"`
}

func (pb *PersonBarrio) BeforeCreate(tx *gorm.DB) error {
	if pb.ID == "" {
		pb.ID = uuid.New().String()
	}
	return nil
}

func (PersonBarrio) TableName() string {
	return "person_barrios"
}
