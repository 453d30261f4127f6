package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Title is an academic title uploaded to the dossier. Verification happens
// later in the HR workflow; the checklist only cares that one row exists.
type Title struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID     string     `gorm:"type:uuid;not null;index" json:"person_id"`
	Nombre       string     `gorm:"not null" json:"nombre"`
	Institucion  string     `json:"institucion"`
	FechaEmision *time.Time `json:"fecha_emision,omitempty"`

	Verificado    bool       `gorm:"default:false" json:"verificado"`
	VerificadoPor *string    `gorm:"type:uuid" json:"verificado_por,omitempty"`
	VerificadoAt  *time.Time `json:"verificado_at,omitempty"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (t *Title) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (Title) TableName() string {
	return "titles"
}
