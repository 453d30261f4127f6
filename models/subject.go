package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Carrera is an academic program. Every DOCENCIA item in one contract must
// resolve to the same carrera.
type Carrera struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Codigo string `gorm:"not null;uniqueIndex" json:"codigo"`
	Nombre string `gorm:"not null" json:"nombre"`
	Activa bool   `gorm:"default:true" json:"activa"`

	Materias []Materia `gorm:"foreignKey:CarreraID" json:"materias,omitempty"`
}

func (c *Carrera) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Carrera) TableName() string {
	return "carreras"
}

// Materia is a subject taught inside one carrera
type Materia struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CarreraID string `gorm:"type:uuid;not null;index" json:"carrera_id"`
	Codigo    string `gorm:"not null;index" json:"codigo"`
	Nombre    string `gorm:"not null" json:"nombre"`
	Activa    bool   `gorm:"default:true" json:"activa"`

	Carrera Carrera `gorm:"foreignKey:CarreraID" json:"carrera,omitempty"`
}

func (m *Materia) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (Materia) TableName() string {
	return "materias"
}
