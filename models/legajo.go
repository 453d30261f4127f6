package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Legajo states. The automatic recompute path only ever reaches REVISION;
// COMPLETO is assigned manually by HR after human review.
const (
	LegajoEstadoIncompleto = "INCOMPLETO"
	LegajoEstadoPendiente  = "PENDIENTE"
	LegajoEstadoRevision   = "REVISION"
	LegajoEstadoCompleto   = "COMPLETO"
)

// IsValidLegajoEstado checks if the state code is known
func IsValidLegajoEstado(estado string) bool {
	validEstados := []string{
		LegajoEstadoIncompleto,
		LegajoEstadoPendiente,
		LegajoEstadoRevision,
		LegajoEstadoCompleto,
	}
	for _, e := range validEstados {
		if e == estado {
			return true
		}
	}
	return false
}

// GetLegajoEstadoDisplayName returns a human-readable state name
func GetLegajoEstadoDisplayName(estado string) string {
	names := map[string]string{
		LegajoEstadoIncompleto: "Incompleto",
		LegajoEstadoPendiente:  "Pendiente de documentación",
		LegajoEstadoRevision:   "En revisión",
		LegajoEstadoCompleto:   "Completo",
	}
	if name, ok := names[estado]; ok {
		return name
	}
	return estado
}

// LegajoEstado is the current dossier state, one row per person. It always
// mirrors the newest LegajoHistorial entry.
type LegajoEstado struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID string `gorm:"type:uuid;not null;uniqueIndex" json:"person_id"`
	Estado   string `gorm:"not null;default:INCOMPLETO" json:"estado"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (e *LegajoEstado) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

func (LegajoEstado) TableName() string {
	return "legajo_estados"
}

// LegajoHistorial is the append-only audit trail of state transitions.
// Rows are never updated or deleted.
type LegajoHistorial struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	PersonID       string  `gorm:"type:uuid;not null;index" json:"person_id"`
	Estado         string  `gorm:"not null" json:"estado"`
	EstadoAnterior *string `json:"estado_anterior,omitempty"`
	ActorID        *string `gorm:"type:uuid" json:"actor_id,omitempty"` // null = automatic recompute
	Motivo         *string `gorm:"type:text" json:"motivo,omitempty"`
	Manual         bool    `gorm:"default:false" json:"manual"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (h *LegajoHistorial) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

func (LegajoHistorial) TableName() string {
	return "legajo_historial"
}

// PlazoGracia extends the time a person has to complete their dossier.
// At most one active row per person; setting a new one deactivates the prior.
type PlazoGracia struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID    string    `gorm:"type:uuid;not null;index" json:"person_id"`
	FechaLimite time.Time `gorm:"not null" json:"fecha_limite"`
	Motivo      *string   `gorm:"type:text" json:"motivo,omitempty"`
	Activo      bool      `gorm:"default:true;index" json:"activo"`
	CreatedByID *string   `gorm:"type:uuid" json:"created_by_id,omitempty"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (p *PlazoGracia) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (PlazoGracia) TableName() string {
	return "plazos_gracia"
}

// IsExpired reports whether the deadline has passed
func (p *PlazoGracia) IsExpired() bool {
	return time.Now().After(p.FechaLimite)
}
