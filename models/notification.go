package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeContratoAsignado  = "CONTRATO_ASIGNADO"
	NotificationTypeContratoBaja      = "CONTRATO_BAJA"
	NotificationTypeContratoPorVencer = "CONTRATO_POR_VENCER"
	NotificationTypeLegajoEstado      = "LEGAJO_ESTADO"
	NotificationTypePlazoGracia       = "PLAZO_GRACIA"
	NotificationTypeCuentaEstado      = "CUENTA_ESTADO"
	NotificationTypeSystem            = "SYSTEM"
)

// Notification levels
const (
	NotificationLevelInfo    = "INFO"
	NotificationLevelWarning = "WARNING"
	NotificationLevelUrgent  = "URGENT"
)

type Notification struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Targeting: a specific person, or null for the RRHH broadcast feed
	PersonID *string `gorm:"type:uuid;index" json:"person_id,omitempty"`

	// Content
	Tipo    string  `gorm:"not null" json:"tipo"`
	Mensaje string  `gorm:"type:text;not null" json:"mensaje"`
	Link    *string `json:"link,omitempty"` // e.g. "/contratos/42"
	Nivel   string  `gorm:"not null;default:INFO" json:"nivel"`
	Meta    *string `gorm:"type:text" json:"meta,omitempty"` // JSON payload

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`

	Person *Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
