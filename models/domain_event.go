package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Domain event types recorded in the outbox
const (
	EventContractCreated      = "CONTRACT_CREATED"
	EventContractDeleted      = "CONTRACT_DELETED"
	EventContractPorVencer    = "CONTRACT_POR_VENCER"
	EventLegajoTransitioned   = "LEGAJO_TRANSITIONED"
	EventPlazoGraciaSet       = "PLAZO_GRACIA_SET"
	EventAccountStatusChanged = "ACCOUNT_STATUS_CHANGED"
)

// MaxEventAttempts caps delivery retries before an event is parked
const MaxEventAttempts = 5

// DomainEvent is an outbox row. Core transactions append events atomically
// with their writes; the dispatcher delivers notifications and emails after
// commit, so delivery failure can never roll back domain state.
type DomainEvent struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Tipo        string `gorm:"not null;index" json:"tipo"`
	AggregateID string `gorm:"not null;index" json:"aggregate_id"`
	Payload     string `gorm:"type:text;not null" json:"payload"` // JSON

	DispatchedAt *time.Time `gorm:"index" json:"dispatched_at,omitempty"`
	Attempts     int        `gorm:"default:0" json:"attempts"`
	LastError    *string    `gorm:"type:text" json:"last_error,omitempty"`
}

func (e *DomainEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

func (DomainEvent) TableName() string {
	return "domain_events"
}

// IsDispatched reports whether the event was delivered
func (e *DomainEvent) IsDispatched() bool {
	return e.DispatchedAt != nil
}
