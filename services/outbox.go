package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"legajo_app_go/config"
	"legajo_app_go/models"

	"gorm.io/gorm"
)

// ContractEventPayload is the outbox payload for contract lifecycle events
type ContractEventPayload struct {
	ContractID   uint    `json:"contract_id"`
	PersonID     string  `json:"person_id"`
	Kind         string  `json:"kind"`
	Periodo      string  `json:"periodo"`
	FechaInicio  string  `json:"fecha_inicio"`
	FechaFin     *string `json:"fecha_fin,omitempty"`
	TotalMensual float64 `json:"total_mensual"`
}

// LegajoEventPayload is the outbox payload for legajo state transitions
type LegajoEventPayload struct {
	PersonID       string  `json:"person_id"`
	Estado         string  `json:"estado"`
	EstadoAnterior *string `json:"estado_anterior,omitempty"`
	Manual         bool    `json:"manual"`
}

// PlazoGraciaEventPayload is the outbox payload for grace-period changes
type PlazoGraciaEventPayload struct {
	PersonID    string `json:"person_id"`
	FechaLimite string `json:"fecha_limite"`
}

// AccountStatusEventPayload is the outbox payload for account (de)activation
type AccountStatusEventPayload struct {
	UserID      string  `json:"user_id"`
	PersonID    *string `json:"person_id,omitempty"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Active      bool    `json:"active"`
}

// EnqueueEvent appends a domain event to the outbox. Must be called on the
// transaction performing the domain write so the event commits or rolls back
// with it.
func EnqueueEvent(tx *gorm.DB, tipo, aggregateID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	event := &models.DomainEvent{
		Tipo:        tipo,
		AggregateID: aggregateID,
		Payload:     string(data),
	}

	return tx.Create(event).Error
}

// DispatchPendingEvents delivers undispatched outbox events as notifications
// and emails. Delivery is at-most-once best-effort: failures bump the attempt
// counter and are logged, never re-raised to the transactions that produced
// the events. Returns the number of events delivered.
func DispatchPendingEvents(db *gorm.DB, cfg *config.Config) int {
	batch := cfg.OutboxBatchSize
	if batch <= 0 {
		batch = 50
	}

	var events []models.DomainEvent
	err := db.Where("dispatched_at IS NULL AND attempts < ?", models.MaxEventAttempts).
		Order("created_at ASC").
		Limit(batch).
		Find(&events).Error
	if err != nil {
		log.Printf("Error loading pending events: %v", err)
		return 0
	}

	dispatched := 0
	for i := range events {
		ev := &events[i]
		if err := deliverEvent(db, cfg, ev); err != nil {
			log.Printf("Failed to deliver event %s (%s): %v", ev.ID, ev.Tipo, err)
			msg := err.Error()
			db.Model(ev).Updates(map[string]interface{}{
				"attempts":   ev.Attempts + 1,
				"last_error": msg,
			})
			continue
		}

		now := time.Now()
		db.Model(ev).Update("dispatched_at", now)
		dispatched++
	}

	return dispatched
}

func deliverEvent(db *gorm.DB, cfg *config.Config, ev *models.DomainEvent) error {
	switch ev.Tipo {
	case models.EventContractCreated:
		return deliverContractCreated(db, cfg, ev)
	case models.EventContractDeleted:
		return deliverContractDeleted(db, ev)
	case models.EventContractPorVencer:
		return deliverContractPorVencer(db, cfg, ev)
	case models.EventLegajoTransitioned:
		return deliverLegajoTransitioned(db, ev)
	case models.EventPlazoGraciaSet:
		return deliverPlazoGraciaSet(db, ev)
	case models.EventAccountStatusChanged:
		return deliverAccountStatusChanged(db, cfg, ev)
	default:
		// Unknown event type: log and consume so the outbox doesn't loop on it
		log.Printf("[WARNING] Unknown event type %s for event %s, consuming", ev.Tipo, ev.ID)
		return nil
	}
}

func deliverContractCreated(db *gorm.DB, cfg *config.Config, ev *models.DomainEvent) error {
	var payload ContractEventPayload
	if err := json.Unmarshal([]byte(ev.Payload), &payload); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	link := fmt.Sprintf("/contratos/%d", payload.ContractID)
	if err := NotifyUser(db, payload.PersonID, NotificationInput{
		Tipo:    models.NotificationTypeContratoAsignado,
		Mensaje: fmt.Sprintf("Se registró un contrato a tu nombre para el período %s", payload.Periodo),
		Link:    &link,
		Meta:    map[string]interface{}{"contract_id": payload.ContractID},
	}); err != nil {
		return err
	}

	// Email is secondary: a person without a loaded email just skips it
	person, contract, err := loadContractRecipients(db, payload)
	if err != nil {
		return err
	}
	if person.Email != nil && contract != nil {
		if err := SendContratoAsignadoEmail(cfg, *person.Email, person.NombreCompleto(), contract); err != nil {
			return err
		}
	}
	return nil
}

func loadContractRecipients(db *gorm.DB, payload ContractEventPayload) (*models.Person, *models.Contract, error) {
	var person models.Person
	if err := db.First(&person, "id = ?", payload.PersonID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load person: %w", err)
	}

	var contract models.Contract
	err := db.First(&contract, payload.ContractID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Contract may have been deleted since; notification alone is fine
		return &person, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load contract: %w", err)
	}

	return &person, &contract, nil
}

func deliverContractDeleted(db *gorm.DB, ev *models.DomainEvent) error {
	var payload ContractEventPayload
	if err := json.Unmarshal([]byte(ev.Payload), &payload); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	if err := NotifyUser(db, payload.PersonID, NotificationInput{
		Tipo:    models.NotificationTypeContratoBaja,
		Mensaje: fmt.Sprintf("Se dio de baja tu contrato del período %s", payload.Periodo),
		Nivel:   models.NotificationLevelWarning,
		Meta:    map[string]interface{}{"contract_id": payload.ContractID},
	}); err != nil {
		return err
	}

	return NotifyAdminsRRHH(db, NotificationInput{
		Tipo:    models.NotificationTypeContratoBaja,
		Mensaje: fmt.Sprintf("Baja de contrato %d (período %s)", payload.ContractID, payload.Periodo),
		Meta:    map[string]interface{}{"contract_id": payload.ContractID, "person_id": payload.PersonID},
	})
}

func deliverContractPorVencer(db *gorm.DB, cfg *config.Config, ev *models.DomainEvent) error {
	var payload ContractEventPayload
	if err := json.Unmarshal([]byte(ev.Payload), &payload); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	fechaFin := ""
	if payload.FechaFin != nil {
		fechaFin = *payload.FechaFin
	}

	if err := NotifyUser(db, payload.PersonID, NotificationInput{
		Tipo:    models.NotificationTypeContratoPorVencer,
		Mensaje: fmt.Sprintf("Tu contrato del período %s vence el %s", payload.Periodo, fechaFin),
		Nivel:   models.NotificationLevelWarning,
		Meta:    map[string]interface{}{"contract_id": payload.ContractID},
	}); err != nil {
		return err
	}

	person, contract, err := loadContractRecipients(db, payload)
	if err != nil {
		return err
	}
	if person.Email != nil && contract != nil && contract.FechaFin != nil {
		if err := SendContratoPorVencerEmail(cfg, *person.Email, person.NombreCompleto(), contract); err != nil {
			return err
		}
	}
	return nil
}

func deliverLegajoTransitioned(db *gorm.DB, ev *models.DomainEvent) error {
	var payload LegajoEventPayload
	if err := json.Unmarshal([]byte(ev.Payload), &payload); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	if err := NotifyUser(db, payload.PersonID, NotificationInput{
		Tipo:    models.NotificationTypeLegajoEstado,
		Mensaje: fmt.Sprintf("Tu legajo pasó al estado %s", models.GetLegajoEstadoDisplayName(payload.Estado)),
		Meta:    map[string]interface{}{"estado": payload.Estado},
	}); err != nil {
		return err
	}

	// A legajo reaching REVISION is the cue for HR to do the human check
	if payload.Estado == models.LegajoEstadoRevision {
		return NotifyAdminsRRHH(db, NotificationInput{
			Tipo:    models.NotificationTypeLegajoEstado,
			Mensaje: "Un legajo quedó listo para revisión",
			Meta:    map[string]interface{}{"person_id": payload.PersonID},
		})
	}
	return nil
}

func deliverAccountStatusChanged(db *gorm.DB, cfg *config.Config, ev *models.DomainEvent) error {
	var payload AccountStatusEventPayload
	if err := json.Unmarshal([]byte(ev.Payload), &payload); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	estado := "desactivada"
	if payload.Active {
		estado = "activada"
	}

	if payload.PersonID != nil {
		if err := NotifyUser(db, *payload.PersonID, NotificationInput{
			Tipo:    models.NotificationTypeCuentaEstado,
			Mensaje: fmt.Sprintf("Tu cuenta fue %s", estado),
			Nivel:   models.NotificationLevelWarning,
		}); err != nil {
			return err
		}
	}

	if payload.Email != "" {
		return SendAccountStatusEmail(cfg, payload.Email, payload.DisplayName, payload.Active)
	}
	return nil
}

func deliverPlazoGraciaSet(db *gorm.DB, ev *models.DomainEvent) error {
	var payload PlazoGraciaEventPayload
	if err := json.Unmarshal([]byte(ev.Payload), &payload); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}

	return NotifyUser(db, payload.PersonID, NotificationInput{
		Tipo:    models.NotificationTypePlazoGracia,
		Mensaje: fmt.Sprintf("Tenés tiempo hasta el %s para completar tu legajo", payload.FechaLimite),
		Nivel:   models.NotificationLevelWarning,
	})
}
