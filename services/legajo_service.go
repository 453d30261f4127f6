package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"legajo_app_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// Legajo errors
var (
	ErrInvalidLegajoEstado = errors.New("invalid legajo state code")
	ErrInvalidFechaLimite  = errors.New("fecha_limite must be in the future")
)

// motivoPolicy strips any markup from free-text motives before they are persisted
var motivoPolicy = bluemonday.StrictPolicy()

func sanitizeMotivo(motivo *string) *string {
	if motivo == nil {
		return nil
	}
	clean := strings.TrimSpace(motivoPolicy.Sanitize(*motivo))
	if clean == "" {
		return nil
	}
	return &clean
}

// stateFromChecklist folds the checklist into a state. The automatic path
// stops at REVISION: COMPLETO is only ever assigned manually by HR after the
// human review step.
func stateFromChecklist(checklist *LegajoChecklist) string {
	switch {
	case checklist.Complete():
		return models.LegajoEstadoRevision
	case checklist.IdentityComplete():
		return models.LegajoEstadoPendiente
	default:
		return models.LegajoEstadoIncompleto
	}
}

// applyTransition upserts the current-state row and appends the historial
// entry. Runs inside the caller's transaction: compute, upsert, append and
// commit happen as one unit or not at all.
func applyTransition(tx *gorm.DB, personID, estado string, actorID *string, motivo *string, manual bool) (*models.LegajoEstado, error) {
	var current models.LegajoEstado
	var estadoAnterior *string

	err := tx.First(&current, "person_id = ?", personID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		current = models.LegajoEstado{PersonID: personID, Estado: estado}
		if err := tx.Create(&current).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		prev := current.Estado
		estadoAnterior = &prev
		current.Estado = estado
		if err := tx.Save(&current).Error; err != nil {
			return nil, err
		}
	}

	historial := &models.LegajoHistorial{
		PersonID:       personID,
		Estado:         estado,
		EstadoAnterior: estadoAnterior,
		ActorID:        actorID,
		Motivo:         motivo,
		Manual:         manual,
	}
	if err := tx.Create(historial).Error; err != nil {
		return nil, err
	}

	changed := estadoAnterior == nil || *estadoAnterior != estado
	if changed {
		payload := LegajoEventPayload{
			PersonID:       personID,
			Estado:         estado,
			EstadoAnterior: estadoAnterior,
			Manual:         manual,
		}
		if err := EnqueueEvent(tx, models.EventLegajoTransitioned, personID, payload); err != nil {
			return nil, err
		}
	}

	return &current, nil
}

// RecomputeResult bundles the outcome of an explicit recompute
type RecomputeResult struct {
	Estado    string           `json:"estado"`
	Checklist *LegajoChecklist `json:"checklist"`
}

// RecomputeLegajoState re-evaluates the checklist and applies the derived
// state. An explicit recompute always appends a historial row, even when the
// state did not change.
func RecomputeLegajoState(db *gorm.DB, actor models.AuthenticatedActor, personID string) (*RecomputeResult, error) {
	// The checklist fans out concurrent reads; run it on the base handle,
	// a transaction instance is not safe for concurrent use
	checklist, err := EvaluateLegajoChecklist(db, personID)
	if err != nil {
		return nil, err
	}

	estado := stateFromChecklist(checklist)

	err = db.Transaction(func(tx *gorm.DB) error {
		var actorID *string
		if actor.UserID != "" {
			id := actor.UserID
			actorID = &id
		}

		_, err := applyTransition(tx, personID, estado, actorID, nil, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &RecomputeResult{Estado: estado, Checklist: checklist}, nil
}

// AssignEstadoManual forces an arbitrary legajo state, bypassing the
// checklist. This is the HR escape hatch and the only way to reach COMPLETO.
func AssignEstadoManual(db *gorm.DB, actor models.AuthenticatedActor, personID, estado string, motivo *string) (*models.LegajoEstado, error) {
	if !models.IsValidLegajoEstado(estado) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLegajoEstado, estado)
	}

	motivo = sanitizeMotivo(motivo)

	var current *models.LegajoEstado
	err := db.Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.First(&person, "id = ?", personID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPersonNotFound
			}
			return err
		}

		actorID := actor.UserID
		updated, err := applyTransition(tx, personID, estado, &actorID, motivo, true)
		if err != nil {
			return err
		}
		current = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// SetPlazoGracia records a new grace deadline for the person. Any prior
// active grace period is deactivated in the same transaction, so at most one
// active row exists per person.
func SetPlazoGracia(db *gorm.DB, actor models.AuthenticatedActor, personID string, fechaLimite time.Time, motivo *string) (*models.PlazoGracia, error) {
	if !fechaLimite.After(time.Now()) {
		return nil, ErrInvalidFechaLimite
	}

	motivo = sanitizeMotivo(motivo)

	var plazo *models.PlazoGracia
	err := db.Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.First(&person, "id = ?", personID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPersonNotFound
			}
			return err
		}

		if err := tx.Model(&models.PlazoGracia{}).
			Where("person_id = ? AND activo = ?", personID, true).
			Update("activo", false).Error; err != nil {
			return err
		}

		nuevo := &models.PlazoGracia{
			PersonID:    personID,
			FechaLimite: fechaLimite,
			Motivo:      motivo,
			Activo:      true,
		}
		if actor.UserID != "" {
			id := actor.UserID
			nuevo.CreatedByID = &id
		}
		if err := tx.Create(nuevo).Error; err != nil {
			return err
		}

		payload := PlazoGraciaEventPayload{
			PersonID:    personID,
			FechaLimite: fechaLimite.Format("2006-01-02"),
		}
		if err := EnqueueEvent(tx, models.EventPlazoGraciaSet, personID, payload); err != nil {
			return err
		}

		plazo = nuevo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plazo, nil
}

// GetActivePlazoGracia returns the person's active grace period, or nil
func GetActivePlazoGracia(db *gorm.DB, personID string) (*models.PlazoGracia, error) {
	var plazo models.PlazoGracia
	err := db.Where("person_id = ? AND activo = ?", personID, true).
		Order("created_at DESC").
		First(&plazo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plazo, nil
}

// LegajoOverview is the read model for the legajo endpoint
type LegajoOverview struct {
	Estado      string                   `json:"estado"`
	Checklist   *LegajoChecklist         `json:"checklist"`
	PlazoGracia *models.PlazoGracia      `json:"plazo_gracia,omitempty"`
	Historial   []models.LegajoHistorial `json:"historial"`
}

// GetLegajoOverview returns the current state, a fresh checklist evaluation,
// the active grace period and the recent historial. Read-only: it does not
// apply the freshly evaluated state.
func GetLegajoOverview(db *gorm.DB, personID string) (*LegajoOverview, error) {
	checklist, err := EvaluateLegajoChecklist(db, personID)
	if err != nil {
		return nil, err
	}

	overview := &LegajoOverview{
		Estado:    models.LegajoEstadoIncompleto,
		Checklist: checklist,
	}

	var current models.LegajoEstado
	err = db.First(&current, "person_id = ?", personID).Error
	if err == nil {
		overview.Estado = current.Estado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	plazo, err := GetActivePlazoGracia(db, personID)
	if err != nil {
		return nil, err
	}
	overview.PlazoGracia = plazo

	err = db.Where("person_id = ?", personID).
		Order("created_at DESC").
		Limit(20).
		Find(&overview.Historial).Error
	if err != nil {
		return nil, err
	}

	return overview, nil
}
