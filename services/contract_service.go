package services

import (
	"errors"
	"fmt"
	"time"

	"legajo_app_go/models"

	"gorm.io/gorm"
)

// Contract-related errors
var (
	ErrPersonNotFound       = errors.New("person not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrMateriaNotFound      = errors.New("materia not found")
	ErrOverlapDetected      = errors.New("contract period overlaps an existing contract")
	ErrMixedProgramContract = errors.New("DOCENCIA items must belong to a single carrera")
	ErrProfileNotAssigned   = errors.New("profile is not currently assigned to the person")
	ErrContractImmutable    = errors.New("contracts are immutable once created; delete and re-issue")
)

// CreateContractInput carries a contract request from the boundary
type CreateContractInput struct {
	Kind          models.ContractKind `json:"kind"`
	PersonID      string              `json:"person_id"`
	Periodo       string              `json:"periodo"`
	FechaInicio   time.Time           `json:"fecha_inicio"`
	FechaFin      *time.Time          `json:"fecha_fin,omitempty"`
	Observaciones *string             `json:"observaciones,omitempty"`
	Items         []ContractItemInput `json:"items"`
}

// CreateContract runs the full issuance pipeline as one atomic unit:
// validate -> carrera check -> profile check -> tariff resolution ->
// aggregation -> overlap guard -> insert. Any failure rolls the whole
// transaction back, so a rejected contract leaves zero rows behind.
//
// The overlap guard runs on the same transaction as the insert; that ordering
// is what makes the read-then-write race-free and must not be reordered.
// Post-commit side effects go through the outbox, never through this call.
func CreateContract(db *gorm.DB, actor models.AuthenticatedActor, input CreateContractInput) (*models.Contract, error) {
	if !input.Kind.IsValid() {
		return nil, &ValidationError{Violations: []FieldViolation{
			{Field: "kind", Message: fmt.Sprintf("tipo de contrato desconocido: %s", input.Kind)},
		}}
	}
	if input.FechaInicio.IsZero() {
		return nil, &ValidationError{Violations: []FieldViolation{
			{Field: "fecha_inicio", Message: "fecha_inicio es requerida"},
		}}
	}
	if input.FechaFin != nil && input.FechaFin.Before(input.FechaInicio) {
		return nil, &ValidationError{Violations: []FieldViolation{
			{Field: "fecha_fin", Message: "fecha_fin no puede ser anterior a fecha_inicio"},
		}}
	}

	items, err := ValidateContractItems(input.Kind, input.Items)
	if err != nil {
		return nil, err
	}

	var created *models.Contract
	err = db.Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.First(&person, "id = ?", input.PersonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPersonNotFound
			}
			return err
		}

		if err := checkSingleCarrera(tx, items); err != nil {
			return err
		}

		vigentes, err := activeProfileIDs(tx, input.PersonID)
		if err != nil {
			return err
		}
		if err := checkProfileEligibility(tx, input.Kind, items, vigentes); err != nil {
			return err
		}

		tariffs, err := ActiveTariffsForPerson(tx, input.PersonID)
		if err != nil {
			return err
		}

		rows, err := buildItemRows(input.Kind, items, tariffs)
		if err != nil {
			return err
		}

		contract := &models.Contract{
			Kind:          input.Kind,
			PersonID:      input.PersonID,
			Periodo:       input.Periodo,
			FechaInicio:   input.FechaInicio,
			FechaFin:      input.FechaFin,
			Observaciones: input.Observaciones,
			Items:         rows,
		}
		if actor.UserID != "" {
			userID := actor.UserID
			contract.CreatedByID = &userID
		}
		computeAggregates(contract)

		conflict, err := HasContractOverlap(tx, input.Kind, input.PersonID, input.FechaInicio, input.FechaFin)
		if err != nil {
			return err
		}
		if conflict {
			return ErrOverlapDetected
		}

		if err := tx.Create(contract).Error; err != nil {
			return err
		}

		if err := EnqueueEvent(tx, models.EventContractCreated, fmt.Sprint(contract.ID), contractEventPayload(contract)); err != nil {
			return err
		}

		created = contract
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// checkSingleCarrera verifies every DOCENCIA materia exists and that all of
// them belong to exactly one carrera.
func checkSingleCarrera(tx *gorm.DB, items []ContractItemInput) error {
	materiaIDs := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		if item.TipoItem != models.ItemTypeDocencia || item.MateriaID == nil {
			continue
		}
		if !seen[*item.MateriaID] {
			seen[*item.MateriaID] = true
			materiaIDs = append(materiaIDs, *item.MateriaID)
		}
	}
	if len(materiaIDs) == 0 {
		return nil
	}

	var materias []models.Materia
	if err := tx.Where("id IN ?", materiaIDs).Find(&materias).Error; err != nil {
		return err
	}
	if len(materias) != len(materiaIDs) {
		found := make(map[string]bool, len(materias))
		for _, m := range materias {
			found[m.ID] = true
		}
		for _, id := range materiaIDs {
			if !found[id] {
				return fmt.Errorf("%w: %s", ErrMateriaNotFound, id)
			}
		}
	}

	carreras := make(map[string]bool)
	for _, m := range materias {
		carreras[m.CarreraID] = true
	}
	if len(carreras) > 1 {
		return ErrMixedProgramContract
	}
	return nil
}

func activeProfileIDs(tx *gorm.DB, personID string) (map[string]models.ProfileCode, error) {
	var assignments []models.ProfileAssignment
	err := tx.Preload("Profile").
		Where("person_id = ? AND vigente = ?", personID, true).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	vigentes := make(map[string]models.ProfileCode, len(assignments))
	for _, a := range assignments {
		vigentes[a.ProfileID] = a.Profile.Codigo
	}
	return vigentes, nil
}

func checkProfileEligibility(tx *gorm.DB, kind models.ContractKind, items []ContractItemInput, vigentes map[string]models.ProfileCode) error {
	if kind == models.ContractKindProfesor {
		// Professor-style contracts require the teaching profile itself
		for _, code := range vigentes {
			if code.CanTeach() {
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrProfileNotAssigned, models.ProfileProfesor)
	}

	for i, item := range items {
		if item.ProfileID == nil {
			continue
		}
		if _, ok := vigentes[*item.ProfileID]; !ok {
			return fmt.Errorf("%w: items[%d]", ErrProfileNotAssigned, i)
		}
	}
	return nil
}

func buildItemRows(kind models.ContractKind, items []ContractItemInput, tariffs *TariffSet) ([]models.ContractItem, error) {
	rows := make([]models.ContractItem, 0, len(items))
	for _, item := range items {
		var rate *models.TariffRate
		var err error

		if kind == models.ContractKindProfesor {
			rate, err = tariffs.ResolveProfesor(item.CargoCodigo)
		} else {
			rate, err = tariffs.ResolveGeneral(*item.ProfileID, item.CargoCodigo, item.TipoItem == models.ItemTypeDocencia)
		}
		if err != nil {
			return nil, err
		}

		row := models.ContractItem{
			TipoItem:             item.TipoItem,
			MateriaID:            item.MateriaID,
			ActividadDescripcion: item.ActividadDescripcion,
			ProfileID:            item.ProfileID,
			CargoCodigo:          item.CargoCodigo,
			HorasSemanales:       item.HorasSemanales,
			MontoHora:            rate.MontoHora,
			SubtotalMensual:      item.HorasSemanales * models.WeeksPerMonth * rate.MontoHora,
		}
		if kind == models.ContractKindProfesor && row.ProfileID == nil {
			profileID := rate.ProfileID
			row.ProfileID = &profileID
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// computeAggregates derives the header totals from the items. These fields
// are never accepted from callers.
func computeAggregates(contract *models.Contract) {
	var totalHoras, totalMensual float64
	for _, item := range contract.Items {
		totalHoras += item.HorasSemanales
		totalMensual += item.SubtotalMensual
	}

	contract.TotalHorasSemanales = totalHoras
	contract.HorasMensuales = totalHoras * models.WeeksPerMonth
	contract.TotalMensual = totalMensual

	if contract.HorasMensuales > 0 {
		promedio := totalMensual / contract.HorasMensuales
		contract.MontoHoraPromedio = &promedio
	} else {
		contract.MontoHoraPromedio = nil
	}
}

func contractEventPayload(c *models.Contract) ContractEventPayload {
	payload := ContractEventPayload{
		ContractID:   c.ID,
		PersonID:     c.PersonID,
		Kind:         string(c.Kind),
		Periodo:      c.Periodo,
		FechaInicio:  c.FechaInicio.Format("2006-01-02"),
		TotalMensual: c.TotalMensual,
	}
	if c.FechaFin != nil {
		fin := c.FechaFin.Format("2006-01-02")
		payload.FechaFin = &fin
	}
	return payload
}

// GetContractByID retrieves a contract with its items and person
func GetContractByID(db *gorm.DB, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := db.Preload("Person").
		Preload("Items").
		Preload("Items.Materia").
		Preload("Items.Materia.Carrera").
		Preload("Items.Profile").
		First(&contract, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// GetContractsByPerson returns every contract for a person, newest first
func GetContractsByPerson(db *gorm.DB, personID string) ([]models.Contract, error) {
	var contracts []models.Contract
	err := db.Where("person_id = ?", personID).
		Preload("Items").
		Order("fecha_inicio DESC").
		Find(&contracts).Error
	return contracts, err
}

// DeleteContract hard-deletes a contract header and its items in one
// transaction. Deletion is the only supported change path: contracts are
// never edited in place.
func DeleteContract(db *gorm.DB, actor models.AuthenticatedActor, id uint) (*models.Contract, error) {
	var deleted *models.Contract
	err := db.Transaction(func(tx *gorm.DB) error {
		var contract models.Contract
		if err := tx.Preload("Items").First(&contract, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContractNotFound
			}
			return err
		}

		if err := tx.Where("contract_id = ?", contract.ID).Delete(&models.ContractItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&contract).Error; err != nil {
			return err
		}

		if err := EnqueueEvent(tx, models.EventContractDeleted, fmt.Sprint(contract.ID), contractEventPayload(&contract)); err != nil {
			return err
		}

		deleted = &contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
