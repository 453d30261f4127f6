package services

import (
	"errors"
	"fmt"
	"strings"

	"legajo_app_go/models"

	"gorm.io/gorm"
)

// Tariff resolution errors
var (
	ErrNoTariffConfigured     = errors.New("no tariff configured for the person's active profiles")
	ErrTariffNotFoundForCargo = errors.New("no tariff found for cargo")
)

// TariffSet holds the active tariff rows reachable from a person's vigente
// profile assignments. Resolution over the set is deterministic: the rows are
// keyed by (profile, cargo, aplica_materias) with a unique index behind them.
type TariffSet struct {
	rates []models.TariffRate
}

// ActiveTariffsForPerson loads every active tariff row whose profile is
// currently assigned (vigente) to the person. Read-only; fails with
// ErrNoTariffConfigured when the person has no reachable tariff rows at all.
func ActiveTariffsForPerson(db *gorm.DB, personID string) (*TariffSet, error) {
	var rates []models.TariffRate
	err := db.
		Joins("JOIN profile_assignments ON profile_assignments.profile_id = tariff_rates.profile_id").
		Where("profile_assignments.person_id = ? AND profile_assignments.vigente = ?", personID, true).
		Where("tariff_rates.activo = ?", true).
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tariffs: %w", err)
	}

	if len(rates) == 0 {
		return nil, ErrNoTariffConfigured
	}

	return &TariffSet{rates: rates}, nil
}

// Rates returns the underlying rows (for display)
func (s *TariffSet) Rates() []models.TariffRate {
	return s.rates
}

// ResolveGeneral resolves the rate for a general-contract item. The key is
// (profile, uppercased cargo, aplica_materias).
func (s *TariffSet) ResolveGeneral(profileID, cargoCodigo string, aplicaMaterias bool) (*models.TariffRate, error) {
	cargo := NormalizeCargo(cargoCodigo)
	for i := range s.rates {
		r := &s.rates[i]
		if r.ProfileID == profileID && r.CargoCodigo == cargo && r.AplicaMaterias == aplicaMaterias {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTariffNotFoundForCargo, cargo)
}

// ResolveProfesor resolves the rate for a professor-contract item: plain cargo
// code scoped to subject-teaching tariffs (aplica_materias = true).
func (s *TariffSet) ResolveProfesor(cargoCodigo string) (*models.TariffRate, error) {
	cargo := NormalizeCargo(cargoCodigo)
	for i := range s.rates {
		r := &s.rates[i]
		if r.CargoCodigo == cargo && r.AplicaMaterias {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTariffNotFoundForCargo, cargo)
}

// NormalizeCargo uppercases and trims a cargo code
func NormalizeCargo(cargoCodigo string) string {
	return strings.ToUpper(strings.TrimSpace(cargoCodigo))
}
