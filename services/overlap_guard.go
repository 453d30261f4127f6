package services

import (
	"time"

	"legajo_app_go/models"

	"gorm.io/gorm"
)

// HasContractOverlap reports whether the interval [fechaInicio, fechaFin]
// intersects an existing contract of the same kind for the same person.
// A null fechaFin means unbounded future on either side; bounds are inclusive,
// so a contract ending 2025-06-30 does not conflict with one starting
// 2025-07-01.
//
// The check is only race-free because the caller runs it on the same
// transaction that performs the insert; never call it on the base handle
// from inside a contract-creation flow.
func HasContractOverlap(tx *gorm.DB, kind models.ContractKind, personID string, fechaInicio time.Time, fechaFin *time.Time) (bool, error) {
	var count int64

	query := tx.Model(&models.Contract{}).
		Where("person_id = ? AND kind = ?", personID, kind).
		Where("fecha_fin IS NULL OR fecha_fin >= ?", fechaInicio)

	// An unbounded new contract conflicts with anything still open at its start
	if fechaFin != nil {
		query = query.Where("fecha_inicio <= ?", *fechaFin)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
