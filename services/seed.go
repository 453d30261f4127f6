package services

import (
	"log"

	"legajo_app_go/models"

	"gorm.io/gorm"
)

// SeedProfiles ensures every closed profile code has its catalog row.
// Safe to run on every startup.
func SeedProfiles(db *gorm.DB) error {
	for _, code := range models.AllProfileCodes() {
		var count int64
		if err := db.Model(&models.Profile{}).Where("codigo = ?", code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		profile := &models.Profile{
			Codigo: code,
			Nombre: code.DisplayName(),
			Activo: true,
		}
		if err := db.Create(profile).Error; err != nil {
			return err
		}
		log.Printf("[SEED] Created profile %s", code)
	}
	return nil
}

// defaultTariffs is the starter rate grid applied to fresh databases.
// RRHH replaces these through the tariff admin as soon as real
// resolutions come in.
var defaultTariffs = []struct {
	profile models.ProfileCode
	cargo   string
	materia bool
	monto   float64
}{
	{models.ProfileProfesor, models.CargoTitular, true, 9500},
	{models.ProfileProfesor, models.CargoAdjunto, true, 7800},
	{models.ProfileProfesor, models.CargoJefeTP, true, 6900},
	{models.ProfileProfesor, models.CargoAuxiliar, true, 5600},
	{models.ProfileCoordinador, models.CargoTitular, false, 8200},
	{models.ProfileCoordinador, models.CargoAdjunto, false, 7100},
	{models.ProfileInvestigador, models.CargoTitular, false, 8800},
	{models.ProfileInvestigador, models.CargoAuxiliar, false, 5900},
	{models.ProfileAdministrativo, models.CargoAuxiliar, false, 5200},
}

// SeedTariffs loads the starter rate grid. It only runs on an empty
// tariff table so manual changes are never clobbered.
func SeedTariffs(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.TariffRate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, t := range defaultTariffs {
		var profile models.Profile
		if err := db.First(&profile, "codigo = ?", t.profile).Error; err != nil {
			return err
		}
		rate := &models.TariffRate{
			ProfileID:      profile.ID,
			CargoCodigo:    t.cargo,
			AplicaMaterias: t.materia,
			MontoHora:      t.monto,
			Activo:         true,
		}
		if err := db.Create(rate).Error; err != nil {
			return err
		}
	}
	log.Printf("[SEED] Loaded %d starter tariff rates", len(defaultTariffs))
	return nil
}
