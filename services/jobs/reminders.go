package jobs

import (
	"log"
	"time"

	"legajo_app_go/config"
	"legajo_app_go/models"
	"legajo_app_go/services"

	"gorm.io/gorm"
)

// CheckExpiringContracts flags contracts whose end date falls inside the
// configured warning window and queues the expiry notice for each one.
// ReminderSentAt keeps the job from nagging twice about the same contract.
func CheckExpiringContracts(database *gorm.DB, cfg *config.Config) {
	log.Println("Starting contract expiry reminder job...")

	now := time.Now().UTC()
	windowEnd := now.AddDate(0, 0, cfg.ContractReminderDays)

	var contracts []models.Contract
	err := database.Preload("Person").
		Where("fecha_fin IS NOT NULL").
		Where("fecha_fin >= ? AND fecha_fin <= ?", now, windowEnd).
		Where("reminder_sent_at IS NULL").
		Find(&contracts).Error
	if err != nil {
		log.Printf("Error fetching contracts for reminders: %v", err)
		return
	}

	log.Printf("Found %d contracts expiring within %d days", len(contracts), cfg.ContractReminderDays)

	for _, contract := range contracts {
		contract := contract

		err := database.Transaction(func(tx *gorm.DB) error {
			fechaFin := contract.FechaFin.Format("2006-01-02")
			payload := services.ContractEventPayload{
				ContractID:   contract.ID,
				PersonID:     contract.PersonID,
				Kind:         string(contract.Kind),
				Periodo:      contract.Periodo,
				FechaInicio:  contract.FechaInicio.Format("2006-01-02"),
				FechaFin:     &fechaFin,
				TotalMensual: contract.TotalMensual,
			}
			if err := services.EnqueueEvent(tx, models.EventContractPorVencer, contract.PersonID, payload); err != nil {
				return err
			}

			sentAt := time.Now().UTC()
			return tx.Model(&models.Contract{}).
				Where("id = ?", contract.ID).
				Update("reminder_sent_at", sentAt).Error
		})
		if err != nil {
			log.Printf("Failed to queue expiry reminder for contract %d: %v", contract.ID, err)
			continue
		}
		log.Printf("Queued expiry reminder for contract %d (vence %s)", contract.ID, contract.FechaFin.Format("2006-01-02"))
	}

	log.Println("Contract expiry reminder job completed")
}

// StartReminderScheduler runs the expiry check once at startup and then
// daily. Runs until the process exits.
func StartReminderScheduler(database *gorm.DB, cfg *config.Config) {
	go func() {
		CheckExpiringContracts(database, cfg)

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			CheckExpiringContracts(database, cfg)
		}
	}()
}

// StartOutboxDispatcher drains the event outbox on a short interval so
// notifications and emails follow their transactions quickly.
func StartOutboxDispatcher(database *gorm.DB, cfg *config.Config) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := services.DispatchPendingEvents(database, cfg); n > 0 {
				log.Printf("Dispatched %d outbox events", n)
			}
		}
	}()
}
