package services

import (
	"fmt"
	"testing"
	"time"

	"legajo_app_go/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates a fresh in-memory database with the full schema.
// Shared cache plus a unique name keeps it stable across connections
// within one test while isolating tests from each other.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database")
	}

	err = db.AutoMigrate(
		&models.Person{},
		&models.Identification{},
		&models.Domicile{},
		&models.Barrio{},
		&models.PersonBarrio{},
		&models.Title{},
		&models.PersonDocument{},
		&models.Profile{},
		&models.ProfileAssignment{},
		&models.TariffRate{},
		&models.Carrera{},
		&models.Materia{},
		&models.Contract{},
		&models.ContractItem{},
		&models.LegajoEstado{},
		&models.LegajoHistorial{},
		&models.PlazoGracia{},
		&models.Notification{},
		&models.User{},
		&models.DomainEvent{},
	)
	if err != nil {
		panic("failed to migrate test database")
	}
	return db
}

func testActor() models.AuthenticatedActor {
	personID := uuid.New().String()
	return models.AuthenticatedActor{
		UserID:   uuid.New().String(),
		PersonID: &personID,
		Roles:    []models.ProfileCode{models.ProfileRRHH},
	}
}

func createTestPerson(t *testing.T, db *gorm.DB) *models.Person {
	t.Helper()
	person := &models.Person{
		Nombre:   "Ana",
		Apellido: "García",
	}
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("failed to create test person: %v", err)
	}
	return person
}

func createTestProfile(t *testing.T, db *gorm.DB, code models.ProfileCode) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		Codigo: code,
		Nombre: code.DisplayName(),
		Activo: true,
	}
	if err := db.Where("codigo = ?", code).FirstOrCreate(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

func assignTestProfile(t *testing.T, db *gorm.DB, personID string, profile *models.Profile) {
	t.Helper()
	assignment := &models.ProfileAssignment{
		PersonID:  personID,
		ProfileID: profile.ID,
		Vigente:   true,
	}
	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("failed to assign test profile: %v", err)
	}
}

func createTestTariff(t *testing.T, db *gorm.DB, profileID, cargo string, aplicaMaterias bool, monto float64) {
	t.Helper()
	rate := &models.TariffRate{
		ProfileID:      profileID,
		CargoCodigo:    cargo,
		AplicaMaterias: aplicaMaterias,
		MontoHora:      monto,
		Activo:         true,
	}
	if err := db.Where("profile_id = ? AND cargo_codigo = ? AND aplica_materias = ?",
		profileID, cargo, aplicaMaterias).FirstOrCreate(rate).Error; err != nil {
		t.Fatalf("failed to create test tariff: %v", err)
	}
}

func createTestMateria(t *testing.T, db *gorm.DB, carreraNombre, materiaNombre string) *models.Materia {
	t.Helper()
	carrera := &models.Carrera{
		Codigo: uuid.New().String()[:8],
		Nombre: carreraNombre,
		Activa: true,
	}
	if err := db.Create(carrera).Error; err != nil {
		t.Fatalf("failed to create test carrera: %v", err)
	}
	materia := &models.Materia{
		CarreraID: carrera.ID,
		Codigo:    uuid.New().String()[:8],
		Nombre:    materiaNombre,
		Activa:    true,
	}
	if err := db.Create(materia).Error; err != nil {
		t.Fatalf("failed to create test materia: %v", err)
	}
	return materia
}

// setupProfessorFixture wires a person with the teaching profile and one
// subject tariff, ready to receive PROFESOR contracts.
func setupProfessorFixture(t *testing.T, db *gorm.DB, montoHora float64) *models.Person {
	t.Helper()
	person := createTestPerson(t, db)
	profile := createTestProfile(t, db, models.ProfileProfesor)
	assignTestProfile(t, db, person.ID, profile)
	createTestTariff(t, db, profile.ID, models.CargoTitular, true, montoHora)
	return person
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func strPtr(s string) *string {
	return &s
}
