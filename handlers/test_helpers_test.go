package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"legajo_app_go/db"
	"legajo_app_go/middleware"
	"legajo_app_go/models"
	"legajo_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared-memory name isolates tests while keeping the database
	// alive across connections
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
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
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}

func withActor(c echo.Context, roles ...models.ProfileCode) models.AuthenticatedActor {
	personID := uuid.New().String()
	actor := models.AuthenticatedActor{
		UserID:   uuid.New().String(),
		PersonID: &personID,
		Roles:    roles,
	}
	c.Set(middleware.ContextKeyActor, actor)
	return actor
}

func createFixturePerson(t *testing.T, database *gorm.DB) *models.Person {
	t.Helper()
	person := &models.Person{Nombre: "Ana", Apellido: "García"}
	assert.NoError(t, database.Create(person).Error)
	return person
}

// professorFixture preps a person who can receive PROFESOR contracts
func professorFixture(t *testing.T, database *gorm.DB) (*models.Person, *models.Materia) {
	t.Helper()
	person := createFixturePerson(t, database)

	profile := &models.Profile{Codigo: models.ProfileProfesor, Nombre: "Profesor", Activo: true}
	assert.NoError(t, database.Create(profile).Error)
	assert.NoError(t, database.Create(&models.ProfileAssignment{
		PersonID:  person.ID,
		ProfileID: profile.ID,
		Vigente:   true,
	}).Error)
	assert.NoError(t, database.Create(&models.TariffRate{
		ProfileID:      profile.ID,
		CargoCodigo:    models.CargoTitular,
		AplicaMaterias: true,
		MontoHora:      500,
		Activo:         true,
	}).Error)

	carrera := &models.Carrera{Codigo: "ABO", Nombre: "Abogacía", Activa: true}
	assert.NoError(t, database.Create(carrera).Error)
	materia := &models.Materia{CarreraID: carrera.ID, Codigo: "DC1", Nombre: "Derecho Civil I", Activa: true}
	assert.NoError(t, database.Create(materia).Error)

	return person, materia
}
