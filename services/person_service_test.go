package services

import (
	"testing"
	"time"

	"legajo_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestCreatePerson(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	t.Run("Minimal Registration", func(t *testing.T) {
		person, err := CreatePerson(db, actor, CreatePersonInput{
			Nombre:   "María",
			Apellido: "López",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, person.ID)

		// The legajo opens as INCOMPLETO with its first historial row
		var estado models.LegajoEstado
		assert.NoError(t, db.First(&estado, "person_id = ?", person.ID).Error)
		assert.Equal(t, models.LegajoEstadoIncompleto, estado.Estado)

		rows := historialFor(t, db, person.ID)
		assert.Len(t, rows, 1)
	})

	t.Run("With Identification", func(t *testing.T) {
		person, err := CreatePerson(db, actor, CreatePersonInput{
			Nombre:   "Carlos",
			Apellido: "Ruiz",
			DNI:      "31444555",
			CUIL:     "20-31444555-1",
		})
		assert.NoError(t, err)

		var ident models.Identification
		assert.NoError(t, db.First(&ident, "person_id = ?", person.ID).Error)
		assert.Equal(t, "31444555", ident.DNI)
	})

	t.Run("Missing Required Fields", func(t *testing.T) {
		_, err := CreatePerson(db, actor, CreatePersonInput{Nombre: "  "})
		assert.Error(t, err)
		fields := violationFields(err)
		assert.Contains(t, fields, "nombre")
		assert.Contains(t, fields, "apellido")
	})
}

func TestUpdatePerson(t *testing.T) {
	db := setupTestDB(t)

	person := createTestPerson(t, db)

	nacimiento := date(1992, time.July, 20)
	updated, err := UpdatePerson(db, person.ID, UpdatePersonInput{
		FechaNacimiento: &nacimiento,
		Telefono:        strPtr("+54 11 4444-5555"),
	})
	assert.NoError(t, err)
	assert.Equal(t, person.Nombre, updated.Nombre)

	var reloaded models.Person
	assert.NoError(t, db.First(&reloaded, "id = ?", person.ID).Error)
	assert.NotNil(t, reloaded.FechaNacimiento)
	assert.Equal(t, "+54 11 4444-5555", *reloaded.Telefono)

	t.Run("Unknown Person", func(t *testing.T) {
		_, err := UpdatePerson(db, "00000000-0000-0000-0000-000000000000", UpdatePersonInput{})
		assert.ErrorIs(t, err, ErrPersonNotFound)
	})
}

func TestUpsertIdentification(t *testing.T) {
	db := setupTestDB(t)
	person := createTestPerson(t, db)

	t.Run("Creates Then Updates The Same Row", func(t *testing.T) {
		first, err := UpsertIdentification(db, person.ID, "28999000", "27-28999000-5")
		assert.NoError(t, err)

		second, err := UpsertIdentification(db, person.ID, "28999000", "27-28999000-6")
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.Model(&models.Identification{}).Where("person_id = ?", person.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Both Fields Required", func(t *testing.T) {
		_, err := UpsertIdentification(db, person.ID, "", "")
		assert.Error(t, err)
		fields := violationFields(err)
		assert.Contains(t, fields, "dni")
		assert.Contains(t, fields, "cuil")
	})
}

func TestAssignProfile(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	person := createTestPerson(t, db)
	createTestProfile(t, db, models.ProfileProfesor)

	t.Run("First Assignment Creates A Row", func(t *testing.T) {
		assignment, err := AssignProfile(db, actor, person.ID, models.ProfileProfesor)
		assert.NoError(t, err)
		assert.True(t, assignment.Vigente)
		assert.Equal(t, actor.UserID, *assignment.AsignadoPorID)
	})

	t.Run("Reassignment Updates The Existing Row", func(t *testing.T) {
		assert.NoError(t, RevokeProfile(db, person.ID, models.ProfileProfesor))

		later := testActor()
		assignment, err := AssignProfile(db, later, person.ID, models.ProfileProfesor)
		assert.NoError(t, err)
		assert.True(t, assignment.Vigente)
		assert.Equal(t, later.UserID, *assignment.AsignadoPorID)

		var count int64
		db.Model(&models.ProfileAssignment{}).Where("person_id = ?", person.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Unknown Profile Code", func(t *testing.T) {
		_, err := AssignProfile(db, actor, person.ID, models.ProfileCode("DECANO"))
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("Profile Not Seeded", func(t *testing.T) {
		_, err := AssignProfile(db, actor, person.ID, models.ProfileInvestigador)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("Unknown Person", func(t *testing.T) {
		_, err := AssignProfile(db, actor, "00000000-0000-0000-0000-000000000000", models.ProfileProfesor)
		assert.ErrorIs(t, err, ErrPersonNotFound)
	})
}

func TestRevokeProfile(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	person := createTestPerson(t, db)
	createTestProfile(t, db, models.ProfileCoordinador)

	_, err := AssignProfile(db, actor, person.ID, models.ProfileCoordinador)
	assert.NoError(t, err)

	assert.NoError(t, RevokeProfile(db, person.ID, models.ProfileCoordinador))

	var assignment models.ProfileAssignment
	assert.NoError(t, db.First(&assignment, "person_id = ?", person.ID).Error)
	assert.False(t, assignment.Vigente)
}
