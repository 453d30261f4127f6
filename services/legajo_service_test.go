package services

import (
	"testing"
	"time"

	"legajo_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func historialFor(t *testing.T, db *gorm.DB, personID string) []models.LegajoHistorial {
	t.Helper()
	var rows []models.LegajoHistorial
	if err := db.Where("person_id = ?", personID).Order("created_at ASC").Find(&rows).Error; err != nil {
		t.Fatalf("failed to load historial: %v", err)
	}
	return rows
}

func TestRecomputeLegajoState(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	t.Run("Empty Dossier Is Incompleto", func(t *testing.T) {
		person := createTestPerson(t, db)

		result, err := RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.LegajoEstadoIncompleto, result.Estado)
		assert.False(t, result.Checklist.Complete())
	})

	t.Run("Identity Core Reaches Pendiente", func(t *testing.T) {
		sexo := models.SexMale
		nacimiento := date(1988, time.September, 3)
		person := &models.Person{
			Nombre:          "Pedro",
			Apellido:        "Suárez",
			FechaNacimiento: &nacimiento,
			Sexo:            &sexo,
		}
		assert.NoError(t, db.Create(person).Error)
		ident := &models.Identification{PersonID: person.ID, DNI: "30222333", CUIL: "20-30222333-9"}
		assert.NoError(t, db.Create(ident).Error)

		result, err := RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.LegajoEstadoPendiente, result.Estado)
	})

	t.Run("Complete Dossier Caps At Revision", func(t *testing.T) {
		person := completeDossier(t, db)

		result, err := RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.LegajoEstadoRevision, result.Estado)

		// Recomputing never reaches COMPLETO no matter how complete the dossier is
		result, err = RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.LegajoEstadoRevision, result.Estado)
	})

	t.Run("Every Recompute Appends Historial", func(t *testing.T) {
		person := createTestPerson(t, db)

		_, err := RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)
		_, err = RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)

		rows := historialFor(t, db, person.ID)
		assert.Len(t, rows, 2)
		assert.Nil(t, rows[0].EstadoAnterior)
		assert.NotNil(t, rows[1].EstadoAnterior)
		assert.Equal(t, models.LegajoEstadoIncompleto, *rows[1].EstadoAnterior)
	})

	t.Run("Transition Event Only When State Changes", func(t *testing.T) {
		person := createTestPerson(t, db)

		_, err := RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)
		_, err = RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)

		var count int64
		db.Model(&models.DomainEvent{}).
			Where("tipo = ? AND aggregate_id = ?", models.EventLegajoTransitioned, person.ID).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestAssignEstadoManual(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	t.Run("Completo Is Reachable Manually", func(t *testing.T) {
		person := completeDossier(t, db)
		_, err := RecomputeLegajoState(db, actor, person.ID)
		assert.NoError(t, err)

		motivo := "Revisión presencial finalizada"
		estado, err := AssignEstadoManual(db, actor, person.ID, models.LegajoEstadoCompleto, &motivo)
		assert.NoError(t, err)
		assert.Equal(t, models.LegajoEstadoCompleto, estado.Estado)

		rows := historialFor(t, db, person.ID)
		last := rows[len(rows)-1]
		assert.True(t, last.Manual)
		assert.Equal(t, actor.UserID, *last.ActorID)
		assert.Equal(t, motivo, *last.Motivo)
	})

	t.Run("Invalid State Code", func(t *testing.T) {
		person := createTestPerson(t, db)
		_, err := AssignEstadoManual(db, actor, person.ID, "ARCHIVADO", nil)
		assert.ErrorIs(t, err, ErrInvalidLegajoEstado)
	})

	t.Run("Unknown Person", func(t *testing.T) {
		_, err := AssignEstadoManual(db, actor, "00000000-0000-0000-0000-000000000000", models.LegajoEstadoRevision, nil)
		assert.ErrorIs(t, err, ErrPersonNotFound)
	})

	t.Run("Motivo Markup Is Stripped", func(t *testing.T) {
		person := createTestPerson(t, db)
		motivo := `<script>alert(1)</script>Documentación observada`
		_, err := AssignEstadoManual(db, actor, person.ID, models.LegajoEstadoIncompleto, &motivo)
		assert.NoError(t, err)

		rows := historialFor(t, db, person.ID)
		assert.Equal(t, "Documentación observada", *rows[len(rows)-1].Motivo)
	})
}

func TestSetPlazoGracia(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	t.Run("Past Deadline Rejected", func(t *testing.T) {
		person := createTestPerson(t, db)
		_, err := SetPlazoGracia(db, actor, person.ID, time.Now().Add(-24*time.Hour), nil)
		assert.ErrorIs(t, err, ErrInvalidFechaLimite)
	})

	t.Run("At Most One Active Per Person", func(t *testing.T) {
		person := createTestPerson(t, db)

		first, err := SetPlazoGracia(db, actor, person.ID, time.Now().AddDate(0, 1, 0), strPtr("Mudanza"))
		assert.NoError(t, err)
		assert.True(t, first.Activo)

		second, err := SetPlazoGracia(db, actor, person.ID, time.Now().AddDate(0, 2, 0), nil)
		assert.NoError(t, err)

		var activos []models.PlazoGracia
		assert.NoError(t, db.Where("person_id = ? AND activo = ?", person.ID, true).Find(&activos).Error)
		assert.Len(t, activos, 1)
		assert.Equal(t, second.ID, activos[0].ID)

		// The replaced row survives, deactivated
		var total int64
		db.Model(&models.PlazoGracia{}).Where("person_id = ?", person.ID).Count(&total)
		assert.Equal(t, int64(2), total)
	})

	t.Run("GetActivePlazoGracia Returns Nil When None", func(t *testing.T) {
		person := createTestPerson(t, db)
		plazo, err := GetActivePlazoGracia(db, person.ID)
		assert.NoError(t, err)
		assert.Nil(t, plazo)
	})
}

func TestGetLegajoOverview(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	person := completeDossier(t, db)
	_, err := RecomputeLegajoState(db, actor, person.ID)
	assert.NoError(t, err)
	_, err = SetPlazoGracia(db, actor, person.ID, time.Now().AddDate(0, 1, 0), nil)
	assert.NoError(t, err)

	overview, err := GetLegajoOverview(db, person.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.LegajoEstadoRevision, overview.Estado)
	assert.True(t, overview.Checklist.Complete())
	assert.NotNil(t, overview.PlazoGracia)
	assert.NotEmpty(t, overview.Historial)

	t.Run("Overview Does Not Mutate State", func(t *testing.T) {
		before := historialFor(t, db, person.ID)
		_, err := GetLegajoOverview(db, person.ID)
		assert.NoError(t, err)
		after := historialFor(t, db, person.ID)
		assert.Equal(t, len(before), len(after))
	})
}
