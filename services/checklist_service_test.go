package services

import (
	"testing"
	"time"

	"legajo_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// completeDossier loads everything the checklist looks at: identity core,
// DNI/CUIL, the three mandatory documents, a domicile with barrio and a title.
func completeDossier(t *testing.T, db *gorm.DB) *models.Person {
	t.Helper()

	sexo := models.SexFemale
	nacimiento := date(1990, time.May, 12)
	person := &models.Person{
		Nombre:          "Laura",
		Apellido:        "Fernández",
		FechaNacimiento: &nacimiento,
		Sexo:            &sexo,
	}
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("failed to create person: %v", err)
	}

	ident := &models.Identification{PersonID: person.ID, DNI: "28111222", CUIL: "27-28111222-4"}
	assert.NoError(t, db.Create(ident).Error)

	for _, codigo := range models.RequiredDocumentCodes() {
		doc := &models.PersonDocument{
			PersonID:   person.ID,
			TipoCodigo: codigo,
			FileKey:    "legajos/" + person.ID + "/" + codigo,
			FileName:   codigo + ".pdf",
		}
		assert.NoError(t, db.Create(doc).Error)
	}

	domicile := &models.Domicile{PersonID: person.ID, Calle: "San Martín", Numero: "1200", Principal: true}
	assert.NoError(t, db.Create(domicile).Error)

	barrio := &models.Barrio{Nombre: "Barrio " + person.ID[:8]}
	assert.NoError(t, db.Create(barrio).Error)
	link := &models.PersonBarrio{PersonID: person.ID, BarrioID: barrio.ID}
	assert.NoError(t, db.Create(link).Error)

	title := &models.Title{PersonID: person.ID, Nombre: "Abogada"}
	assert.NoError(t, db.Create(title).Error)

	return person
}

func TestEvaluateLegajoChecklist(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Unknown Person", func(t *testing.T) {
		_, err := EvaluateLegajoChecklist(db, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrPersonNotFound)
	})

	t.Run("Empty Dossier Fails Everything", func(t *testing.T) {
		person := createTestPerson(t, db)

		checklist, err := EvaluateLegajoChecklist(db, person.ID)
		assert.NoError(t, err)
		assert.False(t, checklist.DatosPersonales) // no birth date, no sex
		assert.False(t, checklist.Identificacion)
		assert.False(t, checklist.DocumentosObligatorios)
		assert.False(t, checklist.DomicilioYBarrio)
		assert.False(t, checklist.TituloCargado)
		assert.False(t, checklist.Complete())
		assert.NotEmpty(t, checklist.Faltantes)
	})

	t.Run("Complete Dossier Passes Everything", func(t *testing.T) {
		person := completeDossier(t, db)

		checklist, err := EvaluateLegajoChecklist(db, person.ID)
		assert.NoError(t, err)
		assert.True(t, checklist.DatosPersonales)
		assert.True(t, checklist.Identificacion)
		assert.True(t, checklist.DocumentosObligatorios)
		assert.True(t, checklist.DomicilioYBarrio)
		assert.True(t, checklist.TituloCargado)
		assert.True(t, checklist.Complete())
		assert.Empty(t, checklist.Faltantes)
	})

	t.Run("Missing One Required Document", func(t *testing.T) {
		person := completeDossier(t, db)
		assert.NoError(t, db.Where("person_id = ? AND tipo_codigo = ?", person.ID, models.DocumentTypeCUIL).
			Delete(&models.PersonDocument{}).Error)

		checklist, err := EvaluateLegajoChecklist(db, person.ID)
		assert.NoError(t, err)
		assert.False(t, checklist.DocumentosObligatorios)
		assert.False(t, checklist.Complete())
		assert.True(t, checklist.IdentityComplete())
	})

	t.Run("Duplicate Documents Count Once", func(t *testing.T) {
		person := completeDossier(t, db)
		dup := &models.PersonDocument{
			PersonID:   person.ID,
			TipoCodigo: models.DocumentTypeDNI,
			FileKey:    "legajos/" + person.ID + "/dni-2",
			FileName:   "dni-2.pdf",
		}
		assert.NoError(t, db.Create(dup).Error)

		checklist, err := EvaluateLegajoChecklist(db, person.ID)
		assert.NoError(t, err)
		assert.True(t, checklist.DocumentosObligatorios)
	})

	t.Run("Domicile Without Barrio Is Not Enough", func(t *testing.T) {
		person := completeDossier(t, db)
		assert.NoError(t, db.Where("person_id = ?", person.ID).Delete(&models.PersonBarrio{}).Error)

		checklist, err := EvaluateLegajoChecklist(db, person.ID)
		assert.NoError(t, err)
		assert.False(t, checklist.DomicilioYBarrio)
	})

	t.Run("Identification Missing CUIL", func(t *testing.T) {
		person := completeDossier(t, db)
		assert.NoError(t, db.Model(&models.Identification{}).
			Where("person_id = ?", person.ID).
			Update("cuil", "").Error)

		checklist, err := EvaluateLegajoChecklist(db, person.ID)
		assert.NoError(t, err)
		assert.False(t, checklist.Identificacion)
		assert.False(t, checklist.IdentityComplete())
	})
}
