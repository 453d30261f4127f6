package services

import (
	"testing"
	"time"

	"legajo_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateProfessorContract(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	person := setupProfessorFixture(t, db, 500)
	materia := createTestMateria(t, db, "Abogacía", "Derecho Civil I")

	t.Run("Full Computation Pipeline", func(t *testing.T) {
		input := CreateContractInput{
			Kind:        models.ContractKindProfesor,
			PersonID:    person.ID,
			Periodo:     "2026-1C",
			FechaInicio: date(2026, time.March, 1),
			FechaFin:    datePtr(2026, time.June, 30),
			Items: []ContractItemInput{
				{
					TipoItem:       models.ItemTypeDocencia,
					MateriaID:      &materia.ID,
					CargoCodigo:    models.CargoTitular,
					HorasSemanales: 4,
				},
			},
		}

		contract, err := CreateContract(db, actor, input)
		assert.NoError(t, err)
		assert.Equal(t, 4.0, contract.TotalHorasSemanales)
		assert.Equal(t, 16.0, contract.HorasMensuales)
		assert.Equal(t, 8000.0, contract.TotalMensual)
		assert.NotNil(t, contract.MontoHoraPromedio)
		assert.Equal(t, 500.0, *contract.MontoHoraPromedio)

		assert.Len(t, contract.Items, 1)
		assert.Equal(t, 500.0, contract.Items[0].MontoHora)
		assert.Equal(t, 8000.0, contract.Items[0].SubtotalMensual)

		// Creation queued an outbox event inside the same transaction
		var events []models.DomainEvent
		assert.NoError(t, db.Where("tipo = ?", models.EventContractCreated).Find(&events).Error)
		assert.Len(t, events, 1)
	})

	t.Run("Overlap Is Rejected With No Partial Writes", func(t *testing.T) {
		var before int64
		db.Model(&models.ContractItem{}).Count(&before)

		input := CreateContractInput{
			Kind:        models.ContractKindProfesor,
			PersonID:    person.ID,
			Periodo:     "2026-1C bis",
			FechaInicio: date(2026, time.April, 1),
			FechaFin:    datePtr(2026, time.May, 31),
			Items: []ContractItemInput{
				{
					TipoItem:       models.ItemTypeDocencia,
					MateriaID:      &materia.ID,
					CargoCodigo:    models.CargoTitular,
					HorasSemanales: 2,
				},
			},
		}

		_, err := CreateContract(db, actor, input)
		assert.ErrorIs(t, err, ErrOverlapDetected)

		var after int64
		db.Model(&models.ContractItem{}).Count(&after)
		assert.Equal(t, before, after)
	})

	t.Run("Unknown Person", func(t *testing.T) {
		input := CreateContractInput{
			Kind:        models.ContractKindProfesor,
			PersonID:    "00000000-0000-0000-0000-000000000000",
			Periodo:     "2026-2C",
			FechaInicio: date(2026, time.August, 1),
			Items: []ContractItemInput{
				{
					TipoItem:       models.ItemTypeDocencia,
					MateriaID:      &materia.ID,
					CargoCodigo:    models.CargoTitular,
					HorasSemanales: 2,
				},
			},
		}
		_, err := CreateContract(db, actor, input)
		assert.ErrorIs(t, err, ErrPersonNotFound)
	})

	t.Run("Person Without Teaching Profile", func(t *testing.T) {
		other := createTestPerson(t, db)
		coordinador := createTestProfile(t, db, models.ProfileCoordinador)
		assignTestProfile(t, db, other.ID, coordinador)
		createTestTariff(t, db, coordinador.ID, models.CargoTitular, false, 8200)

		input := CreateContractInput{
			Kind:        models.ContractKindProfesor,
			PersonID:    other.ID,
			Periodo:     "2026-1C",
			FechaInicio: date(2026, time.March, 1),
			Items: []ContractItemInput{
				{
					TipoItem:       models.ItemTypeDocencia,
					MateriaID:      &materia.ID,
					CargoCodigo:    models.CargoTitular,
					HorasSemanales: 4,
				},
			},
		}
		_, err := CreateContract(db, actor, input)
		assert.ErrorIs(t, err, ErrProfileNotAssigned)
	})

	t.Run("Mixed Carreras Rejected", func(t *testing.T) {
		otherMateria := createTestMateria(t, db, "Contador Público", "Contabilidad I")
		other := setupProfessorFixture(t, db, 500)

		input := CreateContractInput{
			Kind:        models.ContractKindProfesor,
			PersonID:    other.ID,
			Periodo:     "2026-1C",
			FechaInicio: date(2026, time.March, 1),
			Items: []ContractItemInput{
				{
					TipoItem:       models.ItemTypeDocencia,
					MateriaID:      &materia.ID,
					CargoCodigo:    models.CargoTitular,
					HorasSemanales: 4,
				},
				{
					TipoItem:       models.ItemTypeDocencia,
					MateriaID:      &otherMateria.ID,
					CargoCodigo:    models.CargoTitular,
					HorasSemanales: 2,
				},
			},
		}
		_, err := CreateContract(db, actor, input)
		assert.ErrorIs(t, err, ErrMixedProgramContract)
	})

	t.Run("Unknown Materia", func(t *testing.T) {
		other := setupProfessorFixture(t, db, 500)
		bogus := "11111111-1111-1111-1111-111111111111"
		input := CreateContractInput{
			Kind:        models.ContractKindProfesor,
			PersonID:    other.ID,
			Periodo:     "2026-1C",
			FechaInicio: date(2026, time.March, 1),
			Items: []ContractItemInput{
				{
					TipoItem:       models.ItemTypeDocencia,
					MateriaID:      &bogus,
					CargoCodigo:    models.CargoTitular,
					HorasSemanales: 4,
				},
			},
		}
		_, err := CreateContract(db, actor, input)
		assert.ErrorIs(t, err, ErrMateriaNotFound)
	})
}

func TestCreateGeneralContract(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	person := createTestPerson(t, db)
	coordinador := createTestProfile(t, db, models.ProfileCoordinador)
	investigador := createTestProfile(t, db, models.ProfileInvestigador)
	assignTestProfile(t, db, person.ID, coordinador)
	assignTestProfile(t, db, person.ID, investigador)
	createTestTariff(t, db, coordinador.ID, models.CargoTitular, false, 800)
	createTestTariff(t, db, investigador.ID, models.CargoAuxiliar, false, 600)

	t.Run("Multiple Items Across Profiles", func(t *testing.T) {
		input := CreateContractInput{
			Kind:        models.ContractKindGeneral,
			PersonID:    person.ID,
			Periodo:     "2026",
			FechaInicio: date(2026, time.February, 1),
			FechaFin:    datePtr(2026, time.December, 15),
			Items: []ContractItemInput{
				{
					TipoItem:             models.ItemTypeCoordinacion,
					ActividadDescripcion: strPtr("Coordinación de carrera"),
					ProfileID:            &coordinador.ID,
					CargoCodigo:          models.CargoTitular,
					HorasSemanales:       10,
				},
				{
					TipoItem:             models.ItemTypeInvestigacion,
					ActividadDescripcion: strPtr("Proyecto de investigación"),
					ProfileID:            &investigador.ID,
					CargoCodigo:          models.CargoAuxiliar,
					HorasSemanales:       5,
				},
			},
		}

		contract, err := CreateContract(db, actor, input)
		assert.NoError(t, err)
		assert.Equal(t, 15.0, contract.TotalHorasSemanales)
		assert.Equal(t, 60.0, contract.HorasMensuales)
		// 10*4*800 + 5*4*600 = 32000 + 12000
		assert.Equal(t, 44000.0, contract.TotalMensual)
	})

	t.Run("Item With Unassigned Profile Rejected", func(t *testing.T) {
		rrhh := createTestProfile(t, db, models.ProfileRRHH)
		createTestTariff(t, db, rrhh.ID, models.CargoTitular, false, 900)

		input := CreateContractInput{
			Kind:        models.ContractKindGeneral,
			PersonID:    person.ID,
			Periodo:     "2027",
			FechaInicio: date(2027, time.February, 1),
			Items: []ContractItemInput{
				{
					TipoItem:             models.ItemTypeGestion,
					ActividadDescripcion: strPtr("Gestión de personal"),
					ProfileID:            &rrhh.ID,
					CargoCodigo:          models.CargoTitular,
					HorasSemanales:       8,
				},
			},
		}
		_, err := CreateContract(db, actor, input)
		assert.ErrorIs(t, err, ErrProfileNotAssigned)
	})

	t.Run("Missing Tariff For Cargo", func(t *testing.T) {
		input := CreateContractInput{
			Kind:        models.ContractKindGeneral,
			PersonID:    person.ID,
			Periodo:     "2027",
			FechaInicio: date(2027, time.February, 1),
			Items: []ContractItemInput{
				{
					TipoItem:             models.ItemTypeCoordinacion,
					ActividadDescripcion: strPtr("Coordinación"),
					ProfileID:            &coordinador.ID,
					CargoCodigo:          models.CargoJefeTP,
					HorasSemanales:       4,
				},
			},
		}
		_, err := CreateContract(db, actor, input)
		assert.ErrorIs(t, err, ErrTariffNotFoundForCargo)
	})
}

func TestDeleteContract(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	person := setupProfessorFixture(t, db, 500)
	materia := createTestMateria(t, db, "Abogacía", "Derecho Penal I")

	contract, err := CreateContract(db, actor, CreateContractInput{
		Kind:        models.ContractKindProfesor,
		PersonID:    person.ID,
		Periodo:     "2026-1C",
		FechaInicio: date(2026, time.March, 1),
		FechaFin:    datePtr(2026, time.June, 30),
		Items: []ContractItemInput{
			{
				TipoItem:       models.ItemTypeDocencia,
				MateriaID:      &materia.ID,
				CargoCodigo:    models.CargoTitular,
				HorasSemanales: 4,
			},
		},
	})
	assert.NoError(t, err)

	t.Run("Delete Returns The Removed Row", func(t *testing.T) {
		deleted, err := DeleteContract(db, actor, contract.ID)
		assert.NoError(t, err)
		assert.Equal(t, contract.ID, deleted.ID)
		assert.Len(t, deleted.Items, 1)

		_, err = GetContractByID(db, contract.ID)
		assert.ErrorIs(t, err, ErrContractNotFound)

		var itemCount int64
		db.Model(&models.ContractItem{}).Where("contract_id = ?", contract.ID).Count(&itemCount)
		assert.Equal(t, int64(0), itemCount)
	})

	t.Run("Deleted Period Can Be Reissued", func(t *testing.T) {
		_, err := CreateContract(db, actor, CreateContractInput{
			Kind:        models.ContractKindProfesor,
			PersonID:    person.ID,
			Periodo:     "2026-1C",
			FechaInicio: date(2026, time.March, 1),
			FechaFin:    datePtr(2026, time.June, 30),
			Items: []ContractItemInput{
				{
					TipoItem:       models.ItemTypeDocencia,
					MateriaID:      &materia.ID,
					CargoCodigo:    models.CargoTitular,
					HorasSemanales: 6,
				},
			},
		})
		assert.NoError(t, err)
	})

	t.Run("Delete Missing Contract", func(t *testing.T) {
		_, err := DeleteContract(db, actor, 99999)
		assert.ErrorIs(t, err, ErrContractNotFound)
	})
}
