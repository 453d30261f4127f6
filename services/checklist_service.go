package services

import (
	"errors"
	"fmt"

	"legajo_app_go/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// LegajoChecklist is the result of the five completeness checks. Each field
// is independent; Faltantes lists what is missing in human-readable form for
// the UI and notifications.
type LegajoChecklist struct {
	DatosPersonales        bool     `json:"datos_personales"`
	Identificacion         bool     `json:"identificacion"`
	DocumentosObligatorios bool     `json:"documentos_obligatorios"`
	DomicilioYBarrio       bool     `json:"domicilio_y_barrio"`
	TituloCargado          bool     `json:"titulo_cargado"`
	Faltantes              []string `json:"faltantes"`
}

// Complete reports whether all five predicates hold
func (c *LegajoChecklist) Complete() bool {
	return c.DatosPersonales && c.Identificacion && c.DocumentosObligatorios &&
		c.DomicilioYBarrio && c.TituloCargado
}

// IdentityComplete reports whether the identity core and identification hold
// (the PENDIENTE threshold)
func (c *LegajoChecklist) IdentityComplete() bool {
	return c.DatosPersonales && c.Identificacion
}

// EvaluateLegajoChecklist runs the five completeness predicates for a person.
// The predicates are read-only and independent, so they fan out concurrently;
// each one writes a distinct field of the result.
func EvaluateLegajoChecklist(db *gorm.DB, personID string) (*LegajoChecklist, error) {
	// Person existence is checked up front so the predicates can assume it
	var person models.Person
	if err := db.First(&person, "id = ?", personID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	checklist := &LegajoChecklist{}
	var missingDocs []string

	var g errgroup.Group

	g.Go(func() error {
		checklist.DatosPersonales = person.HasCoreIdentity()
		return nil
	})

	g.Go(func() error {
		var ident models.Identification
		err := db.First(&ident, "person_id = ?", personID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		checklist.Identificacion = ident.IsComplete()
		return nil
	})

	g.Go(func() error {
		var codes []string
		err := db.Model(&models.PersonDocument{}).
			Where("person_id = ? AND tipo_codigo IN ?", personID, models.RequiredDocumentCodes()).
			Distinct("tipo_codigo").
			Pluck("tipo_codigo", &codes).Error
		if err != nil {
			return err
		}

		present := make(map[string]bool, len(codes))
		for _, c := range codes {
			present[c] = true
		}
		for _, required := range models.RequiredDocumentCodes() {
			if !present[required] {
				missingDocs = append(missingDocs, required)
			}
		}
		checklist.DocumentosObligatorios = len(missingDocs) == 0
		return nil
	})

	g.Go(func() error {
		var domicilios, barrios int64
		if err := db.Model(&models.Domicile{}).Where("person_id = ?", personID).Count(&domicilios).Error; err != nil {
			return err
		}
		if err := db.Model(&models.PersonBarrio{}).Where("person_id = ?", personID).Count(&barrios).Error; err != nil {
			return err
		}
		// Both existence checks are required, independently
		checklist.DomicilioYBarrio = domicilios > 0 && barrios > 0
		return nil
	})

	g.Go(func() error {
		var count int64
		if err := db.Model(&models.Title{}).Where("person_id = ?", personID).Count(&count).Error; err != nil {
			return err
		}
		// Verification state does not matter at this layer
		checklist.TituloCargado = count > 0
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to evaluate checklist: %w", err)
	}

	if !checklist.DatosPersonales {
		checklist.Faltantes = append(checklist.Faltantes, "datos personales incompletos (nombre, apellido, fecha de nacimiento, sexo)")
	}
	if !checklist.Identificacion {
		checklist.Faltantes = append(checklist.Faltantes, "DNI y/o CUIL sin cargar")
	}
	if !checklist.DocumentosObligatorios {
		for _, code := range missingDocs {
			checklist.Faltantes = append(checklist.Faltantes, fmt.Sprintf("documento obligatorio faltante: %s", code))
		}
	}
	if !checklist.DomicilioYBarrio {
		checklist.Faltantes = append(checklist.Faltantes, "domicilio y/o barrio sin declarar")
	}
	if !checklist.TituloCargado {
		checklist.Faltantes = append(checklist.Faltantes, "ningún título cargado")
	}

	return checklist, nil
}
