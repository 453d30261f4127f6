package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"legajo_app_go/models"

	"gorm.io/gorm"
)

// Person-related errors
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// CreatePersonInput carries a registration request
type CreatePersonInput struct {
	Nombre          string     `json:"nombre"`
	Apellido        string     `json:"apellido"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento,omitempty"`
	Sexo            *string    `json:"sexo,omitempty"`
	Telefono        *string    `json:"telefono,omitempty"`
	Email           *string    `json:"email,omitempty"`
	DNI             string     `json:"dni,omitempty"`
	CUIL            string     `json:"cuil,omitempty"`
}

// CreatePerson registers a person and, when DNI/CUIL came along, their
// identification row. The legajo starts as INCOMPLETO with its first
// historial entry.
func CreatePerson(db *gorm.DB, actor models.AuthenticatedActor, input CreatePersonInput) (*models.Person, error) {
	var violations []FieldViolation
	if strings.TrimSpace(input.Nombre) == "" {
		violations = append(violations, FieldViolation{"nombre", "nombre es requerido"})
	}
	if strings.TrimSpace(input.Apellido) == "" {
		violations = append(violations, FieldViolation{"apellido", "apellido es requerido"})
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	var person *models.Person
	err := db.Transaction(func(tx *gorm.DB) error {
		p := &models.Person{
			Nombre:          strings.TrimSpace(input.Nombre),
			Apellido:        strings.TrimSpace(input.Apellido),
			FechaNacimiento: input.FechaNacimiento,
			Sexo:            input.Sexo,
			Telefono:        input.Telefono,
			Email:           input.Email,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		if input.DNI != "" || input.CUIL != "" {
			ident := &models.Identification{
				PersonID: p.ID,
				DNI:      strings.TrimSpace(input.DNI),
				CUIL:     strings.TrimSpace(input.CUIL),
			}
			if err := tx.Create(ident).Error; err != nil {
				return err
			}
		}

		var actorID *string
		if actor.UserID != "" {
			id := actor.UserID
			actorID = &id
		}
		if _, err := applyTransition(tx, p.ID, models.LegajoEstadoIncompleto, actorID, nil, false); err != nil {
			return err
		}

		person = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

// GetPersonByID retrieves a person with the dossier preloaded
func GetPersonByID(db *gorm.DB, id string) (*models.Person, error) {
	var person models.Person
	err := db.Preload("Identification").
		Preload("Domicilios").
		Preload("Titulos").
		Preload("Documentos").
		Preload("Asignaciones", "vigente = ?", true).
		Preload("Asignaciones.Profile").
		Preload("Legajo").
		First(&person, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

// UpdatePersonInput carries a partial person edit
type UpdatePersonInput struct {
	Nombre          *string    `json:"nombre,omitempty"`
	Apellido        *string    `json:"apellido,omitempty"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento,omitempty"`
	Sexo            *string    `json:"sexo,omitempty"`
	Telefono        *string    `json:"telefono,omitempty"`
	Email           *string    `json:"email,omitempty"`
}

// UpdatePerson applies a partial edit to the identity core
func UpdatePerson(db *gorm.DB, id string, input UpdatePersonInput) (*models.Person, error) {
	var person models.Person
	if err := db.First(&person, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Nombre != nil && strings.TrimSpace(*input.Nombre) != "" {
		updates["nombre"] = strings.TrimSpace(*input.Nombre)
	}
	if input.Apellido != nil && strings.TrimSpace(*input.Apellido) != "" {
		updates["apellido"] = strings.TrimSpace(*input.Apellido)
	}
	if input.FechaNacimiento != nil {
		updates["fecha_nacimiento"] = input.FechaNacimiento
	}
	if input.Sexo != nil {
		updates["sexo"] = input.Sexo
	}
	if input.Telefono != nil {
		updates["telefono"] = input.Telefono
	}
	if input.Email != nil {
		updates["email"] = input.Email
	}

	if len(updates) > 0 {
		if err := db.Model(&person).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &person, nil
}

// UpsertIdentification creates or updates the person's DNI/CUIL pair
func UpsertIdentification(db *gorm.DB, personID, dni, cuil string) (*models.Identification, error) {
	var violations []FieldViolation
	if strings.TrimSpace(dni) == "" {
		violations = append(violations, FieldViolation{"dni", "dni es requerido"})
	}
	if strings.TrimSpace(cuil) == "" {
		violations = append(violations, FieldViolation{"cuil", "cuil es requerido"})
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	var ident models.Identification
	err := db.First(&ident, "person_id = ?", personID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		var person models.Person
		if err := db.First(&person, "id = ?", personID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPersonNotFound
			}
			return nil, err
		}
		ident = models.Identification{
			PersonID: personID,
			DNI:      strings.TrimSpace(dni),
			CUIL:     strings.TrimSpace(cuil),
		}
		if err := db.Create(&ident).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		ident.DNI = strings.TrimSpace(dni)
		ident.CUIL = strings.TrimSpace(cuil)
		if err := db.Save(&ident).Error; err != nil {
			return nil, err
		}
	}
	return &ident, nil
}

// AddDomicile appends a declared address to the dossier
func AddDomicile(db *gorm.DB, personID string, domicile *models.Domicile) error {
	if strings.TrimSpace(domicile.Calle) == "" {
		return &ValidationError{Violations: []FieldViolation{{"calle", "calle es requerida"}}}
	}
	domicile.PersonID = personID
	return db.Create(domicile).Error
}

// AddTitle appends an academic title to the dossier
func AddTitle(db *gorm.DB, personID string, title *models.Title) error {
	if strings.TrimSpace(title.Nombre) == "" {
		return &ValidationError{Violations: []FieldViolation{{"nombre", "nombre del título es requerido"}}}
	}
	title.PersonID = personID
	return db.Create(title).Error
}

// AssignProfile links a profile to a person. At most one active row exists
// per (person, profile): a second assignment reactivates and re-audits the
// existing row instead of duplicating it.
func AssignProfile(db *gorm.DB, actor models.AuthenticatedActor, personID string, code models.ProfileCode) (*models.ProfileAssignment, error) {
	if !code.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, code)
	}

	var assignment *models.ProfileAssignment
	err := db.Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.First(&person, "id = ?", personID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPersonNotFound
			}
			return err
		}

		var profile models.Profile
		if err := tx.First(&profile, "codigo = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrProfileNotFound, code)
			}
			return err
		}

		var actorID *string
		if actor.UserID != "" {
			id := actor.UserID
			actorID = &id
		}

		var existing models.ProfileAssignment
		err := tx.First(&existing, "person_id = ? AND profile_id = ?", personID, profile.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = models.ProfileAssignment{
				PersonID:      personID,
				ProfileID:     profile.ID,
				Vigente:       true,
				AsignadoPorID: actorID,
				AsignadoAt:    time.Now(),
			}
			if err := tx.Create(&existing).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			existing.Vigente = true
			existing.AsignadoPorID = actorID
			existing.AsignadoAt = time.Now()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}

		assignment = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// RevokeProfile deactivates an assignment; the row stays for the audit trail
func RevokeProfile(db *gorm.DB, personID string, code models.ProfileCode) error {
	var profile models.Profile
	if err := db.First(&profile, "codigo = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, code)
		}
		return err
	}

	return db.Model(&models.ProfileAssignment{}).
		Where("person_id = ? AND profile_id = ? AND vigente = ?", personID, profile.ID, true).
		Update("vigente", false).Error
}
