package services

import (
	"fmt"
	"strings"

	"legajo_app_go/models"
)

// FieldViolation is one field-level validation failure
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a request so the caller
// can render one combined 400 instead of failing field by field.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Violations[0].Field, e.Violations[0].Message)
	}
	return fmt.Sprintf("validation failed: %d violations", len(e.Violations))
}

// ContractItemInput is one requested work item, as received from the caller
type ContractItemInput struct {
	TipoItem             string  `json:"tipo_item"`
	MateriaID            *string `json:"id_materia,omitempty"`
	ActividadDescripcion *string `json:"actividad_descripcion,omitempty"`
	ProfileID            *string `json:"id_perfil,omitempty"`
	CargoCodigo          string  `json:"cargo"`
	HorasSemanales       float64 `json:"horas_semanales"`
}

// ValidateContractItems checks every requested item and collects all
// violations rather than failing fast. On success it returns the items
// normalized: trimmed fields and uppercased cargo codes. Pure; no I/O.
func ValidateContractItems(kind models.ContractKind, items []ContractItemInput) ([]ContractItemInput, error) {
	var violations []FieldViolation

	if len(items) == 0 {
		violations = append(violations, FieldViolation{
			Field:   "items",
			Message: "el contrato debe tener al menos un item",
		})
		return nil, &ValidationError{Violations: violations}
	}

	normalized := make([]ContractItemInput, len(items))
	for i, item := range items {
		field := func(name string) string {
			return fmt.Sprintf("items[%d].%s", i, name)
		}

		item.TipoItem = strings.ToUpper(strings.TrimSpace(item.TipoItem))
		item.CargoCodigo = NormalizeCargo(item.CargoCodigo)

		if item.TipoItem == "" {
			violations = append(violations, FieldViolation{field("tipo_item"), "tipo_item es requerido"})
		} else if !models.IsValidItemType(item.TipoItem) {
			violations = append(violations, FieldViolation{field("tipo_item"), fmt.Sprintf("tipo_item desconocido: %s", item.TipoItem)})
		}

		if item.CargoCodigo == "" {
			violations = append(violations, FieldViolation{field("cargo"), "cargo es requerido"})
		}

		if item.HorasSemanales <= 0 {
			violations = append(violations, FieldViolation{field("horas_semanales"), "horas_semanales debe ser mayor a cero"})
		}

		if item.TipoItem == models.ItemTypeDocencia {
			if item.MateriaID == nil || strings.TrimSpace(*item.MateriaID) == "" {
				violations = append(violations, FieldViolation{field("id_materia"), "items DOCENCIA requieren una materia"})
			}
		} else {
			if item.ActividadDescripcion == nil || strings.TrimSpace(*item.ActividadDescripcion) == "" {
				violations = append(violations, FieldViolation{field("actividad_descripcion"), "items de actividad requieren una descripcion"})
			}
		}

		// General contracts resolve tariffs per profile, so the item must say which
		if kind == models.ContractKindGeneral {
			if item.ProfileID == nil || strings.TrimSpace(*item.ProfileID) == "" {
				violations = append(violations, FieldViolation{field("id_perfil"), "items de contrato general requieren un perfil"})
			}
		}

		if item.ActividadDescripcion != nil {
			trimmed := strings.TrimSpace(*item.ActividadDescripcion)
			item.ActividadDescripcion = &trimmed
		}
		if item.MateriaID != nil {
			trimmed := strings.TrimSpace(*item.MateriaID)
			item.MateriaID = &trimmed
		}

		normalized[i] = item
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	return normalized, nil
}
