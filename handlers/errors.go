package handlers

import (
	"errors"
	"log"
	"net/http"

	"legajo_app_go/services"

	"github.com/labstack/echo/v4"
)

// mapServiceError translates service errors into the JSON error contract:
// 400 for malformed input (with the itemized violations), 404 for missing
// aggregates, 409 for overlap conflicts, 422 for domain-rule rejections.
func mapServiceError(c echo.Context, err error) error {
	var valErr *services.ValidationError
	if errors.As(err, &valErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":      "validation failed",
			"violations": valErr.Violations,
		})
	}

	switch {
	case errors.Is(err, services.ErrPersonNotFound),
		errors.Is(err, services.ErrContractNotFound),
		errors.Is(err, services.ErrMateriaNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})

	case errors.Is(err, services.ErrOverlapDetected),
		errors.Is(err, services.ErrContractImmutable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})

	case errors.Is(err, services.ErrMixedProgramContract),
		errors.Is(err, services.ErrProfileNotAssigned),
		errors.Is(err, services.ErrNoTariffConfigured),
		errors.Is(err, services.ErrTariffNotFoundForCargo),
		errors.Is(err, services.ErrInvalidLegajoEstado),
		errors.Is(err, services.ErrInvalidFechaLimite),
		errors.Is(err, services.ErrInvalidDocumentType):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	log.Printf("[CRITICAL] Unhandled service error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
