package handlers

import (
	"net/http"
	"time"

	"legajo_app_go/db"
	"legajo_app_go/middleware"
	"legajo_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetLegajoHandler returns the full dossier view: estado, checklist,
// active plazo de gracia and recent historial
func GetLegajoHandler(c echo.Context) error {
	overview, err := services.GetLegajoOverview(db.DB, c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, overview)
}

// RecomputeLegajoHandler re-evaluates the checklist and moves the estado
// through the automatic rungs
func RecomputeLegajoHandler(c echo.Context) error {
	actor := middleware.GetActor(c)
	result, err := services.RecomputeLegajoState(db.DB, actor, c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type estadoRequest struct {
	Estado string  `json:"estado"`
	Motivo *string `json:"motivo,omitempty"`
}

// SetEstadoHandler applies a manual estado override. COMPLETO can only be
// reached through this path.
func SetEstadoHandler(c echo.Context) error {
	var req estadoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.GetActor(c)
	estado, err := services.AssignEstadoManual(db.DB, actor, c.Param("id"), req.Estado, req.Motivo)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, estado)
}

type plazoGraciaRequest struct {
	FechaLimite string  `json:"fecha_limite"`
	Motivo      *string `json:"motivo,omitempty"`
}

// SetPlazoGraciaHandler grants a grace period, replacing any active one
func SetPlazoGraciaHandler(c echo.Context) error {
	var req plazoGraciaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	fechaLimite, err := time.Parse("2006-01-02", req.FechaLimite)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha_limite inválida, se espera AAAA-MM-DD"})
	}

	actor := middleware.GetActor(c)
	plazo, err := services.SetPlazoGracia(db.DB, actor, c.Param("id"), fechaLimite, req.Motivo)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, plazo)
}
