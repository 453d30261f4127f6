package handlers

import (
	"net/http"

	"legajo_app_go/db"
	"legajo_app_go/middleware"
	"legajo_app_go/services"

	"github.com/labstack/echo/v4"
)

type userStatusRequest struct {
	Activo bool `json:"activo"`
}

// SetUserActiveHandler activates or deactivates an account
func SetUserActiveHandler(c echo.Context) error {
	var req userStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.GetActor(c)
	user, err := services.SetUserActive(db.DB, actor, c.Param("id"), req.Activo)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
