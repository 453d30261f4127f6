package handlers

import (
	"net/http"

	"legajo_app_go/db"
	"legajo_app_go/middleware"
	"legajo_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetNotificationsHandler lists the actor's unread notifications. RRHH
// actors also see the broadcast feed.
func GetNotificationsHandler(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.PersonID == nil {
		return c.JSON(http.StatusOK, []any{})
	}

	service := services.NewNotificationService(db.DB)
	notifications, err := service.GetUnreadNotifications(*actor.PersonID, actor.IsRRHH())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetNotificationCountHandler returns the unread badge count
func GetNotificationCountHandler(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.PersonID == nil {
		return c.JSON(http.StatusOK, echo.Map{"count": 0})
	}

	service := services.NewNotificationService(db.DB)
	count, err := service.GetUnreadCount(*actor.PersonID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkNotificationReadHandler marks one notification as read
func MarkNotificationReadHandler(c echo.Context) error {
	service := services.NewNotificationService(db.DB)
	if err := service.MarkAsRead(c.Param("id")); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsReadHandler clears the actor's unread feed
func MarkAllNotificationsReadHandler(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.PersonID == nil {
		return c.NoContent(http.StatusNoContent)
	}

	service := services.NewNotificationService(db.DB)
	if err := service.MarkAllAsRead(*actor.PersonID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
