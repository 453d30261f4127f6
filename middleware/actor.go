package middleware

import (
	"net/http"

	"legajo_app_go/db"
	"legajo_app_go/models"

	"github.com/labstack/echo/v4"
)

const (
	// ActorHeader carries the user id resolved by the identity gateway
	ActorHeader = "X-Actor-Id"
	// ContextKeyActor is the context key for the authenticated actor
	ContextKeyActor = "actor"
)

// WithActor resolves the gateway identity header into an AuthenticatedActor
// and stores it in the request context. Requests without a resolvable actor
// are rejected: every mutation here needs someone to attribute.
func WithActor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(ActorHeader)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing actor identity")
			}

			var user models.User
			if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown actor")
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "actor is inactive")
			}

			actor := models.AuthenticatedActor{
				UserID:   user.ID,
				PersonID: user.PersonID,
			}

			if user.PersonID != nil {
				var codes []string
				db.DB.Model(&models.ProfileAssignment{}).
					Joins("JOIN profiles ON profiles.id = profile_assignments.profile_id").
					Where("profile_assignments.person_id = ? AND profile_assignments.vigente = ?", *user.PersonID, true).
					Pluck("profiles.codigo", &codes)
				for _, code := range codes {
					actor.Roles = append(actor.Roles, models.ProfileCode(code))
				}
			}

			c.Set(ContextKeyActor, actor)
			return next(c)
		}
	}
}

// RequireProfile restricts a route to actors holding one of the given codes
func RequireProfile(codes ...models.ProfileCode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := GetActor(c)

			for _, code := range codes {
				if actor.HasRole(code) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

// GetActor retrieves the authenticated actor from context
func GetActor(c echo.Context) models.AuthenticatedActor {
	actor, ok := c.Get(ContextKeyActor).(models.AuthenticatedActor)
	if !ok {
		return models.AuthenticatedActor{}
	}
	return actor
}
