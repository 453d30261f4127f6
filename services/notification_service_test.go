package services

import (
	"testing"

	"legajo_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestNotificationService(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)

	person := createTestPerson(t, db)

	t.Run("NotifyUser And Get Unread", func(t *testing.T) {
		err := NotifyUser(db, person.ID, NotificationInput{
			Tipo:    models.NotificationTypeContratoAsignado,
			Mensaje: "Nuevo contrato registrado",
			Meta:    map[string]interface{}{"contract_id": 7},
		})
		assert.NoError(t, err)

		notifications, err := svc.GetUnreadNotifications(person.ID, false)
		assert.NoError(t, err)
		assert.Len(t, notifications, 1)
		assert.Equal(t, "Nuevo contrato registrado", notifications[0].Mensaje)
		assert.NotNil(t, notifications[0].Meta)

		count, _ := svc.GetUnreadCount(person.ID)
		assert.Equal(t, int64(1), count)
	})

	t.Run("RRHH Broadcasts Only Visible With Flag", func(t *testing.T) {
		err := NotifyAdminsRRHH(db, NotificationInput{
			Tipo:    models.NotificationTypeLegajoEstado,
			Mensaje: "Un legajo quedó listo para revisión",
		})
		assert.NoError(t, err)

		plain, err := svc.GetUnreadNotifications(person.ID, false)
		assert.NoError(t, err)
		assert.Len(t, plain, 1)

		withBroadcast, err := svc.GetUnreadNotifications(person.ID, true)
		assert.NoError(t, err)
		assert.Len(t, withBroadcast, 2)
	})

	t.Run("Mark As Read", func(t *testing.T) {
		var n models.Notification
		assert.NoError(t, db.First(&n, "person_id = ?", person.ID).Error)

		assert.NoError(t, svc.MarkAsRead(n.ID))

		count, _ := svc.GetUnreadCount(person.ID)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Mark All As Read", func(t *testing.T) {
		assert.NoError(t, NotifyUser(db, person.ID, NotificationInput{
			Tipo: models.NotificationTypeSystem, Mensaje: "uno",
		}))
		assert.NoError(t, NotifyUser(db, person.ID, NotificationInput{
			Tipo: models.NotificationTypeSystem, Mensaje: "dos",
		}))

		assert.NoError(t, svc.MarkAllAsRead(person.ID))

		count, _ := svc.GetUnreadCount(person.ID)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Default Level Is Info", func(t *testing.T) {
		other := createTestPerson(t, db)
		assert.NoError(t, NotifyUser(db, other.ID, NotificationInput{
			Tipo: models.NotificationTypeSystem, Mensaje: "hola",
		}))

		var n models.Notification
		assert.NoError(t, db.First(&n, "person_id = ?", other.ID).Error)
		assert.Equal(t, models.NotificationLevelInfo, n.Nivel)
	})
}
