package services

import (
	"encoding/json"
	"fmt"
	"time"

	"legajo_app_go/models"

	"gorm.io/gorm"
)

// NotificationInput is the payload accepted by the notification sink
type NotificationInput struct {
	Tipo    string
	Mensaje string
	Link    *string
	Nivel   string
	Meta    map[string]interface{}
}

// NotifyUser persists a notification row targeted at one person. Callers
// treat failures as best-effort: log and continue, never propagate.
func NotifyUser(db *gorm.DB, personID string, input NotificationInput) error {
	return createNotification(db, &personID, input)
}

// NotifyAdminsRRHH persists a broadcast row for the HR feed (person_id null)
func NotifyAdminsRRHH(db *gorm.DB, input NotificationInput) error {
	return createNotification(db, nil, input)
}

func createNotification(db *gorm.DB, personID *string, input NotificationInput) error {
	nivel := input.Nivel
	if nivel == "" {
		nivel = models.NotificationLevelInfo
	}

	var meta *string
	if len(input.Meta) > 0 {
		data, err := json.Marshal(input.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal notification meta: %w", err)
		}
		s := string(data)
		meta = &s
	}

	notification := &models.Notification{
		PersonID: personID,
		Tipo:     input.Tipo,
		Mensaje:  input.Mensaje,
		Link:     input.Link,
		Nivel:    nivel,
		Meta:     meta,
	}

	return db.Create(notification).Error
}

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// GetUnreadNotifications returns the person's unread notifications plus, for
// RRHH actors, the broadcast feed.
func (s *NotificationService) GetUnreadNotifications(personID string, includeRRHH bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Where("read_at IS NULL")
	if includeRRHH {
		query = query.Where("person_id = ? OR person_id IS NULL", personID)
	} else {
		query = query.Where("person_id = ?", personID)
	}
	err := query.Order("created_at DESC").Limit(20).Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", notificationID).
		Update("read_at", now).Error
}

func (s *NotificationService) MarkAllAsRead(personID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("person_id = ? AND read_at IS NULL", personID).
		Update("read_at", now).Error
}

func (s *NotificationService) GetUnreadCount(personID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("person_id = ? AND read_at IS NULL", personID).
		Count(&count).Error
	return count, err
}
