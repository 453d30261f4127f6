package services

import (
	"errors"
	"fmt"

	"legajo_app_go/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// SetUserActive activates or deactivates an account. The status change and
// its outbox event commit together; the email and notification go out with
// the next dispatcher pass.
func SetUserActive(db *gorm.DB, actor models.AuthenticatedActor, userID string, active bool) (*models.User, error) {
	var user models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		if user.IsActive == active {
			return nil // Already in the requested state, nothing to announce
		}

		if err := tx.Model(&user).Update("is_active", active).Error; err != nil {
			return fmt.Errorf("failed to update user status: %w", err)
		}
		user.IsActive = active

		payload := AccountStatusEventPayload{
			UserID:      user.ID,
			PersonID:    user.PersonID,
			Email:       user.Email,
			DisplayName: user.Nombre,
			Active:      active,
		}
		return EnqueueEvent(tx, models.EventAccountStatusChanged, user.ID, payload)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}
