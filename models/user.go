package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can call the API. Accounts link to a Person; the
// actor's roles are the person's vigente profile codes.
type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string  `gorm:"not null;uniqueIndex" json:"email"`
	Nombre       string  `gorm:"not null" json:"nombre"`
	PasswordHash string  `gorm:"not null" json:"-"`
	PersonID     *string `gorm:"type:uuid;index" json:"person_id,omitempty"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`

	Person *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

// AuthenticatedActor is the explicit request identity passed into every core
// call. It is built once per request by the actor middleware; services never
// probe the context for "who is calling".
type AuthenticatedActor struct {
	UserID   string
	PersonID *string
	Roles    []ProfileCode
}

// HasRole checks membership against the closed profile-code enum
func (a AuthenticatedActor) HasRole(code ProfileCode) bool {
	for _, r := range a.Roles {
		if r == code {
			return true
		}
	}
	return false
}

// IsRRHH reports whether the actor can manage legajos
func (a AuthenticatedActor) IsRRHH() bool {
	for _, r := range a.Roles {
		if r.CanManageLegajos() {
			return true
		}
	}
	return false
}
