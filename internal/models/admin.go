package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin links an auth principal to elevated privileges. Presence of a row is
// the authorization check; the password hash doubles as the admin credential.
type Admin struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"type:uuid;uniqueIndex"`
	FullName  string
	Email     string `gorm:"uniqueIndex"`
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if a.UserID == "" {
		a.UserID = uuid.NewString()
	}
	return nil
}
