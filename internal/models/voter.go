package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Voter is the durable student principal. A row materializes on the first
// verified login for a NIM and the same user_id is reused afterwards.
type Voter struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"type:uuid;uniqueIndex"`
	NIM         string `gorm:"column:nim;uniqueIndex"`
	Email       string
	ProgramCode string
	CreatedAt   time.Time
	LastLoginAt time.Time
}

func (v *Voter) BeforeCreate(tx *gorm.DB) (err error) {
	if v.UserID == "" {
		v.UserID = uuid.NewString()
	}
	return nil
}
