package models

import "time"

// LoginCode is a single-use emailed code. Only the SHA-256 hash is stored;
// consumed_at marks spent codes.
type LoginCode struct {
	ID         uint   `gorm:"primaryKey"`
	Email      string `gorm:"index"`
	NIM        string `gorm:"column:nim"`
	CodeHash   string `gorm:"index"`
	ExpiresAt  time.Time `gorm:"index"`
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
