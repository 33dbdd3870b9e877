package models

import "time"

// Vote is write-once per voter. The unique index on user_id is the
// authoritative one-vote-per-student guarantee; nim and program_code are
// denormalized for admin reporting only.
type Vote struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"type:uuid;uniqueIndex"`
	CandidateID uint   `gorm:"index"`
	NIM         string `gorm:"column:nim"`
	ProgramCode string
	CreatedAt   time.Time
}
