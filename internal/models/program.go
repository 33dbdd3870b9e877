package models

import (
	"time"
)

// Program is a catalog entry for a known study program (4-digit code).
type Program struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"uniqueIndex"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllowedProgram marks a program code as permitted to vote. Membership in
// this table is the whole eligibility predicate.
type AllowedProgram struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"uniqueIndex"`
	Name      string
	CreatedAt time.Time
}
