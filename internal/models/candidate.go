package models

import (
	"time"
)

// Candidate is a chairman/vice pair on the ballot. ID is the stable display
// ordering key ("Pasangan {id}").
type Candidate struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	ViceName  string
	Vision    string
	Mission   string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
