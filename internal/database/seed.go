package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/config"
	"github.com/zaqqye/pemira_backend/internal/models"
	"github.com/zaqqye/pemira_backend/internal/utils"
)

func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := cfg.AdminEmail
	if email == "" {
		email = "admin@example.com"
	}
	fullName := cfg.AdminFullName
	if fullName == "" {
		fullName = "Administrator"
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "admin123"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Admin{
		FullName: fullName,
		Email:    email,
		Password: hashed,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial admin:", email)
	return nil
}

// SeedPrograms fills the study program catalog the admin console toggles
// voting access against. Codes match the 4-digit NIM prefixes.
func SeedPrograms(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Program{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	programs := []models.Program{
		{Code: "1012", Name: "Teknik Perminyakan"},
		{Code: "1022", Name: "Teknik Geofisika"},
		{Code: "1032", Name: "Ekonomi"},
		{Code: "1042", Name: "Manajemen"},
		{Code: "1052", Name: "Ilmu Komputer"},
		{Code: "1062", Name: "Teknik Kimia"},
		{Code: "1072", Name: "Teknik Elektro"},
		{Code: "1082", Name: "Hubungan Internasional"},
	}
	for _, p := range programs {
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d study programs", len(programs))
	return nil
}
