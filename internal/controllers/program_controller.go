package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/models"
)

type ProgramController struct {
	DB *gorm.DB
}

// IsProgramAllowed is the whole eligibility predicate: a row with the code
// exists in allowed_programs.
func IsProgramAllowed(db *gorm.DB, code string) (bool, error) {
	var count int64
	if err := db.Model(&models.AllowedProgram{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List renders every catalog program against current allow-list membership.
func (pc *ProgramController) List(c *gin.Context) {
	var programs []models.Program
	if err := pc.DB.Order("code").Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data. Silakan coba lagi."})
		return
	}
	var allowed []models.AllowedProgram
	if err := pc.DB.Find(&allowed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data. Silakan coba lagi."})
		return
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, p := range allowed {
		allowedSet[p.Code] = struct{}{}
	}

	out := make([]gin.H, 0, len(programs))
	for _, p := range programs {
		_, ok := allowedSet[p.Code]
		out = append(out, gin.H{
			"code":    p.Code,
			"name":    p.Name,
			"allowed": ok,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type createProgramRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// Create adds a catalog entry (the original shipped a hardcoded list; here
// the catalog is admin-managed).
func (pc *ProgramController) Create(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code := strings.TrimSpace(req.Code)
	if len(code) != 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "program code must be 4 digits"})
		return
	}
	p := models.Program{Code: code, Name: req.Name}
	if err := pc.DB.Create(&p).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "program code already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "created", "id": p.ID})
}

type toggleProgramRequest struct {
	Name string `json:"name"`
}

// Toggle flips allow-list membership for a code: remove when present, insert
// otherwise. Calling it twice restores the prior state.
func (pc *ProgramController) Toggle(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid code"})
		return
	}

	var req toggleProgramRequest
	_ = c.ShouldBindJSON(&req)

	var existing models.AllowedProgram
	err := pc.DB.Where("code = ?", code).First(&existing).Error
	switch {
	case err == nil:
		if err := pc.DB.Delete(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memperbarui akses program studi."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": code, "allowed": false})
	case errors.Is(err, gorm.ErrRecordNotFound):
		name := req.Name
		if name == "" {
			var catalog models.Program
			if err := pc.DB.Where("code = ?", code).First(&catalog).Error; err == nil {
				name = catalog.Name
			} else {
				name = "Unknown"
			}
		}
		rec := models.AllowedProgram{Code: code, Name: name}
		if err := pc.DB.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				// concurrent toggle already inserted it; treat as allowed
				c.JSON(http.StatusOK, gin.H{"code": code, "allowed": true})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memperbarui akses program studi."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": code, "allowed": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memperbarui akses program studi."})
	}
}
