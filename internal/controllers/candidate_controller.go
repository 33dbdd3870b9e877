package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/models"
	"github.com/zaqqye/pemira_backend/internal/storage"
	"github.com/zaqqye/pemira_backend/internal/utils"
)

type CandidateController struct {
	DB    *gorm.DB
	Store storage.Store
}

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/jpg":  {},
}

func (cc *CandidateController) List(c *gin.Context) {
	var candidates []models.Candidate
	if err := cc.DB.Order("id").Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data. Silakan coba lagi."})
		return
	}
	out := make([]gin.H, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, gin.H{
			"id":         cand.ID,
			"name":       cand.Name,
			"vice_name":  cand.ViceName,
			"vision":     cand.Vision,
			"mission":    cand.Mission,
			"image_url":  cand.ImageURL,
			"created_at": cand.CreatedAt,
			"updated_at": cand.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type createCandidateRequest struct {
	Name     string `json:"name" binding:"required"`
	ViceName string `json:"vice_name" binding:"required"`
	Vision   string `json:"vision"`
	Mission  string `json:"mission"`
	ImageURL string `json:"image_url"`
}

func (cc *CandidateController) Create(c *gin.Context) {
	var req createCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cand := models.Candidate{
		Name:     req.Name,
		ViceName: req.ViceName,
		Vision:   req.Vision,
		Mission:  req.Mission,
		ImageURL: req.ImageURL,
	}
	if err := cc.DB.Create(&cand).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Kandidat berhasil ditambahkan", "id": cand.ID})
}

type updateCandidateRequest struct {
	Name     *string         `json:"name"`
	ViceName *string         `json:"vice_name"`
	Vision   *FlexibleString `json:"vision"`
	Mission  *FlexibleString `json:"mission"`
	ImageURL *string         `json:"image_url"`
}

func (cc *CandidateController) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var cand models.Candidate
	if err := cc.DB.First(&cand, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}

	var req updateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		cand.Name = *req.Name
	}
	if req.ViceName != nil {
		cand.ViceName = *req.ViceName
	}
	if req.Vision != nil {
		cand.Vision = req.Vision.String()
	}
	if req.Mission != nil {
		cand.Mission = req.Mission.String()
	}
	if req.ImageURL != nil {
		cand.ImageURL = *req.ImageURL
	}
	if err := cc.DB.Save(&cand).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kandidat berhasil diperbarui"})
}

// Delete refuses to remove a candidate that already holds votes, keeping the
// tally consistent with the immutable vote rows.
func (cc *CandidateController) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var cand models.Candidate
	if err := cc.DB.First(&cand, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}

	var votes int64
	if err := cc.DB.Model(&models.Vote{}).Where("candidate_id = ?", cand.ID).Count(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if votes > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "kandidat sudah memiliki suara dan tidak dapat dihapus"})
		return
	}

	if err := cc.DB.Delete(&cand).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Best-effort cleanup of the stored image; the row is already gone.
	if idx := strings.LastIndex(cand.ImageURL, "/uploads/"); idx >= 0 {
		_ = cc.Store.Remove(cand.ImageURL[idx+len("/uploads/"):])
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kandidat berhasil dihapus"})
}

// UploadImage validates the MIME type against the allow-list, sanitizes the
// filename, prefixes a timestamp against collisions, and returns the public
// URL to embed into the candidate's image_url field.
func (cc *CandidateController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(fileHeader.Header.Get("Content-Type")))
	if _, ok := allowedImageTypes[contentType]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format file tidak didukung. Harap unggah file JPG atau PNG."})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengunggah gambar. Silakan coba lagi."})
		return
	}
	defer f.Close()

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), utils.SanitizeFilename(fileHeader.Filename))
	url, err := cc.Store.Save(name, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengunggah gambar. Silakan coba lagi."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
