package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/middleware"
	"github.com/zaqqye/pemira_backend/internal/models"
	"github.com/zaqqye/pemira_backend/internal/utils"
	"github.com/zaqqye/pemira_backend/internal/ws"
)

type BallotController struct {
	DB  *gorm.DB
	Hub *ws.ResultsHub
}

// GetBallot returns the candidate slate ordered by id plus the caller's vote
// state. A student who already voted gets their selection back and the
// client renders read-only.
func (bc *BallotController) GetBallot(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var candidates []models.Candidate
	if err := bc.DB.Order("id").Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data. Silakan coba lagi."})
		return
	}

	hasVoted := false
	var selected *uint
	var vote models.Vote
	err := bc.DB.Where("user_id = ?", claims.UserID).First(&vote).Error
	switch {
	case err == nil:
		hasVoted = true
		id := vote.CandidateID
		selected = &id
	case errors.Is(err, gorm.ErrRecordNotFound):
		// not voted yet
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data. Silakan coba lagi."})
		return
	}

	out := make([]gin.H, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, gin.H{
			"id":        cand.ID,
			"name":      cand.Name,
			"vice_name": cand.ViceName,
			"vision":    cand.Vision,
			"mission":   cand.Mission,
			"image_url": cand.ImageURL,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"candidates": out,
		"has_voted":  hasVoted,
		"selected":   selected,
	})
}

type submitVoteRequest struct {
	CandidateID uint `json:"candidate_id" binding:"required"`
}

// SubmitVote records the single vote for the session's student. The unique
// index on votes.user_id is the authoritative one-vote guarantee; the
// pre-check only exists for a friendlier message. Repeat submissions are
// no-ops (no new row, 409).
func (bc *BallotController) SubmitVote(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if claims.NIM == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only students can vote"})
		return
	}

	var req submitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var candidate models.Candidate
	if err := bc.DB.First(&candidate, req.CandidateID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate"})
		return
	}

	var count int64
	if err := bc.DB.Model(&models.Vote{}).Where("user_id = ?", claims.UserID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan suara. Silakan coba lagi."})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Anda telah memberikan suara."})
		return
	}

	vote := models.Vote{
		UserID:      claims.UserID,
		CandidateID: candidate.ID,
		NIM:         claims.NIM,
		ProgramCode: utils.ProgramCode(claims.NIM),
	}
	if err := bc.DB.Create(&vote).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Anda telah memberikan suara."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan suara. Silakan coba lagi."})
		return
	}

	if payload, err := BuildTally(bc.DB); err == nil {
		bc.Hub.Broadcast(payload)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Terima kasih! Suara Anda telah berhasil dicatat."})
}
