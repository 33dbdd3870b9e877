package controllers

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/models"
	"github.com/zaqqye/pemira_backend/internal/ws"
)

type ResultsController struct {
	DB *gorm.DB
}

// RankedResult is one candidate's tally line, ordered by vote count.
type RankedResult struct {
	Candidate  models.Candidate
	Votes      int
	Percentage float64
}

// ComputeResults counts votes per candidate and ranks descending by count.
// Ties keep the original candidate order (ascending id as loaded). With zero
// total votes every percentage is 0. Percentages are rounded to one decimal.
func ComputeResults(candidates []models.Candidate, votes []models.Vote) ([]RankedResult, int) {
	counts := make(map[uint]int, len(candidates))
	for _, v := range votes {
		counts[v.CandidateID]++
	}
	total := len(votes)

	results := make([]RankedResult, 0, len(candidates))
	for _, cand := range candidates {
		n := counts[cand.ID]
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(n)/float64(total)*1000) / 10
		}
		results = append(results, RankedResult{Candidate: cand, Votes: n, Percentage: pct})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Votes > results[j].Votes
	})
	return results, total
}

// BuildTally loads candidates and votes and computes the payload the live
// feed and the results endpoint share.
func BuildTally(db *gorm.DB) (ws.TallyPayload, error) {
	var candidates []models.Candidate
	if err := db.Order("id").Find(&candidates).Error; err != nil {
		return ws.TallyPayload{}, err
	}
	var votes []models.Vote
	if err := db.Find(&votes).Error; err != nil {
		return ws.TallyPayload{}, err
	}

	ranked, total := ComputeResults(candidates, votes)
	entries := make([]ws.TallyEntry, 0, len(ranked))
	for _, r := range ranked {
		entries = append(entries, ws.TallyEntry{
			CandidateID: r.Candidate.ID,
			Name:        r.Candidate.Name,
			ViceName:    r.Candidate.ViceName,
			Votes:       r.Votes,
			Percentage:  r.Percentage,
		})
	}
	return ws.TallyPayload{TotalVotes: total, Results: entries, UpdatedAt: time.Now().UTC()}, nil
}

func (rc *ResultsController) Results(c *gin.Context) {
	payload, err := BuildTally(rc.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data. Silakan coba lagi."})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// ListVotes is the raw vote listing for admin reporting (nim and
// program_code are denormalized onto each row at submission time).
func (rc *ResultsController) ListVotes(c *gin.Context) {
	all := strings.EqualFold(c.Query("all"), "true") || c.Query("all") == "1"
	limit := 50
	page := 1
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	base := rc.DB.Model(&models.Vote{})
	if code := strings.TrimSpace(c.Query("program_code")); code != "" {
		base = base.Where("program_code = ?", code)
	}
	if idStr := strings.TrimSpace(c.Query("candidate_id")); idStr != "" {
		if id, err := strconv.Atoi(idStr); err == nil && id > 0 {
			base = base.Where("candidate_id = ?", id)
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate_id"})
			return
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	listQ := base.Session(&gorm.Session{}).Order("created_at DESC")
	if !all {
		offset := (page - 1) * limit
		listQ = listQ.Offset(offset).Limit(limit)
	}
	var items []models.Vote
	if err := listQ.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, v := range items {
		out = append(out, gin.H{
			"nim":          v.NIM,
			"program_code": v.ProgramCode,
			"candidate_id": v.CandidateID,
			"created_at":   v.CreatedAt,
		})
	}
	meta := gin.H{"total": total, "all": all}
	if !all {
		meta["limit"] = limit
		meta["page"] = page
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "meta": meta})
}
