package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/models"
)

func seedCandidates(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	names := []string{"Andi", "Budi", "Citra", "Dewi", "Eko"}
	for i := 0; i < n; i++ {
		cand := models.Candidate{
			Name:     names[i%len(names)],
			ViceName: "Wakil " + names[(i+1)%len(names)],
			Vision:   "Kampus yang lebih baik",
			Mission:  "Transparansi anggaran",
		}
		if err := db.Create(&cand).Error; err != nil {
			t.Fatalf("failed to seed candidate: %v", err)
		}
	}
}

func TestVotingFlow(t *testing.T) {
	db := setupTestDB(t)
	mail := &stubMailer{}
	r := newTestServer(t, db, mail)

	seedAllowedProgram(t, db, "1032", "Ekonomi")
	seedCandidates(t, db, 3)

	token := studentLogin(t, r, mail, "103212345")

	// Fresh ballot: full slate, not voted.
	w := doJSON(r, http.MethodGet, "/api/v1/ballot", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("ballot returned %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["has_voted"] != false {
		t.Errorf("has_voted = %v, want false", body["has_voted"])
	}
	if candidates := body["candidates"].([]interface{}); len(candidates) != 3 {
		t.Errorf("candidates = %d, want 3", len(candidates))
	}
	if body["selected"] != nil {
		t.Errorf("selected = %v, want null", body["selected"])
	}

	// Cast the vote.
	w = doJSON(r, http.MethodPost, "/api/v1/ballot/vote", gin.H{"candidate_id": 2}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("vote returned %d: %s", w.Code, w.Body.String())
	}

	var vote models.Vote
	if err := db.First(&vote).Error; err != nil {
		t.Fatalf("vote row not created: %v", err)
	}
	if vote.CandidateID != 2 {
		t.Errorf("vote candidate_id = %d, want 2", vote.CandidateID)
	}
	if vote.NIM != "103212345" {
		t.Errorf("vote nim = %q, want 103212345", vote.NIM)
	}
	if vote.ProgramCode != "1032" {
		t.Errorf("vote program_code = %q, want 1032", vote.ProgramCode)
	}

	// Ballot flips to read-only with the selection preloaded.
	w = doJSON(r, http.MethodGet, "/api/v1/ballot", nil, token)
	body = decodeBody(t, w)
	if body["has_voted"] != true {
		t.Errorf("has_voted after vote = %v, want true", body["has_voted"])
	}
	if sel, _ := body["selected"].(float64); sel != 2 {
		t.Errorf("selected = %v, want 2", body["selected"])
	}
}

func TestSubmitVoteIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	mail := &stubMailer{}
	r := newTestServer(t, db, mail)

	seedAllowedProgram(t, db, "1032", "Ekonomi")
	seedCandidates(t, db, 2)

	token := studentLogin(t, r, mail, "103212345")

	w := doJSON(r, http.MethodPost, "/api/v1/ballot/vote", gin.H{"candidate_id": 1}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("first vote returned %d: %s", w.Code, w.Body.String())
	}

	// Repeat submissions are no-ops: same status every time, no extra rows,
	// and the original choice survives.
	for i := 0; i < 3; i++ {
		w = doJSON(r, http.MethodPost, "/api/v1/ballot/vote", gin.H{"candidate_id": 2}, token)
		if w.Code != http.StatusConflict {
			t.Fatalf("repeat vote %d returned %d, want 409", i, w.Code)
		}
	}

	var count int64
	db.Model(&models.Vote{}).Count(&count)
	if count != 1 {
		t.Errorf("vote rows = %d, want 1", count)
	}
	var vote models.Vote
	db.First(&vote)
	if vote.CandidateID != 1 {
		t.Errorf("vote candidate_id = %d, want the original 1", vote.CandidateID)
	}
}

func TestSubmitVoteRejectsUnknownCandidate(t *testing.T) {
	db := setupTestDB(t)
	mail := &stubMailer{}
	r := newTestServer(t, db, mail)

	seedAllowedProgram(t, db, "1032", "Ekonomi")
	seedCandidates(t, db, 1)

	token := studentLogin(t, r, mail, "103212345")

	w := doJSON(r, http.MethodPost, "/api/v1/ballot/vote", gin.H{"candidate_id": 99}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown candidate returned %d, want 400", w.Code)
	}
	var count int64
	db.Model(&models.Vote{}).Count(&count)
	if count != 0 {
		t.Errorf("vote rows = %d, want 0", count)
	}
}

func TestBallotRequiresSession(t *testing.T) {
	db := setupTestDB(t)
	mail := &stubMailer{}
	r := newTestServer(t, db, mail)

	w := doJSON(r, http.MethodGet, "/api/v1/ballot", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("ballot without session returned %d, want 401", w.Code)
	}
}
