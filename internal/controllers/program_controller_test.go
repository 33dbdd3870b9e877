package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/pemira_backend/internal/controllers"
	"github.com/zaqqye/pemira_backend/internal/models"
)

func TestIsProgramAllowed(t *testing.T) {
	db := setupTestDB(t)
	seedAllowedProgram(t, db, "1032", "Ekonomi")

	ok, err := controllers.IsProgramAllowed(db, "1032")
	if err != nil || !ok {
		t.Errorf("IsProgramAllowed(1032) = %v, %v; want true, nil", ok, err)
	}
	ok, err = controllers.IsProgramAllowed(db, "2020")
	if err != nil || ok {
		t.Errorf("IsProgramAllowed(2020) = %v, %v; want false, nil", ok, err)
	}
}

func TestProgramToggleIsSelfInverse(t *testing.T) {
	db := setupTestDB(t)
	mail := &stubMailer{}
	r := newTestServer(t, db, mail)

	seedAdmin(t, db, "admin@example.com", "rahasia123")
	token := adminLogin(t, r, "admin@example.com", "rahasia123")

	if err := db.Create(&models.Program{Code: "1052", Name: "Ilmu Komputer"}).Error; err != nil {
		t.Fatalf("seed catalog program: %v", err)
	}

	// Not allowed yet; first toggle turns it on.
	w := doJSON(r, http.MethodPost, "/api/v1/admin/programs/1052/toggle", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle returned %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["allowed"] != true {
		t.Errorf("first toggle allowed = %v, want true", body["allowed"])
	}
	var rec models.AllowedProgram
	if err := db.Where("code = ?", "1052").First(&rec).Error; err != nil {
		t.Fatalf("allow-list row missing after toggle: %v", err)
	}
	if rec.Name != "Ilmu Komputer" {
		t.Errorf("allow-list name = %q, want catalog name", rec.Name)
	}

	// Second toggle restores the original state.
	w = doJSON(r, http.MethodPost, "/api/v1/admin/programs/1052/toggle", nil, token)
	if body := decodeBody(t, w); body["allowed"] != false {
		t.Errorf("second toggle allowed = %v, want false", body["allowed"])
	}
	var count int64
	db.Model(&models.AllowedProgram{}).Where("code = ?", "1052").Count(&count)
	if count != 0 {
		t.Errorf("allow-list rows after double toggle = %d, want 0", count)
	}
}

func TestProgramToggleOutsideCatalog(t *testing.T) {
	db := setupTestDB(t)
	mail := &stubMailer{}
	r := newTestServer(t, db, mail)

	seedAdmin(t, db, "admin@example.com", "rahasia123")
	token := adminLogin(t, r, "admin@example.com", "rahasia123")

	// No catalog row and no name in the body falls back to a placeholder.
	w := doJSON(r, http.MethodPost, "/api/v1/admin/programs/9999/toggle", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle returned %d: %s", w.Code, w.Body.String())
	}
	var rec models.AllowedProgram
	if err := db.Where("code = ?", "9999").First(&rec).Error; err != nil {
		t.Fatalf("allow-list row missing: %v", err)
	}
	if rec.Name != "Unknown" {
		t.Errorf("fallback name = %q, want Unknown", rec.Name)
	}
}

func TestProgramListAndCreate(t *testing.T) {
	db := setupTestDB(t)
	mail := &stubMailer{}
	r := newTestServer(t, db, mail)

	seedAdmin(t, db, "admin@example.com", "rahasia123")
	token := adminLogin(t, r, "admin@example.com", "rahasia123")

	w := doJSON(r, http.MethodPost, "/api/v1/admin/programs", gin.H{"code": "1032", "name": "Ekonomi"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create program returned %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodPost, "/api/v1/admin/programs", gin.H{"code": "1032", "name": "Duplikat"}, token)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate program returned %d, want 409", w.Code)
	}
	w = doJSON(r, http.MethodPost, "/api/v1/admin/programs", gin.H{"code": "10", "name": "Pendek"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("short code returned %d, want 400", w.Code)
	}

	seedAllowedProgram(t, db, "1032", "Ekonomi")

	w = doJSON(r, http.MethodGet, "/api/v1/admin/programs", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("list programs returned %d", w.Code)
	}
	data := decodeBody(t, w)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("program list = %d entries, want 1", len(data))
	}
	entry := data[0].(map[string]interface{})
	if entry["code"] != "1032" || entry["allowed"] != true {
		t.Errorf("entry = %v, want code 1032 allowed true", entry)
	}
}
