package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zaqqye/pemira_backend/internal/config"
	"github.com/zaqqye/pemira_backend/internal/database"
	"github.com/zaqqye/pemira_backend/internal/models"
	"github.com/zaqqye/pemira_backend/internal/routes"
	"github.com/zaqqye/pemira_backend/internal/storage"
	"github.com/zaqqye/pemira_backend/internal/utils"
	"github.com/zaqqye/pemira_backend/internal/ws"
)

const testDomain = "universitaspertamina.ac.id"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// stubMailer records the last login code instead of sending it.
type stubMailer struct {
	lastTo   string
	lastCode string
	sent     int
}

func (m *stubMailer) SendLoginCode(to, code string) error {
	m.lastTo = to
	m.lastCode = code
	m.sent++
	return nil
}

func newTestServer(t *testing.T, db *gorm.DB, mail *stubMailer) *gin.Engine {
	t.Helper()
	r, _ := newTestServerWithConfig(t, db, mail)
	return r
}

func newTestServerWithConfig(t *testing.T, db *gorm.DB, mail *stubMailer) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:             "test-secret",
		RefreshJWTSecret:      "test-refresh-secret",
		AccessTokenTTLMinutes: "60",
		RefreshTokenTTLDays:   "30",
		StudentEmailDomain:    testDomain,
		LoginCodeTTLMinutes:   "10",
		LoginCodeLength:       "6",
		UploadDir:             t.TempDir(),
		PublicBaseURL:         "http://localhost:8080",
	}
	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	hub := ws.NewResultsHub()
	go hub.Run()

	r := gin.New()
	routes.Register(r, db, cfg, hub, store, mail)
	return r, cfg
}

func doJSON(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func seedAllowedProgram(t *testing.T, db *gorm.DB, code, name string) {
	t.Helper()
	if err := db.Create(&models.AllowedProgram{Code: code, Name: name}).Error; err != nil {
		t.Fatalf("failed to seed allowed program: %v", err)
	}
}

func seedAdmin(t *testing.T, db *gorm.DB, email, password string) models.Admin {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := models.Admin{FullName: "Test Admin", Email: email, Password: hashed}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return admin
}

// studentLogin walks the full request-code/verify flow and returns the
// access token.
func studentLogin(t *testing.T, r *gin.Engine, mail *stubMailer, nim string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/request-code", gin.H{"nim": nim}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("request-code returned %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodPost, "/api/v1/auth/verify", gin.H{"nim": nim, "code": mail.lastCode}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("verify returned %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("verify returned empty access_token")
	}
	return token
}

func adminLogin(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/admin/login", gin.H{"email": email, "password": password}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin login returned %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("admin login returned empty access_token")
	}
	return token
}
