package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/mailer"
	"github.com/zaqqye/pemira_backend/internal/middleware"
	"github.com/zaqqye/pemira_backend/internal/models"
	"github.com/zaqqye/pemira_backend/internal/utils"
)

type AuthController struct {
	DB            *gorm.DB
	Mailer        mailer.Mailer
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	StudentDomain string
	CodeTTL       time.Duration
	CodeLength    int
}

type requestCodeRequest struct {
	NIM string `json:"nim" binding:"required"`
}

// RequestCode validates the NIM, gates on program eligibility, then mails a
// single-use login code to the derived student address. Only the code hash
// is persisted.
func (a *AuthController) RequestCode(c *gin.Context) {
	var req requestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateNIM(req.NIM) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NIM harus terdiri dari 9 digit angka"})
		return
	}

	programCode := utils.ProgramCode(req.NIM)
	allowed, err := IsProgramAllowed(a.DB, programCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data. Silakan coba lagi."})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Program studi Anda tidak diperbolehkan untuk voting saat ini"})
		return
	}

	email := utils.DeriveEmail(req.NIM, a.StudentDomain)
	code, err := utils.GenerateOTP(a.CodeLength)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate code"})
		return
	}

	rec := models.LoginCode{
		Email:     email,
		NIM:       req.NIM,
		CodeHash:  utils.SHA256Hex(code),
		ExpiresAt: time.Now().UTC().Add(a.CodeTTL),
	}
	if err := a.DB.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := a.Mailer.SendLoginCode(email, code); err != nil {
		// Mail failures are surfaced verbatim so the student knows the code
		// never went out.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "kode verifikasi telah dikirim",
		"email":   email,
		"nim":     req.NIM,
	})
}

type verifyCodeRequest struct {
	NIM  string `json:"nim" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// VerifyCode exchanges an emailed code for a session. Codes are consumed with
// a conditional update so a code can never be spent twice.
func (a *AuthController) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateNIM(req.NIM) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NIM harus terdiri dari 9 digit angka"})
		return
	}

	email := utils.DeriveEmail(req.NIM, a.StudentDomain)
	now := time.Now().UTC()

	var rec models.LoginCode
	err := a.DB.
		Where("email = ? AND code_hash = ? AND consumed_at IS NULL AND expires_at > ?",
			email, utils.SHA256Hex(req.Code), now).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Verifikasi gagal, silakan coba lagi"})
		return
	}

	res := a.DB.Model(&models.LoginCode{}).
		Where("id = ? AND consumed_at IS NULL", rec.ID).
		Update("consumed_at", &now)
	if res.Error != nil || res.RowsAffected == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Verifikasi gagal, silakan coba lagi"})
		return
	}

	var voter models.Voter
	err = a.DB.Where("nim = ?", req.NIM).First(&voter).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		voter = models.Voter{
			NIM:         req.NIM,
			Email:       email,
			ProgramCode: utils.ProgramCode(req.NIM),
			LastLoginAt: now,
		}
		if err := a.DB.Create(&voter).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	default:
		a.DB.Model(&voter).Update("last_login_at", now)
	}

	p := principal{UserID: voter.UserID, Role: "student", Email: email, NIM: req.NIM}
	a.respondWithTokens(c, p)
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.Admin
	if err := a.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !utils.CheckPassword(admin.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	p := principal{UserID: admin.UserID, Role: "admin", Email: admin.Email}
	a.respondWithTokens(c, p)
}

func (a *AuthController) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	out := gin.H{
		"user_id": claims.UserID,
		"role":    claims.Role,
		"email":   claims.Email,
	}
	if claims.NIM != "" {
		out["nim"] = claims.NIM
		out["program_code"] = utils.ProgramCode(claims.NIM)
	}
	c.JSON(http.StatusOK, out)
}

type principal struct {
	UserID string
	Role   string
	Email  string
	NIM    string
}

type tokenPair struct {
	Token string
	JTI   string
}

func (a *AuthController) issueTokens(p principal) (access tokenPair, refresh tokenPair, err error) {
	now := time.Now().UTC()
	// Access token
	acl := middleware.Claims{
		UserID: p.UserID,
		Role:   p.Role,
		Email:  p.Email,
		NIM:    p.NIM,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pemira_backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.AccessTTL)),
			Subject:   p.UserID,
		},
	}
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, acl)
	atStr, err := at.SignedString([]byte(a.AccessSecret))
	if err != nil {
		return
	}
	access = tokenPair{Token: atStr}

	// Refresh token with JTI
	jti := uuid.NewString()
	rcl := jwt.RegisteredClaims{
		Issuer:    "pemira_backend",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.RefreshTTL)),
		Subject:   p.UserID,
		ID:        jti,
	}
	rt := jwt.NewWithClaims(jwt.SigningMethodHS256, rcl)
	rtStr, err := rt.SignedString([]byte(a.RefreshSecret))
	if err != nil {
		return
	}
	refresh = tokenPair{Token: rtStr, JTI: jti}

	// Persist hashed refresh token with enough principal context to rotate.
	rec := models.RefreshToken{
		TokenID:   jti,
		UserID:    p.UserID,
		Role:      p.Role,
		Email:     p.Email,
		NIM:       p.NIM,
		TokenHash: utils.SHA256Hex(rtStr),
		ExpiresAt: now.Add(a.RefreshTTL),
	}
	if err = a.DB.Create(&rec).Error; err != nil {
		return
	}
	return
}

func (a *AuthController) respondWithTokens(c *gin.Context, p principal) {
	access, refresh, err := a.issueTokens(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// The cookie is what the page gatekeeper checks on /voting and
	// /admin/dashboard loads.
	c.SetCookie(middleware.SessionCookie, access.Token, int(a.AccessTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"access_token":       access.Token,
		"token_type":         "Bearer",
		"expires_in":         int(a.AccessTTL.Seconds()),
		"role":               p.Role,
		"user_id":            p.UserID,
		"refresh_token":      refresh.Token,
		"refresh_expires_in": int(a.RefreshTTL.Seconds()),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (a *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tok, err := jwt.ParseWithClaims(req.RefreshToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.RefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	var rec models.RefreshToken
	if err := a.DB.Where("token_hash = ?", utils.SHA256Hex(req.RefreshToken)).First(&rec).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token not found"})
		return
	}
	if rec.RevokedAt != nil || time.Now().UTC().After(rec.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired or revoked"})
		return
	}

	if !IsValidRole(rec.Role) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	// The principal must still exist; a deleted admin row kills rotation.
	switch rec.Role {
	case "admin":
		var admin models.Admin
		if err := a.DB.Where("user_id = ?", rec.UserID).First(&admin).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Akun Anda tidak memiliki akses admin"})
			return
		}
	case "student":
		var voter models.Voter
		if err := a.DB.Where("user_id = ?", rec.UserID).First(&voter).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
	}

	p := principal{UserID: rec.UserID, Role: rec.Role, Email: rec.Email, NIM: rec.NIM}
	access, newRefresh, err := a.issueTokens(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	now := time.Now().UTC()
	a.DB.Model(&rec).Updates(map[string]interface{}{
		"revoked_at":           &now,
		"replaced_by_token_id": newRefresh.JTI,
	})
	c.SetCookie(middleware.SessionCookie, access.Token, int(a.AccessTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"access_token":       access.Token,
		"token_type":         "Bearer",
		"expires_in":         int(a.AccessTTL.Seconds()),
		"refresh_token":      newRefresh.Token,
		"refresh_expires_in": int(a.RefreshTTL.Seconds()),
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	All          bool   `json:"all"`
}

// Logout revokes refresh tokens (specific or all) and clears the session
// cookie. The access token itself stays valid until expiry.
func (a *AuthController) Logout(c *gin.Context) {
	var req logoutRequest
	_ = c.ShouldBindJSON(&req)
	now := time.Now().UTC()
	if req.RefreshToken != "" {
		var rec models.RefreshToken
		if err := a.DB.Where("token_hash = ?", utils.SHA256Hex(req.RefreshToken)).First(&rec).Error; err == nil {
			a.DB.Model(&rec).Update("revoked_at", &now)
		}
	}
	if req.All {
		if claims, ok := middleware.CurrentClaims(c); ok {
			a.DB.Model(&models.RefreshToken{}).
				Where("user_id = ? AND revoked_at IS NULL", claims.UserID).
				Update("revoked_at", &now)
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
