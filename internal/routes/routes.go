package routes

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/config"
	"github.com/zaqqye/pemira_backend/internal/controllers"
	"github.com/zaqqye/pemira_backend/internal/mailer"
	"github.com/zaqqye/pemira_backend/internal/middleware"
	"github.com/zaqqye/pemira_backend/internal/storage"
	"github.com/zaqqye/pemira_backend/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, hub *ws.ResultsHub, store storage.Store, mail mailer.Mailer) {
	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTLMinutes + "m")
	if err != nil || accessTTL == 0 {
		accessTTL = 60 * time.Minute
	}
	refreshDays, err := strconv.Atoi(cfg.RefreshTokenTTLDays)
	if err != nil || refreshDays <= 0 {
		refreshDays = 30
	}
	codeTTL, err := time.ParseDuration(cfg.LoginCodeTTLMinutes + "m")
	if err != nil || codeTTL == 0 {
		codeTTL = 10 * time.Minute
	}
	codeLength, err := strconv.Atoi(cfg.LoginCodeLength)
	if err != nil || codeLength <= 0 {
		codeLength = 6
	}

	// Controllers
	authCtrl := &controllers.AuthController{
		DB:            db,
		Mailer:        mail,
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshJWTSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    time.Duration(refreshDays) * 24 * time.Hour,
		StudentDomain: cfg.StudentEmailDomain,
		CodeTTL:       codeTTL,
		CodeLength:    codeLength,
	}
	ballotCtrl := &controllers.BallotController{DB: db, Hub: hub}
	candidateCtrl := &controllers.CandidateController{DB: db, Store: store}
	programCtrl := &controllers.ProgramController{DB: db}
	resultsCtrl := &controllers.ResultsController{DB: db}

	// Public auth
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/request-code", authCtrl.RequestCode)
		auth.POST("/verify", authCtrl.VerifyCode)
		auth.POST("/admin/login", authCtrl.AdminLogin)
		auth.POST("/refresh", authCtrl.Refresh)
	}

	// Candidate images
	r.Static("/uploads", cfg.UploadDir)

	// Page entry points. Rendering lives with the frontend; these only
	// describe the page and enforce the session gate.
	r.GET("/", pageStub("student_login"))
	r.GET("/verify", pageStub("verify"))
	r.GET("/admin", pageStub("admin_login"))
	voting := r.Group("/voting", middleware.RedirectIfNoSession(cfg.JWTSecret, "/"))
	{
		voting.GET("", pageStub("voting"))
	}
	dashboard := r.Group("/admin/dashboard", middleware.RedirectIfNoSession(cfg.JWTSecret, "/admin"))
	{
		dashboard.GET("", pageStub("admin_dashboard"))
	}

	// Protected
	authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{JWTSecret: cfg.JWTSecret})
	api := r.Group("/api/v1", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)
		api.POST("/auth/logout", authCtrl.Logout)

		// Student ballot (and admin preview)
		ballot := api.Group("/ballot", middleware.RequireRoles("student"))
		{
			ballot.GET("", ballotCtrl.GetBallot)
			ballot.POST("/vote", ballotCtrl.SubmitVote)
		}

		// Admin-only
		admin := api.Group("/admin", middleware.RequireRoles("admin"))
		{
			admin.GET("/candidates", candidateCtrl.List)
			admin.POST("/candidates", candidateCtrl.Create)
			admin.PUT("/candidates/:id", candidateCtrl.Update)
			admin.DELETE("/candidates/:id", candidateCtrl.Delete)
			admin.POST("/candidates/image", candidateCtrl.UploadImage)

			admin.GET("/programs", programCtrl.List)
			admin.POST("/programs", programCtrl.Create)
			admin.POST("/programs/:code/toggle", programCtrl.Toggle)

			admin.GET("/results", resultsCtrl.Results)
			admin.GET("/votes", resultsCtrl.ListVotes)
			admin.GET("/ws/results", ws.ResultsHandler(hub, func() (ws.TallyPayload, error) {
				return controllers.BuildTally(db)
			}))
		}
	}
}

func pageStub(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"page": name})
	}
}
