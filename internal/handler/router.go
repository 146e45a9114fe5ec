package handler

import (
	"net/http"

	"family-board/internal/config"
	"family-board/internal/middleware"
	"family-board/internal/model"
	"family-board/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter wires the services over db and mounts every API route.
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	useJSONFieldNames()

	authSvc := service.NewAuthService(db)
	sessionSvc := service.NewSessionService(db, cfg.Session.Secret, cfg.Session.TTL())
	boardSvc := service.NewBoardService(db)
	categorySvc := service.NewCategoryService(db)
	surveySvc := service.NewSurveyService(db)

	authH := NewAuthHandler(authSvc, sessionSvc, cfg.Session)
	boardH := NewBoardHandler(boardSvc)
	categoryH := NewCategoryHandler(categorySvc)
	surveyH := NewSurveyHandler(surveySvc)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())
	if cfg.Server.Metrics {
		m := middleware.NewMetrics()
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.Use(
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.CORS.Origins),
		middleware.Identify(sessionSvc, cfg.Session.CookieName),
	)

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, model.Response{Message: "database unavailable"})
			return
		}
		ok(c, "ok", nil)
	})

	throttle := func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.RPS > 0 {
		throttle = middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	auth := r.Group("/api/auth")
	auth.POST("/register", throttle, authH.Register)
	auth.POST("/login", throttle, authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.GET("/me", authH.Me)
	auth.GET("/status", authH.Status)

	boards := r.Group("/api/boards")
	boards.GET("", boardH.List)
	boards.GET("/search", boardH.Search)
	boards.GET("/category/:categoryId", boardH.ByCategory)
	boards.GET("/:id", boardH.Detail)
	boards.POST("", boardH.Create)
	boards.PUT("/:id", boardH.Update)
	boards.DELETE("/:id", boardH.Delete)

	cats := r.Group("/api/categories")
	cats.GET("", categoryH.List)
	cats.GET("/:id", categoryH.Get)
	cats.POST("", categoryH.Create)

	survey := r.Group("/api/family-survey")
	survey.GET("/my-survey", surveyH.Mine)
	survey.POST("/submit", surveyH.Submit)
	survey.GET("/completion-status", surveyH.CompletionStatus)

	admin := survey.Group("/admin")
	admin.GET("/completed", surveyH.Completed())
	admin.GET("/incomplete", surveyH.Incomplete())
	admin.GET("/meeting-participants", surveyH.MeetingParticipants())
	admin.GET("/counseling-interested", surveyH.CounselingInterested())
	admin.GET("/living-alone", surveyH.LivingAlone())
	admin.GET("/by-relationship/:relationship", surveyH.ByRelationship())
	admin.GET("/grief-stage/:stage", surveyH.ByGriefStage())
	admin.GET("/statistics", surveyH.Statistics)
	admin.GET("/export", surveyH.Export)
	admin.GET("/user/:userId", surveyH.ByUser)
	admin.POST("/:surveyId/complete", surveyH.Complete)
	admin.DELETE("/:surveyId", surveyH.Delete)

	return r
}
