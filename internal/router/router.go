package router

import (
	"log"
	"net/http"
	"time"

	"classhub/config"
	"classhub/internal/domain"
	"classhub/internal/handler"
	"classhub/internal/middleware"
	"classhub/internal/repository"
	"classhub/internal/service"
	"classhub/internal/ws"
	"classhub/pkg/cloudinary"
	"classhub/pkg/openrouter"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers into a gin engine.
// uploader may be nil when Cloudinary is not configured.
func Setup(cfg *config.Config, db *gorm.DB, uploader cloudinary.Uploader) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if !cfg.IsProduction() {
		r.Use(gin.Logger())
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(300, 60*time.Second)))
	perUser := middleware.RateLimitByUser(middleware.NewInMemoryRateLimiter(30, 60*time.Second))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	translationRepo := repository.NewTranslationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	hub := ws.NewHub()

	// Services
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc.Enabled() {
		log.Printf("[FCM] Push notifications enabled")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	emailSvc := service.NewEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
	var mailer service.Mailer
	if emailSvc.Enabled() {
		mailer = emailSvc
	}
	aiSvc := service.NewAIService(openrouter.NewClient(cfg.AI.OpenRouterAPIKey, cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.Referer, cfg.AI.Title, cfg.AI.Timeout))

	authSvc := service.NewAuthService(cfg, userRepo)
	userSvc := service.NewUserService(userRepo)
	presenceSvc := service.NewPresenceService(presenceRepo, userRepo, cfg.Presence.Window)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc, mailer)
	classroomSvc := service.NewClassroomService(classroomRepo, userRepo)
	sessionSvc := service.NewSessionService(sessionRepo, classroomRepo, userRepo, notifSvc, uploader)
	chatSvc := service.NewChatService(messageRepo, userRepo, hub)
	noteSvc := service.NewNoteService(noteRepo, sessionRepo, translationRepo, aiSvc, uploader)
	reportSvc := service.NewReportService(reportRepo, sessionRepo, noteRepo, classroomRepo, notifSvc)
	googleSvc := service.NewGoogleService(cfg, integrationRepo, sessionRepo, classroomRepo, notifSvc)
	videoSvc := service.NewVideoService(videoRepo, sessionRepo)
	systemSvc := service.NewSystemService(adminRepo, presenceSvc, aiSvc, emailSvc, googleSvc, fcmSvc, uploader)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, presenceSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, presenceSvc)
	meHandler := handler.NewMeHandler(userSvc)
	presenceHandler := handler.NewPresenceHandler(presenceSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc, sessionSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	chatHandler := handler.NewChatHandler(chatSvc)
	noteHandler := handler.NewNoteHandler(noteSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	integrationHandler := handler.NewIntegrationHandler(googleSvc)
	videoHandler := handler.NewVideoHandler(videoSvc)
	notificationHandler := handler.NewNotificationHandler(notifSvc)
	adminHandler := handler.NewAdminHandler(systemSvc, userSvc, authSvc, classroomSvc)
	systemHandler := handler.NewSystemHandler(systemSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	teacherMw := middleware.RequireRole(domain.RoleTeacher, domain.RoleAdmin)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api/v1")
	{
		api.GET("/system/status", systemHandler.Status)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", meHandler.Get)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.POST("/fcm-token", meHandler.RegisterFCMToken)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		presence := api.Group("/presence")
		{
			presence.POST("/heartbeat", middleware.OptionalAuth(&cfg.JWT), presenceHandler.Heartbeat)
			presence.GET("/online", presenceHandler.Online)
		}

		classrooms := api.Group("/classrooms")
		classrooms.Use(authMw)
		{
			classrooms.POST("", teacherMw, classroomHandler.Create)
			classrooms.GET("", classroomHandler.Available)
			classrooms.GET("/mine", classroomHandler.Mine)
			classrooms.GET("/:id", classroomHandler.Details)
			classrooms.POST("/:id/enroll", classroomHandler.Enroll)
			classrooms.GET("/:id/sessions", classroomHandler.Sessions)
			classrooms.GET("/:id/reports", teacherMw, reportHandler.ForClassroom)
		}

		sessions := api.Group("/sessions")
		sessions.Use(authMw)
		{
			sessions.POST("", middleware.RequireRole(domain.RoleTeacher), sessionHandler.Start)
			sessions.GET("/live", sessionHandler.Live)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.POST("/:id/end", teacherMw, sessionHandler.End)
			sessions.POST("/:id/join", sessionHandler.Join)
			sessions.POST("/:id/leave", sessionHandler.Leave)
			sessions.GET("/:id/attendance", teacherMw, sessionHandler.Attendance)
			sessions.POST("/:id/recording", teacherMw, sessionHandler.UploadRecording)
			sessions.GET("/:id/videos", videoHandler.ListForSession)
			sessions.POST("/:id/videos", teacherMw, videoHandler.Attach)
			sessions.GET("/:id/meeting", integrationHandler.LatestMeeting)
		}
		api.GET("/videos", authMw, videoHandler.ListForSessions)
		api.DELETE("/videos/:videoId", authMw, teacherMw, videoHandler.Remove)

		chat := api.Group("/chat")
		{
			chat.GET("/:channel/messages", chatHandler.List)
			chat.POST("/:channel/messages", authMw, perUser, chatHandler.Send)
		}

		notes := api.Group("/notes")
		notes.Use(authMw)
		{
			notes.POST("", noteHandler.Create)
			notes.GET("", noteHandler.List)
			notes.POST("/:id/summarize", perUser, noteHandler.Summarize)
			notes.POST("/:id/attachment", noteHandler.UploadAttachment)
		}

		ai := api.Group("/ai")
		ai.Use(authMw, perUser)
		{
			ai.POST("/translate", noteHandler.Translate)
			ai.GET("/translations", noteHandler.Translations)
			ai.POST("/quick-summary", noteHandler.QuickSummary)
		}

		reports := api.Group("/reports")
		reports.Use(authMw)
		{
			reports.POST("", reportHandler.Generate)
			reports.GET("", reportHandler.ForStudent)
		}

		google := api.Group("/integrations/google")
		{
			google.GET("/callback", integrationHandler.Callback)
			google.GET("/start", authMw, integrationHandler.Start)
			google.GET("/status", authMw, integrationHandler.Status)
			google.DELETE("", authMw, integrationHandler.Disconnect)
			google.GET("/courses", authMw, teacherMw, integrationHandler.Courses)
			google.POST("/courses/import", authMw, teacherMw, integrationHandler.ImportCourse)
			google.POST("/meet", authMw, teacherMw, integrationHandler.ScheduleMeet)
		}

		api.POST("/admin/login", adminHandler.AdminLogin)
		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/growth", adminHandler.Growth)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)
			admin.GET("/classrooms", adminHandler.ListClassrooms)
			admin.POST("/sessions", sessionHandler.Start)
		}
	}

	r.GET("/ws/channel", handler.ChannelWS(cfg, hub, presenceSvc, chatSvc))

	return r
}
