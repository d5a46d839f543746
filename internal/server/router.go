package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aistudio-backend/internal/config"
	"github.com/yungbote/aistudio-backend/internal/handlers"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/middleware"
)

type RouterConfig struct {
	Config         *config.Config
	Log            *logger.Logger
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	AvatarHandler  *handlers.AvatarHandler
	VoiceHandler   *handlers.VoiceHandler
	VideoHandler   *handlers.VideoHandler
	StudioHandler  *handlers.StudioHandler
	UploadHandler  *handlers.UploadHandler
	DevHandler     *handlers.DevHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	origins := []string{"http://localhost:3000"}
	if cfg.Config.IsProduction() && cfg.Config.FrontendURL != "" {
		origins = []string{cfg.Config.FrontendURL}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	if cfg.Config.IsProduction() {
		limiter := middleware.NewRateLimiter(cfg.Config.RateLimitMax, cfg.Config.RateLimitWindow, cfg.Log)
		router.Use(limiter.Handler())
	}

	// ===============
	// || Public    ||
	// ===============
	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api/v1")
	{
		api.POST("/user/signup", cfg.UserHandler.Signup)
		api.POST("/user/signin", cfg.UserHandler.Signin)
		api.POST("/user/logout", cfg.UserHandler.Logout)
		api.POST("/dev/wipe", cfg.DevHandler.Wipe)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// User
	protected.GET("/user/me", cfg.UserHandler.GetMe)
	// Avatars
	protected.POST("/avatars", cfg.AvatarHandler.Create)
	protected.GET("/avatars", cfg.AvatarHandler.List)
	protected.POST("/avatars/previews", cfg.AvatarHandler.Previews)
	protected.POST("/avatars/save", cfg.AvatarHandler.Save)
	protected.POST("/avatars/delete", cfg.AvatarHandler.Delete)
	// Voice
	protected.POST("/voice/synthesize", cfg.VoiceHandler.Synthesize)
	protected.GET("/voice", cfg.VoiceHandler.List)
	protected.GET("/voice/providers/elevenlabs/voices", cfg.VoiceHandler.ProviderVoices)
	// Videos
	protected.POST("/videos", cfg.VideoHandler.Create)
	protected.GET("/videos", cfg.VideoHandler.List)
	// Studio
	protected.GET("/studio/summary", cfg.StudioHandler.Summary)
	// Uploads
	protected.POST("/uploads/presign", cfg.UploadHandler.Presign)

	return router
}
