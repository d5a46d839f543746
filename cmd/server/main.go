package main

import (
	"fmt"
	"os"

	"github.com/yungbote/aistudio-backend/internal/config"
	"github.com/yungbote/aistudio-backend/internal/db"
	"github.com/yungbote/aistudio-backend/internal/handlers"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/middleware"
	"github.com/yungbote/aistudio-backend/internal/repos"
	"github.com/yungbote/aistudio-backend/internal/server"
	"github.com/yungbote/aistudio-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("APP_ENV")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config load failed", "error", err)
	}
	logger.SetRedaction(cfg.LogRedactionEnabled, cfg.LogHashSalt)

	// Postgres
	postgresService, err := db.NewPostgresService(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	avatarRepo := repos.NewAvatarRepo(thePG, log)
	voiceAssetRepo := repos.NewVoiceAssetRepo(thePG, log)
	videoJobRepo := repos.NewVideoJobRepo(thePG, log)

	// Provider clients
	log.Info("Setting up provider clients...")
	openaiClient := services.NewOpenAIClient(cfg, log)
	speechClient := services.NewSpeechClient(cfg, log)
	talkClient := services.NewTalkingHeadClient(cfg, log)
	bucketService, err := services.NewBucketService(cfg, log)
	if err != nil {
		log.Fatal("Bucket init failed", "error", err)
	}

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(thePG, log, userRepo, cfg.JWTSecret)
	avatarService := services.NewAvatarService(thePG, log, avatarRepo, openaiClient, bucketService)
	voiceService := services.NewVoiceService(thePG, log, voiceAssetRepo, speechClient, openaiClient, bucketService, cfg.ElevenLabsDefaultVoiceID)
	videoService := services.NewVideoService(thePG, log, videoJobRepo, avatarRepo, talkClient, openaiClient, bucketService)
	studioService := services.NewStudioService(thePG, log, avatarRepo, voiceAssetRepo, videoJobRepo)
	maintenanceService := services.NewMaintenanceService(thePG, log, userRepo, avatarRepo, voiceAssetRepo, videoJobRepo)

	// Handlers
	log.Info("Setting up handlers...")
	userHandler := handlers.NewUserHandler(log, cfg, authService)
	avatarHandler := handlers.NewAvatarHandler(log, avatarService)
	voiceHandler := handlers.NewVoiceHandler(log, voiceService)
	videoHandler := handlers.NewVideoHandler(log, videoService)
	studioHandler := handlers.NewStudioHandler(log, studioService)
	uploadHandler := handlers.NewUploadHandler(log, bucketService)
	devHandler := handlers.NewDevHandler(log, cfg, maintenanceService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Config:         cfg,
		Log:            log,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		AvatarHandler:  avatarHandler,
		VoiceHandler:   voiceHandler,
		VideoHandler:   videoHandler,
		StudioHandler:  studioHandler,
		UploadHandler:  uploadHandler,
		DevHandler:     devHandler,
	})

	addr := ":" + cfg.Port
	log.Info("Starting server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
