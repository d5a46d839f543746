package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/repos"
)

type WipeCounts struct {
	VideoJobs   int64 `json:"videoJobs"`
	VoiceAssets int64 `json:"voiceAssets"`
	Avatars     int64 `json:"avatars"`
	Users       int64 `json:"users"`
}

// MaintenanceService backs the development-only database wipe.
type MaintenanceService interface {
	WipeAll(ctx context.Context) (*WipeCounts, error)
}

type maintenanceService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	avatarRepo repos.AvatarRepo
	assetRepo  repos.VoiceAssetRepo
	jobRepo    repos.VideoJobRepo
}

func NewMaintenanceService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarRepo repos.AvatarRepo, assetRepo repos.VoiceAssetRepo, jobRepo repos.VideoJobRepo) MaintenanceService {
	return &maintenanceService{
		db:         db,
		log:        log.With("service", "MaintenanceService"),
		userRepo:   userRepo,
		avatarRepo: avatarRepo,
		assetRepo:  assetRepo,
		jobRepo:    jobRepo,
	}
}

func (s *maintenanceService) WipeAll(ctx context.Context) (*WipeCounts, error) {
	var counts WipeCounts
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if counts.VideoJobs, err = s.jobRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to wipe video jobs: %w", err)
		}
		if counts.VoiceAssets, err = s.assetRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to wipe voice assets: %w", err)
		}
		if counts.Avatars, err = s.avatarRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to wipe avatars: %w", err)
		}
		if counts.Users, err = s.userRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to wipe users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Warn("Database wiped",
		"video_jobs", counts.VideoJobs,
		"voice_assets", counts.VoiceAssets,
		"avatars", counts.Avatars,
		"users", counts.Users,
	)
	return &counts, nil
}
