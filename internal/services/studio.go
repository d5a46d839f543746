package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/repos"
	"github.com/yungbote/aistudio-backend/internal/types"
)

type StudioSummary struct {
	Avatars     []*types.Avatar     `json:"avatars"`
	VoiceAssets []*types.VoiceAsset `json:"voiceAssets"`
	VideoJobs   []*types.VideoJob   `json:"videoJobs"`
}

// StudioService backs the studio landing page: one call returning the user's
// recent avatars, voice assets and video jobs.
type StudioService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*StudioSummary, error)
}

type studioService struct {
	db         *gorm.DB
	log        *logger.Logger
	avatarRepo repos.AvatarRepo
	assetRepo  repos.VoiceAssetRepo
	jobRepo    repos.VideoJobRepo
}

func NewStudioService(db *gorm.DB, log *logger.Logger, avatarRepo repos.AvatarRepo, assetRepo repos.VoiceAssetRepo, jobRepo repos.VideoJobRepo) StudioService {
	return &studioService{
		db:         db,
		log:        log.With("service", "StudioService"),
		avatarRepo: avatarRepo,
		assetRepo:  assetRepo,
		jobRepo:    jobRepo,
	}
}

func (s *studioService) Summary(ctx context.Context, userID uuid.UUID) (*StudioSummary, error) {
	summary := &StudioSummary{}

	// The three fetches are independent; run them concurrently and join
	// before responding.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		avatars, err := s.avatarRepo.ListByUser(gctx, nil, userID, 0, defaultPageLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch avatars: %w", err)
		}
		summary.Avatars = avatars
		return nil
	})
	g.Go(func() error {
		assets, err := s.assetRepo.ListByUser(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch voice assets: %w", err)
		}
		summary.VoiceAssets = assets
		return nil
	})
	g.Go(func() error {
		jobs, err := s.jobRepo.ListByUser(gctx, nil, userID, 0, defaultPageLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch video jobs: %w", err)
		}
		summary.VideoJobs = jobs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
