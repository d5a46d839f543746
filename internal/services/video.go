package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/repos"
	"github.com/yungbote/aistudio-backend/internal/types"
)

type CreateVideoInput struct {
	AvatarID uuid.UUID
	// ImageURL overrides the avatar lookup when supplied.
	ImageURL string
	Script   string
	VoiceID  string
	AudioKey string
	AudioURL string
	// Prompt is refined into a script unless RefinePrompt is explicitly false.
	Prompt       string
	RefinePrompt *bool
}

type VideoService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateVideoInput) (*types.VideoJob, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]*types.VideoJob, *Pagination, error)
}

type videoService struct {
	db           *gorm.DB
	log          *logger.Logger
	jobRepo      repos.VideoJobRepo
	avatarRepo   repos.AvatarRepo
	talkClient   TalkingHeadClient
	scriptClient OpenAIClient
	bucket       BucketService
}

func NewVideoService(db *gorm.DB, log *logger.Logger, jobRepo repos.VideoJobRepo, avatarRepo repos.AvatarRepo, talkClient TalkingHeadClient, scriptClient OpenAIClient, bucket BucketService) VideoService {
	return &videoService{
		db:           db,
		log:          log.With("service", "VideoService"),
		jobRepo:      jobRepo,
		avatarRepo:   avatarRepo,
		talkClient:   talkClient,
		scriptClient: scriptClient,
		bucket:       bucket,
	}
}

func (s *videoService) Create(ctx context.Context, userID uuid.UUID, in CreateVideoInput) (*types.VideoJob, error) {
	hasAudio := in.AudioURL != "" || in.AudioKey != ""
	if !hasAudio && in.Script == "" {
		return nil, apierr.Validation("either audioUrl/audioKey or script is required")
	}
	if in.Script != "" && in.VoiceID == "" {
		return nil, apierr.Validation("voiceId is required when using script")
	}

	avatarImageURL := in.ImageURL
	if avatarImageURL == "" {
		avatar, err := s.avatarRepo.GetByIDForUser(ctx, nil, in.AvatarID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up avatar: %w", err)
		}
		if avatar == nil {
			return nil, apierr.NotFound("avatar not found")
		}
		avatarImageURL = avatar.ImageURL
	}

	// Audio wins over any script text. Without audio, an explicit script wins
	// over the prompt, and the prompt is refined unless told not to.
	resolvedAudioURL := in.AudioURL
	if resolvedAudioURL == "" && in.AudioKey != "" {
		resolvedAudioURL = s.bucket.ObjectURL(in.AudioKey)
	}
	effectiveScript := in.Script
	if resolvedAudioURL == "" {
		refine := in.RefinePrompt == nil || *in.RefinePrompt
		if in.Prompt != "" && refine {
			refined, err := s.scriptClient.GenerateScript(ctx, in.Prompt)
			if err != nil {
				return nil, err
			}
			effectiveScript = refined
		} else if effectiveScript == "" && in.Prompt != "" {
			effectiveScript = in.Prompt
		}
	}

	talkReq := CreateTalkRequest{SourceImageURL: avatarImageURL}
	if resolvedAudioURL != "" {
		talkReq.AudioURL = resolvedAudioURL
	} else {
		talkReq.Text = effectiveScript
		talkReq.VoiceID = in.VoiceID
	}
	talk, err := s.talkClient.CreateTalk(ctx, talkReq)
	if err != nil {
		return nil, err
	}
	if talk.ErrorStatus() {
		s.log.Warn("Talking-head provider rejected submission", "provider_status", talk.Status)
	}

	outputURL := talk.ResultURL
	status := types.VideoJobStatusQueued
	if outputURL != "" {
		status = types.VideoJobStatusCompleted
	}

	job := &types.VideoJob{
		ID:        uuid.New(),
		UserID:    userID,
		AvatarID:  in.AvatarID,
		Script:    effectiveScript,
		Status:    status,
		OutputURL: outputURL,
	}
	if resolvedAudioURL != "" {
		job.Script = types.VideoScriptAudioSentinel
	} else if in.VoiceID != "" {
		voiceID := in.VoiceID
		job.VoiceID = &voiceID
	}
	if err := s.jobRepo.Create(ctx, nil, job); err != nil {
		return nil, fmt.Errorf("failed to persist video job: %w", err)
	}
	return job, nil
}

func (s *videoService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]*types.VideoJob, *Pagination, error) {
	page, limit, offset := normalizePage(page, limit)

	var jobs []*types.VideoJob
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.jobRepo.ListByUser(gctx, nil, userID, offset, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.jobRepo.CountByUser(gctx, nil, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to list video jobs: %w", err)
	}
	return jobs, &Pagination{Page: page, Limit: limit, Total: total}, nil
}
