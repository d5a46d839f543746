package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/repos"
	"github.com/yungbote/aistudio-backend/internal/types"
)

type SynthesizeInput struct {
	Text       string
	Prompt     string
	VoiceID    string
	ModelID    string
	Stability  *float64
	Similarity *float64
}

type SynthesizeResult struct {
	AudioBase64 string            `json:"audioBase64"`
	AudioKey    string            `json:"audioKey"`
	AudioURL    string            `json:"audioUrl"`
	Asset       *types.VoiceAsset `json:"asset"`
}

type VoiceService interface {
	// Synthesize resolves the narration text (refining Prompt into a script
	// when Text is absent), calls the speech provider, uploads the audio and
	// persists the asset.
	Synthesize(ctx context.Context, userID uuid.UUID, in SynthesizeInput) (*SynthesizeResult, error)
	ListAssets(ctx context.Context, userID uuid.UUID) ([]*types.VoiceAsset, error)
	ProviderVoices(ctx context.Context) (json.RawMessage, error)
}

type voiceService struct {
	db             *gorm.DB
	log            *logger.Logger
	assetRepo      repos.VoiceAssetRepo
	speechClient   SpeechClient
	scriptClient   OpenAIClient
	bucket         BucketService
	defaultVoiceID string
}

func NewVoiceService(db *gorm.DB, log *logger.Logger, assetRepo repos.VoiceAssetRepo, speechClient SpeechClient, scriptClient OpenAIClient, bucket BucketService, defaultVoiceID string) VoiceService {
	return &voiceService{
		db:             db,
		log:            log.With("service", "VoiceService"),
		assetRepo:      assetRepo,
		speechClient:   speechClient,
		scriptClient:   scriptClient,
		bucket:         bucket,
		defaultVoiceID: defaultVoiceID,
	}
}

func (s *voiceService) Synthesize(ctx context.Context, userID uuid.UUID, in SynthesizeInput) (*SynthesizeResult, error) {
	text := in.Text
	if text == "" && in.Prompt != "" {
		refined, err := s.scriptClient.GenerateScript(ctx, in.Prompt)
		if err != nil {
			return nil, err
		}
		text = refined
	}
	if text == "" {
		return nil, apierr.Validation("prompt or text is required")
	}

	voiceID := in.VoiceID
	if voiceID == "" {
		voiceID = s.defaultVoiceID
	}
	if voiceID == "" {
		return nil, apierr.Validation("voiceId is required")
	}

	audio, err := s.speechClient.Synthesize(ctx, SynthesizeRequest{
		Text:       text,
		VoiceID:    voiceID,
		ModelID:    in.ModelID,
		Stability:  in.Stability,
		Similarity: in.Similarity,
	})
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("audio/%s/%d_%s.mp3", userID, time.Now().UnixMilli(), voiceID)
	url, err := s.bucket.UploadBuffer(ctx, key, audio, "audio/mpeg")
	if err != nil {
		return nil, err
	}

	modelID := in.ModelID
	if modelID == "" {
		modelID = DefaultSpeechModelID
	}
	stability := DefaultSpeechStability
	if in.Stability != nil {
		stability = *in.Stability
	}
	similarity := DefaultSpeechSimilarity
	if in.Similarity != nil {
		similarity = *in.Similarity
	}

	asset := &types.VoiceAsset{
		ID:         uuid.New(),
		UserID:     userID,
		Text:       text,
		VoiceID:    voiceID,
		ModelID:    modelID,
		Stability:  stability,
		Similarity: similarity,
		AudioKey:   key,
		AudioURL:   url,
	}
	if err := s.assetRepo.Create(ctx, nil, asset); err != nil {
		return nil, fmt.Errorf("failed to persist voice asset: %w", err)
	}

	return &SynthesizeResult{
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
		AudioKey:    key,
		AudioURL:    url,
		Asset:       asset,
	}, nil
}

func (s *voiceService) ListAssets(ctx context.Context, userID uuid.UUID) ([]*types.VoiceAsset, error) {
	assets, err := s.assetRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list voice assets: %w", err)
	}
	return assets, nil
}

func (s *voiceService) ProviderVoices(ctx context.Context) (json.RawMessage, error) {
	return s.speechClient.ListVoices(ctx)
}
