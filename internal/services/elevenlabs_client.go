package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/config"
	"github.com/yungbote/aistudio-backend/internal/logger"
)

const (
	DefaultSpeechModelID    = "eleven_monolingual_v1"
	DefaultSpeechStability  = 0.75
	DefaultSpeechSimilarity = 0.85
)

type SynthesizeRequest struct {
	Text       string
	VoiceID    string
	ModelID    string
	Stability  *float64
	Similarity *float64
}

// SpeechClient wraps the ElevenLabs text-to-speech API. Synthesize returns
// raw MP3 bytes; ListVoices proxies the provider's catalog untouched.
type SpeechClient interface {
	Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error)
	ListVoices(ctx context.Context) (json.RawMessage, error)
}

type speechClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewSpeechClient(cfg *config.Config, log *logger.Logger) SpeechClient {
	return &speechClient{
		log:        log.With("service", "SpeechClient"),
		baseURL:    strings.TrimRight(cfg.ElevenLabsBaseURL, "/"),
		apiKey:     cfg.ElevenLabsAPIKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *speechClient) Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error) {
	modelID := req.ModelID
	if modelID == "" {
		modelID = DefaultSpeechModelID
	}
	stability := DefaultSpeechStability
	if req.Stability != nil {
		stability = *req.Stability
	}
	similarity := DefaultSpeechSimilarity
	if req.Similarity != nil {
		similarity = *req.Similarity
	}

	body := map[string]any{
		"text":     req.Text,
		"model_id": modelID,
		"voice_settings": map[string]float64{
			"stability":        stability,
			"similarity_boost": similarity,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("failed to encode tts request: %w", err))
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, req.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apierr.Internal(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("elevenlabs request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("failed to read elevenlabs response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("ElevenLabs returned non-success status", "status", resp.StatusCode)
		return nil, apierr.Upstream(fmt.Errorf("elevenlabs error: %d %s", resp.StatusCode, string(raw)))
	}
	return raw, nil
}

func (c *speechClient) ListVoices(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("elevenlabs request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("failed to read elevenlabs response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("ElevenLabs voice catalog fetch failed", "status", resp.StatusCode, "body", string(raw))
		return nil, apierr.Upstream(fmt.Errorf("failed to fetch voices: %d %s", resp.StatusCode, resp.Status))
	}
	return json.RawMessage(raw), nil
}
