package services

import (
	"bytes"
	"context"
	"encoding/base64"
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

const talkSafetyGuidelines = `
Safety & quality guidelines:
- Use only original, non-famous characters. Do not imitate real people or public figures.
- No trademarks, logos, or copyrighted elements.
- Vertical portrait framing; keep the face centered and well-lit.
- Keep background simple and non-distracting.
- Natural tone and lip movement; avoid extreme expressions.
`

type CreateTalkRequest struct {
	SourceImageURL string
	// Exactly one of (Text, VoiceID) or AudioURL drives the narration.
	Text     string
	VoiceID  string
	AudioURL string
}

type TalkResult struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url"`
}

// ErrorStatus reports whether the provider rejected the submission. Upstream
// rejection is carried in the status string ("error:<http status>") rather
// than an error; callers must check it before trusting ResultURL.
func (r *TalkResult) ErrorStatus() bool {
	return strings.HasPrefix(r.Status, "error:")
}

// TalkingHeadClient wraps the D-ID talks API.
type TalkingHeadClient interface {
	CreateTalk(ctx context.Context, req CreateTalkRequest) (*TalkResult, error)
}

type talkingHeadClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTalkingHeadClient(cfg *config.Config, log *logger.Logger) TalkingHeadClient {
	return &talkingHeadClient{
		log:        log.With("service", "TalkingHeadClient"),
		baseURL:    strings.TrimRight(cfg.DIDBaseURL, "/"),
		apiKey:     cfg.DIDAPIKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *talkingHeadClient) CreateTalk(ctx context.Context, req CreateTalkRequest) (*TalkResult, error) {
	var script map[string]any
	if req.AudioURL != "" {
		script = map[string]any{"type": "audio", "audio_url": req.AudioURL}
	} else {
		script = map[string]any{"type": "text", "input": req.Text, "voice": req.VoiceID}
	}

	body := map[string]any{
		"source_url": req.SourceImageURL,
		"script":     script,
		"config": map[string]any{
			"stitch":     true,
			"background": map[string]string{"color": "#000000"},
			"align":      "center",
			"crop":       map[string]string{"type": "vertical"},
			"resolution": "720x1280",
		},
		"guidelines": talkSafetyGuidelines,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("failed to encode talk request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/talks", bytes.NewReader(payload))
	if err != nil {
		return nil, apierr.Internal(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("d-id request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("failed to read d-id response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("D-ID returned non-success status", "status", resp.StatusCode, "body", string(raw))
		return &TalkResult{Status: fmt.Sprintf("error:%d", resp.StatusCode)}, nil
	}

	var result TalkResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apierr.Upstream(fmt.Errorf("failed to decode d-id response: %w", err))
	}
	return &result, nil
}

func (c *talkingHeadClient) authHeader() string {
	if strings.HasPrefix(c.apiKey, "Basic ") {
		return c.apiKey
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.apiKey))
}
