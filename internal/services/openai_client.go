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
	scriptModel = "gpt-4o-mini"
	imageModel  = "dall-e-3"

	scriptSystemPrompt = `You write ultra-short TikTok UGC lines optimized for lip-sync.

Rules:
- Output exactly ONE sentence. No quotes. No extra text.
- Duration: 8-12 seconds. Target ~2.5 words/sec (about 20-30 words total).
- Language: simple, pronounceable words; spell out numbers ("ten", not 10).
- Avoid: acronyms, emojis, URLs, brand names, hard-to-pronounce names, stage directions.
- Style: upbeat, friendly, confident; present tense; active voice; minimal commas.
- If user gives a time target (e.g., "in 10 seconds"), match it.

Return only the sentence.`

	imageSafePrefix = `
Portrait guidance (vertical, lip-sync friendly):
- Create an original, non-famous human character. Do not resemble real people or public figures.
- No trademarks, logos, watermarks, or text in the image.
- Framing: vertical portrait, centered head-and-shoulders, eyes looking at camera.
- Lighting: soft, diffused studio light; even skin tones; natural shadows.
- Background: clean, plain, minimal; avoid busy scenes.
- Style: photorealistic, sharp focus, high detail; natural skin texture.

`
)

type ImageResponseFormat string

const (
	ImageFormatURL    ImageResponseFormat = "url"
	ImageFormatBase64 ImageResponseFormat = "b64_json"
)

type ImageResult struct {
	URL    string
	Base64 string
}

// OpenAIClient wraps the chat-completion and image endpoints used for script
// refinement and avatar previews.
type OpenAIClient interface {
	GenerateScript(ctx context.Context, idea string) (string, error)
	GenerateImage(ctx context.Context, prompt string, format ImageResponseFormat) (*ImageResult, error)
}

type openAIClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIClient(cfg *config.Config, log *logger.Logger) OpenAIClient {
	return &openAIClient{
		log:        log.With("service", "OpenAIClient"),
		baseURL:    strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		apiKey:     cfg.OpenAIAPIKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *openAIClient) GenerateScript(ctx context.Context, idea string) (string, error) {
	if len(strings.TrimSpace(idea)) < 3 {
		return "", apierr.Validation("idea prompt is required")
	}
	body := map[string]any{
		"model": scriptModel,
		"messages": []map[string]string{
			{"role": "system", "content": scriptSystemPrompt},
			{"role": "user", "content": "Idea: " + idea},
		},
		"temperature": 0.8,
	}
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "/v1/chat/completions", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", apierr.Upstream(fmt.Errorf("openai did not return a script"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", apierr.Upstream(fmt.Errorf("openai did not return a script"))
	}
	return text, nil
}

func (c *openAIClient) GenerateImage(ctx context.Context, prompt string, format ImageResponseFormat) (*ImageResult, error) {
	if prompt == "" {
		return nil, apierr.Validation("prompt is required")
	}
	if format == "" {
		format = ImageFormatURL
	}
	body := map[string]any{
		"model":           imageModel,
		"prompt":          imageSafePrefix + prompt,
		"n":               1,
		"size":            "1024x1024",
		"quality":         "standard",
		"response_format": string(format),
	}
	var resp struct {
		Data []struct {
			URL     string `json:"url"`
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/v1/images/generations", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, apierr.Upstream(fmt.Errorf("no image data returned from openai"))
	}
	return &ImageResult{URL: resp.Data[0].URL, Base64: resp.Data[0].B64JSON}, nil
}

func (c *openAIClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apierr.Internal(fmt.Errorf("failed to encode openai request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apierr.Internal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Upstream(fmt.Errorf("openai request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.Upstream(fmt.Errorf("failed to read openai response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("OpenAI returned non-success status", "status", resp.StatusCode, "path", path)
		return apierr.Upstream(fmt.Errorf("openai http %d: %s", resp.StatusCode, string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apierr.Upstream(fmt.Errorf("failed to decode openai response: %w", err))
	}
	return nil
}
