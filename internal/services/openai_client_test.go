package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/config"
)

func newOpenAIClientForTest(t *testing.T, handler http.Handler) OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Config{OpenAIBaseURL: srv.URL, OpenAIAPIKey: "test-key"}
	return NewOpenAIClient(cfg, testLogger(t))
}

func TestGenerateScript(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	client := newOpenAIClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Hello from the studio.  "}}]}`))
	}))

	script, err := client.GenerateScript(context.Background(), "a hook about coffee")
	require.NoError(t, err)
	assert.Equal(t, "Hello from the studio.", script, "script is trimmed")
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, scriptModel, gotBody["model"])
}

func TestGenerateScriptRejectsShortIdea(t *testing.T) {
	called := false
	client := newOpenAIClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.GenerateScript(context.Background(), "  a ")
	require.Error(t, err)
	assert.Equal(t, apierr.CodeValidation, apierr.From(err).Code)
	assert.False(t, called, "validation happens before any request")
}

func TestGenerateScriptEmptyChoices(t *testing.T) {
	client := newOpenAIClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))

	_, err := client.GenerateScript(context.Background(), "a hook about coffee")
	require.Error(t, err)
	assert.Equal(t, apierr.CodeUpstream, apierr.From(err).Code)
}

func TestGenerateScriptUpstreamError(t *testing.T) {
	client := newOpenAIClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))

	_, err := client.GenerateScript(context.Background(), "a hook about coffee")
	require.Error(t, err)
	apiErr := apierr.From(err)
	assert.Equal(t, apierr.CodeUpstream, apiErr.Code)
	assert.Contains(t, apiErr.Error(), "429")
}

func TestGenerateImage(t *testing.T) {
	var gotBody map[string]any
	client := newOpenAIClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/images/generations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"data":[{"url":"https://images.test/out.png"}]}`))
	}))

	result, err := client.GenerateImage(context.Background(), "friendly host", ImageFormatURL)
	require.NoError(t, err)
	assert.Equal(t, "https://images.test/out.png", result.URL)
	assert.Equal(t, imageModel, gotBody["model"])
	assert.Equal(t, "url", gotBody["response_format"])

	prompt, _ := gotBody["prompt"].(string)
	assert.True(t, strings.HasSuffix(prompt, "friendly host"), "user prompt is appended after the guidance preamble")
	assert.Contains(t, prompt, "non-famous human character")
}

func TestGenerateImageNoData(t *testing.T) {
	client := newOpenAIClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))

	_, err := client.GenerateImage(context.Background(), "friendly host", ImageFormatURL)
	require.Error(t, err)
	assert.Equal(t, apierr.CodeUpstream, apierr.From(err).Code)
}
