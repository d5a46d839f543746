package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process-wide configuration, loaded once at startup and passed
// by injection. Business logic never reads the environment directly.
type Config struct {
	Env  string
	Port string

	JWTSecret string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	ElevenLabsAPIKey         string
	ElevenLabsBaseURL        string
	ElevenLabsDefaultVoiceID string

	DIDAPIKey  string
	DIDBaseURL string

	S3EndpointURL     string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string

	// StorageGatewayURL is the public base prefixed in front of storage keys
	// to build fetchable URLs.
	StorageGatewayURL string

	DatabaseURL string

	FrontendURL  string
	CookieDomain string

	RateLimitWindow time.Duration
	RateLimitMax    int

	LogRedactionEnabled bool
	LogHashSalt         string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from the environment. Missing required
// variables fail fast, matching how the process was deployed before.
func Load() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		OpenAIBaseURL:            getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		ElevenLabsBaseURL:        getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		ElevenLabsDefaultVoiceID: os.Getenv("ELEVENLABS_DEFAULT_VOICE_ID"),
		DIDBaseURL:               getEnv("DID_BASE_URL", "https://api.d-id.com"),

		FrontendURL:  os.Getenv("FRONTEND_URL"),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),

		RateLimitWindow: time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 300)) * time.Second,
		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 50),

		LogRedactionEnabled: getEnvAsBool("LOG_REDACTION_ENABLED", true),
		LogHashSalt:         os.Getenv("LOG_HASH_SALT"),
	}

	var err error
	required := []struct {
		name string
		dst  *string
	}{
		{"JWT_SECRET", &cfg.JWTSecret},
		{"OPENAI_API_KEY", &cfg.OpenAIAPIKey},
		{"ELEVENLABS_API_KEY", &cfg.ElevenLabsAPIKey},
		{"DID_API_KEY", &cfg.DIDAPIKey},
		{"S3_ENDPOINT_URL", &cfg.S3EndpointURL},
		{"S3_ACCESS_KEY_ID", &cfg.S3AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", &cfg.S3SecretAccessKey},
		{"S3_BUCKET_NAME", &cfg.S3Bucket},
		{"STORAGE_GATEWAY_URL", &cfg.StorageGatewayURL},
		{"DATABASE_URL", &cfg.DatabaseURL},
	}
	for _, r := range required {
		if *r.dst, err = requireEnv(r.name); err != nil {
			return nil, err
		}
	}

	if cfg.IsProduction() {
		if cfg.FrontendURL == "" {
			return nil, fmt.Errorf("FRONTEND_URL is required in production")
		}
		if cfg.CookieDomain == "" {
			return nil, fmt.Errorf("COOKIE_DOMAIN is required in production")
		}
	}

	return cfg, nil
}

func requireEnv(name string) (string, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return "", fmt.Errorf("missing required environment variable: %s", name)
	}
	return v, nil
}

func getEnv(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func getEnvAsBool(name string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch v {
	case "":
		return def
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

func getEnvAsInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
