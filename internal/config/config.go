package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	UploadDir              string
	MaxUploadMB            int
	OCRProvider            string
	OCRModel               string
	OCRTimeout             time.Duration
	ScoringModel           string
	ScoringTimeout         time.Duration
	OpenAIAPIKey           string
	GoogleCredentialsFile  string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	EvaluationLockTTL      time.Duration
	EvaluateRateLimit      int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// CloudinaryEnabled reports whether archival mirroring is configured.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GRADESCAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GradeScan API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.max_mb", 20)
	v.SetDefault("ocr.provider", "openai")
	v.SetDefault("ocr.model", "gpt-4o-mini")
	v.SetDefault("ocr.timeout", "60s")
	v.SetDefault("scoring.model", "gpt-4o-mini")
	v.SetDefault("scoring.timeout", "30s")
	v.SetDefault("cloudinary.folder", "gradescan/sheets")
	v.SetDefault("evaluation.lock_ttl", "5m")
	v.SetDefault("evaluate.rate_limit", 5)

	ocrTimeout, err := time.ParseDuration(v.GetString("ocr.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ocr timeout: %w", err)
	}

	scoringTimeout, err := time.ParseDuration(v.GetString("scoring.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid scoring timeout: %w", err)
	}

	lockTTL, err := time.ParseDuration(v.GetString("evaluation.lock_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation lock ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		UploadDir:              v.GetString("upload.dir"),
		MaxUploadMB:            v.GetInt("upload.max_mb"),
		OCRProvider:            strings.ToLower(v.GetString("ocr.provider")),
		OCRModel:               v.GetString("ocr.model"),
		OCRTimeout:             ocrTimeout,
		ScoringModel:           v.GetString("scoring.model"),
		ScoringTimeout:         scoringTimeout,
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		GoogleCredentialsFile:  v.GetString("google_application_credentials"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		EvaluationLockTTL:      lockTTL,
		EvaluateRateLimit:      v.GetInt("evaluate.rate_limit"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 20
	}

	if cfg.EvaluateRateLimit <= 0 {
		cfg.EvaluateRateLimit = 5
	}

	return cfg, nil
}
