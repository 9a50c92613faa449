package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

const (
	ProviderAILab = "ailab"
	ProviderMock  = "mock"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Provider
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"ailab"`

	// AILab
	AILabBaseURL           string        `envconfig:"AILAB_BASE_URL" default:"https://www.ailabapi.com"`
	AILabAPIKey            string        `envconfig:"AILAB_API_KEY"`
	AILabTimeout           time.Duration `envconfig:"AILAB_TIMEOUT" default:"30s"`
	ExpressionResponseMode string        `envconfig:"EXPRESSION_RESPONSE_MODE" default:"auto"`

	// Images
	MaxUploadBytes int `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	JPEGQuality    int `envconfig:"JPEG_QUALITY" default:"92"`

	// Rate limiting (per client IP)
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"30"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the combinations envconfig tags cannot express
func (c *Config) Validate() error {
	switch c.ProviderType {
	case ProviderAILab:
		if strings.TrimSpace(c.AILabAPIKey) == "" {
			return domain.ErrConfig.WithError(errors.New("AILAB_API_KEY is required when PROVIDER_TYPE=ailab"))
		}
	case ProviderMock:
	default:
		return domain.ErrConfig.WithError(fmt.Errorf("unknown PROVIDER_TYPE %q (supported: %s, %s)",
			c.ProviderType, ProviderAILab, ProviderMock))
	}

	switch strings.ToLower(strings.TrimSpace(c.ExpressionResponseMode)) {
	case "", "auto", "json", "raw":
	default:
		return domain.ErrConfig.WithError(fmt.Errorf("unknown EXPRESSION_RESPONSE_MODE %q", c.ExpressionResponseMode))
	}

	if c.AILabTimeout <= 0 {
		return domain.ErrConfig.WithError(errors.New("AILAB_TIMEOUT must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		return domain.ErrConfig.WithError(errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return domain.ErrConfig.WithError(fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got %d", c.JPEGQuality))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
