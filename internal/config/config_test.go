package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		envVars   map[string]string
		wantErr   bool
		configErr bool
		check     func(*Config) bool
	}{
		{
			name: "loads with all vars",
			envVars: map[string]string{
				"PORT":                     "8080",
				"ENV":                      "production",
				"PROVIDER_TYPE":            "ailab",
				"AILAB_BASE_URL":           "http://vision.local",
				"AILAB_API_KEY":            "key123",
				"AILAB_TIMEOUT":            "5s",
				"EXPRESSION_RESPONSE_MODE": "raw",
				"MAX_UPLOAD_BYTES":         "2048",
				"JPEG_QUALITY":             "80",
				"RATE_LIMIT_MAX":           "5",
				"RATE_LIMIT_WINDOW":        "30s",
			},
			check: func(c *Config) bool {
				return c.Port == 8080 &&
					c.Environment == "production" &&
					c.AILabBaseURL == "http://vision.local" &&
					c.AILabAPIKey == "key123" &&
					c.AILabTimeout == 5*time.Second &&
					c.ExpressionResponseMode == "raw" &&
					c.MaxUploadBytes == 2048 &&
					c.JPEGQuality == 80 &&
					c.RateLimitMax == 5 &&
					c.RateLimitWindow == 30*time.Second
			},
		},
		{
			name: "uses defaults when optional vars missing",
			envVars: map[string]string{
				"AILAB_API_KEY": "key123",
			},
			check: func(c *Config) bool {
				return c.Port == 3000 &&
					c.Environment == "development" &&
					c.ProviderType == ProviderAILab &&
					c.AILabBaseURL == "https://www.ailabapi.com" &&
					c.AILabTimeout == 30*time.Second &&
					c.ExpressionResponseMode == "auto" &&
					c.MaxUploadBytes == 10<<20 &&
					c.JPEGQuality == 92
			},
		},
		{
			name: "mock provider needs no api key",
			envVars: map[string]string{
				"PROVIDER_TYPE": "mock",
			},
			check: func(c *Config) bool {
				return c.ProviderType == ProviderMock && c.AILabAPIKey == ""
			},
		},
		{
			name:      "fails when AILAB_API_KEY missing",
			envVars:   map[string]string{},
			wantErr:   true,
			configErr: true,
		},
		{
			name: "fails on unknown provider",
			envVars: map[string]string{
				"PROVIDER_TYPE": "deepface",
				"AILAB_API_KEY": "key123",
			},
			wantErr:   true,
			configErr: true,
		},
		{
			name: "fails on unknown response mode",
			envVars: map[string]string{
				"AILAB_API_KEY":            "key123",
				"EXPRESSION_RESPONSE_MODE": "xml",
			},
			wantErr:   true,
			configErr: true,
		},
		{
			name: "fails on unparsable timeout",
			envVars: map[string]string{
				"AILAB_API_KEY": "key123",
				"AILAB_TIMEOUT": "soon",
			},
			wantErr: true,
		},
		{
			name: "fails on jpeg quality out of range",
			envVars: map[string]string{
				"AILAB_API_KEY": "key123",
				"JPEG_QUALITY":  "101",
			},
			wantErr:   true,
			configErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
					return
				}
				if tt.configErr && !errors.Is(err, domain.ErrConfig) {
					t.Errorf("Load() error = %v, want ErrConfig", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Load() config check failed, got: %+v", cfg)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"development", "development", true},
		{"production", "production", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			if got := c.IsDevelopment(); got != tt.want {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"production", "production", true},
		{"development", "development", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			if got := c.IsProduction(); got != tt.want {
				t.Errorf("IsProduction() = %v, want %v", got, tt.want)
			}
		})
	}
}
