package effects

import (
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/facefx/internal/config"
	"github.com/saturnino-fabrica-de-software/facefx/internal/provider"
	"github.com/saturnino-fabrica-de-software/facefx/internal/provider/ailab"
	"github.com/saturnino-fabrica-de-software/facefx/internal/provider/mock"
)

// ProviderType defines supported effect provider types
type ProviderType string

const (
	// ProviderTypeAILab calls the AILab portrait API (needs AILAB_API_KEY)
	ProviderTypeAILab ProviderType = config.ProviderAILab
	// ProviderTypeMock echoes the input image, for offline development
	ProviderTypeMock ProviderType = config.ProviderMock
)

// NewEffectProvider creates an EffectProvider based on configuration
//
// Environment variables:
//   - PROVIDER_TYPE: "ailab" or "mock" (default: "ailab")
//   - AILAB_BASE_URL: vision API base URL (default: "https://www.ailabapi.com")
//   - AILAB_API_KEY: static credential sent on every call
//   - AILAB_TIMEOUT: per-call timeout (default: 30s)
//   - EXPRESSION_RESPONSE_MODE: "auto", "json" or "raw" (default: "auto")
func NewEffectProvider(cfg *config.Config, logger *slog.Logger) (provider.EffectProvider, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeAILab, "":
		return createAILabProvider(cfg, logger)

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.ProviderType, ProviderTypeAILab, ProviderTypeMock)
	}
}

// createAILabProvider creates an AILab provider instance
func createAILabProvider(cfg *config.Config, logger *slog.Logger) (provider.EffectProvider, error) {
	mode, err := ailab.ParseResponseMode(cfg.ExpressionResponseMode)
	if err != nil {
		return nil, fmt.Errorf("create ailab provider: %w", err)
	}

	ailabConfig := ailab.DefaultConfig()
	if cfg.AILabBaseURL != "" {
		ailabConfig.BaseURL = cfg.AILabBaseURL
	}
	if cfg.AILabTimeout > 0 {
		ailabConfig.Timeout = cfg.AILabTimeout
	}
	ailabConfig.APIKey = cfg.AILabAPIKey
	ailabConfig.ExpressionMode = mode

	prov, err := ailab.NewProvider(ailabConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create ailab provider: %w", err)
	}
	return prov, nil
}
