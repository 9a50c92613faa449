package ailab

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefx/internal/provider"
)

// Provider implements provider.EffectProvider using the AILab portrait API
type Provider struct {
	client     *Client
	expression Endpoint
	age        Endpoint
	logger     *slog.Logger
}

// NewProvider creates a new AILab provider
func NewProvider(config Config, logger *slog.Logger) (*Provider, error) {
	client, err := NewClient(config)
	if err != nil {
		return nil, err
	}

	mode := config.ExpressionMode
	if mode == "" {
		mode = ResponseModeAuto
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Provider{
		client:     client,
		expression: ExpressionEndpoint(mode),
		age:        AgeEndpoint(),
		logger:     logger,
	}, nil
}

// EditExpression calls the emotion editor with the effect's service code
func (p *Provider) EditExpression(ctx context.Context, image *domain.ImagePayload, effect domain.Effect) (*domain.Image, error) {
	if effect.Kind != domain.KindExpression {
		return nil, domain.ErrInvalidSelection.WithError(fmt.Errorf("%q is not an expression effect", effect.Label))
	}
	return p.call(ctx, p.expression, image, effect)
}

// EditAge calls the face attribute editor with the effect's action tag
func (p *Provider) EditAge(ctx context.Context, image *domain.ImagePayload, effect domain.Effect) (*domain.Image, error) {
	if effect.Kind != domain.KindAge {
		return nil, domain.ErrInvalidSelection.WithError(fmt.Errorf("%q is not an age effect", effect.Label))
	}
	return p.call(ctx, p.age, image, effect)
}

func (p *Provider) call(ctx context.Context, endpoint Endpoint, image *domain.ImagePayload, effect domain.Effect) (*domain.Image, error) {
	start := time.Now()
	resp, err := p.client.Post(ctx, endpoint, image, effect.Param())
	if err != nil {
		p.logger.WarnContext(ctx, "vision request failed",
			slog.String("endpoint", endpoint.Name),
			slog.String("effect", effect.Label),
			slog.Duration("latency", time.Since(start)),
			slog.Any("error", err),
		)
		return nil, err
	}

	p.logger.InfoContext(ctx, "vision request",
		slog.String("endpoint", endpoint.Name),
		slog.String("effect", effect.Label),
		slog.Int("status", resp.StatusCode),
		slog.Int("body_bytes", len(resp.Body)),
		slog.Duration("latency", time.Since(start)),
	)

	img, err := Decode(endpoint, resp)
	if err != nil {
		return nil, fmt.Errorf("%s effect %q: %w", endpoint.Name, effect.Label, err)
	}
	return img, nil
}

// Ensure Provider implements provider.EffectProvider
var _ provider.EffectProvider = (*Provider)(nil)
