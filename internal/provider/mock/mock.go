package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefx/internal/imagecodec"
	"github.com/saturnino-fabrica-de-software/facefx/internal/provider"
)

// Provider implementa provider.EffectProvider para testes e desenvolvimento.
// Devolve a própria imagem de entrada como resultado do efeito.
type Provider struct {
	expressionErr error
	ageErr        error
	calls         atomic.Int64
}

// Option configures the mock provider
type Option func(*Provider)

// WithExpressionError makes every expression edit fail with err
func WithExpressionError(err error) Option {
	return func(p *Provider) { p.expressionErr = err }
}

// WithAgeError makes every age edit fail with err
func WithAgeError(err error) Option {
	return func(p *Provider) { p.ageErr = err }
}

// New cria uma nova instância do MockProvider
func New(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EditExpression simula a edição de expressão
func (p *Provider) EditExpression(ctx context.Context, image *domain.ImagePayload, effect domain.Effect) (*domain.Image, error) {
	if effect.Kind != domain.KindExpression {
		return nil, domain.ErrInvalidSelection.WithError(fmt.Errorf("%q is not an expression effect", effect.Label))
	}
	return p.apply(ctx, image, p.expressionErr)
}

// EditAge simula a edição de idade
func (p *Provider) EditAge(ctx context.Context, image *domain.ImagePayload, effect domain.Effect) (*domain.Image, error) {
	if effect.Kind != domain.KindAge {
		return nil, domain.ErrInvalidSelection.WithError(fmt.Errorf("%q is not an age effect", effect.Label))
	}
	return p.apply(ctx, image, p.ageErr)
}

// Calls returns how many edits reached the provider
func (p *Provider) Calls() int64 {
	return p.calls.Load()
}

func (p *Provider) apply(ctx context.Context, image *domain.ImagePayload, failWith error) (*domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrNetwork.WithError(err)
	}
	p.calls.Add(1)

	if failWith != nil {
		return nil, failWith
	}
	return imagecodec.Decode(image.Bytes())
}

var _ provider.EffectProvider = (*Provider)(nil)
