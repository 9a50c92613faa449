package provider

import (
	"context"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

// EffectProvider applies portrait effects through a remote vision service
type EffectProvider interface {
	// EditExpression applies an expression effect to the image
	EditExpression(ctx context.Context, image *domain.ImagePayload, effect domain.Effect) (*domain.Image, error)

	// EditAge applies an age effect to the image
	EditAge(ctx context.Context, image *domain.ImagePayload, effect domain.Effect) (*domain.Image, error)
}
