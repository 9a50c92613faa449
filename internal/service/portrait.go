package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefx/internal/imagecodec"
	"github.com/saturnino-fabrica-de-software/facefx/internal/provider"
)

// EffectResult is the outcome of a single effect request
type EffectResult struct {
	ID        uuid.UUID
	Effect    domain.Effect
	Image     *domain.Image
	LatencyMs int64
}

type PortraitService struct {
	provider    provider.EffectProvider
	logger      *slog.Logger
	jpegQuality int
}

func NewPortraitService(effectProvider provider.EffectProvider, logger *slog.Logger) *PortraitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortraitService{
		provider:    effectProvider,
		logger:      logger,
		jpegQuality: imagecodec.DefaultJPEGQuality,
	}
}

// WithJPEGQuality sets the quality used when the expression result is
// re-encoded as input for the chained age stage
func (s *PortraitService) WithJPEGQuality(quality int) *PortraitService {
	s.jpegQuality = quality
	return s
}

func (s *PortraitService) ApplyExpression(ctx context.Context, imageBytes []byte, label string) (*EffectResult, error) {
	effect, err := domain.ResolveExpression(label)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, imageBytes, effect, s.provider.EditExpression)
}

func (s *PortraitService) ApplyAge(ctx context.Context, imageBytes []byte, label string) (*EffectResult, error) {
	if label == "" {
		label = domain.DefaultAgeLabel
	}
	effect, err := domain.ResolveAge(label)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, imageBytes, effect, s.provider.EditAge)
}

type editFunc func(ctx context.Context, image *domain.ImagePayload, effect domain.Effect) (*domain.Image, error)

func (s *PortraitService) apply(ctx context.Context, imageBytes []byte, effect domain.Effect, edit editFunc) (*EffectResult, error) {
	start := time.Now()
	runID := uuid.New()

	payload, err := newPayload(imageBytes)
	if err != nil {
		return nil, err
	}

	img, err := edit(ctx, payload, effect)
	if err != nil {
		s.logger.WarnContext(ctx, "effect failed",
			slog.String("run_id", runID.String()),
			slog.String("effect", effect.Label),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &EffectResult{
		ID:        runID,
		Effect:    effect,
		Image:     img,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// Compose runs the expression effect and the age effect on the original
// image, then the age effect on the expression result. Branch failures are
// recorded on the matching outcome; only invalid input fails the whole call.
func (s *PortraitService) Compose(ctx context.Context, imageBytes []byte, expressionLabel, ageLabel string) (*domain.Composition, error) {
	start := time.Now()

	expression, err := domain.ResolveExpression(expressionLabel)
	if err != nil {
		return nil, err
	}
	if ageLabel == "" {
		ageLabel = domain.DefaultAgeLabel
	}
	age, err := domain.ResolveAge(ageLabel)
	if err != nil {
		return nil, err
	}

	payload, err := newPayload(imageBytes)
	if err != nil {
		return nil, err
	}

	original, err := imagecodec.Decode(payload.Bytes())
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	comp := &domain.Composition{
		ID:        uuid.New(),
		Original:  original,
		CreatedAt: start.UTC(),
	}

	comp.Expression = s.outcome(ctx, expression, payload, s.provider.EditExpression)
	comp.Age = s.outcome(ctx, age, payload, s.provider.EditAge)
	comp.Chained = s.chain(ctx, comp.Expression, age)
	comp.LatencyMs = time.Since(start).Milliseconds()

	s.logger.InfoContext(ctx, "composition finished",
		slog.String("run_id", comp.ID.String()),
		slog.String("expression", expression.Label),
		slog.String("age", age.Label),
		slog.Bool("expression_ok", comp.Expression.Succeeded()),
		slog.Bool("age_ok", comp.Age.Succeeded()),
		slog.Bool("chained_ok", comp.Chained.Succeeded()),
		slog.Int64("latency_ms", comp.LatencyMs),
	)

	return comp, nil
}

func (s *PortraitService) outcome(ctx context.Context, effect domain.Effect, payload *domain.ImagePayload, edit editFunc) domain.EffectOutcome {
	out := domain.EffectOutcome{Label: effect.Label, Kind: effect.Kind}
	out.Image, out.Err = edit(ctx, payload, effect)
	if out.Err != nil {
		out.Image = nil
	}
	return out
}

// chain feeds the JPEG re-encoding of the expression result to the age effect
func (s *PortraitService) chain(ctx context.Context, stage1 domain.EffectOutcome, age domain.Effect) domain.EffectOutcome {
	out := domain.EffectOutcome{Label: stage1.Label + " + " + age.Label, Kind: domain.KindAge}

	if !stage1.Succeeded() {
		out.Err = domain.ErrChainSkipped.WithError(stage1.Err)
		return out
	}

	jpeg, err := imagecodec.ToJPEG(stage1.Image.Data, s.jpegQuality)
	if err != nil {
		out.Err = fmt.Errorf("re-encode expression result: %w", err)
		return out
	}

	chained := s.outcome(ctx, age, domain.NewImagePayload(jpeg, imagecodec.MIMEJPEG), s.provider.EditAge)
	chained.Label = out.Label
	return chained
}

func newPayload(imageBytes []byte) (*domain.ImagePayload, error) {
	mimeType, err := imagecodec.ValidateUpload(imageBytes)
	if err != nil {
		return nil, err
	}
	return domain.NewImagePayload(imageBytes, mimeType), nil
}
