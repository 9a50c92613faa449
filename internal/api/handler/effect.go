package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefx/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefx/internal/service"
)

// PortraitService is the effect workflow used by the handlers
type PortraitService interface {
	ApplyExpression(ctx context.Context, imageBytes []byte, label string) (*service.EffectResult, error)
	ApplyAge(ctx context.Context, imageBytes []byte, label string) (*service.EffectResult, error)
	Compose(ctx context.Context, imageBytes []byte, expressionLabel, ageLabel string) (*domain.Composition, error)
}

// EffectHandler serves the JSON effect API
type EffectHandler struct {
	service        PortraitService
	maxUploadBytes int
	logger         *slog.Logger
}

// NewEffectHandler creates a new EffectHandler instance
func NewEffectHandler(service PortraitService, maxUploadBytes int, logger *slog.Logger) *EffectHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &EffectHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ImageResponse is an encoded image with its dimensions
type ImageResponse struct {
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Data     string `json:"data"`
}

// EffectsResponse lists the effect catalog
type EffectsResponse struct {
	Expression []domain.Effect `json:"expression"`
	Age        []domain.Effect `json:"age"`
}

// EffectResponse response for single effect endpoints
type EffectResponse struct {
	ID        string        `json:"id"`
	Effect    domain.Effect `json:"effect"`
	Image     ImageResponse `json:"image"`
	LatencyMs int64         `json:"latency_ms"`
}

// OutcomeResponse carries either an image or the error that replaced it
type OutcomeResponse struct {
	Label string                `json:"label"`
	Kind  domain.EffectKind     `json:"kind"`
	Image *ImageResponse        `json:"image,omitempty"`
	Error *middleware.ErrorBody `json:"error,omitempty"`
}

// CompositionResponse response for the composite endpoint
type CompositionResponse struct {
	ID         string          `json:"id"`
	Original   ImageResponse   `json:"original"`
	Expression OutcomeResponse `json:"expression"`
	Age        OutcomeResponse `json:"age"`
	Chained    OutcomeResponse `json:"chained"`
	CreatedAt  string          `json:"created_at"`
	LatencyMs  int64           `json:"latency_ms"`
}

// Effects GET /v1/effects - list the effect catalog
func (h *EffectHandler) Effects(c *fiber.Ctx) error {
	return c.JSON(EffectsResponse{
		Expression: domain.ExpressionEffects(),
		Age:        domain.AgeEffects(),
	})
}

// Expression POST /v1/effects/expression - apply one expression effect
func (h *EffectHandler) Expression(c *fiber.Ctx) error {
	label := strings.TrimSpace(c.FormValue("effect"))
	if label == "" {
		return domain.ErrValidationFailed.WithError(errors.New("effect is required"))
	}

	imageBytes, err := extractImage(c, h.maxUploadBytes)
	if err != nil {
		return fmt.Errorf("expression effect: %w", err)
	}

	result, err := h.service.ApplyExpression(c.Context(), imageBytes, label)
	if err != nil {
		return err
	}
	return c.JSON(newEffectResponse(result))
}

// Age POST /v1/effects/age - apply the age effect
func (h *EffectHandler) Age(c *fiber.Ctx) error {
	imageBytes, err := extractImage(c, h.maxUploadBytes)
	if err != nil {
		return fmt.Errorf("age effect: %w", err)
	}

	result, err := h.service.ApplyAge(c.Context(), imageBytes, strings.TrimSpace(c.FormValue("effect")))
	if err != nil {
		return err
	}
	return c.JSON(newEffectResponse(result))
}

// Compose POST /v1/compositions - expression, age and expression-then-age
func (h *EffectHandler) Compose(c *fiber.Ctx) error {
	expression := strings.TrimSpace(c.FormValue("expression"))
	if expression == "" {
		return domain.ErrValidationFailed.WithError(errors.New("expression is required"))
	}

	imageBytes, err := extractImage(c, h.maxUploadBytes)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	comp, err := h.service.Compose(c.Context(), imageBytes, expression, strings.TrimSpace(c.FormValue("age")))
	if err != nil {
		return err
	}

	return c.JSON(CompositionResponse{
		ID:         comp.ID.String(),
		Original:   newImageResponse(comp.Original),
		Expression: newOutcomeResponse(comp.Expression),
		Age:        newOutcomeResponse(comp.Age),
		Chained:    newOutcomeResponse(comp.Chained),
		CreatedAt:  comp.CreatedAt.Format(time.RFC3339),
		LatencyMs:  comp.LatencyMs,
	})
}

func newImageResponse(img *domain.Image) ImageResponse {
	return ImageResponse{
		MIMEType: img.MIMEType,
		Width:    img.Width,
		Height:   img.Height,
		Data:     img.Base64(),
	}
}

func newEffectResponse(result *service.EffectResult) EffectResponse {
	return EffectResponse{
		ID:        result.ID.String(),
		Effect:    result.Effect,
		Image:     newImageResponse(result.Image),
		LatencyMs: result.LatencyMs,
	}
}

func newOutcomeResponse(out domain.EffectOutcome) OutcomeResponse {
	resp := OutcomeResponse{Label: out.Label, Kind: out.Kind}
	if out.Succeeded() {
		img := newImageResponse(out.Image)
		resp.Image = &img
		return resp
	}
	resp.Error = outcomeError(out.Err)
	return resp
}

// outcomeError keeps the full message so each branch explains its own failure
func outcomeError(err error) *middleware.ErrorBody {
	if err == nil {
		err = domain.ErrInternal
	}
	body := &middleware.ErrorBody{
		Code:    domain.ErrInternal.Code,
		Message: err.Error(),
		Detail:  middleware.ErrorDetail(err),
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		body.Code = appErr.Code
	}
	return body
}
