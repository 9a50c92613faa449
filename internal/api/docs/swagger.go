package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// EffectData is one catalog entry
type EffectData struct {
	Label  string `json:"label" example:"Smile"`
	Kind   string `json:"kind" example:"expression"`
	Code   int    `json:"code" example:"3"`
	Action string `json:"action,omitempty" example:""`
}

// EffectsResponse lists the available effects
type EffectsResponse struct {
	Expression []EffectData `json:"expression"`
	Age        []EffectData `json:"age"`
}

// ImageData is a base64 encoded image
type ImageData struct {
	MIMEType string `json:"mime_type" example:"image/jpeg"`
	Width    int    `json:"width" example:"512"`
	Height   int    `json:"height" example:"512"`
	Data     string `json:"data" example:"/9j/4AAQSkZJRgABAQ..."`
}

// EffectResponse is returned by the single effect endpoints
type EffectResponse struct {
	ID        string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Effect    EffectData `json:"effect"`
	Image     ImageData  `json:"image"`
	LatencyMs int64      `json:"latency_ms" example:"1850"`
}

// OutcomeData carries an image on success or an error on failure
type OutcomeData struct {
	Label string         `json:"label" example:"Smile"`
	Kind  string         `json:"kind" example:"expression"`
	Image *ImageData     `json:"image,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// CompositionResponse is returned by the composite endpoint
type CompositionResponse struct {
	ID         string      `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Original   ImageData   `json:"original"`
	Expression OutcomeData `json:"expression"`
	Age        OutcomeData `json:"age"`
	Chained    OutcomeData `json:"chained"`
	CreatedAt  string      `json:"created_at" example:"2026-01-01T00:00:00Z"`
	LatencyMs  int64       `json:"latency_ms" example:"5400"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code      string `json:"code" example:"INVALID_SELECTION"`
	Message   string `json:"message" example:"Unknown effect selection"`
	Detail    string `json:"detail,omitempty" example:"no face detected"`
	RequestID string `json:"request_id,omitempty" example:"0b6f3f3e-3c1d-4a8e-9a57-8c1f2f0f3b7d"`
}

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Version  string `json:"version,omitempty" example:"0.1.0"`
	Provider string `json:"provider,omitempty" example:"ailab"`
}

var uploadErrors = []response.Response{
	response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Missing image or effect"),
	response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Image is not JPEG/PNG or exceeds the size limit"),
	response.New(ErrorResponse{Code: "INVALID_SELECTION", Message: "Unknown effect selection"}, "422", "Effect label is not in the catalog"),
	response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
}

var upstreamErrors = []response.Response{
	response.New(ErrorResponse{Code: "NETWORK_ERROR", Message: "Could not reach the vision service"}, "502", "Vision service unreachable or timed out"),
	response.New(ErrorResponse{Code: "API_ERROR", Message: "Vision service rejected the request"}, "502", "Vision service returned an error"),
	response.New(ErrorResponse{Code: "DECODE_ERROR", Message: "Vision service returned an unreadable image"}, "502", "Result could not be decoded"),
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "facefx Portrait Effects API",
		Version:     "v1.0.0",
		Description: "Expression and age effects for portrait photos, backed by the AILab vision API",
		Host:        "localhost:3000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness check"),
			endpoint.WithDescription("Reports the configured effect provider. The vision service itself is not probed."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{Status: "ready"}, "200", "Service is ready"),
			}),
		),

		// GET /v1/effects
		endpoint.New(
			endpoint.GET,
			"/v1/effects",
			endpoint.WithTags("Effects"),
			endpoint.WithSummary("List effects"),
			endpoint.WithDescription("Returns the expression and age effect catalog in display order"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EffectsResponse{}, "200", "Effect catalog"),
			}),
		),

		// POST /v1/effects/expression
		endpoint.New(
			endpoint.POST,
			"/v1/effects/expression",
			endpoint.WithTags("Effects"),
			endpoint.WithSummary("Apply an expression effect"),
			endpoint.WithDescription("Multipart form with an `image` file (JPEG or PNG) and an `effect` label from the expression catalog"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EffectResponse{}, "200", "Edited image"),
			}),
			endpoint.WithErrors(append(append([]response.Response{}, uploadErrors...), upstreamErrors...)),
		),

		// POST /v1/effects/age
		endpoint.New(
			endpoint.POST,
			"/v1/effects/age",
			endpoint.WithTags("Effects"),
			endpoint.WithSummary("Apply the age effect"),
			endpoint.WithDescription("Multipart form with an `image` file and an optional `effect` label (default: Transform to older)"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EffectResponse{}, "200", "Edited image"),
			}),
			endpoint.WithErrors(append(append([]response.Response{}, uploadErrors...), upstreamErrors...)),
		),

		// POST /v1/compositions
		endpoint.New(
			endpoint.POST,
			"/v1/compositions",
			endpoint.WithTags("Compositions"),
			endpoint.WithSummary("Expression, age and expression-then-age"),
			endpoint.WithDescription("Runs the expression effect and the age effect on the upload, then the age effect on the expression result. " +
				"Each branch carries its own image or error; when the expression branch fails the chained branch reports CHAIN_SKIPPED."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CompositionResponse{}, "200", "Composition with three outcomes"),
			}),
			endpoint.WithErrors(uploadErrors),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
