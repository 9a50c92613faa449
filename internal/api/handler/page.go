package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefx/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// PageHandler serves the upload form and renders composition results
type PageHandler struct {
	service        PortraitService
	maxUploadBytes int
	logger         *slog.Logger
}

// NewPageHandler creates a new PageHandler instance
func NewPageHandler(service PortraitService, maxUploadBytes int, logger *slog.Logger) *PageHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &PageHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type pageData struct {
	Expressions        []domain.Effect
	Ages               []domain.Effect
	SelectedExpression string
	SelectedAge        string
	Error              string
	Result             *pageResult
}

type pageResult struct {
	ID        string
	LatencyMs int64
	Panels    []pagePanel
}

type pagePanel struct {
	Title string
	Image template.URL
	Error string
}

// Form GET / - upload form
func (h *PageHandler) Form(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, h.newPageData("", ""))
}

// Submit POST / - run the composite and render the four panels
func (h *PageHandler) Submit(c *fiber.Ctx) error {
	expression := strings.TrimSpace(c.FormValue("expression"))
	age := strings.TrimSpace(c.FormValue("age"))
	data := h.newPageData(expression, age)

	imageBytes, err := extractImage(c, h.maxUploadBytes)
	if err != nil {
		return h.renderError(c, data, err)
	}

	comp, err := h.service.Compose(c.Context(), imageBytes, expression, age)
	if err != nil {
		return h.renderError(c, data, err)
	}

	data.Result = &pageResult{
		ID:        comp.ID.String(),
		LatencyMs: comp.LatencyMs,
		Panels: []pagePanel{
			{Title: "Original", Image: template.URL(comp.Original.DataURI())},
			newPanel("Expression: "+comp.Expression.Label, comp.Expression),
			newPanel("Age: "+comp.Age.Label, comp.Age),
			newPanel(comp.Chained.Label, comp.Chained),
		},
	}
	return h.render(c, fiber.StatusOK, data)
}

func (h *PageHandler) newPageData(expression, age string) pageData {
	if age == "" {
		age = domain.DefaultAgeLabel
	}
	return pageData{
		Expressions:        domain.ExpressionEffects(),
		Ages:               domain.AgeEffects(),
		SelectedExpression: expression,
		SelectedAge:        age,
	}
}

func newPanel(title string, out domain.EffectOutcome) pagePanel {
	p := pagePanel{Title: title}
	if out.Succeeded() {
		// data URIs are built from decoded image bytes only
		p.Image = template.URL(out.Image.DataURI())
		return p
	}
	p.Error = outcomeError(out.Err).Message
	return p
}

// renderError shows input errors inline instead of as a JSON body
func (h *PageHandler) renderError(c *fiber.Ctx, data pageData, err error) error {
	status := fiber.StatusInternalServerError
	data.Error = domain.ErrInternal.Message

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		if status < 500 {
			data.Error = appErr.Error()
		}
	}
	if status >= 500 {
		h.logger.Error("page request failed",
			slog.String("request_id", middleware.RequestID(c)),
			slog.Any("error", err),
		)
	}
	return h.render(c, status, data)
}

func (h *PageHandler) render(c *fiber.Ctx, status int, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
