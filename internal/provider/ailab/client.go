package ailab

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

// APIKeyHeader carries the static credential on every request
const APIKeyHeader = "ailabapi-api-key"

// maxResponseSize caps how much of a response body is buffered
const maxResponseSize = 32 * 1024 * 1024

// Config holds the configuration for the AILab client
type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	ExpressionMode ResponseMode
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://www.ailabapi.com",
		Timeout:        30 * time.Second,
		ExpressionMode: ResponseModeAuto,
	}
}

// RawResponse is an upstream response with its body fully read
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client is the HTTP client for the AILab portrait API
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new AILab client. An empty API key is rejected
// up front instead of sending calls with a blank credential.
func NewClient(config Config) (*Client, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, domain.ErrConfig.WithError(errors.New("ailab api key is empty"))
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}, nil
}

// Post sends image and param to the endpoint as multipart form data.
// Transport failures are returned as domain.ErrNetwork and are not retried.
func (c *Client) Post(ctx context.Context, endpoint Endpoint, image *domain.ImagePayload, param string) (*RawResponse, error) {
	body, contentType, err := buildMultipart(endpoint, image, param)
	if err != nil {
		return nil, fmt.Errorf("%s: build request body: %w", endpoint.Name, err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + endpoint.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", endpoint.Name, err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set(APIKeyHeader, c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrNetwork.WithError(fmt.Errorf("%s: %w", endpoint.Name, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, domain.ErrNetwork.WithError(fmt.Errorf("%s: read response: %w", endpoint.Name, err))
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// buildMultipart writes the file part from a fresh reader over the payload
func buildMultipart(endpoint Endpoint, image *domain.ImagePayload, param string) (*bytes.Buffer, string, error) {
	payload := &bytes.Buffer{}
	writer := multipart.NewWriter(payload)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, endpoint.FileField, image.Filename()))
	contentType := image.MIMEType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	filePart, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(filePart, image.Reader()); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField(endpoint.ParamField, param); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return payload, writer.FormDataContentType(), nil
}
