package ailab

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	config := DefaultConfig()
	config.BaseURL = baseURL
	config.APIKey = "test-key"
	client, err := NewClient(config)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("empty api key is a config error", func(t *testing.T) {
		_, err := NewClient(Config{BaseURL: "http://localhost"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfig))
	})

	t.Run("blank api key is a config error", func(t *testing.T) {
		_, err := NewClient(Config{APIKey: "   "})
		assert.True(t, errors.Is(err, domain.ErrConfig))
	})

	t.Run("fills defaults", func(t *testing.T) {
		client, err := NewClient(Config{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().BaseURL, client.config.BaseURL)
		assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	})
}

func TestClient_Post(t *testing.T) {
	image := testPNG(t, 8, 8)

	tests := []struct {
		name      string
		endpoint  Endpoint
		param     string
		wantPath  string
		wantFile  string
		wantField string
	}{
		{
			name:      "expression endpoint",
			endpoint:  ExpressionEndpoint(ResponseModeJSON),
			param:     "12",
			wantPath:  "/api/portrait/effects/emotion-editor",
			wantFile:  "image_target",
			wantField: "service_choice",
		},
		{
			name:      "age endpoint",
			endpoint:  AgeEndpoint(),
			param:     "TO_OLD",
			wantPath:  "/api/portrait/effects/face-attribute-editing",
			wantFile:  "image",
			wantField: "action_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "test-key", r.Header.Get(APIKeyHeader))

				require.NoError(t, r.ParseMultipartForm(1<<20))
				assert.Equal(t, tt.param, r.FormValue(tt.wantField))

				file, header, err := r.FormFile(tt.wantFile)
				require.NoError(t, err)
				defer file.Close()
				assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
				assert.Equal(t, "image.png", header.Filename)

				got, err := io.ReadAll(file)
				require.NoError(t, err)
				assert.Equal(t, image, got)

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"error_code":0}`))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			resp, err := client.Post(context.Background(), tt.endpoint, domain.NewImagePayload(image, "image/png"), tt.param)

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"error_code":0}`, string(resp.Body))
		})
	}
}

func TestClient_Post_ReusesPayloadAcrossCalls(t *testing.T) {
	image := testPNG(t, 16, 16)

	var mu sync.Mutex
	var received [][]byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		field := "image"
		if r.URL.Path == ExpressionEndpoint(ResponseModeJSON).Path {
			field = "image_target"
		}
		file, _, err := r.FormFile(field)
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		mu.Lock()
		received = append(received, data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	payload := domain.NewImagePayload(image, "image/png")

	_, err := client.Post(context.Background(), ExpressionEndpoint(ResponseModeJSON), payload, "0")
	require.NoError(t, err)
	_, err = client.Post(context.Background(), AgeEndpoint(), payload, "TO_OLD")
	require.NoError(t, err)

	require.Len(t, received, 2)
	assert.Equal(t, image, received[0])
	assert.Equal(t, image, received[1], "second call must receive the full image")
}

func TestClient_Post_NonOKIsNotATransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Post(context.Background(), AgeEndpoint(), domain.NewImagePayload(testPNG(t, 2, 2), "image/png"), "TO_OLD")

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "upstream exploded", string(resp.Body))
}

func TestClient_Post_NetworkErrors(t *testing.T) {
	payload := domain.NewImagePayload([]byte("img"), "image/jpeg")

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := newTestClient(t, url)
		_, err := client.Post(context.Background(), AgeEndpoint(), payload, "TO_OLD")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNetwork))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		config := DefaultConfig()
		config.BaseURL = server.URL
		config.APIKey = "test-key"
		config.Timeout = 50 * time.Millisecond
		client, err := NewClient(config)
		require.NoError(t, err)

		_, err = client.Post(context.Background(), AgeEndpoint(), payload, "TO_OLD")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNetwork))
	})

	t.Run("cancelled context", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := newTestClient(t, server.URL)
		_, err := client.Post(ctx, AgeEndpoint(), payload, "TO_OLD")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNetwork))
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 0, calls)
	})
}
