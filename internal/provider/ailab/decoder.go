package ailab

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefx/internal/imagecodec"
)

// Decode turns an upstream response into an image according to the
// endpoint's response mode. A non-200 status is reported without looking
// at the body.
func Decode(endpoint Endpoint, resp *RawResponse) (*domain.Image, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrUpstreamAPI.WithError(&APIError{
			Endpoint:   endpoint.Name,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(resp.Body),
		})
	}

	switch endpoint.Mode {
	case ResponseModeRaw:
		return decodeRaw(endpoint, resp.Body)
	case ResponseModeJSON:
		return decodeEnvelope(endpoint, resp.Body)
	default:
		if looksLikeJSON(resp) {
			return decodeEnvelope(endpoint, resp.Body)
		}
		return decodeRaw(endpoint, resp.Body)
	}
}

func decodeRaw(endpoint Endpoint, body []byte) (*domain.Image, error) {
	img, err := imagecodec.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint.Name, err)
	}
	return img, nil
}

func decodeEnvelope(endpoint Endpoint, body []byte) (*domain.Image, error) {
	if !jsoniter.Valid(body) {
		return nil, domain.ErrDecode.WithError(fmt.Errorf("%s: %w", endpoint.Name, ErrInvalidEnvelope))
	}

	if code, text, failed := errorCode(jsoniter.Get(body, "error_code")); failed {
		return nil, domain.ErrUpstreamAPI.WithError(&APIError{
			Endpoint:   endpoint.Name,
			StatusCode: http.StatusOK,
			Code:       code,
			CodeText:   text,
			Message:    errorMessage(body),
			RequestID:  jsoniter.Get(body, "request_id").ToString(),
		})
	}

	field := jsoniter.Get(body, endpoint.imagePathKeys()...)
	if field.ValueType() != jsoniter.StringValue || field.ToString() == "" {
		return nil, domain.ErrDecode.WithError(fmt.Errorf("%s: %w at %s", endpoint.Name, ErrMissingImage, strings.Join(endpoint.ImagePath, ".")))
	}

	raw, err := decodeBase64(field.ToString())
	if err != nil {
		return nil, domain.ErrDecode.WithError(fmt.Errorf("%s: %w: %v", endpoint.Name, ErrInvalidBase64, err))
	}

	return decodeRaw(endpoint, raw)
}

// errorCode reports whether error_code marks a failure. Only an absent
// field, null, 0 or "0" mean success; codes that are not integers come
// back as text.
func errorCode(v jsoniter.Any) (int, string, bool) {
	switch v.ValueType() {
	case jsoniter.InvalidValue, jsoniter.NilValue:
		return 0, "", false
	case jsoniter.NumberValue:
		if f := v.ToFloat64(); f != float64(int(f)) {
			return 0, v.ToString(), true
		}
		n := v.ToInt()
		return n, "", n != 0
	case jsoniter.StringValue:
		s := strings.TrimSpace(v.ToString())
		if s == "" {
			return 0, "", false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, "", n != 0
		}
		return 0, s, true
	case jsoniter.BoolValue:
		return 0, v.ToString(), v.ToBool()
	default:
		return 0, v.ToString(), true
	}
}

func errorMessage(body []byte) string {
	if msg := jsoniter.Get(body, "error_msg").ToString(); msg != "" {
		return msg
	}
	return jsoniter.Get(body, "error_detail", "message").ToString()
}

// decodeBase64 accepts plain base64 and data URIs, ignoring line breaks
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, "base64,"); idx != -1 {
			s = s[idx+len("base64,"):]
		}
	}
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)
	return base64.StdEncoding.DecodeString(s)
}

func looksLikeJSON(resp *RawResponse) bool {
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		if strings.HasSuffix(mediaType, "json") {
			return true
		}
		if strings.HasPrefix(mediaType, "image/") {
			return false
		}
	}
	trimmed := bytes.TrimLeft(resp.Body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
