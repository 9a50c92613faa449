package ailab

import (
	"fmt"
	"strings"
)

// ResponseMode tells the decoder which body shape an endpoint returns
type ResponseMode string

const (
	// ResponseModeAuto sniffs each response: JSON envelope or raw image bytes
	ResponseModeAuto ResponseMode = "auto"
	// ResponseModeJSON expects {error_code, error_msg, ...base64 image}
	ResponseModeJSON ResponseMode = "json"
	// ResponseModeRaw expects the image bytes as the body
	ResponseModeRaw ResponseMode = "raw"
)

// ParseResponseMode validates a configured mode
func ParseResponseMode(s string) (ResponseMode, error) {
	switch mode := ResponseMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ResponseModeAuto, ResponseModeJSON, ResponseModeRaw:
		return mode, nil
	case "":
		return ResponseModeAuto, nil
	default:
		return "", fmt.Errorf("unknown response mode %q (supported: %s, %s, %s)",
			s, ResponseModeAuto, ResponseModeJSON, ResponseModeRaw)
	}
}

// Endpoint describes how one vision endpoint is called and how its
// response is read
type Endpoint struct {
	Name       string
	Path       string
	FileField  string
	ParamField string
	ImagePath  []string
	Mode       ResponseMode
}

// ExpressionEndpoint is the emotion editor endpoint
func ExpressionEndpoint(mode ResponseMode) Endpoint {
	return Endpoint{
		Name:       "expression",
		Path:       "/api/portrait/effects/emotion-editor",
		FileField:  "image_target",
		ParamField: "service_choice",
		ImagePath:  []string{"data", "image"},
		Mode:       mode,
	}
}

// AgeEndpoint is the face attribute (age) editor endpoint
func AgeEndpoint() Endpoint {
	return Endpoint{
		Name:       "age",
		Path:       "/api/portrait/effects/face-attribute-editing",
		FileField:  "image",
		ParamField: "action_type",
		ImagePath:  []string{"result", "image"},
		Mode:       ResponseModeJSON,
	}
}

func (e Endpoint) imagePathKeys() []interface{} {
	keys := make([]interface{}, len(e.ImagePath))
	for i, k := range e.ImagePath {
		keys[i] = k
	}
	return keys
}
