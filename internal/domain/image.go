package domain

import (
	"bytes"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// ImagePayload holds an immutable copy of an image that is sent to the
// vision service. Every call reads from its own Reader.
type ImagePayload struct {
	data     []byte
	mimeType string
}

// NewImagePayload copies data so later mutation by the caller is not observed
func NewImagePayload(data []byte, mimeType string) *ImagePayload {
	return &ImagePayload{
		data:     append([]byte(nil), data...),
		mimeType: mimeType,
	}
}

// Reader returns a fresh reader positioned at the first byte
func (p *ImagePayload) Reader() *bytes.Reader {
	return bytes.NewReader(p.data)
}

// Bytes returns a copy of the payload
func (p *ImagePayload) Bytes() []byte {
	return append([]byte(nil), p.data...)
}

func (p *ImagePayload) Len() int         { return len(p.data) }
func (p *ImagePayload) MIMEType() string { return p.mimeType }

// Filename returns a neutral upload name with an extension matching the MIME type
func (p *ImagePayload) Filename() string {
	switch p.mimeType {
	case "image/png":
		return "image.png"
	default:
		return "image.jpg"
	}
}

// Image is a decoded image ready for presentation
type Image struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Base64 returns the encoded image bytes
func (i *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURI returns the image as an inline data URI
func (i *Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64()
}

// EffectOutcome is the result of one effect branch. Exactly one of Image
// and Err is set.
type EffectOutcome struct {
	Label string
	Kind  EffectKind
	Image *Image
	Err   error
}

func (o EffectOutcome) Succeeded() bool {
	return o.Err == nil && o.Image != nil
}

// Composition groups the original image with the three effect branches
// produced by a single run
type Composition struct {
	ID         uuid.UUID
	Original   *Image
	Expression EffectOutcome
	Age        EffectOutcome
	Chained    EffectOutcome
	CreatedAt  time.Time
	LatencyMs  int64
}

// Outcomes returns the branches in display order
func (c *Composition) Outcomes() []EffectOutcome {
	return []EffectOutcome{c.Expression, c.Age, c.Chained}
}
