package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWebP = "image/webp"

	DefaultJPEGQuality = 92
)

var uploadTypes = map[string]bool{
	MIMEJPEG: true,
	MIMEPNG:  true,
}

var errEmptyImage = errors.New("empty image data")

// DetectMIME sniffs the content type from the leading bytes
func DetectMIME(data []byte) string {
	return http.DetectContentType(data)
}

// ValidateUpload accepts only JPEG and PNG uploads and returns the sniffed MIME type
func ValidateUpload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrInvalidImage.WithError(errEmptyImage)
	}
	mimeType := DetectMIME(data)
	if !uploadTypes[mimeType] {
		return "", domain.ErrInvalidImage.WithError(fmt.Errorf("unsupported upload type %q", mimeType))
	}
	return mimeType, nil
}

// Decode parses an image container and reports its pixel dimensions.
// The returned Image keeps the original encoded bytes, so the dimensions are
// those of the stored pixels; EXIF orientation is applied only by ToJPEG.
func Decode(data []byte) (*domain.Image, error) {
	if len(data) == 0 {
		return nil, domain.ErrDecode.WithError(errEmptyImage)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.ErrDecode.WithError(fmt.Errorf("decode image: %w", err))
	}

	bounds := img.Bounds()
	return &domain.Image{
		Data:     append([]byte(nil), data...),
		MIMEType: DetectMIME(data),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// ToJPEG re-encodes any decodable image as JPEG
func ToJPEG(data []byte, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.ErrDecode.WithError(fmt.Errorf("decode image: %w", err))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
