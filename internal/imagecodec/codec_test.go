package imagecodec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantErr  bool
	}{
		{name: "png", data: pngBytes(t, 4, 4), wantMIME: MIMEPNG},
		{name: "jpeg", data: jpegBytes(t, 4, 4), wantMIME: MIMEJPEG},
		{name: "empty", data: nil, wantErr: true},
		{name: "gif", data: []byte("GIF89a\x01\x00\x01\x00"), wantErr: true},
		{name: "text", data: []byte("hello world"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, err := ValidateUpload(tt.data)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidImage))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, mimeType)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("png keeps dimensions", func(t *testing.T) {
		data := pngBytes(t, 32, 24)

		img, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, 32, img.Width)
		assert.Equal(t, 24, img.Height)
		assert.Equal(t, MIMEPNG, img.MIMEType)
		assert.Equal(t, data, img.Data)
	})

	t.Run("jpeg keeps dimensions", func(t *testing.T) {
		img, err := Decode(jpegBytes(t, 17, 9))
		require.NoError(t, err)
		assert.Equal(t, 17, img.Width)
		assert.Equal(t, 9, img.Height)
		assert.Equal(t, MIMEJPEG, img.MIMEType)
	})

	t.Run("garbage is a decode error", func(t *testing.T) {
		_, err := Decode([]byte("definitely not an image"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDecode))
	})

	t.Run("truncated png is a decode error", func(t *testing.T) {
		data := pngBytes(t, 16, 16)
		_, err := Decode(data[:len(data)/2])
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDecode))
	})

	t.Run("empty is a decode error", func(t *testing.T) {
		_, err := Decode(nil)
		assert.True(t, errors.Is(err, domain.ErrDecode))
	})
}

// withOrientation inserts an EXIF APP1 segment carrying the orientation tag
func withOrientation(t *testing.T, jpg []byte, orientation byte) []byte {
	t.Helper()
	require.Equal(t, []byte{0xFF, 0xD8}, jpg[:2])

	tiff := []byte{
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08, // big endian header, IFD at 8
		0x00, 0x01, // one entry
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, orientation, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	size := len(payload) + 2

	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, byte(size >> 8), byte(size)}
	out = append(out, payload...)
	return append(out, jpg[2:]...)
}

func TestDecode_KeepsStoredDimensionsWithEXIFRotation(t *testing.T) {
	rotated := withOrientation(t, jpegBytes(t, 20, 10), 6)

	img, err := Decode(rotated)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Width)
	assert.Equal(t, 10, img.Height)
	assert.Equal(t, rotated, img.Data)

	// the re-encoded copy has the rotation applied to its pixels
	out, err := ToJPEG(rotated, 80)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestToJPEG(t *testing.T) {
	out, err := ToJPEG(pngBytes(t, 20, 10), 80)
	require.NoError(t, err)
	assert.Equal(t, MIMEJPEG, DetectMIME(out))

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)
	assert.Equal(t, 10, cfg.Height)

	_, err = ToJPEG([]byte("nope"), 0)
	assert.True(t, errors.Is(err, domain.ErrDecode))
}
