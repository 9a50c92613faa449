package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefx/internal/domain"
)

// DefaultMaxUploadBytes is used when no limit is configured
const DefaultMaxUploadBytes = 10 * 1024 * 1024

var errNoImage = errors.New("image file is required")

// extractImage reads the "image" form file. The format is checked later by
// sniffing the bytes, so the client Content-Type is ignored.
func extractImage(c *fiber.Ctx, maxBytes int) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(errNoImage)
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithError(errors.New("image file is empty"))
	}
	if file.Size > int64(maxBytes) {
		return nil, domain.ErrInvalidImage.WithError(fmt.Errorf("image is %d bytes, limit is %d", file.Size, maxBytes))
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
