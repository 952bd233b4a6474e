package media

import (
	"path/filepath"
	"strings"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/gabriel-vasile/mimetype"
)

const MaxImageSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var allowedMIMETypes = []string{"image/jpeg", "image/png", "image/gif"}

// Image is an uploaded file held in memory.
type Image struct {
	Filename string
	Data     []byte
}

// Validate checks extension, size and sniffed content type, and returns the
// detected MIME type and canonical extension.
func (img Image) Validate() (mimeType, ext string, err error) {
	ext = strings.ToLower(filepath.Ext(img.Filename))
	if !allowedExtensions[ext] {
		return "", "", domain.ErrInvalidImage
	}
	if len(img.Data) == 0 {
		return "", "", domain.ErrInvalidImage
	}
	if len(img.Data) > MaxImageSize {
		return "", "", domain.ErrImageTooLarge
	}

	detected := mimetype.Detect(img.Data)
	if !mimetype.EqualsAny(detected.String(), allowedMIMETypes...) {
		return "", "", domain.ErrInvalidImage
	}
	return detected.String(), detected.Extension(), nil
}
