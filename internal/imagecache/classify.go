package imagecache

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strings"

	// Registered decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/starford/linkshelf/internal/apperr"
)

// Classifier names the file extension for image bytes, without a dot.
type Classifier interface {
	Classify(data []byte) (string, error)
}

// ContentClassifier sniffs image content; URLs and server headers are
// never consulted.
type ContentClassifier struct{}

var (
	// formatToExt maps image.DecodeConfig format names that differ from
	// the usual extension.
	formatToExt = map[string]string{
		"jpeg": "jpg",
	}

	mimeToExt = map[string]string{
		"image/x-icon": "ico",
		"image/avif":   "avif",
		"image/png":    "png",
		"image/jpeg":   "jpg",
		"image/gif":    "gif",
		"image/webp":   "webp",
		"image/bmp":    "bmp",
	}
)

// Classify returns the extension for data or apperr.ErrUnknownType.
func (ContentClassifier) Classify(data []byte) (string, error) {
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if ext, ok := formatToExt[format]; ok {
			return ext, nil
		}
		return format, nil
	}

	if isSVG(data) {
		return "svg", nil
	}

	detected := http.DetectContentType(data)
	if ext := mimeToExt[strings.Split(detected, ";")[0]]; ext != "" {
		return ext, nil
	}
	return "", fmt.Errorf("imagecache: %w (detected: %s)", apperr.ErrUnknownType, detected)
}

func isSVG(data []byte) bool {
	prefix := data
	if len(prefix) > 1024 {
		prefix = prefix[:1024]
	}
	prefix = bytes.TrimLeft(prefix, " \t\r\n\ufeff")
	if !bytes.HasPrefix(prefix, []byte("<")) {
		return false
	}
	return bytes.Contains(prefix, []byte("<svg"))
}
