package imaging

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
)

// Save writes b to path as a regular image file. The encoder is chosen from the
// file extension: .png, .jpg/.jpeg, or .bmp.
func Save(path string, b *frame.Bitmap) error {
	var enc imgio.Encoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		enc = imgio.PNGEncoder()
	case ".jpg", ".jpeg":
		enc = imgio.JPEGEncoder(95)
	case ".bmp":
		enc = imgio.BMPEncoder()
	default:
		return fmt.Errorf("unsupported output format %q (use .png, .jpg or .bmp)", filepath.Ext(path))
	}

	if err := imgio.Save(path, b.Image(), enc); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
