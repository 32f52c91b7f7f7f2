package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/image-frame-mcp/internal/frame"
)

var (
	// ErrSourceNotFound is returned when a source image is missing, unreadable,
	// or not a decodable image.
	ErrSourceNotFound = errors.New("source not found")

	// ErrInvalidArgument is returned for bad operation parameters, such as an
	// unknown rotation direction or an invalid bounding box.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Source loads bitmaps by path. Handlers depend on this interface rather than
// on the filesystem so tests can supply images directly.
type Source interface {
	Load(path string) (*frame.Bitmap, error)
}

// Loader reads images from disk. It keeps no state between calls; every Load
// opens and decodes the file again.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF, and WebP. The decoded image
// is normalized into a frame.Bitmap (see frame.FromImage) whose Format is the
// decoder's format name.
type Loader struct {
	// Root is joined to relative paths. When empty, relative paths resolve
	// against the process working directory.
	Root string
}

// NewLoader returns a Loader resolving relative paths against root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// Resolve returns the filesystem path Load would open for path.
func (l *Loader) Resolve(path string) string {
	if l.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.Root, path)
}

// Load opens and decodes the image at path.
//
// # Errors
//
//   - Returns ErrSourceNotFound if the path is empty, the file cannot be
//     opened, or its contents are not a supported image
func (l *Loader) Load(path string) (*frame.Bitmap, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty image path", ErrSourceNotFound)
	}

	f, err := os.Open(l.Resolve(path))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %v", ErrSourceNotFound, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image %s: %v", ErrSourceNotFound, path, err)
	}

	return frame.FromImage(img, format), nil
}

// Echo loads the image at path and returns it unmodified. Encoding and decoding
// the result reproduces the source pixel for pixel.
func Echo(src Source, path string) (*frame.Bitmap, error) {
	return src.Load(path)
}
