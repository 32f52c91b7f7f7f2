package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
)

// MaxOutputPixels bounds the size of a zoomed crop. 1<<25 pixels is 128 MiB as
// RGBA, which the resampler allocates in full.
const MaxOutputPixels = 1 << 25

// BoundingBox is a crop rectangle in normalized coordinates, where (0,0) is the
// top-left corner of the image and (1,1) the bottom-right.
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// Validate checks that every coordinate lies in [0,1] and that min < max on
// both axes. NaN coordinates fail.
func (b BoundingBox) Validate() error {
	if !(0 <= b.XMin && b.XMin < b.XMax && b.XMax <= 1 &&
		0 <= b.YMin && b.YMin < b.YMax && b.YMax <= 1) {
		return fmt.Errorf("%w: invalid bounding box coordinates (%g,%g)-(%g,%g): must be between 0 and 1 with min < max",
			ErrInvalidArgument, b.XMin, b.YMin, b.XMax, b.YMax)
	}
	return nil
}

// PixelRect converts the box to pixel coordinates for a width×height image.
//
// Coordinates are truncated toward zero. Only the far edges are clamped to the
// image size, since rounding can push floor(x_max*W) one pixel past the edge.
func (b BoundingBox) PixelRect(width, height int) image.Rectangle {
	left := int(b.XMin * float64(width))
	top := int(b.YMin * float64(height))
	right := min(int(b.XMax*float64(width)), width)
	bottom := min(int(b.YMax*float64(height)), height)
	return image.Rect(left, top, right, bottom)
}

// CropAndZoom loads the image at path, extracts the region covered by box, and
// scales it by zoom.
//
// Parameters:
//   - box: Normalized crop rectangle; validated before the image is loaded.
//   - zoom: Scale factor applied after cropping. Values below 1 shrink, above
//     1 enlarge. Exactly 1 returns the cropped pixels without resampling.
//
// The output size is (round(cw*zoom), round(ch*zoom)) where cw×ch is the crop
// size in pixels. Resampling uses the Lanczos filter, so the result is
// deterministic for given inputs. The source mode is preserved.
//
// # Errors
//
//   - Returns ErrInvalidArgument for an invalid box, a zoom that is not a
//     positive finite number, a box that covers no whole pixel, or a zoom that
//     shrinks the crop below one pixel or grows it past MaxOutputPixels
//   - Returns ErrSourceNotFound if the image cannot be loaded
func CropAndZoom(src Source, path string, box BoundingBox, zoom float64) (*frame.Bitmap, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		return nil, fmt.Errorf("%w: zoom factor must be a positive number, got %g", ErrInvalidArgument, zoom)
	}

	b, err := src.Load(path)
	if err != nil {
		return nil, err
	}

	rect := box.PixelRect(b.Width, b.Height)
	if rect.Empty() {
		return nil, fmt.Errorf("%w: bounding box covers no pixels of a %dx%d image", ErrInvalidArgument, b.Width, b.Height)
	}

	cropped := imaging.Crop(b.Image(), rect)

	if zoom != 1.0 {
		// sizes stay in float64 until bounded so a huge zoom cannot overflow int
		w := math.Round(float64(rect.Dx()) * zoom)
		h := math.Round(float64(rect.Dy()) * zoom)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("%w: zoom factor %g reduces %dx%d crop to %gx%g",
				ErrInvalidArgument, zoom, rect.Dx(), rect.Dy(), w, h)
		}
		if w*h > MaxOutputPixels {
			return nil, fmt.Errorf("%w: zoom factor %g enlarges %dx%d crop to %gx%g, above the %d pixel limit",
				ErrInvalidArgument, zoom, rect.Dx(), rect.Dy(), w, h, MaxOutputPixels)
		}
		newWidth, newHeight := int(w), int(h)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return frame.ConvertImage(cropped, b.Mode), nil
}
