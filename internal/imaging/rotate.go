package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
)

// Direction is the sense of a quarter-turn rotation.
type Direction int

// Rotation directions.
const (
	Clockwise Direction = iota + 1
	CounterClockwise
)

// ParseDirection maps the wire names "clockwise" and "counterclockwise" to a
// Direction. Any other value is an error; there is no default.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "clockwise":
		return Clockwise, nil
	case "counterclockwise":
		return CounterClockwise, nil
	default:
		return 0, fmt.Errorf("%w: invalid direction %q, must be clockwise or counterclockwise", ErrInvalidArgument, s)
	}
}

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counterclockwise"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Rotate loads the image at path and turns it 90 degrees in direction dir.
//
// The canvas expands to fit: a W×H source produces an H×W result, and no
// pixels are cropped or resampled. The source mode is preserved.
//
// # Errors
//
//   - Returns ErrInvalidArgument for an unknown direction, before loading
//   - Returns ErrSourceNotFound if the image cannot be loaded
func Rotate(src Source, path string, dir Direction) (*frame.Bitmap, error) {
	if dir != Clockwise && dir != CounterClockwise {
		return nil, fmt.Errorf("%w: invalid direction %v", ErrInvalidArgument, dir)
	}

	b, err := src.Load(path)
	if err != nil {
		return nil, err
	}

	var rotated *image.NRGBA
	if dir == Clockwise {
		// imaging rotates counter-clockwise; 270 CCW is a clockwise quarter-turn
		rotated = imaging.Rotate270(b.Image())
	} else {
		rotated = imaging.Rotate90(b.Image())
	}

	return frame.ConvertImage(rotated, b.Mode), nil
}
