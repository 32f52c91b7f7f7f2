// Package imaging provides the image operations exposed by the MCP server.
//
// Each operation loads one source image through a Source, computes a new
// frame.Bitmap, and returns it for encoding:
//   - Echo: the source unmodified
//   - Rotate: a quarter-turn clockwise or counter-clockwise, canvas expanded
//   - CropAndZoom: a normalized bounding box cropped, then optionally scaled
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. Bounding
// boxes use normalized coordinates in [0,1] that are converted to pixels by
// truncation; see BoundingBox.PixelRect.
//
// # Thread Safety
//
// Operations are pure functions of their inputs. Loader holds no mutable state
// and never writes to the source file, so any number of calls may run
// concurrently, including against the same path.
//
// # Pixel Modes
//
// Results keep the mode of the source bitmap (L, LA, RGB, or RGBA). Rotation
// and a crop with zoom 1 move pixels without altering them; only a zoom other
// than 1 resamples, using the Lanczos filter.
//
// # Error Handling
//
// Errors wrap one of two sentinels so callers can classify them with errors.Is:
//   - ErrSourceNotFound: the image is missing, unreadable, or not an image
//   - ErrInvalidArgument: unknown direction, invalid bounding box, bad zoom
//
// Argument validation happens before the source is loaded.
package imaging
