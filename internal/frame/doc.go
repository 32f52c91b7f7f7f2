// Package frame implements the image payload encoding shared by the server and
// its clients.
//
// A frame is a single self-describing byte blob that carries an uncompressed
// bitmap across the RPC boundary:
//
//	┌──────────────┬──────────────────────────┬────────────────────────────┐
//	│ metadata len │ metadata (UTF-8 JSON)    │ raw pixel bytes            │
//	│ uint32 BE    │ {width,height,mode,      │ width*height*bpp(mode)     │
//	│ 4 bytes      │  format}                 │ row-major, no padding      │
//	└──────────────┴──────────────────────────┴────────────────────────────┘
//
// The pixel bytes are never re-encoded, so a decoded frame reproduces the
// encoded bitmap bit for bit. The "format" field is advisory only (it names the
// format the image was loaded from, or the caller's hint) and plays no part in
// decoding.
//
// # Modes
//
// Four pixel modes are supported:
//   - L: 8-bit grayscale, 1 byte per pixel
//   - LA: 8-bit grayscale with alpha, 2 bytes per pixel
//   - RGB: 8-bit color, 3 bytes per pixel
//   - RGBA: 8-bit color with non-premultiplied alpha, 4 bytes per pixel
//
// # Error Handling
//
// Decode and Read reject malformed input with an error wrapping ErrFrameCorrupt:
// a truncated length prefix, truncated metadata, unparsable JSON, missing or
// mistyped width/height/mode, an unknown mode, or a pixel buffer whose length
// does not equal width*height*bpp(mode). A partially built Bitmap is never
// returned.
package frame
