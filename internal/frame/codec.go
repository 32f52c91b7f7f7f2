package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// ErrFrameCorrupt is wrapped by every decode failure.
var ErrFrameCorrupt = errors.New("frame corrupt")

const (
	// PrefixSize is the size of the big-endian metadata length prefix.
	PrefixSize = 4

	// MaxMetadataLen bounds the declared metadata length accepted by Read.
	MaxMetadataLen = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Metadata is the JSON object carried between the length prefix and the
// pixel bytes.
type Metadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mode   Mode   `json:"mode"`
	Format string `json:"format"`
}

// wireMetadata distinguishes absent keys from zero values on decode.
type wireMetadata struct {
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
	Mode   *string `json:"mode"`
	Format string  `json:"format"`
}

// Encode serializes b into a frame. The metadata format is b.Format when set,
// otherwise formatHint.
func Encode(b *Bitmap, formatHint string) []byte {
	meta := encodeMetadata(b, formatHint)

	buf := make([]byte, PrefixSize+len(meta)+len(b.Pix))
	binary.BigEndian.PutUint32(buf[:PrefixSize], uint32(len(meta)))
	copy(buf[PrefixSize:], meta)
	copy(buf[PrefixSize+len(meta):], b.Pix)
	return buf
}

// Write streams the frame for b to w without building it in memory first.
func Write(w io.Writer, b *Bitmap, formatHint string) error {
	meta := encodeMetadata(b, formatHint)

	var prefix [PrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(meta)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	if _, err := w.Write(meta); err != nil {
		return err
	}
	if _, err := w.Write(b.Pix); err != nil {
		return err
	}
	return nil
}

func encodeMetadata(b *Bitmap, formatHint string) []byte {
	// Marshal cannot fail for a struct of ints and strings.
	meta, _ := json.Marshal(Metadata{
		Width:  b.Width,
		Height: b.Height,
		Mode:   b.Mode,
		Format: b.FormatOr(formatHint),
	})
	return meta
}

// Decode parses a frame. The returned Bitmap owns its pixel buffer; it does not
// alias data.
func Decode(data []byte) (*Bitmap, error) {
	if len(data) < PrefixSize {
		return nil, fmt.Errorf("%w: need %d prefix bytes, have %d", ErrFrameCorrupt, PrefixSize, len(data))
	}
	n := uint64(binary.BigEndian.Uint32(data[:PrefixSize]))
	rest := data[PrefixSize:]
	if n > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: metadata length %d exceeds remaining %d bytes", ErrFrameCorrupt, n, len(rest))
	}

	meta, err := parseMetadata(rest[:n])
	if err != nil {
		return nil, err
	}
	pix := make([]byte, len(rest)-int(n))
	copy(pix, rest[n:])
	return build(meta, pix)
}

// Read decodes one frame from r, treating everything after the metadata as
// pixel bytes. It reads r to EOF.
func Read(r io.Reader) (*Bitmap, error) {
	var prefix [PrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("%w: reading length prefix: %v", ErrFrameCorrupt, err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > MaxMetadataLen {
		return nil, fmt.Errorf("%w: metadata length %d exceeds limit %d", ErrFrameCorrupt, n, MaxMetadataLen)
	}

	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: reading metadata: %v", ErrFrameCorrupt, err)
	}
	meta, err := parseMetadata(raw)
	if err != nil {
		return nil, err
	}

	pix, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading pixel bytes: %w", err)
	}
	return build(meta, pix)
}

func parseMetadata(raw []byte) (Metadata, error) {
	var wm wireMetadata
	if err := json.Unmarshal(raw, &wm); err != nil {
		return Metadata{}, fmt.Errorf("%w: invalid metadata: %v", ErrFrameCorrupt, err)
	}

	switch {
	case wm.Width == nil:
		return Metadata{}, fmt.Errorf("%w: metadata missing width", ErrFrameCorrupt)
	case wm.Height == nil:
		return Metadata{}, fmt.Errorf("%w: metadata missing height", ErrFrameCorrupt)
	case wm.Mode == nil:
		return Metadata{}, fmt.Errorf("%w: metadata missing mode", ErrFrameCorrupt)
	}

	meta := Metadata{
		Width:  *wm.Width,
		Height: *wm.Height,
		Mode:   Mode(*wm.Mode),
		Format: wm.Format,
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		return Metadata{}, fmt.Errorf("%w: invalid size %dx%d", ErrFrameCorrupt, meta.Width, meta.Height)
	}
	if !meta.Mode.Valid() {
		return Metadata{}, fmt.Errorf("%w: unsupported mode %q", ErrFrameCorrupt, meta.Mode)
	}
	return meta, nil
}

// build checks that pix holds exactly width*height pixels of the declared mode.
// The arithmetic divides instead of multiplying so huge declared sizes cannot
// overflow.
func build(meta Metadata, pix []byte) (*Bitmap, error) {
	bpp := meta.Mode.BytesPerPixel()
	if len(pix)%bpp != 0 || len(pix)/bpp%meta.Width != 0 || len(pix)/bpp/meta.Width != meta.Height {
		return nil, fmt.Errorf("%w: %d pixel bytes do not match %dx%d %s",
			ErrFrameCorrupt, len(pix), meta.Width, meta.Height, meta.Mode)
	}
	return &Bitmap{
		Width:  meta.Width,
		Height: meta.Height,
		Mode:   meta.Mode,
		Pix:    pix,
		Format: meta.Format,
	}, nil
}
