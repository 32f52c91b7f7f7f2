package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// patternBitmap fills a bitmap with a deterministic, position-dependent pattern.
func patternBitmap(width, height int, mode Mode) *Bitmap {
	b := NewBitmap(width, height, mode)
	for i := range b.Pix {
		b.Pix[i] = byte(i*7 + i/3)
	}
	return b
}

// rawFrame assembles a frame from explicit parts so tests can corrupt them.
func rawFrame(meta string, pix []byte) []byte {
	buf := make([]byte, 4, 4+len(meta)+len(pix))
	binary.BigEndian.PutUint32(buf, uint32(len(meta)))
	buf = append(buf, meta...)
	return append(buf, pix...)
}

func TestEncode_Layout(t *testing.T) {
	b := patternBitmap(3, 2, ModeRGB)

	data := Encode(b, "png")

	n := binary.BigEndian.Uint32(data[:4])
	meta := string(data[4 : 4+n])
	want := `{"width":3,"height":2,"mode":"RGB","format":"png"}`
	if meta != want {
		t.Errorf("metadata: got %s, want %s", meta, want)
	}
	if !bytes.Equal(data[4+n:], b.Pix) {
		t.Error("pixel bytes were not appended verbatim after the metadata")
	}
	if len(data) != 4+int(n)+3*2*3 {
		t.Errorf("frame length: got %d, want %d", len(data), 4+int(n)+18)
	}
}

func TestEncode_DeclaredFormatWins(t *testing.T) {
	b := patternBitmap(1, 1, ModeL)
	b.Format = "jpeg"

	got, err := Decode(Encode(b, "png"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Format != "jpeg" {
		t.Errorf("Format: got %q, want jpeg", got.Format)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		mode          Mode
	}{
		{"gray", 7, 5, ModeL},
		{"gray alpha", 4, 9, ModeLA},
		{"rgb", 16, 16, ModeRGB},
		{"rgba", 13, 3, ModeRGBA},
		{"single pixel", 1, 1, ModeRGBA},
		{"single row", 31, 1, ModeRGB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := patternBitmap(tt.width, tt.height, tt.mode)

			got, err := Decode(Encode(b, "png"))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !Equal(got, b) {
				t.Errorf("round trip mismatch: got %dx%d %s (%d bytes), want %dx%d %s (%d bytes)",
					got.Width, got.Height, got.Mode, len(got.Pix), b.Width, b.Height, b.Mode, len(b.Pix))
			}
		})
	}
}

func TestDecode_DoesNotAliasInput(t *testing.T) {
	b := patternBitmap(2, 2, ModeL)
	data := Encode(b, "png")

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i := range data {
		data[i] = 0
	}
	if !Equal(got, b) {
		t.Error("decoded bitmap changed when the input buffer was overwritten")
	}
}

func TestDecode_Corrupt(t *testing.T) {
	valid := `{"width":2,"height":2,"mode":"L","format":"png"}`

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short prefix", []byte{0, 0, 1}},
		{"length exceeds data", append([]byte{0, 0, 1, 0}, []byte(valid)...)},
		{"truncated metadata", rawFrame(valid, nil)[:20]},
		{"not json", rawFrame("not json", []byte{1, 2, 3, 4})},
		{"missing width", rawFrame(`{"height":2,"mode":"L"}`, []byte{1, 2, 3, 4})},
		{"missing height", rawFrame(`{"width":2,"mode":"L"}`, []byte{1, 2, 3, 4})},
		{"missing mode", rawFrame(`{"width":2,"height":2}`, []byte{1, 2, 3, 4})},
		{"width wrong type", rawFrame(`{"width":"2","height":2,"mode":"L"}`, []byte{1, 2, 3, 4})},
		{"mode wrong type", rawFrame(`{"width":2,"height":2,"mode":1}`, []byte{1, 2, 3, 4})},
		{"zero width", rawFrame(`{"width":0,"height":2,"mode":"L"}`, nil)},
		{"negative height", rawFrame(`{"width":2,"height":-2,"mode":"L"}`, nil)},
		{"unknown mode", rawFrame(`{"width":2,"height":2,"mode":"P"}`, []byte{1, 2, 3, 4})},
		{"too few pixel bytes", rawFrame(valid, []byte{1, 2, 3})},
		{"too many pixel bytes", rawFrame(valid, []byte{1, 2, 3, 4, 5})},
		{"huge declared size", rawFrame(`{"width":2147483647,"height":2147483647,"mode":"RGBA"}`, []byte{1, 2, 3, 4})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Decode(tt.data)
			if err == nil {
				t.Fatal("Decode should fail")
			}
			if !errors.Is(err, ErrFrameCorrupt) {
				t.Errorf("error should wrap ErrFrameCorrupt, got %v", err)
			}
			if b != nil {
				t.Error("Decode returned a bitmap alongside an error")
			}
		})
	}
}

func TestDecode_FormatOptional(t *testing.T) {
	got, err := Decode(rawFrame(`{"width":1,"height":1,"mode":"RGB"}`, []byte{9, 8, 7}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Format != "" {
		t.Errorf("Format: got %q, want empty", got.Format)
	}
	if !bytes.Equal(got.Pix, []byte{9, 8, 7}) {
		t.Errorf("Pix: got %v", got.Pix)
	}
}

func TestWriteRead(t *testing.T) {
	b := patternBitmap(6, 4, ModeRGBA)

	var buf bytes.Buffer
	if err := Write(&buf, b, "png"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), Encode(b, "png")) {
		t.Error("Write and Encode produced different bytes")
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !Equal(got, b) {
		t.Error("Read did not reproduce the written bitmap")
	}
}

func TestRead_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short prefix", []byte{0, 1}},
		{"metadata limit", []byte{0xff, 0xff, 0xff, 0xff}},
		{"truncated metadata", append([]byte{0, 0, 0, 50}, []byte(`{"width":1`)...)},
		{"pixel mismatch", rawFrame(`{"width":1,"height":1,"mode":"RGB"}`, []byte{1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrFrameCorrupt) {
				t.Errorf("Read error: got %v, want ErrFrameCorrupt", err)
			}
		})
	}
}
