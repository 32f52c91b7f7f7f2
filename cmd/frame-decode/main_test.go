package main

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
)

func TestDecode_RawAndBase64(t *testing.T) {
	b := frame.NewBitmap(3, 2, frame.ModeLA)
	for i := range b.Pix {
		b.Pix[i] = byte(i * 11)
	}
	data := frame.Encode(b, "png")

	inputs := map[string][]byte{
		"raw":            data,
		"base64":         []byte(base64.StdEncoding.EncodeToString(data)),
		"base64 newline": []byte(base64.StdEncoding.EncodeToString(data) + "\n"),
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := decode(in)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if !frame.Equal(got, b) {
				t.Error("decoded bitmap differs")
			}
		})
	}
}

func TestDecode_Corrupt(t *testing.T) {
	for _, in := range [][]byte{nil, {0, 0}, []byte("not a frame at all")} {
		if _, err := decode(in); !errors.Is(err, frame.ErrFrameCorrupt) {
			t.Errorf("decode(%q): got %v, want ErrFrameCorrupt", in, err)
		}
	}
}
