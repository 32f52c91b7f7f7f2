package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
)

// createTestImage creates a solid-color PNG file and returns its path.
// The file is removed when the test finishes.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writePNG(t, img)
}

// writePNG encodes img into a temp file and returns its path.
func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// gradientImage has a distinct color at every pixel.
func gradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 3), uint8(y * 5), uint8(x*y + 7), uint8(200 + (x+y)%56)})
		}
	}
	return img
}

func TestLoader_Load(t *testing.T) {
	imgPath := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})

	b, err := NewLoader("").Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if b.Width != 100 || b.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", b.Width, b.Height)
	}
	if b.Mode != frame.ModeRGB {
		t.Errorf("Mode: got %s, want RGB", b.Mode)
	}
	if b.Format != "png" {
		t.Errorf("Format: got %q, want png", b.Format)
	}
	if b.Pix[0] != 255 || b.Pix[1] != 0 || b.Pix[2] != 0 {
		t.Errorf("first pixel: got %v, want [255 0 0]", b.Pix[:3])
	}
}

func TestLoader_Load_Modes(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = byte(i * 16)
	}

	tests := []struct {
		name string
		img  image.Image
		want frame.Mode
	}{
		{"gray", gray, frame.ModeL},
		{"alpha", gradientImage(4, 4), frame.ModeRGBA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewLoader("").Load(writePNG(t, tt.img))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if b.Mode != tt.want {
				t.Errorf("Mode: got %s, want %s", b.Mode, tt.want)
			}
			if !frame.Equal(b, frame.FromImage(tt.img, "")) {
				t.Error("loaded pixels differ from the encoded image")
			}
		})
	}
}

func TestLoader_Load_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := jpeg.Encode(f, gradientImage(16, 16), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	f.Close()

	b, err := NewLoader("").Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.Mode != frame.ModeRGB || b.Format != "jpeg" {
		t.Errorf("got mode %s format %q, want RGB jpeg", b.Mode, b.Format)
	}
}

func TestLoader_Load_RelativeToRoot(t *testing.T) {
	imgPath := createTestImage(t, 10, 10, color.RGBA{0, 0, 255, 255})
	dir, name := filepath.Split(imgPath)

	b, err := NewLoader(dir).Load(name)
	if err != nil {
		t.Fatalf("Load with root failed: %v", err)
	}
	if b.Width != 10 {
		t.Errorf("Width: got %d, want 10", b.Width)
	}

	if got := NewLoader("/srv/images").Resolve("/abs/x.png"); got != "/abs/x.png" {
		t.Errorf("absolute path should not be joined to root, got %s", got)
	}
	if got := NewLoader("/srv/images").Resolve("x.png"); got != filepath.Join("/srv/images", "x.png") {
		t.Errorf("relative path: got %s", got)
	}
}

func TestLoader_Load_NotFound(t *testing.T) {
	invalid, err := os.CreateTemp(t.TempDir(), "invalid-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	invalid.WriteString("not an image")
	invalid.Close()

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", "/nonexistent/path/to/image.png"},
		{"directory", t.TempDir()},
		{"not an image", invalid.Name()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewLoader("").Load(tt.path)
			if !errors.Is(err, ErrSourceNotFound) {
				t.Errorf("error: got %v, want ErrSourceNotFound", err)
			}
			if b != nil {
				t.Error("Load returned a bitmap alongside an error")
			}
		})
	}
}

func TestEcho_Identity(t *testing.T) {
	src := gradientImage(23, 17)
	imgPath := writePNG(t, src)
	loader := NewLoader("")

	b, err := Echo(loader, imgPath)
	if err != nil {
		t.Fatalf("Echo failed: %v", err)
	}

	decoded, err := frame.Decode(frame.Encode(b, "png"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	direct, err := loader.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !frame.Equal(decoded, direct) {
		t.Error("echoed image differs from the directly loaded source")
	}
	if !frame.Equal(decoded, frame.FromImage(src, "")) {
		t.Error("echoed image differs from the original pixels")
	}
	if decoded.Format != "png" {
		t.Errorf("Format: got %q, want png", decoded.Format)
	}
}

func TestLoader_ConcurrentLoad(t *testing.T) {
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})
	loader := NewLoader("")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Echo(loader, imgPath); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Echo failed: %v", err)
	}
}
