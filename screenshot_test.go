package grove

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"week-view", "week-view"},
		{"night view/1", "night_view_1"},
		{" v1.2 ", "v1.2"},
		{"día", "d_a"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128, // half transparent
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // clear
	}
	img := unpremultiply(pixels, 3, 1)
	want := []color.NRGBA{
		{R: 255, G: 127, B: 0, A: 128},
		{R: 10, G: 20, B: 30, A: 255},
		{},
	}
	for x, w := range want {
		if got := img.NRGBAAt(x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(1, 1, color.NRGBA{R: 200, A: 255})
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 4x3", b)
	}
	if r, _, _, _ := decoded.At(1, 1).RGBA(); r>>8 != 200 {
		t.Errorf("red = %d, want 200", r>>8)
	}

	if err := writePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img); err == nil {
		t.Error("writePNG into a missing directory succeeded")
	}
}

func TestScreenshotQueue(t *testing.T) {
	e := newTestEngine(t)
	e.Screenshot("a")
	e.Screenshot("b")
	if e.PendingScreenshots() != 2 {
		t.Errorf("PendingScreenshots = %d, want 2", e.PendingScreenshots())
	}
}
