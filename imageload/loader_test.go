package imageload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 128})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issue.png")
	if err := os.WriteFile(path, testPNG(t, 8, 6), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()
	img, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}
	if got := img.Bounds(); got.Dx() != 8 || got.Dy() != 6 {
		t.Errorf("bounds = %v, want 8x6", got)
	}
	if !img.Opaque() {
		t.Error("loaded bitmap is not opaque; alpha should be flattened onto white")
	}
}

func TestLoadFileMissing(t *testing.T) {
	loader := NewLoader()
	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.jpg"))
	if !errors.Is(err, ErrImageLoad) {
		t.Errorf("error = %v, want ErrImageLoad", err)
	}
}

func TestLoadFileUndecodable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-image.jpg")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()
	_, err := loader.Load(path)
	if !errors.Is(err, ErrImageLoad) {
		t.Errorf("error = %v, want ErrImageLoad", err)
	}
}

func TestLoadURL(t *testing.T) {
	data := testJPEG(t, 10, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("request missing User-Agent header")
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(data)
	}))
	defer srv.Close()

	loader := NewLoader()
	img, err := loader.Load(srv.URL + "/photo.jpg")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := img.Bounds(); got.Dx() != 10 || got.Dy() != 4 {
		t.Errorf("bounds = %v, want 10x4", got)
	}
}

func TestLoadURLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	loader := NewLoader()
	_, err := loader.Load(srv.URL + "/gone.jpg")
	if !errors.Is(err, ErrImageLoad) {
		t.Errorf("error = %v, want ErrImageLoad", err)
	}
}

func TestFromImagePassThrough(t *testing.T) {
	opaque := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			opaque.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	loader := NewLoader()
	if got := loader.FromImage(opaque); got != opaque {
		t.Error("opaque RGBA input should pass through unchanged")
	}

	translucent := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	got := loader.FromImage(translucent)
	if !got.Opaque() {
		t.Error("normalized image is not opaque")
	}
}

func TestEncodeJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	data, err := EncodeJPEG(img)
	if err != nil {
		t.Fatalf("EncodeJPEG error: %v", err)
	}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("round-trip decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestReorientSwapsDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 3))
	for _, orientation := range []int{5, 6, 7, 8} {
		out := reorient(img, orientation)
		if out.Bounds().Dx() != 3 || out.Bounds().Dy() != 6 {
			t.Errorf("orientation %d: bounds = %v, want 3x6", orientation, out.Bounds())
		}
	}
	if out := reorient(img, 1); out != img {
		t.Error("orientation 1 should be a no-op")
	}
}

func TestReorientTransposePixels(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, red)
	img.Set(1, 0, blue)

	// Transpose mirrors along the top-left diagonal.
	out := reorient(img, 5)
	if got := out.At(0, 0); got != red {
		t.Errorf("orientation 5: pixel (0,0) = %v, want red", got)
	}
	if got := out.At(0, 1); got != blue {
		t.Errorf("orientation 5: pixel (0,1) = %v, want blue", got)
	}

	// Transverse mirrors along the bottom-left diagonal.
	out = reorient(img, 7)
	if got := out.At(0, 0); got != blue {
		t.Errorf("orientation 7: pixel (0,0) = %v, want blue", got)
	}
	if got := out.At(0, 1); got != red {
		t.Errorf("orientation 7: pixel (0,1) = %v, want red", got)
	}
}
