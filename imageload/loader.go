// Package imageload resolves an image reference (local path, http(s) URL,
// or already-decoded image) into an opaque RGB bitmap ready for the vision
// model.
package imageload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/rwcarlsen/goexif/exif"
	xdraw "golang.org/x/image/draw"
)

const (
	fetchTimeout = 10 * time.Second
	// Some image hosts reject requests without a browser-like agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	jpegQuality = 90
)

// ErrImageLoad wraps every load failure: unreachable URL, non-2xx status,
// missing file, or undecodable bytes. A single failure is terminal for the
// call; there are no retries.
var ErrImageLoad = errors.New("image load failed")

// Loader fetches and decodes images.
type Loader struct {
	client *http.Client
}

// NewLoader creates a loader with a bounded fetch timeout.
func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Load resolves a path or http(s) URL into a normalized RGB bitmap.
func (l *Loader) Load(source string) (*image.RGBA, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.loadURL(source)
	}
	return l.loadFile(source)
}

// FromImage normalizes an already-decoded image. Opaque RGBA input passes
// through unchanged.
func (l *Loader) FromImage(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Opaque() {
		return rgba
	}
	return toRGB(img)
}

func (l *Loader) loadURL(imageURL string) (*image.RGBA, error) {
	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %v", ErrImageLoad, imageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %q: %v", ErrImageLoad, imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: fetching %q: status %d", ErrImageLoad, imageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrImageLoad, imageURL, err)
	}

	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	log.WithField("url", imageURL).Info("loaded image from URL")
	return img, nil
}

func (l *Loader) loadFile(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrImageLoad, path, err)
	}
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	log.WithField("path", path).Info("loaded image from file")
	return img, nil
}

// decode parses image bytes, applies EXIF orientation when present, and
// normalizes to opaque RGBA.
func decode(data []byte) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", ErrImageLoad, err)
	}

	if orientation := exifOrientation(data); orientation != 1 {
		img = reorient(img, orientation)
		log.WithField("orientation", orientation).Debug("applied orientation correction")
	}

	return toRGB(img), nil
}

// toRGB redraws any image onto an opaque RGBA canvas, discarding alpha and
// palette/grayscale color models.
func toRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(image.White), image.Point{}, draw.Src)
	xdraw.Draw(out, out.Bounds(), img, bounds.Min, xdraw.Over)
	return out
}

// EncodeJPEG renders a bitmap to JPEG bytes for the model request body.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// exifOrientation extracts the JPEG EXIF orientation tag, defaulting to 1.
func exifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// reorient applies the EXIF orientation transform.
func reorient(img image.Image, orientation int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch orientation {
	case 2: // flip horizontal
		out := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(width-1-x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return out
	case 3: // rotate 180
		out := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(width-1-x, height-1-y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return out
	case 4: // flip vertical
		out := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(x, height-1-y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return out
	case 5: // transpose: flip along top-left diagonal
		out := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(y, x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return out
	case 6: // rotate 90 clockwise
		out := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(height-1-y, x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return out
	case 7: // transverse: flip along bottom-left diagonal
		out := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(height-1-y, width-1-x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return out
	case 8: // rotate 90 counter-clockwise
		out := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(y, width-1-x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return out
	default:
		return img
	}
}
