package media

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

const (
	DefaultJPEGQuality = 90
	DefaultWebPQuality = 100
)

// WebPEncodeFunc encodes img as WebP at the given quality (0-100).
type WebPEncodeFunc func(w io.Writer, img image.Image, quality int) error

// Codec decodes gallery images and re-encodes them in a format chosen by
// file extension.
type Codec struct {
	JPEGQuality int
	WebPQuality int

	// EncodeWebP defaults to libwebp through go-webp
	EncodeWebP WebPEncodeFunc
}

// NewCodec returns a Codec with the given qualities; zero values take the
// package defaults.
func NewCodec(jpegQuality, webpQuality int) *Codec {
	if jpegQuality <= 0 {
		jpegQuality = DefaultJPEGQuality
	}
	if webpQuality <= 0 {
		webpQuality = DefaultWebPQuality
	}
	return &Codec{JPEGQuality: jpegQuality, WebPQuality: webpQuality, EncodeWebP: EncodeWebP}
}

// EncodeWebP writes img as lossy WebP.
func EncodeWebP(w io.Writer, img image.Image, quality int) error {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return fmt.Errorf("invalid webp options: %w", err)
	}
	if err := webp.Encode(w, img, options); err != nil {
		return fmt.Errorf("webp encoding failed: %w", err)
	}
	return nil
}

// ImageInfo describes an image as it will be displayed: width and height
// already account for EXIF rotation.
type ImageInfo struct {
	Width       int
	Height      int
	Format      string
	Orientation int
}

// Probe reads only the header of the image at path.
func (c *Codec) Probe(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to read image header %s: %w", path, err)
	}
	info := ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format, Orientation: readOrientation(path)}
	if swapsAxes(info.Orientation) {
		info.Width, info.Height = info.Height, info.Width
	}
	return info, nil
}

// Decode loads the image at path upright.
func (c *Codec) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return applyOrientation(img, readOrientation(path)), nil
}

// Encode writes img in the format implied by ext.
func (c *Codec) Encode(w io.Writer, img image.Image, ext string) error {
	ext = strings.ToLower(ext)
	if ext == ".webp" {
		encode := c.EncodeWebP
		if encode == nil {
			encode = EncodeWebP
		}
		return encode(w, img, c.WebPQuality)
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", ext, err)
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(c.JPEGQuality))
}

// EncodeForPath encodes img for the file name in path.
func (c *Codec) EncodeForPath(w io.Writer, img image.Image, path string) error {
	return c.Encode(w, img, filepath.Ext(path))
}
