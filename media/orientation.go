package media

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

const orientationNormal = 1

// readOrientation returns the EXIF orientation of a JPEG file, or 1 when
// the file has none or is not a JPEG.
func readOrientation(path string) int {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jpg" && ext != ".jpeg" {
		return orientationNormal
	}
	f, err := os.Open(path)
	if err != nil {
		return orientationNormal
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return orientationNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil || tag == nil {
		return orientationNormal
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return orientationNormal
	}
	return v
}

// swapsAxes reports whether the orientation turns the image by 90 degrees.
func swapsAxes(orientation int) bool {
	return orientation >= 5 && orientation <= 8
}

// applyOrientation bakes an EXIF orientation into the pixels. Re-encoding
// drops the tag, so this has to happen before any rewrite.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
