// Package imageio decodes and encodes image files for the crop reviewer.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is an output image format, named by its canonical file extension
// without the leading dot.
type Format string

const (
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
	FormatTIFF Format = "tif"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
)

// Formats lists every supported output format.
var Formats = []Format{FormatJPEG, FormatPNG, FormatTIFF, FormatGIF, FormatBMP}

// Extensions lists every file extension, aliases included, that maps to a
// supported format.
var Extensions = []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".gif", ".bmp"}

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	return slices.Contains(Formats, f)
}

// Ext returns the extension for f including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

func (f Format) imaging() (imaging.Format, error) {
	switch f {
	case FormatJPEG:
		return imaging.JPEG, nil
	case FormatPNG:
		return imaging.PNG, nil
	case FormatTIFF:
		return imaging.TIFF, nil
	case FormatGIF:
		return imaging.GIF, nil
	case FormatBMP:
		return imaging.BMP, nil
	default:
		return 0, fmt.Errorf("unsupported format %q", string(f))
	}
}

// FormatFromPath returns the format matching the extension of path.
// Extension aliases (jpeg, tiff) map to their canonical format.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", fmt.Errorf("unsupported extension %q: %w", ext, err)
	}

	switch f {
	case imaging.JPEG:
		return FormatJPEG, nil
	case imaging.PNG:
		return FormatPNG, nil
	case imaging.TIFF:
		return FormatTIFF, nil
	case imaging.GIF:
		return FormatGIF, nil
	case imaging.BMP:
		return FormatBMP, nil
	}
	return "", fmt.Errorf("unsupported extension %q", ext)
}

// Options tunes encoding and decoding.
type Options struct {
	JPEGQuality    int
	PNGCompression png.CompressionLevel
	AutoOrient     bool
}

// DefaultOptions mirrors the imaging package defaults.
func DefaultOptions() Options {
	return Options{
		JPEGQuality:    95,
		PNGCompression: png.DefaultCompression,
	}
}

// Codec reads and writes images using the configured options.
type Codec struct {
	opts Options
}

// NewCodec creates a codec.
func NewCodec(opts Options) *Codec {
	return &Codec{opts: opts}
}

// Decode reads the image stored at path.
func (c *Codec) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(c.opts.AutoOrient))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Encode writes img to w in the given format.
func (c *Codec) Encode(w io.Writer, img image.Image, f Format) error {
	imgFmt, err := f.imaging()
	if err != nil {
		return err
	}

	return imaging.Encode(w, img, imgFmt,
		imaging.JPEGQuality(c.opts.JPEGQuality),
		imaging.PNGCompressionLevel(c.opts.PNGCompression),
	)
}

// Crop returns the sub-image bounded by r, given in coordinates relative to
// the image's top-left corner.
func Crop(img image.Image, r image.Rectangle) image.Image {
	return imaging.Crop(img, r.Add(img.Bounds().Min))
}
