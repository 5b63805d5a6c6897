package utils

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// PipeName reads from stdin or writes to stdout in place of a file.
const PipeName = "-"

// SaveOptions controls encoding.
type SaveOptions struct {
	// JPEG quality in 1..100. Ignored by other formats.
	Quality int
	// Format used when writing to stdout, e.g. "png" or "jpg".
	Format string
}

func DefaultSaveOptions() SaveOptions {
	return SaveOptions{Quality: 95, Format: "png"}
}

// ReadImage decodes the image at path, applying EXIF orientation.
// Decoding errors are returned unchanged.
func ReadImage(path string) (image.Image, error) {
	if path == PipeName {
		return DecodeImage(os.Stdin)
	}
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// DecodeImage decodes any registered format (jpeg, png, gif, bmp, tiff, webp).
func DecodeImage(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// SaveImage encodes img to filename, choosing the format from the file
// extension.
func SaveImage(img image.Image, filename string, opt SaveOptions) error {
	if filename == PipeName {
		return EncodeImage(os.Stdout, img, opt)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return imaging.Save(img, filename, imaging.JPEGQuality(quality(opt)))
}

// EncodeImage writes img to w in opt.Format.
func EncodeImage(w io.Writer, img image.Image, opt SaveOptions) error {
	name := "out." + strings.TrimPrefix(opt.Format, ".")
	if opt.Format == "" {
		name = "out.png"
	}
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return fmt.Errorf("output format %q: %w", opt.Format, err)
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(quality(opt)))
}

func quality(opt SaveOptions) int {
	if opt.Quality <= 0 {
		return DefaultSaveOptions().Quality
	}
	return min(opt.Quality, 100)
}
