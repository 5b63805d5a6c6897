package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominant"
	}
}

// ParsePaletteMethod accepts "dominant" and "kmeans".
func ParsePaletteMethod(s string) (PaletteMethod, bool) {
	switch strings.ToLower(s) {
	case "dominant", "dominantcolor":
		return PaletteMethodDominantColor, true
	case "kmeans":
		return PaletteMethodKMeans, true
	}
	return 0, false
}

var errEmptyImage = errors.New("image has no opaque pixels")

// DominantColor returns the most dominant color of img.
func DominantColor(img image.Image) colorful.Color {
	col, _ := colorful.MakeColor(dominantcolor.Find(img))
	return col.Clamped()
}

// KMeansColor returns the center of the most populated cluster found by
// k-means over a subsample of img.
func KMeansColor(img image.Image, k int) (colorful.Color, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 || k <= 0 {
		return colorful.Color{}, errEmptyImage
	}

	// Subsample to keep kmeans tractable on large images.
	maxSamples := 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return colorful.Color{}, errEmptyImage
	}

	cc, err := kmeans.New().Partition(dataset, min(k, len(dataset)))
	if err != nil {
		return colorful.Color{}, err
	}
	best := slices.MaxFunc(cc, func(a, b clusters.Cluster) int {
		return len(a.Observations) - len(b.Observations)
	})
	if len(best.Center) < 3 {
		return colorful.Color{}, errEmptyImage
	}
	return colorful.Color{R: best.Center[0], G: best.Center[1], B: best.Center[2]}.Clamped(), nil
}

// ExtractColor picks a representative color of img with the given method.
// A failed k-means run falls back to the dominant color.
func ExtractColor(img image.Image, method PaletteMethod) colorful.Color {
	if method == PaletteMethodKMeans {
		c, err := KMeansColor(img, 5)
		if err == nil {
			return c
		}
		log.Printf("palette warning: kmeans failed (%v), falling back to dominant color", err)
	}
	return DominantColor(img)
}

// ParseTint resolves a tint argument: a hex color such as "#ff8800", or a
// palette method name taking the color from img.
func ParseTint(s string, img image.Image) (colorful.Color, error) {
	if method, ok := ParsePaletteMethod(s); ok {
		if img == nil {
			return colorful.Color{}, fmt.Errorf("tint %q needs an input image", s)
		}
		return ExtractColor(img, method), nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("tint %q: %w", s, err)
	}
	return c, nil
}

// PaletteImage draws one tileSize square per color, left to right.
func PaletteImage(palette []colorful.Color, tileSize int) (*image.RGBA, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := range h {
			for x := x0; x < x1; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}
	return img, nil
}

// SavePalette writes the palette swatch to filename.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	img, err := PaletteImage(palette, tileSize)
	if err != nil {
		return err
	}
	return SaveImage(img, filename, DefaultSaveOptions())
}
