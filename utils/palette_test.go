package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoColorImage(major, minor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			c := major
			if y >= 6 {
				c = minor
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestParsePaletteMethod(t *testing.T) {
	m, ok := ParsePaletteMethod("KMeans")
	assert.True(t, ok)
	assert.Equal(t, PaletteMethodKMeans, m)
	assert.Equal(t, "kmeans", m.String())

	m, ok = ParsePaletteMethod("dominant")
	assert.True(t, ok)
	assert.Equal(t, PaletteMethodDominantColor, m)

	_, ok = ParsePaletteMethod("median-cut")
	assert.False(t, ok)
}

func TestParseTint_Hex(t *testing.T) {
	c, err := ParseTint("#ff0000", nil)
	require.NoError(t, err)
	assert.Equal(t, colorful.Color{R: 1}, c)

	c, err = ParseTint("00ff00", nil)
	require.NoError(t, err)
	assert.Equal(t, colorful.Color{G: 1}, c)

	_, err = ParseTint("not-a-color", nil)
	assert.Error(t, err)

	_, err = ParseTint("kmeans", nil)
	assert.Error(t, err, "palette methods need an image")
}

func TestKMeansColor(t *testing.T) {
	img := twoColorImage(color.RGBA{0, 0, 255, 255}, color.RGBA{255, 255, 0, 255})
	c, err := KMeansColor(img, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, c.R, 1e-9)
	assert.InDelta(t, 0.0, c.G, 1e-9)
	assert.InDelta(t, 1.0, c.B, 1e-9)
}

func TestKMeansColor_Empty(t *testing.T) {
	_, err := KMeansColor(image.NewRGBA(image.Rect(0, 0, 0, 0)), 3)
	assert.ErrorIs(t, err, errEmptyImage)

	_, err = KMeansColor(image.NewNRGBA(image.Rect(0, 0, 4, 4)), 3)
	assert.ErrorIs(t, err, errEmptyImage, "fully transparent image")
}

func TestPaletteImage(t *testing.T) {
	palette := []colorful.Color{{R: 1}, {G: 1}, {B: 1}}
	img, err := PaletteImage(palette, 4)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 4), img.Bounds())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 3))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(5, 0))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(11, 2))

	_, err = PaletteImage(nil, 4)
	assert.Error(t, err)
}
