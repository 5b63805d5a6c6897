package recolor_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/recolor"
)

func TestGridFromImage_RoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 60), uint8(y * 100), uint8(x*y*20 + 7), 255})
		}
	}

	g := recolor.GridFromImage(src)
	require.Equal(t, 4, g.W)
	require.Equal(t, 3, g.H)
	require.Len(t, g.Pix, 4*3*3)
	assert.InDelta(t, 60.0/255, g.At(1, 0)[0], 1e-12)

	assert.Equal(t, src.Pix, g.Image().Pix)
}

func TestGridFromImage_OffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(5, 6, color.RGBA{255, 0, 0, 255})
	sub := src.SubImage(image.Rect(5, 6, 8, 8))

	g := recolor.GridFromImage(sub)
	assert.Equal(t, 3, g.W)
	assert.Equal(t, 2, g.H)
	assert.Equal(t, [3]float64{1, 0, 0}, g.At(0, 0))
}

func TestPixelGrid_ImageClamps(t *testing.T) {
	g := recolor.NewPixelGrid(2, 1)
	g.Set(0, 0, [3]float64{1.7, -0.2, 0.5})
	g.Set(1, 0, [3]float64{0, 1, 0})

	img := g.Image()
	assert.Equal(t, color.RGBA{255, 0, 128, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(1, 0))
}

func TestPixelGrid_FlattenIsRowMajor(t *testing.T) {
	g := recolor.NewPixelGrid(3, 2)
	for y := range 2 {
		for x := range 3 {
			g.Set(x, y, [3]float64{float64(x), float64(y), float64(g.Index(x, y))})
		}
	}

	obs := g.Flatten()
	require.Equal(t, 6, obs.Len())
	for i := range obs.Len() {
		x, y := g.Position(i)
		assert.Equal(t, i, g.Index(x, y))
		assert.Equal(t, []float64{float64(x), float64(y), float64(i)}, obs.Row(i))
	}

	// Flatten copies, so mutating the observations leaves g intact.
	obs.Row(4)[0] = 99
	assert.Equal(t, 1.0, g.At(1, 1)[0])

	back := obs.Unflatten()
	assert.Equal(t, 3, back.W)
	assert.Equal(t, 2, back.H)
	assert.Equal(t, 99.0, back.At(1, 1)[0])
	assert.Equal(t, g.At(2, 0), back.At(2, 0))
}

func TestPixelGrid_Clone(t *testing.T) {
	g := recolor.NewPixelGrid(1, 1)
	c := g.Clone()
	c.Set(0, 0, [3]float64{1, 1, 1})
	assert.Equal(t, [3]float64{}, g.At(0, 0))
}
