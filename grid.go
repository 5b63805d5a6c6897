package recolor

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"
)

// PixelGrid is an RGB image stored as interleaved float64 channels
// normalized to [0,1]. Pixels are laid out row-major: the pixel at (x, y)
// starts at Pix[(y*W+x)*3].
type PixelGrid struct {
	W, H int
	Pix  []float64 // len = W*H*3
}

// NewPixelGrid returns a black grid of the given size.
func NewPixelGrid(w, h int) PixelGrid {
	w, h = max(w, 0), max(h, 0)
	return PixelGrid{W: w, H: h, Pix: make([]float64, w*h*3)}
}

// GridFromImage converts img into a PixelGrid. Alpha is ignored.
func GridFromImage(img image.Image) PixelGrid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := NewPixelGrid(w, h)
	for y := range h {
		for x := range w {
			r, gr, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := pixOffset(w, x, y)
			g.Pix[off] = float64(r) / 65535.0
			g.Pix[off+1] = float64(gr) / 65535.0
			g.Pix[off+2] = float64(b) / 65535.0
		}
	}
	return g
}

// Image converts the grid into an opaque RGBA image. Channel values outside
// [0,1] are clamped.
func (g PixelGrid) Image() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for y := range g.H {
		for x := range g.W {
			off := pixOffset(g.W, x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: channel8(g.Pix[off]),
				G: channel8(g.Pix[off+1]),
				B: channel8(g.Pix[off+2]),
				A: 255,
			})
		}
	}
	return out
}

// At returns the color of the pixel at (x, y).
func (g PixelGrid) At(x, y int) [3]float64 {
	off := pixOffset(g.W, x, y)
	return [3]float64{g.Pix[off], g.Pix[off+1], g.Pix[off+2]}
}

// Set overwrites the pixel at (x, y).
func (g PixelGrid) Set(x, y int, c [3]float64) {
	off := pixOffset(g.W, x, y)
	copy(g.Pix[off:off+3], c[:])
}

// Clone returns a deep copy of g.
func (g PixelGrid) Clone() PixelGrid {
	return PixelGrid{W: g.W, H: g.H, Pix: append([]float64(nil), g.Pix...)}
}

// Len is the number of pixels in the grid.
func (g PixelGrid) Len() int {
	return g.W * g.H
}

// Index maps (x, y) to the observation index used by Flatten.
func (g PixelGrid) Index(x, y int) int {
	return y*g.W + x
}

// Position is the inverse of Index.
func (g PixelGrid) Position(i int) (x, y int) {
	return i % g.W, i / g.W
}

// ObservationSet is a flattened PixelGrid: one row per pixel, three columns
// (R, G, B). Row i holds the pixel at PixelGrid.Position(i).
type ObservationSet struct {
	W, H int
	M    *mat.Dense
}

// Flatten copies the grid into an ObservationSet.
func (g PixelGrid) Flatten() ObservationSet {
	n := g.Len()
	if n == 0 {
		return ObservationSet{W: g.W, H: g.H}
	}
	return ObservationSet{
		W: g.W,
		H: g.H,
		M: mat.NewDense(n, 3, append([]float64(nil), g.Pix...)),
	}
}

// NewObservationSet builds a single-row (W=len, H=1) set from raw colors.
func NewObservationSet(colors [][3]float64) ObservationSet {
	if len(colors) == 0 {
		return ObservationSet{}
	}
	data := make([]float64, 0, len(colors)*3)
	for _, c := range colors {
		data = append(data, c[0], c[1], c[2])
	}
	return ObservationSet{W: len(colors), H: 1, M: mat.NewDense(len(colors), 3, data)}
}

// Len is the number of observations.
func (o ObservationSet) Len() int {
	if o.M == nil {
		return 0
	}
	n, _ := o.M.Dims()
	return n
}

// Row returns observation i. The slice aliases the underlying matrix.
func (o ObservationSet) Row(i int) []float64 {
	return o.M.RawRowView(i)
}

// Unflatten copies the observations back into a PixelGrid with the original
// dimensions.
func (o ObservationSet) Unflatten() PixelGrid {
	g := NewPixelGrid(o.W, o.H)
	for i := range o.Len() {
		x, y := g.Position(i)
		copy(g.Pix[pixOffset(g.W, x, y):], o.Row(i))
	}
	return g
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 3
}

func channel8(v float64) uint8 {
	return uint8(max(0, min(255, v*255+0.5)))
}
