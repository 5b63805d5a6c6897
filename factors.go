package recolor

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// GrayFactors spreads intensity evenly over the channels, producing a neutral
// gray with the same sum of squares as the original color.
var GrayFactors = [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}

// FactorsFromColor returns rgb factors that turn a replaced pixel into a
// shade of c with unchanged intensity. The factors sum to 1.
func FactorsFromColor(c colorful.Color) ([3]float64, error) {
	c = c.Clamped()
	v := []float64{c.R, c.G, c.B}
	energy := floats.Dot(v, v)
	if energy == 0 {
		return [3]float64{}, invalid("tint", c.Hex(), "black carries no hue")
	}
	floats.Mul(v, v)
	floats.Scale(1/energy, v)
	return [3]float64{v[0], v[1], v[2]}, nil
}

// Intensity is the sum of squares of the channel values.
func Intensity(c []float64) float64 {
	return floats.Dot(c, c)
}

func validateFactors(f [3]float64) error {
	for i, v := range f {
		if v < 0 || math.IsNaN(v) {
			return invalid("rgb_factors", f, "channel %d must be non-negative", i)
		}
	}
	return nil
}
