package recolor

import (
	"log"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultPaletteSize = 10
	DefaultIterations  = 20
	DefaultSeed        = 1
)

// ReplacementSpec selects which clusters get recolored and how.
type ReplacementSpec struct {
	// Number of clusters (k).
	PaletteSize int `yaml:"palette_size"`
	// 1-based size ranks to recolor. Rank 1 is the smallest cluster.
	// Empty leaves the image untouched.
	Ranks []int `yaml:"replacement_ranks"`
	// Share of a pixel's intensity given to each of R, G, B.
	// GrayFactors gives a neutral gray.
	RGBFactors [3]float64 `yaml:"rgb_factors"`
	// K-means iteration cap.
	Iterations int `yaml:"iterations"`
	// Seed for centroid initialization.
	Seed uint64 `yaml:"seed"`
}

// DefaultRanks returns every rank except the largest: 1..k-1.
func DefaultRanks(k int) []int {
	ranks := make([]int, 0, max(k-1, 0))
	for r := 1; r < k; r++ {
		ranks = append(ranks, r)
	}
	return ranks
}

// DefaultSpec grays out everything but the most populated of ten clusters.
func DefaultSpec() ReplacementSpec {
	return ReplacementSpec{
		PaletteSize: DefaultPaletteSize,
		Ranks:       DefaultRanks(DefaultPaletteSize),
		RGBFactors:  GrayFactors,
		Iterations:  DefaultIterations,
		Seed:        DefaultSeed,
	}
}

// Validate checks spec against a grid holding n pixels.
func (spec ReplacementSpec) Validate(n int) error {
	if spec.PaletteSize < 1 || spec.PaletteSize > n {
		return invalid("palette_size", spec.PaletteSize, "must be between 1 and the number of pixels (%d)", n)
	}
	if spec.Iterations < 1 {
		return invalid("iterations", spec.Iterations, "must be at least 1")
	}
	if err := validateFactors(spec.RGBFactors); err != nil {
		return err
	}
	for _, r := range spec.Ranks {
		if r < 1 || r > spec.PaletteSize {
			return invalid("replacement_ranks", r, "rank must be between 1 and %d", spec.PaletteSize)
		}
	}
	return nil
}

// Result carries the recolored grid together with the clustering it was
// derived from.
type Result struct {
	Grid PixelGrid
	// Nil when no rank was selected and clustering was skipped.
	Clustering *Clustering
	Ranks      SizeRank
	// Number of pixels whose color was replaced.
	Recolored int
}

// Palette returns the cluster centroids in rank order, smallest cluster
// first.
func (r *Result) Palette() []colorful.Color {
	if r.Clustering == nil {
		return nil
	}
	out := make([]colorful.Color, 0, len(r.Ranks))
	for _, cid := range r.Ranks {
		c := r.Clustering.Centroids[cid]
		out = append(out, colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped())
	}
	return out
}

// Recolorer clusters a grid by color and rewrites the pixels of the selected
// clusters.
type Recolorer struct {
	Engine ClusterEngine
	Logger *log.Logger
}

// NewRecolorer returns a Recolorer whose engine shares logger.
func NewRecolorer(workers int, logger *log.Logger) *Recolorer {
	return &Recolorer{
		Engine: ClusterEngine{Workers: workers, Logger: logger},
		Logger: logger,
	}
}

// Recolor returns a recolored copy of grid. grid itself is not modified.
func (rc *Recolorer) Recolor(grid PixelGrid, spec ReplacementSpec) (PixelGrid, error) {
	res, err := rc.RecolorDetailed(grid, spec)
	if err != nil {
		return PixelGrid{}, err
	}
	return res.Grid, nil
}

// RecolorDetailed is Recolor but also returns the clustering and rank table.
//
// Every pixel in a selected cluster is replaced by
// sqrt(intensity * RGBFactors[c]) per channel c, where intensity is the sum of
// squares of its original channels.
func (rc *Recolorer) RecolorDetailed(grid PixelGrid, spec ReplacementSpec) (*Result, error) {
	if grid.W < 0 || grid.H < 0 || len(grid.Pix) != grid.W*grid.H*3 {
		return nil, invalid("grid", [2]int{grid.W, grid.H}, "pixel buffer holds %d values", len(grid.Pix))
	}
	if err := spec.Validate(grid.Len()); err != nil {
		return nil, err
	}
	if len(spec.Ranks) == 0 {
		return &Result{Grid: grid.Clone()}, nil
	}

	obs := grid.Flatten()
	cl, err := rc.Engine.Cluster(obs, spec.PaletteSize, spec.Iterations, spec.Seed)
	if err != nil {
		return nil, err
	}
	if !cl.Converged {
		rc.logf("kmeans did not converge in %d iterations, using last assignment", spec.Iterations)
	}

	ranks := RankBySize(cl.Sizes)
	replace := make([]bool, spec.PaletteSize)
	for r := 1; r <= len(ranks); r++ {
		if slices.Contains(spec.Ranks, r) {
			replace[ranks[r-1]] = true
		}
	}

	recolored := 0
	for i, cid := range cl.Assignment {
		if !replace[cid] {
			continue
		}
		row := obs.Row(i)
		intensity := Intensity(row)
		for c := range row {
			row[c] = math.Sqrt(intensity * spec.RGBFactors[c])
		}
		recolored++
	}
	rc.logf("recolored %d of %d pixels in %d clusters", recolored, obs.Len(), countTrue(replace))

	return &Result{
		Grid:       obs.Unflatten(),
		Clustering: cl,
		Ranks:      ranks,
		Recolored:  recolored,
	}, nil
}

func (rc *Recolorer) logf(format string, args ...any) {
	if rc.Logger != nil {
		rc.Logger.Printf(format, args...)
	}
}

func countTrue(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}
