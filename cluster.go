package recolor

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/muesli/clusters"
	"golang.org/x/sync/errgroup"
)

// Clustering is the result of ClusterEngine.Cluster.
type Clustering struct {
	// Cluster id in [0,k) for every observation, indexed like the
	// ObservationSet rows.
	Assignment []int
	// Population per cluster id. Sums to the number of observations.
	Sizes []int
	// Final centroid per cluster id.
	Centroids [][3]float64
	// Number of assignment passes performed.
	Iterations int
	// False when the iteration cap was reached while assignments were still
	// changing. The assignment is usable either way.
	Converged bool
}

// ClusterEngine runs Lloyd's k-means over RGB observations using squared
// Euclidean distance.
//
// Initial centroids are k distinct observations sampled with a PCG source
// seeded by the caller, so the result is a pure function of the inputs and
// the seed. An observation stays in its current cluster when that cluster is
// tied for nearest.
//
// A cluster left empty after a centroid update takes over the observation
// farthest from its own centroid, picked among clusters that still have more
// than one member (ties go to the lowest observation index). Because k never
// exceeds the number of observations, no cluster is empty on return.
type ClusterEngine struct {
	// Workers partitions the assignment step. Values below 2 run it on the
	// calling goroutine. The result does not depend on this value.
	Workers int
	// Logger receives per-iteration progress. Nil disables logging.
	Logger *log.Logger
}

// Cluster partitions obs into k clusters, running at most maxIterations
// assignment passes.
func (e ClusterEngine) Cluster(obs ObservationSet, k, maxIterations int, seed uint64) (*Clustering, error) {
	n := obs.Len()
	if k < 1 || k > n {
		return nil, invalid("k", k, "must be between 1 and the number of observations (%d)", n)
	}
	if maxIterations < 1 {
		return nil, invalid("max_iterations", maxIterations, "must be at least 1")
	}

	points := make(clusters.Observations, n)
	for i := range n {
		row := obs.Row(i)
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, invalid("observations", row, "observation %d is not finite", i)
			}
		}
		points[i] = clusters.Coordinates(row)
	}

	cc := initCenters(points, k, seed)
	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	res := &Clustering{}
	for it := 1; it <= maxIterations; it++ {
		changed, err := e.assign(cc, points, assign)
		if err != nil {
			return nil, err
		}
		res.Iterations = it
		if changed == 0 {
			res.Converged = true
			e.logf("kmeans iter %d/%d converged", it, maxIterations)
			break
		}
		recenter(cc, points, assign)
		reseeded := reseedEmpty(cc, points, assign)
		if it == 1 || it == maxIterations || it%10 == 0 || reseeded > 0 {
			e.logf("kmeans iter %d/%d changed=%d reseeded=%d", it, maxIterations, changed, reseeded)
		}
	}

	res.Assignment = assign
	res.Sizes = countSizes(assign, k)
	res.Centroids = make([][3]float64, k)
	for ci := range cc {
		copy(res.Centroids[ci][:], cc[ci].Center)
	}
	return res, nil
}

func (e ClusterEngine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

// assign moves every observation to its nearest centroid and returns the
// number of observations whose cluster changed. All workers finish before it
// returns, so centroids are never updated mid-pass.
func (e ClusterEngine) assign(cc clusters.Clusters, points clusters.Observations, assign []int) (int, error) {
	workers := min(max(e.Workers, 1), len(points))
	chunk := (len(points) + workers - 1) / workers
	changed := make([]int, workers)

	var g errgroup.Group
	for w := range workers {
		lo := w * chunk
		hi := min(lo+chunk, len(points))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				ci := nearest(cc, points[i], assign[i])
				if ci != assign[i] {
					assign[i] = ci
					changed[w]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, c := range changed {
		total += c
	}
	return total, nil
}

func nearest(cc clusters.Clusters, p clusters.Observation, current int) int {
	ci := cc.Nearest(p)
	if current >= 0 && current != ci && p.Distance(cc[current].Center) <= p.Distance(cc[ci].Center) {
		return current
	}
	return ci
}

// initCenters picks k distinct observations with Floyd's sampling.
func initCenters(points clusters.Observations, k int, seed uint64) clusters.Clusters {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	n := len(points)
	chosen := make(map[int]struct{}, k)
	cc := make(clusters.Clusters, 0, k)
	for j := n - k; j < n; j++ {
		t := rng.IntN(j + 1)
		if _, ok := chosen[t]; ok {
			t = j
		}
		chosen[t] = struct{}{}
		center := append(clusters.Coordinates(nil), points[t].Coordinates()...)
		cc = append(cc, clusters.Cluster{Center: center})
	}
	return cc
}

// recenter sets every non-empty centroid to the mean of its members. Empty
// clusters keep their previous centroid.
func recenter(cc clusters.Clusters, points clusters.Observations, assign []int) {
	cc.Reset()
	for i, p := range points {
		cc[assign[i]].Append(p)
	}
	cc.Recenter()
}

func reseedEmpty(cc clusters.Clusters, points clusters.Observations, assign []int) int {
	sizes := countSizes(assign, len(cc))
	moved := 0
	for ci := range cc {
		if sizes[ci] > 0 {
			continue
		}
		far, farDist := -1, -1.0
		for i, p := range points {
			if sizes[assign[i]] < 2 {
				continue
			}
			if d := p.Distance(cc[assign[i]].Center); d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			break
		}
		sizes[assign[far]]--
		assign[far] = ci
		sizes[ci] = 1
		cc[ci].Center = append(clusters.Coordinates(nil), points[far].Coordinates()...)
		moved++
	}
	if moved > 0 {
		recenter(cc, points, assign)
	}
	return moved
}

func countSizes(assign []int, k int) []int {
	sizes := make([]int, k)
	for _, ci := range assign {
		sizes[ci]++
	}
	return sizes
}
