package recolor

import (
	"cmp"
	"slices"
)

// SizeRank lists cluster ids ordered by ascending population, ties broken by
// cluster id. Rank r (1-based) is the cluster at index r-1, so rank 1 is the
// smallest cluster and rank k the largest.
type SizeRank []int

// RankBySize builds the rank table for the given per-cluster sizes.
func RankBySize(sizes []int) SizeRank {
	ids := make([]int, len(sizes))
	for i := range ids {
		ids[i] = i
	}
	slices.SortStableFunc(ids, func(a, b int) int {
		if c := cmp.Compare(sizes[a], sizes[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return SizeRank(ids)
}

// Cluster returns the cluster id holding rank r.
func (s SizeRank) Cluster(r int) (int, error) {
	if r < 1 || r > len(s) {
		return 0, invalid("rank", r, "must be between 1 and %d", len(s))
	}
	return s[r-1], nil
}

// Rank returns the 1-based rank of cluster id, or 0 if id is unknown.
func (s SizeRank) Rank(id int) int {
	if i := slices.Index(s, id); i >= 0 {
		return i + 1
	}
	return 0
}
