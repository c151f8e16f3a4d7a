// Package vecmath holds the brute-force similarity helpers shared by the
// local vector index backends.
package vecmath

import (
	"math"
	"sort"

	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// CosineDistance returns 1 - cos(a, b), in [0, 2].
// Vectors of different length or with zero magnitude are treated as
// orthogonal (distance 1).
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Clamp rounding drift.
	sim = math.Max(-1, math.Min(1, sim))
	return 1 - sim
}

// TopK sorts hits by ascending distance and keeps the first k.
// Ties keep their insertion order.
func TopK(hits []driven.VectorHit, k int) []driven.VectorHit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
