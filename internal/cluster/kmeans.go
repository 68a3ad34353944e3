package cluster

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
)

const lloydIterations = 100

// kMeans runs Lloyd's algorithm over the row vectors of X and returns the
// cluster assignment per row. Centroids start on a random permutation of
// the input; a cluster that loses all members is reseeded from a random
// row so no label goes permanently dark.
func kMeans(X [][]float64, k int, seed uint64) []int {
	rng := rand.New(rand.NewSource(seed))
	n := len(X)
	dims := len(X[0])

	centroids := make([][]float64, k)
	perm := rng.Perm(n)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), X[perm[c]]...)
	}

	assign := make([]int, n)
	for iter := 0; iter < lloydIterations; iter++ {
		for i := range X {
			best, bestDist := 0, floats.Distance(X[i], centroids[0], 2)
			for c := 1; c < k; c++ {
				if d := floats.Distance(X[i], centroids[c], 2); d < bestDist {
					best, bestDist = c, d
				}
			}
			assign[i] = best
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, c := range assign {
			counts[c]++
			floats.Add(next[c], X[i])
		}
		for c := range next {
			if counts[c] == 0 {
				next[c] = append([]float64(nil), X[rng.Intn(n)]...)
				continue
			}
			floats.Scale(1/float64(counts[c]), next[c])
		}
		centroids = next
	}
	return assign
}
