// Package cluster groups feeders into DER adoption segments with seeded
// k-means over standardized feeder features.
package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

const (
	DefaultK    = 4
	DefaultSeed = 42
)

// clusterNames maps cluster labels to their segment names.
var clusterNames = []string{
	"High DER Density",
	"Moderate Load Growth",
	"Constrained Capacity",
	"Low DER Adoption",
}

// Name returns the segment name for a cluster label.
func Name(cluster int) string {
	if cluster >= 0 && cluster < len(clusterNames) {
		return clusterNames[cluster]
	}
	return fmt.Sprintf("Cluster %d", cluster)
}

// Assign clusters feeders into k DER adoption segments. Device activity
// sums enter the feature vector alongside the feeder's own loading and
// penetration figures; feeders without device activity get zero sums.
// Fewer feeders than clusters degrades to one cluster per feeder.
func Assign(feeders []models.Feeder, usage []models.FeederUsage, k int, seed int64) ([]models.ClusteredFeeder, []models.ClusterSummary, error) {
	if k <= 0 {
		return nil, nil, fmt.Errorf("cluster count must be positive, got %d", k)
	}
	if len(feeders) == 0 {
		return []models.ClusteredFeeder{}, []models.ClusterSummary{}, nil
	}
	if k > len(feeders) {
		k = len(feeders)
	}

	byFeeder := make(map[string]models.FeederUsage, len(usage))
	for _, u := range usage {
		byFeeder[u.FeederID] = u
	}

	X := featureMatrix(feeders, byFeeder)
	standardize(X)
	assign := kMeans(X, k, uint64(seed))

	clustered := make([]models.ClusteredFeeder, len(feeders))
	for i, f := range feeders {
		u := byFeeder[f.ID]
		clustered[i] = models.ClusteredFeeder{
			Feeder:      f,
			EVPowerKW:   u.EVPowerKW,
			SolarGenKW:  u.SolarGenKW,
			Cluster:     assign[i],
			ClusterName: Name(assign[i]),
		}
	}
	return clustered, summarize(feeders, assign, k), nil
}

// featureMatrix builds one row per feeder:
// loading, solar penetration, EV penetration, summed charger power,
// summed inverter generation, capacity.
func featureMatrix(feeders []models.Feeder, usage map[string]models.FeederUsage) [][]float64 {
	X := make([][]float64, len(feeders))
	for i, f := range feeders {
		u := usage[f.ID]
		X[i] = []float64{f.LoadPct, f.SolarPct, f.EVPct, u.EVPowerKW, u.SolarGenKW, f.CapacityMVA}
	}
	return X
}

// standardize shifts each column to zero mean and scales to unit variance
// using the population deviation. Constant columns are left centered at
// zero rather than divided by a zero sigma.
func standardize(X [][]float64) {
	if len(X) == 0 {
		return
	}
	col := make([]float64, len(X))
	for j := range X[0] {
		for i := range X {
			col[i] = X[i][j]
		}
		mean := stat.Mean(col, nil)
		sigma := stat.PopStdDev(col, nil)
		for i := range X {
			X[i][j] -= mean
			if sigma > 0 {
				X[i][j] /= sigma
			}
		}
	}
}

func summarize(feeders []models.Feeder, assign []int, k int) []models.ClusterSummary {
	members := make([][]int, k)
	for i, c := range assign {
		members[c] = append(members[c], i)
	}

	summaries := make([]models.ClusterSummary, 0, k)
	for c := 0; c < k; c++ {
		if len(members[c]) == 0 {
			continue
		}
		loads := make([]float64, len(members[c]))
		solar := make([]float64, len(members[c]))
		ev := make([]float64, len(members[c]))
		capacity := make([]float64, len(members[c]))
		for i, idx := range members[c] {
			loads[i] = feeders[idx].LoadPct
			solar[i] = feeders[idx].SolarPct
			ev[i] = feeders[idx].EVPct
			capacity[i] = feeders[idx].CapacityMVA
		}
		summaries = append(summaries, models.ClusterSummary{
			Cluster:         c,
			Name:            Name(c),
			Feeders:         len(members[c]),
			MeanLoadPct:     stat.Mean(loads, nil),
			MeanSolarPct:    stat.Mean(solar, nil),
			MeanEVPct:       stat.Mean(ev, nil),
			MeanCapacityMVA: stat.Mean(capacity, nil),
		})
	}
	return summaries
}
