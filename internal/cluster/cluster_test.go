package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

// Two well-separated feeder groups. Members of a group are identical so
// they can never land in different clusters.
func blobFeeders() ([]models.Feeder, []models.FeederUsage) {
	hot := models.Feeder{CapacityMVA: 25, LoadPct: 92, SolarPct: 38, EVPct: 14}
	cold := models.Feeder{CapacityMVA: 5, LoadPct: 61, SolarPct: 6, EVPct: 3}

	feeders := make([]models.Feeder, 0, 6)
	usage := make([]models.FeederUsage, 0, 6)
	for i := 0; i < 3; i++ {
		f := hot
		f.ID = "FEEDER_" + string(rune('1'+i))
		feeders = append(feeders, f)
		usage = append(usage, models.FeederUsage{FeederID: f.ID, EVPowerKW: 480, SolarGenKW: 310})
	}
	for i := 3; i < 6; i++ {
		f := cold
		f.ID = "FEEDER_" + string(rune('1'+i))
		feeders = append(feeders, f)
		usage = append(usage, models.FeederUsage{FeederID: f.ID, EVPowerKW: 12, SolarGenKW: 8})
	}
	return feeders, usage
}

func TestAssignDeterministic(t *testing.T) {
	feeders, usage := blobFeeders()

	first, firstSummary, err := Assign(feeders, usage, 2, DefaultSeed)
	assert.NoError(t, err)
	second, secondSummary, err := Assign(feeders, usage, 2, DefaultSeed)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSummary, secondSummary)
}

func TestAssignSeparatesGroups(t *testing.T) {
	feeders, usage := blobFeeders()

	clustered, summaries, err := Assign(feeders, usage, 2, DefaultSeed)
	assert.NoError(t, err)
	assert.Len(t, clustered, 6)

	hotLabel := clustered[0].Cluster
	coldLabel := clustered[3].Cluster
	assert.NotEqual(t, hotLabel, coldLabel)
	for i := 0; i < 3; i++ {
		assert.Equal(t, hotLabel, clustered[i].Cluster)
	}
	for i := 3; i < 6; i++ {
		assert.Equal(t, coldLabel, clustered[i].Cluster)
	}

	assert.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.Equal(t, 3, s.Feeders)
	}
}

func TestAssignCarriesUsageAndName(t *testing.T) {
	feeders, usage := blobFeeders()

	clustered, _, err := Assign(feeders, usage, 2, DefaultSeed)
	assert.NoError(t, err)

	assert.Equal(t, 480.0, clustered[0].EVPowerKW)
	assert.Equal(t, 310.0, clustered[0].SolarGenKW)
	for _, c := range clustered {
		assert.Equal(t, Name(c.Cluster), c.ClusterName)
	}
}

func TestAssignFewerFeedersThanClusters(t *testing.T) {
	feeders, usage := blobFeeders()
	feeders = feeders[:2]
	usage = usage[:2]
	// Make the pair distinct so each gets its own cluster.
	feeders[1].LoadPct = 70

	clustered, summaries, err := Assign(feeders, usage, DefaultK, DefaultSeed)
	assert.NoError(t, err)
	assert.Len(t, clustered, 2)
	assert.Len(t, summaries, 2)
	assert.NotEqual(t, clustered[0].Cluster, clustered[1].Cluster)
	for _, c := range clustered {
		assert.Less(t, c.Cluster, 2)
	}
}

func TestAssignEmptyInput(t *testing.T) {
	clustered, summaries, err := Assign(nil, nil, DefaultK, DefaultSeed)
	assert.NoError(t, err)
	assert.Empty(t, clustered)
	assert.Empty(t, summaries)
}

func TestAssignInvalidK(t *testing.T) {
	feeders, usage := blobFeeders()

	_, _, err := Assign(feeders, usage, 0, DefaultSeed)
	assert.Error(t, err)
	_, _, err = Assign(feeders, usage, -1, DefaultSeed)
	assert.Error(t, err)
}

func TestAssignMissingUsageDefaultsToZero(t *testing.T) {
	feeders, _ := blobFeeders()

	clustered, _, err := Assign(feeders, nil, 2, DefaultSeed)
	assert.NoError(t, err)
	for _, c := range clustered {
		assert.Zero(t, c.EVPowerKW)
		assert.Zero(t, c.SolarGenKW)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "High DER Density", Name(0))
	assert.Equal(t, "Moderate Load Growth", Name(1))
	assert.Equal(t, "Constrained Capacity", Name(2))
	assert.Equal(t, "Low DER Adoption", Name(3))
	assert.Equal(t, "Cluster 7", Name(7))
}

func TestStandardize(t *testing.T) {
	X := [][]float64{
		{2, 10, 5},
		{4, 10, 5},
		{6, 10, 5},
	}
	standardize(X)

	// First column: mean 4, population sigma sqrt(8/3).
	assert.InDelta(t, X[0][0], -X[2][0], 1e-9)
	assert.InDelta(t, 0, X[1][0], 1e-9)
	sum, sumSq := 0.0, 0.0
	for i := range X {
		sum += X[i][0]
		sumSq += X[i][0] * X[i][0]
	}
	assert.InDelta(t, 0, sum, 1e-9)
	assert.InDelta(t, 3, sumSq, 1e-9, "unit population variance over three rows")

	// Constant columns collapse to zero.
	for i := range X {
		assert.Zero(t, X[i][1])
		assert.Zero(t, X[i][2])
	}
}

func TestSummarizeMeans(t *testing.T) {
	feeders := []models.Feeder{
		{ID: "FEEDER_1", LoadPct: 90, SolarPct: 30, EVPct: 12, CapacityMVA: 20},
		{ID: "FEEDER_2", LoadPct: 80, SolarPct: 20, EVPct: 8, CapacityMVA: 10},
		{ID: "FEEDER_3", LoadPct: 60, SolarPct: 10, EVPct: 4, CapacityMVA: 5},
	}
	assign := []int{0, 0, 1}

	summaries := summarize(feeders, assign, 2)
	assert.Len(t, summaries, 2)

	assert.Equal(t, 2, summaries[0].Feeders)
	assert.InDelta(t, 85, summaries[0].MeanLoadPct, 1e-9)
	assert.InDelta(t, 25, summaries[0].MeanSolarPct, 1e-9)
	assert.InDelta(t, 10, summaries[0].MeanEVPct, 1e-9)
	assert.InDelta(t, 15, summaries[0].MeanCapacityMVA, 1e-9)

	assert.Equal(t, 1, summaries[1].Feeders)
	assert.InDelta(t, 60, summaries[1].MeanLoadPct, 1e-9)
}
