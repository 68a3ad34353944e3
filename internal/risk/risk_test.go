package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name    string
		loadPct float64
		want    models.RiskTier
	}{
		{"light load", 60, models.RiskLow},
		{"exactly at medium boundary", 75, models.RiskLow},
		{"just above medium boundary", 75.1, models.RiskMedium},
		{"heavy load", 84.9, models.RiskMedium},
		{"exactly at high boundary", 85, models.RiskMedium},
		{"just above high boundary", 85.01, models.RiskHigh},
		{"overloaded", 97, models.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.loadPct))
		})
	}
}

func testFeeders() []models.Feeder {
	return []models.Feeder{
		{ID: "FEEDER_1", LoadPct: 92, Risk: models.RiskHigh},
		{ID: "FEEDER_2", LoadPct: 70, Risk: models.RiskLow},
		{ID: "FEEDER_3", LoadPct: 85, Risk: models.RiskMedium},
		{ID: "FEEDER_4", LoadPct: 88, Risk: models.RiskHigh},
		{ID: "FEEDER_5", LoadPct: 78, Risk: models.RiskMedium},
	}
}

func TestConstrained(t *testing.T) {
	feeders := testFeeders()

	constrained := Constrained(feeders, DefaultThresholdPct)
	assert.Len(t, constrained, 2)
	assert.Equal(t, "FEEDER_1", constrained[0].ID)
	assert.Equal(t, "FEEDER_4", constrained[1].ID)

	// A feeder sitting exactly on the threshold is not constrained.
	assert.Equal(t, 2, CountConstrained(feeders, 85))
	assert.Equal(t, 3, CountConstrained(feeders, 80))
	assert.Equal(t, 0, CountConstrained(feeders, 95))
	assert.Equal(t, len(feeders), CountConstrained(feeders, 0))
}

func TestConstrainedEmpty(t *testing.T) {
	assert.Empty(t, Constrained(nil, DefaultThresholdPct))
	assert.Zero(t, CountConstrained(nil, DefaultThresholdPct))
}

func TestPlanUpgrades(t *testing.T) {
	plan := PlanUpgrades(testFeeders(), DefaultThresholdPct)

	// FEEDER_1 and FEEDER_4 exceed the threshold; no other feeder
	// carries high risk, so the program covers exactly those two.
	assert.Equal(t, 2, plan.Upgrades)
	assert.Equal(t, "FEEDER_1", plan.Candidates[0].ID, "worst loading first")
	assert.Equal(t, "FEEDER_4", plan.Candidates[1].ID)
	assert.InDelta(t, 5.0, plan.InvestmentMUSD, 1e-9)
	assert.InDelta(t, 10.0, plan.CapacityAddedMVA, 1e-9)
}

func TestPlanUpgradesIncludesHighRiskBelowThreshold(t *testing.T) {
	feeders := []models.Feeder{
		{ID: "FEEDER_1", LoadPct: 82, Risk: models.RiskHigh},
		{ID: "FEEDER_2", LoadPct: 70, Risk: models.RiskLow},
	}

	plan := PlanUpgrades(feeders, 90)
	assert.Equal(t, 1, plan.Upgrades)
	assert.Equal(t, "FEEDER_1", plan.Candidates[0].ID)
}

func TestPlanUpgradesNoCandidates(t *testing.T) {
	feeders := []models.Feeder{
		{ID: "FEEDER_1", LoadPct: 60, Risk: models.RiskLow},
	}

	plan := PlanUpgrades(feeders, DefaultThresholdPct)
	assert.Zero(t, plan.Upgrades)
	assert.Empty(t, plan.Candidates)
	assert.Zero(t, plan.InvestmentMUSD)
	assert.Zero(t, plan.CapacityAddedMVA)
}
