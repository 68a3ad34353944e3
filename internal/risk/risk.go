// Package risk classifies feeder loading and sizes the upgrade program
// for feeders that run too close to their thermal limits.
package risk

import (
	"sort"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

const (
	// DefaultThresholdPct is the loading level above which a feeder
	// counts as constrained unless the caller overrides it.
	DefaultThresholdPct = 85.0

	highLoadPct   = 85.0
	mediumLoadPct = 75.0

	// Per-feeder reinforcement assumptions used to cost the program.
	upgradeCostMUSD    = 2.5
	upgradeCapacityMVA = 5.0
)

// TierFor maps a feeder loading percentage to its constraint risk tier.
func TierFor(loadPct float64) models.RiskTier {
	switch {
	case loadPct > highLoadPct:
		return models.RiskHigh
	case loadPct > mediumLoadPct:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Constrained returns the feeders loaded strictly above thresholdPct,
// preserving input order.
func Constrained(feeders []models.Feeder, thresholdPct float64) []models.Feeder {
	out := make([]models.Feeder, 0)
	for _, f := range feeders {
		if f.LoadPct > thresholdPct {
			out = append(out, f)
		}
	}
	return out
}

// CountConstrained counts feeders loaded strictly above thresholdPct.
func CountConstrained(feeders []models.Feeder, thresholdPct float64) int {
	n := 0
	for _, f := range feeders {
		if f.LoadPct > thresholdPct {
			n++
		}
	}
	return n
}

// PlanUpgrades selects upgrade candidates and sizes the reinforcement
// program. A feeder qualifies when it is loaded above thresholdPct or
// already carries a high constraint risk. Candidates come back sorted by
// loading, worst first.
func PlanUpgrades(feeders []models.Feeder, thresholdPct float64) models.UpgradePlan {
	candidates := make([]models.Feeder, 0)
	for _, f := range feeders {
		if f.LoadPct > thresholdPct || f.Risk == models.RiskHigh {
			candidates = append(candidates, f)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].LoadPct > candidates[j].LoadPct
	})

	n := len(candidates)
	return models.UpgradePlan{
		Candidates:       candidates,
		Upgrades:         n,
		InvestmentMUSD:   float64(n) * upgradeCostMUSD,
		CapacityAddedMVA: float64(n) * upgradeCapacityMVA,
	}
}
