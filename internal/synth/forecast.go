package synth

import (
	"fmt"
	"math"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

// Forecast assumptions. Penetration compounds annually from the base year
// and saturates at the caps; connected DER capacity converts penetration
// to MW across the feeder fleet.
const (
	ForecastBaseYear    = 2024
	ForecastHorizonYear = ForecastBaseYear + 10

	baseEVPct    = 8.0
	baseSolarPct = 15.0
	evCapPct     = 85.0
	solarCapPct  = 60.0
	evUnitKW     = 7.2
	solarUnitKW  = 5.0
)

// scenarioGrowth holds the annual growth rates per adoption scenario.
var scenarioGrowth = map[models.Scenario]struct{ EV, Solar float64 }{
	models.ScenarioConservative: {EV: 0.15, Solar: 0.08},
	models.ScenarioModerate:     {EV: 0.25, Solar: 0.12},
	models.ScenarioAggressive:   {EV: 0.35, Solar: 0.18},
}

// GenerateForecasts builds the adoption forecast table for every scenario
// and horizon year. The table is closed-form and carries no randomness.
func GenerateForecasts(feeders int) []models.AdoptionForecast {
	if feeders < 0 {
		feeders = 0
	}
	years := ForecastHorizonYear - ForecastBaseYear + 1
	out := make([]models.AdoptionForecast, 0, years*len(models.Scenarios))
	for year := ForecastBaseYear; year <= ForecastHorizonYear; year++ {
		n := float64(year - ForecastBaseYear)
		for _, sc := range models.Scenarios {
			g := scenarioGrowth[sc]
			ev := math.Min(baseEVPct*math.Pow(1+g.EV, n), evCapPct)
			solar := math.Min(baseSolarPct*math.Pow(1+g.Solar, n), solarCapPct)
			out = append(out, models.AdoptionForecast{
				Year:       year,
				Scenario:   sc,
				EVPct:      ev,
				SolarPct:   solar,
				TotalDERMW: (ev*evUnitKW + solar*solarUnitKW) * float64(feeders),
			})
		}
	}
	return out
}

// ProjectionAt returns the forecast for one scenario and year together
// with deltas against the scenario's base-year row.
func ProjectionAt(forecasts []models.AdoptionForecast, scenario models.Scenario, year int) (models.Projection, error) {
	var current, base *models.AdoptionForecast
	for i := range forecasts {
		f := &forecasts[i]
		if f.Scenario != scenario {
			continue
		}
		if f.Year == year {
			current = f
		}
		if f.Year == ForecastBaseYear {
			base = f
		}
	}
	if current == nil || base == nil {
		return models.Projection{}, fmt.Errorf("no forecast for scenario %s in year %d", scenario, year)
	}
	return models.Projection{
		Year:          current.Year,
		Scenario:      current.Scenario,
		EVPct:         current.EVPct,
		SolarPct:      current.SolarPct,
		TotalDERMW:    current.TotalDERMW,
		EVDeltaPct:    current.EVPct - base.EVPct,
		SolarDeltaPct: current.SolarPct - base.SolarPct,
		DERDeltaMW:    current.TotalDERMW - base.TotalDERMW,
	}, nil
}
