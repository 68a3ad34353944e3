// Package synth generates the synthetic DER fleet: smart meter loads,
// EV charger sessions, solar inverter output, feeder loading states and
// multi-year adoption forecasts. Generation is fully deterministic for a
// given Params value, so two runs with the same parameters produce
// identical datasets.
package synth

import (
	"fmt"
	"time"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/risk"
)

// Grid coordinates center on the NYC service territory.
const (
	baseLatitude  = 40.7128
	baseLongitude = -74.0060
)

// Seed offsets keep the four device streams independent so changing one
// fleet size never disturbs the others.
const (
	meterSeedOffset    = 0
	chargerSeedOffset  = 1
	inverterSeedOffset = 2
	feederSeedOffset   = 3
)

// Sampling strides over the hourly horizon.
const (
	meterStrideHours    = 24
	chargerStrideHours  = 24
	inverterStrideHours = 6
)

// Params controls one dataset generation run. Params is comparable so it
// can key a snapshot cache directly.
type Params struct {
	Seed      int64
	Meters    int
	Chargers  int
	Inverters int
	Feeders   int
	Days      int
	Start     time.Time
}

// DefaultParams returns the standard demo fleet.
func DefaultParams() Params {
	return Params{
		Seed:      42,
		Meters:    100,
		Chargers:  500,
		Inverters: 1000,
		Feeders:   50,
		Days:      30,
		Start:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate produces the full synthetic dataset for the given parameters.
// Collections whose count is zero or negative come back empty.
func Generate(p Params) *models.Dataset {
	return &models.Dataset{
		Meters:    GenerateMeters(p),
		Chargers:  GenerateChargers(p),
		Inverters: GenerateInverters(p),
		Feeders:   GenerateFeeders(p),
		Forecasts: GenerateForecasts(p.Feeders),
	}
}

// GenerateMeters produces one daily load sample per meter per day.
func GenerateMeters(p Params) []models.MeterReading {
	out := make([]models.MeterReading, 0, sampleCount(p, meterStrideHours)*max(p.Meters, 0))
	if p.Meters <= 0 || p.Days <= 0 {
		return out
	}

	s := newSampler(streamSeed(p.Seed, meterSeedOffset))
	times := sampleTimes(p.Start, p.Days, meterStrideHours)
	classWeights := []float64{0.7, 0.25, 0.05}
	classes := []models.MeterClass{models.MeterResidential, models.MeterCommercial, models.MeterIndustrial}

	for i := 1; i <= p.Meters; i++ {
		id := fmt.Sprintf("SM_%06d", i)
		class := classes[s.pick(classWeights)]

		for _, ts := range times {
			hour := ts.Hour()
			weekday := isWeekday(ts.Weekday())

			load := baseLoadKW(class, hour, weekday)
			if class == models.MeterIndustrial {
				load += 15.0 * s.normal(0, 0.2)
			}
			load *= seasonalFactor(int(ts.Month()))
			load *= 1.0 + s.normal(0, 0.1)
			if load < 0 {
				load = 0
			}

			out = append(out, models.MeterReading{
				ID:        id,
				Timestamp: ts,
				LoadKW:    load,
				Class:     class,
				Latitude:  baseLatitude + s.normal(0, 0.3),
				Longitude: baseLongitude + s.normal(0, 0.5),
				FeederID:  feederRef(s, p.Feeders),
			})
		}
	}
	return out
}

// GenerateChargers produces one daily telemetry sample per charger per day.
// A charger either draws power for the sampled hour or sits idle, decided
// by the occupancy pattern of its site class.
func GenerateChargers(p Params) []models.ChargerReading {
	out := make([]models.ChargerReading, 0, sampleCount(p, chargerStrideHours)*max(p.Chargers, 0))
	if p.Chargers <= 0 || p.Days <= 0 {
		return out
	}

	s := newSampler(streamSeed(p.Seed, chargerSeedOffset))
	times := sampleTimes(p.Start, p.Days, chargerStrideHours)
	classWeights := []float64{0.7, 0.2, 0.1}
	classes := []models.ChargerClass{models.ChargerLevel2, models.ChargerDCFast, models.ChargerSupercharger}
	siteWeights := []float64{0.4, 0.3, 0.2, 0.1}
	sites := []models.SiteClass{models.SiteResidential, models.SiteWorkplace, models.SitePublic, models.SiteHighway}

	for i := 1; i <= p.Chargers; i++ {
		id := fmt.Sprintf("EV_%06d", i)
		class := classes[s.pick(classWeights)]
		site := sites[s.pick(siteWeights)]
		maxKW := RatedPowerKW(class)

		for _, ts := range times {
			hour := ts.Hour()
			weekday := isWeekday(ts.Weekday())

			var power, energy float64
			if s.float() < usageProbability(site, hour, weekday) {
				power = maxKW * s.uniform(0.3, 1.0)
				energy = power * s.uniform(0.5, 4.0)
			}

			out = append(out, models.ChargerReading{
				ID:               id,
				Timestamp:        ts,
				PowerKW:          power,
				SessionEnergyKWh: energy,
				Class:            class,
				Site:             site,
				Latitude:         baseLatitude + s.normal(0, 0.3),
				Longitude:        baseLongitude + s.normal(0, 0.5),
				FeederID:         feederRef(s, p.Feeders),
			})
		}
	}
	return out
}

// GenerateInverters produces a generation sample every six hours per
// inverter. Output follows a daylight bell curve scaled by season and a
// per-sample cloud factor.
func GenerateInverters(p Params) []models.InverterReading {
	out := make([]models.InverterReading, 0, sampleCount(p, inverterStrideHours)*max(p.Inverters, 0))
	if p.Inverters <= 0 || p.Days <= 0 {
		return out
	}

	s := newSampler(streamSeed(p.Seed, inverterSeedOffset))
	times := sampleTimes(p.Start, p.Days, inverterStrideHours)
	sizeWeights := []float64{0.3, 0.25, 0.2, 0.15, 0.05, 0.03, 0.02}
	sizesKW := []float64{5, 7.5, 10, 15, 20, 50, 100}
	installWeights := []float64{0.7, 0.25, 0.05}
	installs := []models.InstallClass{models.InstallResidential, models.InstallCommercial, models.InstallUtility}

	for i := 1; i <= p.Inverters; i++ {
		id := fmt.Sprintf("PV_%06d", i)
		sizeKW := sizesKW[s.pick(sizeWeights)]
		install := installs[s.pick(installWeights)]

		for _, ts := range times {
			hour := ts.Hour()

			var gen float64
			if hour >= 6 && hour <= 18 {
				gen = sizeKW * solarHourFactor(hour) * solarSeasonalFactor(int(ts.Month())) * s.uniform(0.3, 1.0)
			}
			gen *= 1.0 + s.normal(0, 0.05)
			if gen < 0 {
				gen = 0
			}

			out = append(out, models.InverterReading{
				ID:           id,
				Timestamp:    ts,
				GenerationKW: gen,
				CapacityKW:   sizeKW,
				Install:      install,
				Latitude:     baseLatitude + s.normal(0, 0.3),
				Longitude:    baseLongitude + s.normal(0, 0.5),
				FeederID:     feederRef(s, p.Feeders),
			})
		}
	}
	return out
}

// GenerateFeeders produces the distribution feeder snapshot. Loading,
// penetration levels and coordinates are drawn once per feeder; the
// constraint risk tier follows directly from the loading level.
func GenerateFeeders(p Params) []models.Feeder {
	out := make([]models.Feeder, 0, max(p.Feeders, 0))
	if p.Feeders <= 0 {
		return out
	}

	s := newSampler(streamSeed(p.Seed, feederSeedOffset))
	capacityWeights := []float64{0.2, 0.3, 0.3, 0.15, 0.05}
	capacitiesMVA := []float64{5, 10, 15, 20, 25}
	voltageWeights := []float64{0.3, 0.4, 0.25, 0.05}
	voltagesKV := []float64{4.16, 12.47, 13.8, 23}

	for i := 1; i <= p.Feeders; i++ {
		loadPct := s.uniform(60, 95)

		out = append(out, models.Feeder{
			ID:              fmt.Sprintf("FEEDER_%d", i),
			CapacityMVA:     capacitiesMVA[s.pick(capacityWeights)],
			VoltageKV:       voltagesKV[s.pick(voltageWeights)],
			LoadPct:         loadPct,
			SolarPct:        s.uniform(5, 40),
			EVPct:           s.uniform(2, 15),
			Risk:            risk.TierFor(loadPct),
			UpgradePriority: s.intn(5) + 1,
			Latitude:        baseLatitude + s.normal(0, 0.2),
			Longitude:       baseLongitude + s.normal(0, 0.3),
		})
	}
	return out
}

// RatedPowerKW is the nameplate power of a charger class.
func RatedPowerKW(class models.ChargerClass) float64 {
	switch class {
	case models.ChargerLevel2:
		return 7.2
	case models.ChargerDCFast:
		return 50
	default:
		return 150
	}
}

// sampleTimes walks the hourly horizon with the given stride.
func sampleTimes(start time.Time, days, strideHours int) []time.Time {
	totalHours := days * 24
	out := make([]time.Time, 0, totalHours/strideHours+1)
	for h := 0; h < totalHours; h += strideHours {
		out = append(out, start.Add(time.Duration(h)*time.Hour))
	}
	return out
}

func sampleCount(p Params, strideHours int) int {
	if p.Days <= 0 {
		return 0
	}
	return p.Days * 24 / strideHours
}

// feederRef assigns a device to a feeder from the generated pool.
func feederRef(s *sampler, feeders int) string {
	if feeders <= 0 {
		return ""
	}
	return fmt.Sprintf("FEEDER_%d", s.intn(feeders)+1)
}

func streamSeed(seed int64, offset int64) uint64 {
	return uint64(seed + offset)
}
