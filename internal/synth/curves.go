package synth

import (
	"math"
	"time"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

// baseLoadKW is the deterministic part of a meter's load curve before
// seasonal scaling and noise. Residential peaks in the evening, commercial
// during business hours, industrial runs flat around the clock.
func baseLoadKW(class models.MeterClass, hour int, weekday bool) float64 {
	switch class {
	case models.MeterResidential:
		load := 2.5 + 1.5*math.Sin(float64(hour-6)*math.Pi/12)
		if weekday {
			load *= 0.9
		}
		return load
	case models.MeterCommercial:
		load := 15.0 + 8.0*math.Sin(float64(hour-12)*math.Pi/8)
		if !weekday {
			load *= 0.3
		}
		return load
	default:
		return 45.0
	}
}

// seasonalFactor scales consumption over the year, peaking in summer.
func seasonalFactor(month int) float64 {
	return 1.0 + 0.3*math.Sin(float64(month-6)*math.Pi/6)
}

// usageProbability is the chance a charger draws power at the given hour.
// Each site class has its own occupancy pattern.
func usageProbability(site models.SiteClass, hour int, weekday bool) float64 {
	switch site {
	case models.SiteResidential:
		if (hour >= 18 && hour <= 23) || (hour >= 6 && hour <= 8) {
			return 0.8
		}
		return 0.2
	case models.SiteWorkplace:
		if hour >= 8 && hour <= 17 && weekday {
			return 0.7
		}
		return 0.1
	case models.SitePublic:
		if hour >= 9 && hour <= 21 {
			return 0.4
		}
		return 0.2
	default:
		if hour >= 6 && hour <= 22 {
			return 0.6
		}
		return 0.3
	}
}

// solarHourFactor is a bell curve over daylight hours centered on noon.
// Outside 06:00-18:00 generation is zero.
func solarHourFactor(hour int) float64 {
	if hour < 6 || hour > 18 {
		return 0
	}
	x := float64(hour-12) / 4.0
	return math.Exp(-0.5 * x * x)
}

// solarSeasonalFactor follows the annual irradiance cycle, strongest in summer.
func solarSeasonalFactor(month int) float64 {
	return 0.7 + 0.6*math.Sin(float64(month-6)*math.Pi/6)
}

func isWeekday(wd time.Weekday) bool {
	return wd >= time.Monday && wd <= time.Friday
}
