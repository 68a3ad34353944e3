// Package analysis aggregates generated fleet telemetry into the shapes
// the API serves: hourly activity profiles, net load impact, per-feeder
// device sums and the headline fleet summary.
package analysis

import (
	"sort"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/risk"
)

// profileKey buckets samples by hour of day and device class.
type profileKey struct {
	hour  int
	class string
}

type profileStats struct {
	total float64
	count int
}

// ChargingProfiles returns mean charger power by hour of day and site class.
func ChargingProfiles(chargers []models.ChargerReading) []models.HourlyProfile {
	stats := make(map[profileKey]*profileStats)
	for _, c := range chargers {
		key := profileKey{hour: c.Timestamp.Hour(), class: string(c.Site)}
		s, exists := stats[key]
		if !exists {
			s = &profileStats{}
			stats[key] = s
		}
		s.total += c.PowerKW
		s.count++
	}
	return profilesFromStats(stats)
}

// SolarProfiles returns mean inverter generation by hour of day and
// installation class.
func SolarProfiles(inverters []models.InverterReading) []models.HourlyProfile {
	stats := make(map[profileKey]*profileStats)
	for _, inv := range inverters {
		key := profileKey{hour: inv.Timestamp.Hour(), class: string(inv.Install)}
		s, exists := stats[key]
		if !exists {
			s = &profileStats{}
			stats[key] = s
		}
		s.total += inv.GenerationKW
		s.count++
	}
	return profilesFromStats(stats)
}

func profilesFromStats(stats map[profileKey]*profileStats) []models.HourlyProfile {
	out := make([]models.HourlyProfile, 0, len(stats))
	for key, s := range stats {
		out = append(out, models.HourlyProfile{
			Hour:    key.hour,
			Class:   key.class,
			MeanKW:  s.total / float64(s.count),
			Samples: s.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		return out[i].Class < out[j].Class
	})
	return out
}

// NetImpact balances total EV charging load against total solar generation
// per hour of day. Only hours sampled by both fleets appear, so the net
// figure always compares like with like.
func NetImpact(chargers []models.ChargerReading, inverters []models.InverterReading) []models.NetImpactPoint {
	evByHour := make(map[int]float64)
	for _, c := range chargers {
		evByHour[c.Timestamp.Hour()] += c.PowerKW
	}
	solarByHour := make(map[int]float64)
	for _, inv := range inverters {
		solarByHour[inv.Timestamp.Hour()] += inv.GenerationKW
	}

	out := make([]models.NetImpactPoint, 0, len(evByHour))
	for hour, ev := range evByHour {
		solar, shared := solarByHour[hour]
		if !shared {
			continue
		}
		out = append(out, models.NetImpactPoint{
			Hour:    hour,
			EVKW:    ev,
			SolarKW: solar,
			NetKW:   ev - solar,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// feederStats accumulates device activity for one feeder.
type feederStats struct {
	evPowerKW   float64
	solarGenKW  float64
	meterLoadKW float64
	deviceIDs   map[string]bool
	samples     int
}

// UsageByFeeder sums device activity onto feeders: charger power, inverter
// generation and meter load, plus distinct device and sample counts. The
// result feeds the clustering features.
func UsageByFeeder(ds *models.Dataset) []models.FeederUsage {
	stats := make(map[string]*feederStats)
	get := func(feederID string) *feederStats {
		s, exists := stats[feederID]
		if !exists {
			s = &feederStats{deviceIDs: make(map[string]bool)}
			stats[feederID] = s
		}
		return s
	}

	for _, c := range ds.Chargers {
		s := get(c.FeederID)
		s.evPowerKW += c.PowerKW
		s.deviceIDs[c.ID] = true
		s.samples++
	}
	for _, inv := range ds.Inverters {
		s := get(inv.FeederID)
		s.solarGenKW += inv.GenerationKW
		s.deviceIDs[inv.ID] = true
		s.samples++
	}
	for _, m := range ds.Meters {
		s := get(m.FeederID)
		s.meterLoadKW += m.LoadKW
		s.deviceIDs[m.ID] = true
		s.samples++
	}

	out := make([]models.FeederUsage, 0, len(stats))
	for feederID, s := range stats {
		out = append(out, models.FeederUsage{
			FeederID:    feederID,
			EVPowerKW:   s.evPowerKW,
			SolarGenKW:  s.solarGenKW,
			MeterLoadKW: s.meterLoadKW,
			DeviceCount: len(s.deviceIDs),
			SampleCount: s.samples,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeederID < out[j].FeederID })
	return out
}

// Summarize computes the headline fleet metrics for one snapshot.
// Device counts are distinct IDs, not sample rows.
func Summarize(ds *models.Dataset, thresholdPct float64) models.FleetSummary {
	chargers := make(map[string]bool)
	for _, c := range ds.Chargers {
		chargers[c.ID] = true
	}
	inverters := make(map[string]bool)
	for _, inv := range ds.Inverters {
		inverters[inv.ID] = true
	}
	meters := make(map[string]bool)
	for _, m := range ds.Meters {
		meters[m.ID] = true
	}

	totalCapacity := 0.0
	for _, f := range ds.Feeders {
		totalCapacity += f.CapacityMVA
	}

	return models.FleetSummary{
		EVChargers:         len(chargers),
		SolarSystems:       len(inverters),
		SmartMeters:        len(meters),
		TotalCapacityMVA:   totalCapacity,
		ConstrainedFeeders: risk.CountConstrained(ds.Feeders, thresholdPct),
		ThresholdPct:       thresholdPct,
	}
}
