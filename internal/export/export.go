// Package export writes generated collections to CSV, one file per
// collection, using the dataset's canonical column names.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

// WriteDataset writes all five collections into dir, creating the
// directory if needed, and returns the written file paths.
func WriteDataset(dir string, ds *models.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"meters.csv", func(w io.Writer) error { return WriteMeters(w, ds.Meters) }},
		{"chargers.csv", func(w io.Writer) error { return WriteChargers(w, ds.Chargers) }},
		{"inverters.csv", func(w io.Writer) error { return WriteInverters(w, ds.Inverters) }},
		{"feeders.csv", func(w io.Writer) error { return WriteFeeders(w, ds.Feeders) }},
		{"forecasts.csv", func(w io.Writer) error { return WriteForecasts(w, ds.Forecasts) }},
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		if err := writeFile(path, file.write); err != nil {
			return paths, fmt.Errorf("writing %s: %w", file.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteMeters writes smart meter samples as CSV.
func WriteMeters(w io.Writer, readings []models.MeterReading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"meter_id", "timestamp", "load_kw", "meter_type", "latitude", "longitude", "feeder_id"}); err != nil {
		return err
	}
	for _, r := range readings {
		record := []string{
			r.ID,
			formatTime(r.Timestamp),
			formatFloat(r.LoadKW),
			string(r.Class),
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			r.FeederID,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChargers writes EV charger samples as CSV.
func WriteChargers(w io.Writer, readings []models.ChargerReading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"charger_id", "timestamp", "power_kw", "session_energy_kwh", "charger_type", "location_type", "latitude", "longitude", "feeder_id"}); err != nil {
		return err
	}
	for _, r := range readings {
		record := []string{
			r.ID,
			formatTime(r.Timestamp),
			formatFloat(r.PowerKW),
			formatFloat(r.SessionEnergyKWh),
			string(r.Class),
			string(r.Site),
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			r.FeederID,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInverters writes solar inverter samples as CSV.
func WriteInverters(w io.Writer, readings []models.InverterReading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"inverter_id", "timestamp", "generation_kw", "system_size_kw", "installation_type", "latitude", "longitude", "feeder_id"}); err != nil {
		return err
	}
	for _, r := range readings {
		record := []string{
			r.ID,
			formatTime(r.Timestamp),
			formatFloat(r.GenerationKW),
			formatFloat(r.CapacityKW),
			string(r.Install),
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			r.FeederID,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFeeders writes the feeder snapshot as CSV.
func WriteFeeders(w io.Writer, feeders []models.Feeder) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"feeder_id", "capacity_mva", "voltage_kv", "current_load_pct", "solar_penetration_pct", "ev_penetration_pct", "constraint_risk", "upgrade_priority", "latitude", "longitude"}); err != nil {
		return err
	}
	for _, f := range feeders {
		record := []string{
			f.ID,
			formatFloat(f.CapacityMVA),
			formatFloat(f.VoltageKV),
			formatFloat(f.LoadPct),
			formatFloat(f.SolarPct),
			formatFloat(f.EVPct),
			string(f.Risk),
			strconv.Itoa(f.UpgradePriority),
			formatFloat(f.Latitude),
			formatFloat(f.Longitude),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteForecasts writes the adoption forecast table as CSV.
func WriteForecasts(w io.Writer, forecasts []models.AdoptionForecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "scenario", "ev_penetration_pct", "solar_penetration_pct", "total_der_mw"}); err != nil {
		return err
	}
	for _, f := range forecasts {
		record := []string{
			strconv.Itoa(f.Year),
			string(f.Scenario),
			formatFloat(f.EVPct),
			formatFloat(f.SolarPct),
			formatFloat(f.TotalDERMW),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
