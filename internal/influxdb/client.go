package influxdb

import (
	"context"
	"fmt"
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/config"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/metrics"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

// Client represents an InfluxDB v2 client
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	config   config.InfluxDBConfig
	runID    string
}

// NewClient initializes the InfluxDB v2 client and verifies connectivity.
// Every point written by this client carries the run UUID as a tag so one
// generation run can be isolated in the dashboards.
func NewClient(cfg config.InfluxDBConfig, runID string) (*Client, error) {
	options := influxdb2.DefaultOptions()
	if cfg.BatchSize > 0 {
		options.SetBatchSize(uint(cfg.BatchSize))
	}
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, options)
	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	// Health check to verify credentials before the first write
	_, err := client.Health(context.Background())
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %v", err)
	}

	// Async write errors surface on a channel, not on WritePoint
	go func() {
		for err := range writeAPI.Errors() {
			log.Printf("[InfluxDB] Write error: %v", err)
		}
	}()

	fmt.Println("Loaded Client Successfully - Connection Verified")
	return &Client{
		client:   client,
		writeAPI: writeAPI,
		config:   cfg,
		runID:    runID,
	}, nil
}

// WriteMeterReadings writes smart meter load samples to InfluxDB
func (c *Client) WriteMeterReadings(readings []models.MeterReading) error {
	for _, r := range readings {
		point := write.NewPoint(
			"meter_load",
			map[string]string{
				"meter_id":   r.ID,
				"meter_type": string(r.Class),
				"feeder_id":  r.FeederID,
				"run_id":     c.runID,
			},
			map[string]interface{}{
				"load_kw":   r.LoadKW,
				"latitude":  r.Latitude,
				"longitude": r.Longitude,
			},
			r.Timestamp,
		)

		c.writeAPI.WritePoint(point)
	}
	metrics.PublishedReadings.WithLabelValues("influxdb").Add(float64(len(readings)))

	return nil
}

// WriteChargerReadings writes EV charger telemetry to InfluxDB
func (c *Client) WriteChargerReadings(readings []models.ChargerReading) error {
	for _, r := range readings {
		point := write.NewPoint(
			"ev_charging",
			map[string]string{
				"charger_id":    r.ID,
				"charger_type":  string(r.Class),
				"location_type": string(r.Site),
				"feeder_id":     r.FeederID,
				"run_id":        c.runID,
			},
			map[string]interface{}{
				"power_kw":           r.PowerKW,
				"session_energy_kwh": r.SessionEnergyKWh,
				"latitude":           r.Latitude,
				"longitude":          r.Longitude,
			},
			r.Timestamp,
		)

		c.writeAPI.WritePoint(point)
	}
	metrics.PublishedReadings.WithLabelValues("influxdb").Add(float64(len(readings)))

	return nil
}

// WriteInverterReadings writes solar inverter output to InfluxDB
func (c *Client) WriteInverterReadings(readings []models.InverterReading) error {
	for _, r := range readings {
		point := write.NewPoint(
			"solar_generation",
			map[string]string{
				"inverter_id":       r.ID,
				"installation_type": string(r.Install),
				"feeder_id":         r.FeederID,
				"run_id":            c.runID,
			},
			map[string]interface{}{
				"generation_kw":  r.GenerationKW,
				"system_size_kw": r.CapacityKW,
				"latitude":       r.Latitude,
				"longitude":      r.Longitude,
			},
			r.Timestamp,
		)

		c.writeAPI.WritePoint(point)
	}
	metrics.PublishedReadings.WithLabelValues("influxdb").Add(float64(len(readings)))

	return nil
}

// WriteFeederSnapshot writes the feeder loading state to InfluxDB
func (c *Client) WriteFeederSnapshot(feeders []models.Feeder, timestamp time.Time) error {
	for _, f := range feeders {
		point := write.NewPoint(
			"feeder_state",
			map[string]string{
				"feeder_id":       f.ID,
				"constraint_risk": string(f.Risk),
				"run_id":          c.runID,
			},
			map[string]interface{}{
				"capacity_mva":          f.CapacityMVA,
				"voltage_kv":            f.VoltageKV,
				"current_load_pct":      f.LoadPct,
				"solar_penetration_pct": f.SolarPct,
				"ev_penetration_pct":    f.EVPct,
				"upgrade_priority":      f.UpgradePriority,
				"latitude":              f.Latitude,
				"longitude":             f.Longitude,
			},
			timestamp,
		)

		c.writeAPI.WritePoint(point)
	}
	metrics.PublishedReadings.WithLabelValues("influxdb").Add(float64(len(feeders)))

	return nil
}

// Flush forces pending async writes out before a one-shot run exits
func (c *Client) Flush() {
	c.writeAPI.Flush()
}

// Close closes the InfluxDB client
func (c *Client) Close() {
	c.writeAPI.Flush()
	c.client.Close()
}
