package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/synth"
)

// Config holds all application configuration
type Config struct {
	Generator GeneratorConfig
	Analysis  AnalysisConfig
	HTTP      HTTPConfig
	Kafka     KafkaConfig
	InfluxDB  InfluxDBConfig
}

// GeneratorConfig sizes the synthetic fleet
type GeneratorConfig struct {
	Seed      int64
	Meters    int
	Chargers  int
	Inverters int
	Feeders   int
	Days      int
	Start     time.Time
}

// AnalysisConfig holds the default knobs for risk and clustering
type AnalysisConfig struct {
	ThresholdPct    float64
	Clusters        int
	DefaultScenario string
	DefaultYear     int
}

// HTTPConfig holds the API server configuration
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// KafkaConfig holds Kafka producer configuration
type KafkaConfig struct {
	Enabled   bool
	Brokers   []string
	Topic     string
	BatchSize int
}

// InfluxDBConfig holds InfluxDB writer configuration
type InfluxDBConfig struct {
	Enabled   bool
	URL       string
	Org       string
	Token     string
	Bucket    string
	BatchSize int
}

// Load builds the configuration from environment variables with sensible
// defaults, applies the optional YAML fleet profile named by DER_PROFILE
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Generator: GeneratorConfig{
			Seed:      getEnvInt64("DER_SEED", 42),
			Meters:    getEnvInt("DER_METERS", 100),
			Chargers:  getEnvInt("DER_CHARGERS", 500),
			Inverters: getEnvInt("DER_INVERTERS", 1000),
			Feeders:   getEnvInt("DER_FEEDERS", 50),
			Days:      getEnvInt("DER_DAYS", 30),
			Start:     getEnvTime("DER_START", time.Time{}),
		},
		Analysis: AnalysisConfig{
			ThresholdPct:    getEnvFloat("DER_CONSTRAINT_THRESHOLD", 85),
			Clusters:        getEnvInt("DER_CLUSTERS", 4),
			DefaultScenario: getEnv("DER_SCENARIO", "Moderate"),
			DefaultYear:     getEnvInt("DER_FORECAST_YEAR", 2030),
		},
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Enabled:   getEnvBool("KAFKA_ENABLED", false),
			Brokers:   getEnvStringSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:     getEnv("KAFKA_TOPIC", "smart-grid-readings"),
			BatchSize: getEnvInt("KAFKA_BATCH_SIZE", 500),
		},
		InfluxDB: InfluxDBConfig{
			Enabled:   getEnvBool("INFLUXDB_ENABLED", false),
			URL:       getEnv("INFLUXDB_URL", "http://localhost:8086"),
			Org:       getEnv("INFLUXDB_ORG", "Solo"),
			Token:     getEnv("INFLUXDB_TOKEN", ""),
			Bucket:    getEnv("INFLUXDB_BUCKET", "smart-grid-monitor"),
			BatchSize: getEnvInt("INFLUXDB_BATCH_SIZE", 5000),
		},
	}

	if path := getEnv("DER_PROFILE", ""); path != "" {
		if err := loadProfile(path, &cfg.Generator); err != nil {
			return nil, fmt.Errorf("loading fleet profile %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the generator or API cannot serve.
func (c *Config) Validate() error {
	g := c.Generator
	for name, v := range map[string]int{
		"DER_METERS":    g.Meters,
		"DER_CHARGERS":  g.Chargers,
		"DER_INVERTERS": g.Inverters,
		"DER_FEEDERS":   g.Feeders,
		"DER_DAYS":      g.Days,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}

	if c.Analysis.ThresholdPct <= 0 || c.Analysis.ThresholdPct > 100 {
		return fmt.Errorf("DER_CONSTRAINT_THRESHOLD must be in (0, 100], got %v", c.Analysis.ThresholdPct)
	}
	if c.Analysis.Clusters < 1 {
		return fmt.Errorf("DER_CLUSTERS must be at least 1, got %d", c.Analysis.Clusters)
	}
	if _, err := models.ParseScenario(c.Analysis.DefaultScenario); err != nil {
		return fmt.Errorf("DER_SCENARIO: %w", err)
	}
	if c.Analysis.DefaultYear < synth.ForecastBaseYear || c.Analysis.DefaultYear > synth.ForecastHorizonYear {
		return fmt.Errorf("DER_FORECAST_YEAR must be in [%d, %d], got %d",
			synth.ForecastBaseYear, synth.ForecastHorizonYear, c.Analysis.DefaultYear)
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS must not be empty when Kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("KAFKA_TOPIC must not be empty when Kafka is enabled")
		}
		if c.Kafka.BatchSize < 1 {
			return fmt.Errorf("KAFKA_BATCH_SIZE must be at least 1, got %d", c.Kafka.BatchSize)
		}
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			return fmt.Errorf("INFLUXDB_URL must not be empty when InfluxDB is enabled")
		}
		if c.InfluxDB.Token == "" {
			return fmt.Errorf("INFLUXDB_TOKEN must be set when InfluxDB is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			return fmt.Errorf("INFLUXDB_ORG and INFLUXDB_BUCKET must be set when InfluxDB is enabled")
		}
	}

	return nil
}

// Params converts the generator section into generation parameters.
// Without an explicit start the window ends now, like a rolling demo
// dataset; pin DER_START for reproducible timestamps.
func (g GeneratorConfig) Params() synth.Params {
	start := g.Start
	if start.IsZero() {
		start = time.Now().UTC().Add(-time.Duration(g.Days) * 24 * time.Hour).Truncate(time.Hour)
	}
	return synth.Params{
		Seed:      g.Seed,
		Meters:    g.Meters,
		Chargers:  g.Chargers,
		Inverters: g.Inverters,
		Feeders:   g.Feeders,
		Days:      g.Days,
		Start:     start,
	}
}

// profile is the YAML shape of a fleet profile file. Absent keys keep
// their environment or default values.
type profile struct {
	Seed      *int64  `yaml:"seed"`
	Meters    *int    `yaml:"meters"`
	Chargers  *int    `yaml:"chargers"`
	Inverters *int    `yaml:"inverters"`
	Feeders   *int    `yaml:"feeders"`
	Days      *int    `yaml:"days"`
	Start     *string `yaml:"start"`
}

func loadProfile(path string, g *GeneratorConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return err
	}

	if p.Seed != nil {
		g.Seed = *p.Seed
	}
	if p.Meters != nil {
		g.Meters = *p.Meters
	}
	if p.Chargers != nil {
		g.Chargers = *p.Chargers
	}
	if p.Inverters != nil {
		g.Inverters = *p.Inverters
	}
	if p.Feeders != nil {
		g.Feeders = *p.Feeders
	}
	if p.Days != nil {
		g.Days = *p.Days
	}
	if p.Start != nil {
		start, err := time.Parse(time.RFC3339, *p.Start)
		if err != nil {
			return fmt.Errorf("parsing start: %w", err)
		}
		g.Start = start
	}
	return nil
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvTime(key string, defaultValue time.Time) time.Time {
	if value, exists := os.LookupEnv(key); exists {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.Split(value, ",")
	}
	return defaultValue
}
