package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/api"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/config"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/export"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/influxdb"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/kafka"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/store"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/synth"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Note: .env file not found, using environment values")
	}

	rootCmd := &cobra.Command{
		Use:   "der-analytics",
		Short: "Synthetic DER fleet generator, risk scorer and analytics API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset and its analytics over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe()
		},
	}
}

func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Generate one dataset and deliver it to the enabled sinks",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPublish()
		},
	}
}

func exportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate one dataset and write it as CSV files",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runExport(outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "data", "output directory for CSV files")
	return cmd
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	st := store.New()
	params := cfg.Generator.Params()

	// Warm the snapshot so the first request does not pay for generation
	st.GetOrGenerate(params)

	srv := api.New(st, params, cfg.Analysis, cfg.HTTP)

	// Handle termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received %s. Shutting down...", sig)
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Println("Shutdown complete.")
	return nil
}

func runPublish() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if !cfg.Kafka.Enabled && !cfg.InfluxDB.Enabled {
		return fmt.Errorf("no sink enabled; set KAFKA_ENABLED=true or INFLUXDB_ENABLED=true")
	}

	runID := uuid.New().String()
	log.Printf("Starting publish run %s", runID)

	params := cfg.Generator.Params()
	ds := store.New().GetOrGenerate(params)

	// Allow aborting a long delivery with Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received %s. Aborting delivery...", sig)
		cancel()
	}()

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, runID)
		if err != nil {
			return fmt.Errorf("creating Kafka producer: %w", err)
		}

		sent, pubErr := producer.PublishMeterReadings(ctx, ds.Meters)
		if err := producer.Close(); err != nil {
			log.Printf("Error closing Kafka producer: %v", err)
		}
		if pubErr != nil {
			return fmt.Errorf("publishing to Kafka after %d readings: %w", sent, pubErr)
		}
	}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.NewClient(cfg.InfluxDB, runID)
		if err != nil {
			return fmt.Errorf("creating InfluxDB client: %w", err)
		}

		snapshotAt := params.Start.Add(time.Duration(params.Days) * 24 * time.Hour)
		writeErr := writeAll(client, ds, snapshotAt)

		// Close flushes the async write buffers
		client.Close()
		if writeErr != nil {
			return fmt.Errorf("writing to InfluxDB: %w", writeErr)
		}
		log.Printf("[InfluxDB] Wrote %d meter, %d charger, %d inverter samples and %d feeders",
			len(ds.Meters), len(ds.Chargers), len(ds.Inverters), len(ds.Feeders))
	}

	log.Println("Publish complete.")
	return nil
}

func writeAll(client *influxdb.Client, ds *models.Dataset, snapshotAt time.Time) error {
	if err := client.WriteMeterReadings(ds.Meters); err != nil {
		return err
	}
	if err := client.WriteChargerReadings(ds.Chargers); err != nil {
		return err
	}
	if err := client.WriteInverterReadings(ds.Inverters); err != nil {
		return err
	}
	return client.WriteFeederSnapshot(ds.Feeders, snapshotAt)
}

func runExport(outDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ds := synth.Generate(cfg.Generator.Params())
	paths, err := export.WriteDataset(outDir, ds)
	if err != nil {
		return fmt.Errorf("exporting dataset: %w", err)
	}

	for _, path := range paths {
		log.Printf("Wrote %s", path)
	}
	return nil
}
