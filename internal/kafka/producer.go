package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/config"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/metrics"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

// Evening window treated as system peak in the published payload
const (
	peakStartHour = 17
	peakEndHour   = 21
)

// Producer publishes generated meter readings to the smart grid ingest
// topic as consumption transactions.
type Producer struct {
	producer sarama.SyncProducer
	config   config.KafkaConfig
	runID    string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg config.KafkaConfig, runID string) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Flush.Frequency = 250 * time.Millisecond

	// Key by meter so each meter's readings stay ordered per partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: producer,
		config:   cfg,
		runID:    runID,
	}, nil
}

// PublishMeterReadings sends readings in batches and returns how many were
// delivered. Delivery stops at the first failed batch or when ctx ends.
func (p *Producer) PublishMeterReadings(ctx context.Context, readings []models.MeterReading) (int, error) {
	batch := make([]*sarama.ProducerMessage, 0, p.config.BatchSize)
	sent := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.producer.SendMessages(batch); err != nil {
			return err
		}
		sent += len(batch)
		metrics.PublishedReadings.WithLabelValues("kafka").Add(float64(len(batch)))
		batch = batch[:0]
		return nil
	}

	for _, r := range readings {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		payload, err := json.Marshal(transactionFor(r, p.runID))
		if err != nil {
			return sent, err
		}
		batch = append(batch, &sarama.ProducerMessage{
			Topic: p.config.Topic,
			Key:   sarama.StringEncoder(r.ID),
			Value: sarama.ByteEncoder(payload),
		})

		if len(batch) >= p.config.BatchSize {
			if err := flush(); err != nil {
				return sent, err
			}
		}
	}
	if err := flush(); err != nil {
		return sent, err
	}

	log.Printf("[Kafka] Published %d readings to %s", sent, p.config.Topic)
	return sent, nil
}

// transactionFor flattens a meter reading into the ingest payload.
func transactionFor(r models.MeterReading, runID string) models.Transaction {
	status := "active"
	if r.LoadKW == 0 {
		status = "idle"
	}
	hour := r.Timestamp.Hour()

	return models.Transaction{
		ID:             uuid.New().String(),
		MeterID:        r.ID,
		Timestamp:      r.Timestamp,
		ConsumptionKWh: r.LoadKW,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Region:         r.FeederID,
		Status:         status,
		BuildingType:   string(r.Class),
		PeakLoad:       hour >= peakStartHour && hour <= peakEndHour,
		RunID:          runID,
	}
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.producer.Close()
}
