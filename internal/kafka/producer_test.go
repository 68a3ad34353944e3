package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/config"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

func testReading(hour int, loadKW float64) models.MeterReading {
	return models.MeterReading{
		ID:        "SM_000001",
		Timestamp: time.Date(2024, time.June, 10, hour, 0, 0, 0, time.UTC),
		LoadKW:    loadKW,
		Class:     models.MeterResidential,
		Latitude:  40.7,
		Longitude: -74.0,
		FeederID:  "FEEDER_3",
	}
}

func TestTransactionFor(t *testing.T) {
	tx := transactionFor(testReading(19, 3.2), "run-1")

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "SM_000001", tx.MeterID)
	assert.Equal(t, 3.2, tx.ConsumptionKWh)
	assert.Equal(t, "FEEDER_3", tx.Region)
	assert.Equal(t, "Residential", tx.BuildingType)
	assert.Equal(t, "active", tx.Status)
	assert.Equal(t, "run-1", tx.RunID)
	assert.True(t, tx.PeakLoad, "19:00 falls in the evening peak window")

	other := transactionFor(testReading(19, 3.2), "run-1")
	assert.NotEqual(t, tx.ID, other.ID, "every transaction gets its own id")
}

func TestTransactionForIdleAndOffPeak(t *testing.T) {
	tx := transactionFor(testReading(3, 0), "run-1")
	assert.Equal(t, "idle", tx.Status)
	assert.False(t, tx.PeakLoad)

	assert.False(t, transactionFor(testReading(16, 1), "run-1").PeakLoad)
	assert.True(t, transactionFor(testReading(17, 1), "run-1").PeakLoad)
	assert.True(t, transactionFor(testReading(21, 1), "run-1").PeakLoad)
	assert.False(t, transactionFor(testReading(22, 1), "run-1").PeakLoad)
}

func syncTestConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	return cfg
}

func TestPublishMeterReadings(t *testing.T) {
	mock := mocks.NewSyncProducer(t, syncTestConfig())
	readings := make([]models.MeterReading, 5)
	for i := range readings {
		readings[i] = testReading(12, float64(i))
		mock.ExpectSendMessageAndSucceed()
	}

	p := &Producer{
		producer: mock,
		config:   config.KafkaConfig{Topic: "smart-grid-readings", BatchSize: 2},
		runID:    "run-1",
	}

	sent, err := p.PublishMeterReadings(context.Background(), readings)
	assert.NoError(t, err)
	assert.Equal(t, 5, sent)
	assert.NoError(t, p.Close())
}

func TestPublishMeterReadingsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Producer{
		producer: mocks.NewSyncProducer(t, syncTestConfig()),
		config:   config.KafkaConfig{Topic: "smart-grid-readings", BatchSize: 2},
		runID:    "run-1",
	}

	sent, err := p.PublishMeterReadings(ctx, []models.MeterReading{testReading(12, 1)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sent)
}
