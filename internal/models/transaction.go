package models

import (
	"time"
)

// Transaction is the wire shape consumed by the smart-grid-monitoring
// pipeline. Meter readings published to Kafka are flattened into this
// payload so the downstream consumer ingests synthetic fleets unchanged.
type Transaction struct {
	ID             string    `json:"id"`
	MeterID        string    `json:"meterId"`
	Timestamp      time.Time `json:"timestamp"`
	ConsumptionKWh float64   `json:"consumptionKWh"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Region         string    `json:"region"`
	Status         string    `json:"status"`
	BuildingType   string    `json:"buildingType"`
	PeakLoad       bool      `json:"peakLoad"`
	RunID          string    `json:"runId,omitempty"`
}
