package models

import (
	"fmt"
	"time"
)

// MeterClass identifies the customer segment behind a smart meter.
type MeterClass string

const (
	MeterResidential MeterClass = "Residential"
	MeterCommercial  MeterClass = "Commercial"
	MeterIndustrial  MeterClass = "Industrial"
)

// ChargerClass identifies the charger hardware tier.
type ChargerClass string

const (
	ChargerLevel2       ChargerClass = "Level 2"
	ChargerDCFast       ChargerClass = "DC Fast"
	ChargerSupercharger ChargerClass = "Tesla Supercharger"
)

// SiteClass identifies where an EV charger is installed.
type SiteClass string

const (
	SiteResidential SiteClass = "Residential"
	SiteWorkplace   SiteClass = "Workplace"
	SitePublic      SiteClass = "Public"
	SiteHighway     SiteClass = "Highway"
)

// InstallClass identifies the solar installation segment.
type InstallClass string

const (
	InstallResidential InstallClass = "Residential"
	InstallCommercial  InstallClass = "Commercial"
	InstallUtility     InstallClass = "Utility"
)

// RiskTier is the qualitative constraint risk of a feeder.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// Scenario tags a DER adoption growth scenario.
type Scenario string

const (
	ScenarioConservative Scenario = "Conservative"
	ScenarioModerate     Scenario = "Moderate"
	ScenarioAggressive   Scenario = "Aggressive"
)

// Scenarios lists all adoption scenarios in forecast order.
var Scenarios = []Scenario{ScenarioConservative, ScenarioModerate, ScenarioAggressive}

// ParseScenario maps a scenario name to its tag.
func ParseScenario(name string) (Scenario, error) {
	switch Scenario(name) {
	case ScenarioConservative, ScenarioModerate, ScenarioAggressive:
		return Scenario(name), nil
	}
	return "", fmt.Errorf("unknown adoption scenario %q", name)
}

// MeterReading is a single smart meter load sample.
type MeterReading struct {
	ID        string     `json:"meter_id"`
	Timestamp time.Time  `json:"timestamp"`
	LoadKW    float64    `json:"load_kw"`
	Class     MeterClass `json:"meter_type"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	FeederID  string     `json:"feeder_id"`
}

// ChargerReading is a single EV charger telemetry sample.
type ChargerReading struct {
	ID               string       `json:"charger_id"`
	Timestamp        time.Time    `json:"timestamp"`
	PowerKW          float64      `json:"power_kw"`
	SessionEnergyKWh float64      `json:"session_energy_kwh"`
	Class            ChargerClass `json:"charger_type"`
	Site             SiteClass    `json:"location_type"`
	Latitude         float64      `json:"latitude"`
	Longitude        float64      `json:"longitude"`
	FeederID         string       `json:"feeder_id"`
}

// InverterReading is a single solar inverter generation sample.
type InverterReading struct {
	ID           string       `json:"inverter_id"`
	Timestamp    time.Time    `json:"timestamp"`
	GenerationKW float64      `json:"generation_kw"`
	CapacityKW   float64      `json:"system_size_kw"`
	Install      InstallClass `json:"installation_type"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	FeederID     string       `json:"feeder_id"`
}

// Feeder describes one distribution feeder and its loading state.
type Feeder struct {
	ID              string   `json:"feeder_id"`
	CapacityMVA     float64  `json:"capacity_mva"`
	VoltageKV       float64  `json:"voltage_kv"`
	LoadPct         float64  `json:"current_load_pct"`
	SolarPct        float64  `json:"solar_penetration_pct"`
	EVPct           float64  `json:"ev_penetration_pct"`
	Risk            RiskTier `json:"constraint_risk"`
	UpgradePriority int      `json:"upgrade_priority"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
}

// AdoptionForecast is one projected year under one adoption scenario.
type AdoptionForecast struct {
	Year       int      `json:"year"`
	Scenario   Scenario `json:"scenario"`
	EVPct      float64  `json:"ev_penetration_pct"`
	SolarPct   float64  `json:"solar_penetration_pct"`
	TotalDERMW float64  `json:"total_der_mw"`
}

// Dataset bundles one generated snapshot of the synthetic DER fleet.
type Dataset struct {
	Meters    []MeterReading     `json:"meters"`
	Chargers  []ChargerReading   `json:"chargers"`
	Inverters []InverterReading  `json:"inverters"`
	Feeders   []Feeder           `json:"feeders"`
	Forecasts []AdoptionForecast `json:"forecasts"`
}
