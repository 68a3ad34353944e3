package models

// FleetSummary holds the headline metrics for one generated snapshot.
type FleetSummary struct {
	EVChargers         int     `json:"ev_chargers"`
	SolarSystems       int     `json:"solar_systems"`
	SmartMeters        int     `json:"smart_meters"`
	TotalCapacityMVA   float64 `json:"total_capacity_mva"`
	ConstrainedFeeders int     `json:"constrained_feeders"`
	ThresholdPct       float64 `json:"threshold_pct"`
}

// HourlyProfile is a mean power value for one hour of day and one class.
type HourlyProfile struct {
	Hour    int     `json:"hour"`
	Class   string  `json:"class"`
	MeanKW  float64 `json:"mean_kw"`
	Samples int     `json:"samples"`
}

// NetImpactPoint is the hourly EV load and solar generation balance.
type NetImpactPoint struct {
	Hour    int     `json:"hour"`
	EVKW    float64 `json:"ev_kw"`
	SolarKW float64 `json:"solar_kw"`
	NetKW   float64 `json:"net_kw"`
}

// FeederUsage aggregates device activity onto a feeder.
type FeederUsage struct {
	FeederID    string  `json:"feeder_id"`
	EVPowerKW   float64 `json:"ev_power_kw"`
	SolarGenKW  float64 `json:"solar_generation_kw"`
	MeterLoadKW float64 `json:"meter_load_kw"`
	DeviceCount int     `json:"device_count"`
	SampleCount int     `json:"sample_count"`
}

// ClusteredFeeder is a feeder annotated with its adoption cluster.
type ClusteredFeeder struct {
	Feeder
	EVPowerKW   float64 `json:"ev_power_kw"`
	SolarGenKW  float64 `json:"solar_generation_kw"`
	Cluster     int     `json:"cluster"`
	ClusterName string  `json:"cluster_name"`
}

// ClusterSummary is the per-cluster mean profile.
type ClusterSummary struct {
	Cluster         int     `json:"cluster"`
	Name            string  `json:"cluster_name"`
	Feeders         int     `json:"feeders"`
	MeanLoadPct     float64 `json:"mean_load_pct"`
	MeanSolarPct    float64 `json:"mean_solar_pct"`
	MeanEVPct       float64 `json:"mean_ev_pct"`
	MeanCapacityMVA float64 `json:"mean_capacity_mva"`
}

// UpgradePlan sizes the reinforcement program for constrained feeders.
type UpgradePlan struct {
	Candidates       []Feeder `json:"candidates"`
	Upgrades         int      `json:"upgrades"`
	InvestmentMUSD   float64  `json:"investment_musd"`
	CapacityAddedMVA float64  `json:"capacity_added_mva"`
}

// Projection is the forecasted state at one horizon year, with deltas
// against the base year of the same scenario table.
type Projection struct {
	Year          int      `json:"year"`
	Scenario      Scenario `json:"scenario"`
	EVPct         float64  `json:"ev_penetration_pct"`
	SolarPct      float64  `json:"solar_penetration_pct"`
	TotalDERMW    float64  `json:"total_der_mw"`
	EVDeltaPct    float64  `json:"ev_delta_pct"`
	SolarDeltaPct float64  `json:"solar_delta_pct"`
	DERDeltaMW    float64  `json:"der_delta_mw"`
}
