package synth

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
)

func TestBaseLoadKW(t *testing.T) {
	tests := []struct {
		name    string
		class   models.MeterClass
		hour    int
		weekday bool
		want    float64
	}{
		{"residential morning weekday", models.MeterResidential, 6, true, 2.25},
		{"residential morning weekend", models.MeterResidential, 6, false, 2.5},
		{"residential noon weekend", models.MeterResidential, 12, false, 4.0},
		{"residential midnight weekend", models.MeterResidential, 0, false, 1.0},
		{"commercial noon weekday", models.MeterCommercial, 12, true, 15.0},
		{"commercial noon weekend", models.MeterCommercial, 12, false, 4.5},
		{"commercial afternoon weekday", models.MeterCommercial, 16, true, 23.0},
		{"industrial weekday", models.MeterIndustrial, 3, true, 45.0},
		{"industrial weekend", models.MeterIndustrial, 14, false, 45.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, baseLoadKW(tt.class, tt.hour, tt.weekday), 1e-9)
		})
	}
}

func TestSeasonalFactor(t *testing.T) {
	assert.InDelta(t, 1.0, seasonalFactor(6), 1e-9)
	assert.InDelta(t, 1.3, seasonalFactor(9), 1e-9)
	assert.InDelta(t, 0.7, seasonalFactor(3), 1e-9)
	assert.InDelta(t, 1.0, seasonalFactor(12), 1e-9)
}

func TestUsageProbability(t *testing.T) {
	tests := []struct {
		name    string
		site    models.SiteClass
		hour    int
		weekday bool
		want    float64
	}{
		{"residential evening", models.SiteResidential, 19, true, 0.8},
		{"residential commute", models.SiteResidential, 7, true, 0.8},
		{"residential midday", models.SiteResidential, 12, true, 0.2},
		{"workplace business hours", models.SiteWorkplace, 10, true, 0.7},
		{"workplace weekend", models.SiteWorkplace, 10, false, 0.1},
		{"workplace night", models.SiteWorkplace, 22, true, 0.1},
		{"public daytime", models.SitePublic, 15, true, 0.4},
		{"public night", models.SitePublic, 23, true, 0.2},
		{"highway daytime", models.SiteHighway, 14, false, 0.6},
		{"highway night", models.SiteHighway, 2, true, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usageProbability(tt.site, tt.hour, tt.weekday))
		})
	}
}

func TestSolarHourFactor(t *testing.T) {
	assert.Equal(t, 1.0, solarHourFactor(12))
	assert.Zero(t, solarHourFactor(5))
	assert.Zero(t, solarHourFactor(19))
	assert.InDelta(t, math.Exp(-0.5), solarHourFactor(8), 1e-9)
	assert.InDelta(t, solarHourFactor(8), solarHourFactor(16), 1e-9, "bell curve is symmetric around noon")
}

func TestSolarSeasonalFactor(t *testing.T) {
	assert.InDelta(t, 0.7, solarSeasonalFactor(6), 1e-9)
	assert.InDelta(t, 1.3, solarSeasonalFactor(9), 1e-9)
	assert.InDelta(t, 0.1, solarSeasonalFactor(3), 1e-9)
}

func TestIsWeekday(t *testing.T) {
	assert.True(t, isWeekday(time.Monday))
	assert.True(t, isWeekday(time.Friday))
	assert.False(t, isWeekday(time.Saturday))
	assert.False(t, isWeekday(time.Sunday))
}
