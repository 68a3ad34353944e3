// Package api serves the generated dataset and its analytics as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kanna-karuppasamy/der-integration-analytics/internal/analysis"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/cluster"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/config"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/metrics"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/models"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/risk"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/store"
	"github.com/kanna-karuppasamy/der-integration-analytics/internal/synth"
)

// Server exposes the synthetic fleet and its analytics over HTTP.
type Server struct {
	store    *store.Store
	params   synth.Params
	analysis config.AnalysisConfig
	http     config.HTTPConfig
}

// New creates a server reading snapshots from st for the given parameters.
func New(st *store.Store, params synth.Params, analysisCfg config.AnalysisConfig, httpCfg config.HTTPConfig) *Server {
	return &Server{
		store:    st,
		params:   params,
		analysis: analysisCfg,
		http:     httpCfg,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/summary", s.instrument("summary", s.handleSummary))
	mux.HandleFunc("GET /api/feeders", s.instrument("feeders", s.handleFeeders))
	mux.HandleFunc("GET /api/meters", s.instrument("meters", s.handleMeters))
	mux.HandleFunc("GET /api/chargers", s.instrument("chargers", s.handleChargers))
	mux.HandleFunc("GET /api/inverters", s.instrument("inverters", s.handleInverters))
	mux.HandleFunc("GET /api/forecasts", s.instrument("forecasts", s.handleForecasts))
	mux.HandleFunc("GET /api/projection", s.instrument("projection", s.handleProjection))
	mux.HandleFunc("GET /api/clusters", s.instrument("clusters", s.handleClusters))
	mux.HandleFunc("GET /api/profiles/charging", s.instrument("profiles_charging", s.handleChargingProfiles))
	mux.HandleFunc("GET /api/profiles/solar", s.instrument("profiles_solar", s.handleSolarProfiles))
	mux.HandleFunc("GET /api/profiles/net", s.instrument("profiles_net", s.handleNetImpact))
	mux.HandleFunc("GET /api/upgrades", s.instrument("upgrades", s.handleUpgrades))
	mux.HandleFunc("POST /api/cache/reset", s.instrument("cache_reset", s.handleCacheReset))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.http.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.http.ReadTimeout,
		WriteTimeout: s.http.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()
	log.Printf("[API] Server listening on %s", s.http.Addr)

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.http.ShutdownTimeout)
		defer cancel()
		log.Println("[API] Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) dataset() *models.Dataset {
	return s.store.GetOrGenerate(s.params)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	threshold, err := s.thresholdFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis.Summarize(s.dataset(), threshold))
}

func (s *Server) handleFeeders(w http.ResponseWriter, r *http.Request) {
	feeders := s.dataset().Feeders

	if tier := r.URL.Query().Get("risk"); tier != "" {
		switch models.RiskTier(tier) {
		case models.RiskLow, models.RiskMedium, models.RiskHigh:
		default:
			writeError(w, http.StatusBadRequest, fmt.Errorf("unknown risk tier %q", tier))
			return
		}
		filtered := make([]models.Feeder, 0, len(feeders))
		for _, f := range feeders {
			if f.Risk == models.RiskTier(tier) {
				filtered = append(filtered, f)
			}
		}
		feeders = filtered
	}
	writeJSON(w, http.StatusOK, feeders)
}

func (s *Server) handleMeters(w http.ResponseWriter, r *http.Request) {
	limit, err := limitFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	readings := s.dataset().Meters
	if limit > 0 && limit < len(readings) {
		readings = readings[:limit]
	}
	writeJSON(w, http.StatusOK, readings)
}

func (s *Server) handleChargers(w http.ResponseWriter, r *http.Request) {
	limit, err := limitFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	readings := s.dataset().Chargers
	if limit > 0 && limit < len(readings) {
		readings = readings[:limit]
	}
	writeJSON(w, http.StatusOK, readings)
}

func (s *Server) handleInverters(w http.ResponseWriter, r *http.Request) {
	limit, err := limitFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	readings := s.dataset().Inverters
	if limit > 0 && limit < len(readings) {
		readings = readings[:limit]
	}
	writeJSON(w, http.StatusOK, readings)
}

func (s *Server) handleForecasts(w http.ResponseWriter, r *http.Request) {
	forecasts := s.dataset().Forecasts

	if name := r.URL.Query().Get("scenario"); name != "" {
		scenario, err := models.ParseScenario(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filtered := make([]models.AdoptionForecast, 0, len(forecasts)/len(models.Scenarios)+1)
		for _, f := range forecasts {
			if f.Scenario == scenario {
				filtered = append(filtered, f)
			}
		}
		forecasts = filtered
	}
	writeJSON(w, http.StatusOK, forecasts)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.scenarioFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	year, err := s.yearFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	projection, err := synth.ProjectionAt(s.dataset().Forecasts, scenario, year)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

type clustersResponse struct {
	Feeders []models.ClusteredFeeder `json:"feeders"`
	Summary []models.ClusterSummary  `json:"summary"`
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	k := s.analysis.Clusters
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("k must be a positive integer, got %q", raw))
			return
		}
		k = parsed
	}

	ds := s.dataset()
	usage := analysis.UsageByFeeder(ds)
	clustered, summaries, err := cluster.Assign(ds.Feeders, usage, k, cluster.DefaultSeed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, clustersResponse{Feeders: clustered, Summary: summaries})
}

func (s *Server) handleChargingProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, analysis.ChargingProfiles(s.dataset().Chargers))
}

func (s *Server) handleSolarProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, analysis.SolarProfiles(s.dataset().Inverters))
}

func (s *Server) handleNetImpact(w http.ResponseWriter, _ *http.Request) {
	ds := s.dataset()
	writeJSON(w, http.StatusOK, analysis.NetImpact(ds.Chargers, ds.Inverters))
}

func (s *Server) handleUpgrades(w http.ResponseWriter, r *http.Request) {
	threshold, err := s.thresholdFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, risk.PlanUpgrades(s.dataset().Feeders, threshold))
}

func (s *Server) handleCacheReset(w http.ResponseWriter, _ *http.Request) {
	s.store.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"snapshots": s.store.Size(),
	})
}

// thresholdFrom reads the constraint threshold override, keeping it in
// the same (0, 100] range the configuration enforces.
func (s *Server) thresholdFrom(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		return s.analysis.ThresholdPct, nil
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("threshold must be a number, got %q", raw)
	}
	if threshold <= 0 || threshold > 100 {
		return 0, fmt.Errorf("threshold must be in (0, 100], got %v", threshold)
	}
	return threshold, nil
}

func (s *Server) scenarioFrom(r *http.Request) (models.Scenario, error) {
	raw := r.URL.Query().Get("scenario")
	if raw == "" {
		raw = s.analysis.DefaultScenario
	}
	return models.ParseScenario(raw)
}

func (s *Server) yearFrom(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return s.analysis.DefaultYear, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("year must be an integer, got %q", raw)
	}
	if year < synth.ForecastBaseYear || year > synth.ForecastHorizonYear {
		return 0, fmt.Errorf("year must be in [%d, %d], got %d", synth.ForecastBaseYear, synth.ForecastHorizonYear, year)
	}
	return year, nil
}

func limitFrom(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer, got %q", raw)
	}
	return limit, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusRecorder captures the status code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		metrics.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
	}
}
