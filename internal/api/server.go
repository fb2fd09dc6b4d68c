// Package api provides the local REST server: scans on demand, waiver
// management, health, and Prometheus metrics.
package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/girdav01/gateguard/internal/audit"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/logging"
	"github.com/girdav01/gateguard/internal/waiver"
)

var (
	scansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateguard_scans_total",
		Help: "Number of scans served by the API.",
	})
	lastScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gateguard_last_scan_score",
		Help: "Score of the most recent scan.",
	})
	lastFindings = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gateguard_last_scan_findings",
		Help: "Findings in the most recent scan, by severity.",
	}, []string{"severity"})
)

// Server holds the API state. Scan results live in memory, keyed by an
// opaque scan ID, for the lifetime of the process.
type Server struct {
	defaults audit.Options
	store    *waiver.Store

	mu    sync.Mutex
	scans map[string]*core.ScanResult
}

// NewServer creates a Server auditing the given installation by default.
func NewServer(defaults audit.Options) *Server {
	return &Server{
		defaults: defaults,
		store:    waiver.NewStore(defaults.StateDir),
		scans:    make(map[string]*core.ScanResult),
	}
}

// Start runs the server on the given port until the listener fails.
func (s *Server) Start(port int) error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/scan", s.handleScan)
	r.Get("/api/v1/scan/{scanID}", s.handleGetScan)

	r.Get("/api/v1/waivers", s.handleListWaivers)
	r.Post("/api/v1/waivers", s.handleAddWaiver)
	r.Delete("/api/v1/waivers/{code}", s.handleRemoveWaiver)

	addr := fmt.Sprintf(":%d", port)
	logging.Logger.Infow("api server listening", "addr", addr)
	return http.ListenAndServe(addr, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "gateguard",
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigPath string `json:"config_path"`
		StateDir   string `json:"state_dir"`
		Version    string `json:"version"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	opts := s.defaults
	if req.ConfigPath != "" {
		opts.ConfigPath = req.ConfigPath
	}
	if req.StateDir != "" {
		opts.StateDir = req.StateDir
	}
	if req.Version != "" {
		opts.Version = req.Version
		opts.VersionSource = "cli"
	}

	result, _, _, err := audit.Run(opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	scanID := generateScanID()
	s.mu.Lock()
	s.scans[scanID] = result
	s.mu.Unlock()

	scansTotal.Inc()
	lastScore.Set(float64(result.Score))
	for sev, count := range result.BySeverity {
		lastFindings.WithLabelValues(string(sev)).Set(float64(count))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scan_id": scanID,
		"result":  result,
	})
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	s.mu.Lock()
	result, ok := s.scans[scanID]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListWaivers(w http.ResponseWriter, r *http.Request) {
	active, err := s.store.Active(time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if active == nil {
		active = []core.Waiver{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"waivers": active,
		"total":   len(active),
	})
}

func (s *Server) handleAddWaiver(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code      string `json:"code"`
		Path      string `json:"path"`
		Reason    string `json:"reason"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" || req.ExpiresAt == "" {
		writeError(w, http.StatusBadRequest, "code and expires_at are required")
		return
	}
	expires, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "expires_at must be RFC3339")
		return
	}
	wv := core.Waiver{
		Code:      req.Code,
		Path:      req.Path,
		Reason:    req.Reason,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expires,
	}
	if err := s.store.Add(wv); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, wv)
}

func (s *Server) handleRemoveWaiver(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	path := r.URL.Query().Get("path")
	removed, err := s.store.Remove(code, path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if removed == 0 {
		writeError(w, http.StatusNotFound, "no matching waiver")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func generateScanID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%016x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
