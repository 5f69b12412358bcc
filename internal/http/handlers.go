package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/malambomutila/ai-weather-app/internal/client"
	"github.com/malambomutila/ai-weather-app/internal/lifecycle"
	"github.com/malambomutila/ai-weather-app/internal/models"
	"github.com/malambomutila/ai-weather-app/internal/observability"
	"github.com/malambomutila/ai-weather-app/internal/present"
	"github.com/malambomutila/ai-weather-app/internal/traffic"
	"github.com/malambomutila/ai-weather-app/internal/validation"
)

// ReportService produces a report for a city.
type ReportService interface {
	GetReport(ctx context.Context, city string) (models.Report, error)
}

// HealthConfig holds thresholds for the health handler.
type HealthConfig struct {
	DegradedWindow   time.Duration
	DegradedErrorPct int
	StartTime        time.Time
	Version          string
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	weatherService   ReportService
	healthConfig     *HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. healthConfig may be nil, which disables the degraded check.
func NewHandler(weatherService ReportService, healthConfig *HealthConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		weatherService: weatherService,
		healthConfig:   healthConfig,
		logger:         logger,
	}
}

// GetWeather handles GET /weather/{city}.
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	report, err := h.weatherService.GetReport(r.Context(), mux.Vars(r)["city"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]string{"weatherApi": "healthy"}
	if result.status == "degraded" {
		checks["weatherApi"] = "unhealthy"
	}
	version := "dev"
	resp := map[string]interface{}{
		"status":    result.status,
		"service":   "ai-weather-app",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.healthConfig != nil {
		if h.healthConfig.Version != "" {
			version = h.healthConfig.Version
		}
		if !h.healthConfig.StartTime.IsZero() {
			resp["uptime"] = time.Since(h.healthConfig.StartTime).Round(time.Second).String()
		}
	}
	resp["version"] = version
	if since, ok := lifecycle.DrainingSince(); ok {
		resp["drainingSince"] = since.UTC().Format(time.RFC3339)
	}
	writeJSON(w, result.statusCode, resp)
}

// computeHealthStatus evaluates shutting-down first, then the recent query error rate.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig != nil && h.healthConfig.DegradedWindow > 0 &&
		traffic.Degraded(h.healthConfig.DegradedWindow, h.healthConfig.DegradedErrorPct) {
		return healthResult{"degraded", http.StatusServiceUnavailable, "error_rate_breach"}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope, carrying the correlation id as requestId.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": observability.CorrelationIDFromContext(r.Context()),
		},
	})
}

// errorStatus maps a pipeline error to its HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case validation.IsInvalid(err):
		return http.StatusBadRequest, "INVALID_CITY"
	case errors.Is(err, client.ErrCityNotFound):
		return http.StatusNotFound, "CITY_NOT_FOUND"
	case errors.Is(err, client.ErrMalformedResponse):
		return http.StatusBadGateway, "MALFORMED_RESPONSE"
	case errors.Is(err, client.ErrExtraction):
		return http.StatusBadGateway, "EXTRACTION_FAILED"
	case errors.Is(err, client.ErrNetworkFailure):
		return http.StatusServiceUnavailable, "NETWORK_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// writeServiceError writes the mapped error response. The underlying error is logged, never returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	message := present.Message(err)
	if code == "INTERNAL_ERROR" {
		message = "Unable to fetch weather data"
	}
	writeError(w, r, status, code, message)
	if logger := observability.LoggerFromContext(r.Context()); logger != nil {
		logger.Debug("weather request failed", zap.String("code", code), zap.Error(err))
	}
}
