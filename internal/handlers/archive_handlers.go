package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"climate-feed/internal/models"
	"climate-feed/internal/repository"
	"climate-feed/internal/services"
	"climate-feed/pkg/logging"
	"climate-feed/pkg/metrics"
)

// ArchiveHandler handles the read-only archive API endpoints
type ArchiveHandler struct {
	archive *services.ArchiveService
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(
	archive *services.ArchiveService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *ArchiveHandler {
	return &ArchiveHandler{
		archive: archive,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// GetStations handles GET /api/v1/stations
func (h *ArchiveHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/v1/stations").Observe(duration.Seconds())
	}()

	page, limit := parsePagination(r)
	offset := (page - 1) * limit

	stations, err := h.archive.GetStations(ctx, limit, offset)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_STATIONS_ERROR] Failed to list stations", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/v1/stations")
		h.sendError(w, r, "failed to retrieve stations", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/v1/stations", "GET", "200")
	h.sendJSON(w, PaginatedResponse{
		Data:  stations,
		Total: len(stations),
		Page:  page,
		Limit: limit,
	}, http.StatusOK)
}

// GetStation handles GET /api/v1/stations/{id}
func (h *ArchiveHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/v1/stations/{id}").Observe(duration.Seconds())
	}()

	stationID := mux.Vars(r)["id"]

	station, err := h.archive.GetStation(ctx, stationID)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			h.sendError(w, r, notFound.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error(ctx, "[API_GET_STATION_ERROR] Failed to get station", logging.Fields{
			"station_id": stationID,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/v1/stations/{id}")
		h.sendError(w, r, "failed to retrieve station", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/v1/stations/{id}", "GET", "200")
	h.sendJSON(w, station, http.StatusOK)
}

// GetAggregates handles GET /api/v1/aggregates
func (h *ArchiveHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/v1/aggregates").Observe(duration.Seconds())
	}()

	page, limit := parsePagination(r)

	filter := repository.AggregateFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if stationID := r.URL.Query().Get("station_id"); stationID != "" {
		filter.StationID = &stationID
	}

	if levelStr := r.URL.Query().Get("level"); levelStr != "" {
		level, err := models.ParseAggregationLevel(levelStr)
		if err != nil {
			h.sendError(w, r, "invalid level, expected decade, month or year", http.StatusBadRequest)
			return
		}
		filter.Level = &level
	}

	if startDateStr := r.URL.Query().Get("start_date"); startDateStr != "" {
		startDate, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			h.sendError(w, r, "invalid start_date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.StartDate = &startDate
	}

	if endDateStr := r.URL.Query().Get("end_date"); endDateStr != "" {
		endDate, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			h.sendError(w, r, "invalid end_date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.EndDate = &endDate
	}

	records, total, err := h.archive.GetAggregates(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_AGGREGATES_ERROR] Failed to get aggregated records", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/v1/aggregates")
		h.sendError(w, r, "failed to retrieve aggregated records", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	h.metrics.RecordAPIRequest("/api/v1/aggregates", "GET", "200")
	h.sendJSON(w, PaginatedResponse{
		Data:       records,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *ArchiveHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.archive.HealthCheck(ctx); err != nil {
		status["status"] = "unhealthy"
		h.logger.Error(ctx, "[HEALTH_CHECK_ERROR] Archive unavailable", logging.Fields{}, err)
		h.sendJSON(w, status, http.StatusServiceUnavailable)
		return
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// parsePagination reads the page/limit query parameters with the
// usual defaults and cap.
func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = 100

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	return page, limit
}

// sendJSON sends a JSON response
func (h *ArchiveHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *ArchiveHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all archive API routes
func (h *ArchiveHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/stations", h.GetStations).Methods("GET")
	router.HandleFunc("/api/v1/stations/{id}", h.GetStation).Methods("GET")
	router.HandleFunc("/api/v1/aggregates", h.GetAggregates).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
