package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler holds the dependencies for the HTTP handlers, the matching and stats services.
type HTTPHandler struct {
	matching *services.MatchingService
	stats    *services.StatsService
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(matching *services.MatchingService, stats *services.StatsService) *HTTPHandler {
	return &HTTPHandler{
		matching: matching,
		stats:    stats,
	}
}

// RegisterPublicRoutes registers the probes that bypass the API middleware.
func (h *HTTPHandler) RegisterPublicRoutes(router *gin.Engine) {
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterAPIRoutes registers the matching and stats routes.
func (h *HTTPHandler) RegisterAPIRoutes(api *gin.RouterGroup) {
	api.GET("/accommodation/:id/matches", h.GetAccommodationMatches)
	api.GET("/accommodation/stats", h.GetAccommodationStats)
	api.GET("/transportation/:id/matches", h.GetRideMatches)
	api.GET("/transportation/stats", h.GetTransportationStats)
	api.GET("/dashboard/stats", h.GetDashboardStats)
}

// NewRouter builds the gin engine with every route and middleware wired.
func (h *HTTPHandler) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), RequestLogMiddleware())
	h.RegisterPublicRoutes(r)

	api := r.Group("/api")
	api.Use(MetricsMiddleware())
	h.RegisterAPIRoutes(api)
	return r
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetAccommodationMatches handles the request for the providers compatible with an accommodation seeker.
func (h *HTTPHandler) GetAccommodationMatches(c *gin.Context) {
	result, err := h.matching.FindCompatibleAccommodation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GetRideMatches handles the request for the ranked rides of a ride seeker.
// Query parameters: maxDistance (int), sameDateOnly (bool), mode.
func (h *HTTPHandler) GetRideMatches(c *gin.Context) {
	opts, err := h.rideOptions(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.matching.FindCompatibleRides(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GetAccommodationStats handles the request for the accommodation stat cards.
func (h *HTTPHandler) GetAccommodationStats(c *gin.Context) {
	stats, err := h.stats.AccommodationStats(c.Request.Context(), statsFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// GetTransportationStats handles the request for the transportation stat cards.
func (h *HTTPHandler) GetTransportationStats(c *gin.Context) {
	stats, err := h.stats.TransportationStats(c.Request.Context(), statsFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// GetDashboardStats handles the request for both stat card groups at once.
func (h *HTTPHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.stats.DashboardStats(c.Request.Context(), statsFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (h *HTTPHandler) rideOptions(c *gin.Context) (models.RideSearchOptions, error) {
	opts := h.matching.DefaultRideOptions()

	if raw := c.Query("maxDistance"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, invalidParam("maxDistance", raw)
		}
		opts.MaxDistance = n
	}
	if raw := c.Query("sameDateOnly"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, invalidParam("sameDateOnly", raw)
		}
		opts.SameDateOnly = b
	}
	opts.Mode = strings.TrimSpace(c.Query("mode"))
	return opts, nil
}

func statsFilter(c *gin.Context) models.Filter {
	return models.Filter{
		District: strings.TrimSpace(c.Query("district")),
		State:    strings.TrimSpace(c.Query("state")),
	}
}

func invalidParam(name, value string) error {
	return &paramError{name: name, value: value}
}

type paramError struct {
	name, value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " " + strconv.Quote(e.value)
}

func (e *paramError) Unwrap() error { return services.ErrInvalidInput }

// respondError maps a service error kind to its HTTP status.
func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("[%s] %s %s: %v", RequestID(c), c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}

// StatusFor returns the HTTP status for an error returned by the services.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrRepositoryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
