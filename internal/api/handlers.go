// Package api exposes shortlists, breakdowns and analytics over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/analytics"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/shortlist"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// Shortlister generates and explains shortlists
type Shortlister interface {
	Generate(ctx context.Context, jobID string, limit int) (*shortlist.Result, error)
	Breakdown(ctx context.Context, jobID, contractorID string) (*shortlist.Breakdown, error)
}

// JobReader loads stored jobs
type JobReader interface {
	GetJob(ctx context.Context, id string) (*models.Job, error)
}

// Analytics serves success metrics and records selections
type Analytics interface {
	SuccessRate(ctx context.Context) (analytics.Rate, error)
	WorkTypeSuccessRates(ctx context.Context) (map[string]analytics.Rate, error)
	TopContractors(ctx context.Context, limit int) ([]analytics.TopContractor, error)
	UsageStats(ctx context.Context) (analytics.Usage, error)
	UpdateAISuccessTracking(ctx context.Context, jobID, contractorID string) (*analytics.Selection, error)
}

// Handler holds the HTTP handlers
type Handler struct {
	shortlists   Shortlister
	jobs         JobReader
	analytics    Analytics
	defaultLimit int
	log          logrus.FieldLogger
}

// NewHandler returns a handler. defaultLimit applies when a request has no limit.
func NewHandler(shortlists Shortlister, jobs JobReader, analytics Analytics, defaultLimit int, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		shortlists:   shortlists,
		jobs:         jobs,
		analytics:    analytics,
		defaultLimit: defaultLimit,
		log:          log,
	}
}

// Router builds the gin engine with every route registered
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())
	h.SetupRoutes(r)
	return r
}

// SetupRoutes registers the routes on r
func (h *Handler) SetupRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	jobs := v1.Group("/jobs/:id")
	jobs.POST("/shortlist", h.GenerateShortlist)
	jobs.GET("/shortlist", h.GetShortlist)
	jobs.GET("/contractors/:contractorId/breakdown", h.GetBreakdown)
	jobs.POST("/selection", h.RecordSelection)

	stats := v1.Group("/analytics")
	stats.GET("/success-rate", h.GetSuccessRate)
	stats.GET("/work-types", h.GetWorkTypeRates)
	stats.GET("/top-contractors", h.GetTopContractors)
	stats.GET("/usage", h.GetUsage)
}

// GenerateShortlist handles POST /api/v1/jobs/:id/shortlist?limit=N
func (h *Handler) GenerateShortlist(c *gin.Context) {
	limit, ok := h.limitParam(c)
	if !ok {
		return
	}

	res, err := h.shortlists.Generate(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetShortlist handles GET /api/v1/jobs/:id/shortlist
func (h *Handler) GetShortlist(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	entries := job.Shortlist
	if entries == nil {
		entries = []models.ShortlistEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"job_id":       job.ID,
		"entries":      entries,
		"generated_at": job.ShortlistGeneratedAt,
	})
}

// GetBreakdown handles GET /api/v1/jobs/:id/contractors/:contractorId/breakdown
func (h *Handler) GetBreakdown(c *gin.Context) {
	b, err := h.shortlists.Breakdown(c.Request.Context(), c.Param("id"), c.Param("contractorId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type selectionRequest struct {
	ContractorID string `json:"contractorId" binding:"required"`
}

// RecordSelection handles POST /api/v1/jobs/:id/selection
func (h *Handler) RecordSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contractorId is required"})
		return
	}

	sel, err := h.analytics.UpdateAISuccessTracking(c.Request.Context(), c.Param("id"), req.ContractorID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

// GetSuccessRate handles GET /api/v1/analytics/success-rate
func (h *Handler) GetSuccessRate(c *gin.Context) {
	rate, err := h.analytics.SuccessRate(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// GetWorkTypeRates handles GET /api/v1/analytics/work-types
func (h *Handler) GetWorkTypeRates(c *gin.Context) {
	rates, err := h.analytics.WorkTypeSuccessRates(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

// GetTopContractors handles GET /api/v1/analytics/top-contractors?limit=N
func (h *Handler) GetTopContractors(c *gin.Context) {
	limit, ok := h.limitParam(c)
	if !ok {
		return
	}

	top, err := h.analytics.TopContractors(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, top)
}

// GetUsage handles GET /api/v1/analytics/usage
func (h *Handler) GetUsage(c *gin.Context) {
	usage, err := h.analytics.UsageStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// limitParam reads ?limit, falling back to the default. It writes a 400
// and returns false when the value is not a non-negative integer.
func (h *Handler) limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return h.defaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return limit, true
}

// fail maps err to a status code and writes the error body
func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor returns the HTTP status for a service error
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoEligibleContractors):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Debug("request")
	}
}
