package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkrell/consequence-mirror/internal/classifier"
	"github.com/mkrell/consequence-mirror/internal/decay"
	"github.com/mkrell/consequence-mirror/internal/engine"
	"github.com/mkrell/consequence-mirror/internal/models"
	"github.com/mkrell/consequence-mirror/internal/observability"
	"github.com/mkrell/consequence-mirror/internal/recorder"
	"github.com/mkrell/consequence-mirror/internal/repository"
	"github.com/mkrell/consequence-mirror/internal/stream"
)

type Handler struct {
	engine      *engine.Engine
	repo        repository.ProjectionRepository
	recorder    *recorder.Recorder
	broadcaster *stream.Broadcaster
	metrics     *observability.Metrics
}

func NewHandler(eng *engine.Engine, repo repository.ProjectionRepository, rec *recorder.Recorder, broadcaster *stream.Broadcaster, metrics *observability.Metrics) *Handler {
	return &Handler{
		engine:      eng,
		repo:        repo,
		recorder:    rec,
		broadcaster: broadcaster,
		metrics:     metrics,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/simulate", h.simulate)
	r.GET("/api/disaster-types", h.disasterTypes)
	r.GET("/api/hospitals/status", h.hospitalStatus)
	r.GET("/api/cost-of-delay", h.costOfDelay)
	r.POST("/api/classify", h.classify)
	r.GET("/api/projections", h.listProjections)
	r.GET("/api/stream", h.streamProjections)
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

type simulateRequest struct {
	Category   string   `json:"category" binding:"required"`
	DelayDays  *int     `json:"delay_days" binding:"required"`
	Confidence *float64 `json:"confidence"`
}

func (h *Handler) simulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and delay_days are required"})
		return
	}

	category := canonicalCategory(req.Category)

	start := time.Now()
	var (
		result models.ConsequenceResult
		err    error
	)
	if req.Confidence != nil {
		result, err = h.engine.SimulateWithConfidence(category, *req.DelayDays, *req.Confidence)
	} else {
		result, err = h.engine.Simulate(category, *req.DelayDays)
	}
	if err != nil {
		h.renderEngineError(c, err)
		return
	}
	h.metrics.SimulateDuration.Observe(time.Since(start).Seconds())
	h.metrics.SimulationsTotal.WithLabelValues(string(result.Category)).Inc()

	if h.recorder != nil {
		h.recorder.Record(result)
		h.metrics.RecorderQueueDepth.Set(float64(h.recorder.QueueDepth()))
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) disasterTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"disaster_types": h.engine.Categories()})
}

func (h *Handler) hospitalStatus(c *gin.Context) {
	category := canonicalCategory(c.DefaultQuery("category", string(models.CategoryFlood)))
	delayDays, err := strconv.Atoi(c.DefaultQuery("delay_days", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delay_days must be an integer"})
		return
	}
	// Day 3 is the typical peak-demand checkpoint.
	phaseDay, err := strconv.Atoi(c.DefaultQuery("phase_day", "3"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phase_day must be an integer"})
		return
	}

	status, err := h.engine.HospitalStatus(category, delayDays, phaseDay)
	if err != nil {
		h.renderEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":   category,
		"delay_days": delayDays,
		"phase_day":  phaseDay,
		"hospital":   status,
	})
}

func (h *Handler) costOfDelay(c *gin.Context) {
	category := canonicalCategory(c.Query("category"))
	delayDays, err := strconv.Atoi(c.DefaultQuery("delay_days", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delay_days must be an integer"})
		return
	}

	estimate, err := h.engine.CostOfDelay(category, delayDays)
	if err != nil {
		h.renderEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":      category,
		"delay_days":    delayDays,
		"cost_of_delay": estimate,
	})
}

type classifyRequest struct {
	Category string             `json:"category" binding:"required"`
	Reading  classifier.Reading `json:"reading"`
}

func (h *Handler) classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	category, ok := models.ParseCategory(req.Category)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":            "unknown disaster category",
			"valid_categories": models.Categories(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":   category,
		"confidence": classifier.Classify(category, req.Reading),
	})
}

func (h *Handler) listProjections(c *gin.Context) {
	filter := repository.Filter{
		Limit: 20, // Default if limit param not supplied
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}
	if cat := c.Query("category"); cat != "" {
		if parsed, ok := models.ParseCategory(cat); ok {
			filter.Category = &parsed
		}
	}
	if md := c.Query("min_delay"); md != "" {
		if v, err := strconv.Atoi(md); err == nil {
			filter.MinDelay = &v
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}

	records, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch projections",
		})
		return
	}
	if records == nil {
		records = []models.ProjectionRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"projections": records})
}

func (h *Handler) streamProjections(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming not enabled"})
		return
	}

	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	h.metrics.StreamSubscribers.Inc()
	defer h.metrics.StreamSubscribers.Dec()

	c.Stream(func(w io.Writer) bool {
		select {
		case rec, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("projection", rec)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderEngineError maps engine sentinels to client responses: unknown
// category reads as "not found", a bad delay as "out of range", and a
// structural violation as an internal fault (after counting it).
func (h *Handler) renderEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidCategory):
		h.metrics.ValidationFailures.WithLabelValues("category").Inc()
		c.JSON(http.StatusNotFound, gin.H{
			"error":            err.Error(),
			"valid_categories": models.Categories(),
		})
	case errors.Is(err, engine.ErrInvalidDelay):
		h.metrics.ValidationFailures.WithLabelValues("delay").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          err.Error(),
			"min_delay_days": decay.MinDelayDays,
			"max_delay_days": decay.MaxDelayDays,
		})
	case errors.Is(err, engine.ErrInvalidCheckpoint):
		h.metrics.ValidationFailures.WithLabelValues("checkpoint").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            err.Error(),
			"valid_phase_days": checkpointDays(),
		})
	case errors.Is(err, engine.ErrStructuralInvariant):
		h.metrics.StructuralViolations.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "simulation failed structural checks",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation error"})
	}
}

func checkpointDays() []int {
	days := make([]int, 0, models.PhaseCount)
	for _, p := range models.Phases() {
		days = append(days, p.Day)
	}
	return days
}

// canonicalCategory normalizes case for known categories and passes unknown
// names through untouched so the engine can report them.
func canonicalCategory(s string) models.DisasterCategory {
	if parsed, ok := models.ParseCategory(s); ok {
		return parsed
	}
	return models.DisasterCategory(s)
}
