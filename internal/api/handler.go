package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-hazard-map/internal/ingestion"
	"github.com/mr1hm/go-hazard-map/internal/models"
	"github.com/mr1hm/go-hazard-map/internal/observability"
	"github.com/mr1hm/go-hazard-map/internal/scene"
)

// SnapshotSource is the part of ingestion.Refresher the handlers need.
type SnapshotSource interface {
	Snapshot() *models.DataSnapshot
	Refresh(ctx context.Context, trigger ingestion.Trigger) ingestion.RefreshResult
}

type Handler struct {
	source   SnapshotSource
	composer *scene.Composer
	metrics  *observability.Metrics
}

func NewHandler(source SnapshotSource, composer *scene.Composer, metrics *observability.Metrics) *Handler {
	return &Handler{
		source:   source,
		composer: composer,
		metrics:  metrics,
	}
}

// RegisterRoutes mounts the API. Only /api routes are rate limited, so
// health checks and metric scrapes are always answered.
func (h *Handler) RegisterRoutes(r *gin.Engine, rps int) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	scenes := r.Group("/api", RateLimitMiddleware(rps))
	scenes.GET("/scene", h.getScene)
	scenes.GET("/scene.geojson", h.getSceneGeoJSON)
	scenes.POST("/refresh", h.refresh)
}

func (h *Handler) getScene(c *gin.Context) {
	s, ok := h.compose(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) getSceneGeoJSON(c *gin.Context) {
	s, ok := h.compose(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, ToGeoJSON(s))
}

// compose renders the current snapshot with the request's toggles. It writes
// a 400 and returns false when the toggles do not parse.
func (h *Handler) compose(c *gin.Context) (models.Scene, bool) {
	vis, err := parseVisibility(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return models.Scene{}, false
	}

	s := h.composer.Compose(h.source.Snapshot(), vis)
	h.metrics.SceneLayers.Observe(float64(len(s.Layers)))
	return s, true
}

func (h *Handler) refresh(c *gin.Context) {
	res := h.source.Refresh(c.Request.Context(), ingestion.TriggerManual)

	available := res.Snapshot.AvailableCategories()
	c.JSON(http.StatusOK, gin.H{
		"fetched_at": res.Snapshot.FetchedAt().Format(time.RFC3339),
		"available":  available,
		"applied":    res.Applied,
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseVisibility reads the sensors and layers query params. A missing param
// enables its whole group; a present but empty one enables nothing.
func parseVisibility(c *gin.Context) (models.LayerVisibility, error) {
	sensors, err := parseGroupParam(c, models.GroupSensors)
	if err != nil {
		return models.LayerVisibility{}, err
	}
	layers, err := parseGroupParam(c, models.GroupLayers)
	if err != nil {
		return models.LayerVisibility{}, err
	}
	return models.NewVisibility(sensors, layers), nil
}

func parseGroupParam(c *gin.Context, g models.Group) ([]models.Category, error) {
	values, ok := c.GetQueryArray(string(g))
	if !ok {
		return models.GroupCategories(g), nil
	}
	return models.ParseGroup(g, values)
}
