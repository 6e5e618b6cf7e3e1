package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"activity-aggregator/internal/catalog"
	"activity-aggregator/internal/common/cache"
	"activity-aggregator/internal/common/logger"
	"activity-aggregator/internal/common/metrics"
	"activity-aggregator/internal/pipeline"
	"activity-aggregator/pkg/registry"
)

// maxRangeDays caps the query window; anything longer is rejected
// before it can fan out.
const maxRangeDays = 31

// Aggregator is the pipeline entry point the handlers call.
type Aggregator interface {
	Aggregate(ctx context.Context, q catalog.Query, policy pipeline.RankPolicy) *pipeline.Result
}

// Handler serves the public API. cache may be nil, in which case every
// request runs the pipeline.
type Handler struct {
	aggregator Aggregator
	cache      *cache.Cache
	registry   *registry.ProviderRegistry
	logger     logger.Logger
}

func NewHandler(agg Aggregator, c *cache.Cache, reg *registry.ProviderRegistry, log logger.Logger) *Handler {
	return &Handler{
		aggregator: agg,
		cache:      c,
		registry:   reg,
		logger:     log,
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	data, _ := json.Marshal(body)
	writeJSON(w, status, data)
}

// parseQuery validates the common query parameters shared by both
// aggregation endpoints.
func parseQuery(r *http.Request) (catalog.Query, string, string, error) {
	city := r.URL.Query().Get("city")
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if city == "" || startStr == "" || endStr == "" {
		return catalog.Query{}, "", "", fmt.Errorf("city, start and end are required")
	}

	start, err := time.Parse(catalog.DateLayout, startStr)
	if err != nil {
		return catalog.Query{}, "", "", fmt.Errorf("start must be YYYY-MM-DD")
	}
	end, err := time.Parse(catalog.DateLayout, endStr)
	if err != nil {
		return catalog.Query{}, "", "", fmt.Errorf("end must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return catalog.Query{}, "", "", fmt.Errorf("end must not be before start")
	}

	q := catalog.Query{City: city, Start: start, End: end}
	if q.Days() > maxRangeDays {
		return catalog.Query{}, "", "", fmt.Errorf("date range must not exceed %d days", maxRangeDays)
	}
	return q, startStr, endStr, nil
}

// Activities lists everything to do in a city, earliest first.
func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	h.aggregate(w, r, "activities", pipeline.RankChronological)
}

// Suggestions lists the same inventory ordered by how worthwhile each
// entry looks.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	h.aggregate(w, r, "suggestions", pipeline.RankRelevance)
}

func (h *Handler) aggregate(w http.ResponseWriter, r *http.Request, view string, policy pipeline.RankPolicy) {
	q, startStr, endStr, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	ctx := r.Context()
	key := cache.Key(view, q.City, startStr, endStr)

	if h.cache != nil {
		if body, hit, err := h.cache.Get(ctx, key); err != nil {
			h.logger.Warn("cache read failed", map[string]interface{}{"error": err.Error()})
		} else if hit {
			metrics.CacheHits.Inc()
			w.Header().Set("X-Cache", "HIT")
			h.setFreshness(w)
			writeJSON(w, http.StatusOK, body)
			return
		} else {
			metrics.CacheMisses.Inc()
		}
	}

	result := h.aggregator.Aggregate(ctx, q, policy)

	body, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to encode response")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, body); err != nil {
			h.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	w.Header().Set("X-Cache", "MISS")
	h.setFreshness(w)
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) setFreshness(w http.ResponseWriter) {
	ttl := 24 * time.Hour
	if h.cache != nil {
		ttl = h.cache.TTL()
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))
}

// Providers exposes the static provider catalog.
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(h.registry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to encode response")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// Healthz reports liveness plus dependency reachability. The service is
// healthy even when optional dependencies are down; they are reported
// so operators can see degraded mode.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}

	body, _ := json.Marshal(status)
	writeJSON(w, http.StatusOK, body)
}
