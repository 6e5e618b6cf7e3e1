package dining

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"activity-aggregator/internal/catalog"
	apperrors "activity-aggregator/internal/common/errors"
	"activity-aggregator/internal/common/httpclient"
	"activity-aggregator/internal/common/logger"
	"activity-aggregator/internal/common/metrics"
	"activity-aggregator/internal/providers"
)

// SourceName is the canonical attribution for this adapter's records.
const SourceName = "Yelp"

const idPrefix = "yelp-"

const popularityThreshold = 0.7

type Adapter struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func New(config *Config, log logger.Logger) *Adapter {
	return &Adapter{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"provider": SourceName}),
	}
}

func (a *Adapter) Name() string {
	return SourceName
}

// Fetch returns dining suggestions for the query, or nothing on any
// internal failure. Restaurants are open across the whole range, so
// dates are assigned round-robin the same way attractions are.
func (a *Adapter) Fetch(ctx context.Context, q catalog.Query) []catalog.Record {
	start := time.Now()
	records, err := a.fetch(ctx, q)
	metrics.ProviderFetchDuration.WithLabelValues(SourceName).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderFetches.WithLabelValues(SourceName, "error").Inc()
		a.logger.Warn("fetch failed, returning no records", map[string]interface{}{
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err.Error(),
		})
		return nil
	}

	metrics.ProviderFetches.WithLabelValues(SourceName, "success").Inc()
	metrics.ProviderRecords.WithLabelValues(SourceName).Add(float64(len(records)))
	return records
}

func (a *Adapter) fetch(ctx context.Context, q catalog.Query) ([]catalog.Record, error) {
	if a.config.APIKey == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingCredentials, SourceName, "api key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.buildURL(q), nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, SourceName, err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, providers.ClassifyTransportError(SourceName, ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.FromHTTPStatus(SourceName, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUpstreamUnavailable, SourceName, err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMalformedPayload, SourceName, err)
	}

	records := make([]catalog.Record, 0, len(payload.Businesses))
	for i, biz := range payload.Businesses {
		rec := mapBusiness(q, i, biz)
		if err := rec.Validate(); err != nil {
			a.logger.Debug("dropping record", map[string]interface{}{"reason": err.Error()})
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (a *Adapter) buildURL(q catalog.Query) string {
	base, _ := url.Parse(a.config.BaseURL)
	base.Path = strings.TrimSuffix(base.Path, "/") + "/businesses/search"

	params := url.Values{}
	params.Add("location", q.City)
	params.Add("sort_by", "rating")
	params.Add("limit", strconv.Itoa(a.config.MaxResults))
	base.RawQuery = params.Encode()
	return base.String()
}

// mapBusiness is the total mapping from one upstream business to a
// canonical record. i is the position in the upstream list, used for
// the round-robin date assignment.
func mapBusiness(q catalog.Query, i int, biz business) catalog.Record {
	rec := catalog.Record{
		ID:          idPrefix + biz.ID,
		Name:        biz.Name,
		Category:    "Restaurant",
		Venue:       biz.Location.Address1,
		Date:        q.DateAt(i),
		Price:       catalog.PriceUnknown,
		Description: biz.Name,
		ImageURL:    biz.ImageURL,
		BookingURL:  biz.URL,
		Source:      SourceName,
		Rating:      biz.Rating,
		Popular:     biz.Rating/5 >= popularityThreshold,
		City:        q.City,
	}

	if len(biz.Categories) > 0 && biz.Categories[0].Title != "" {
		rec.Category = biz.Categories[0].Title
		rec.Description = biz.Categories[0].Title + " spot"
	}
	if rec.Venue == "" {
		rec.Venue = catalog.VenueTBA
	}
	if isPriceTier(biz.Price) {
		rec.Price = biz.Price
	}
	if biz.Coordinates.Latitude != 0 || biz.Coordinates.Longitude != 0 {
		rec.Coordinates = &catalog.Coordinates{
			Lat: biz.Coordinates.Latitude,
			Lon: biz.Coordinates.Longitude,
		}
	}

	return rec
}

// isPriceTier reports whether s is an upstream "$".."$$$$" tier string.
// Tiers pass through untouched; anything else is unknowable without
// menu data.
func isPriceTier(s string) bool {
	return s != "" && strings.Trim(s, "$") == ""
}
