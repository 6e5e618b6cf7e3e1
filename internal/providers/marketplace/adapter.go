package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
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
	"activity-aggregator/internal/common/validation"
	"activity-aggregator/internal/providers"
)

// SourceName is the canonical attribution for this adapter's records.
const SourceName = "SeatGeek"

const idPrefix = "sg-"

// popularityThreshold is the normalized-score cutoff above which an event
// is flagged popular. Advisory only.
const popularityThreshold = 0.7

const envelopeSchema = `{
	"type": "object",
	"properties": {
		"events": {"type": "array"}
	},
	"required": ["events"]
}`

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

// Fetch returns marketplace events for the query, or nothing on any
// internal failure.
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
	if a.config.ClientID == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingCredentials, SourceName, "client id not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.buildURL(q), nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, SourceName, err)
	}

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

	if err := validation.ValidateEnvelope(body, envelopeSchema); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMalformedPayload, SourceName, err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMalformedPayload, SourceName, err)
	}

	records := make([]catalog.Record, 0, len(payload.Events))
	for _, ev := range payload.Events {
		rec := mapEvent(q, ev)
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
	base.Path = strings.TrimSuffix(base.Path, "/") + "/events"

	params := url.Values{}
	params.Add("client_id", a.config.ClientID)
	if a.config.ClientSecret != "" {
		params.Add("client_secret", a.config.ClientSecret)
	}
	params.Add("venue.city", q.City)
	params.Add("datetime_local.gte", q.Start.Format("2006-01-02"))
	params.Add("datetime_local.lte", q.End.Format("2006-01-02"))
	params.Add("per_page", strconv.Itoa(a.config.MaxResults))
	base.RawQuery = params.Encode()
	return base.String()
}

// mapEvent is the total mapping from one marketplace event to a canonical
// record, with every defaulting rule enumerated.
func mapEvent(q catalog.Query, ev marketEvent) catalog.Record {
	date, clock := splitLocalDatetime(ev.DatetimeLocal)

	rec := catalog.Record{
		ID:          idPrefix + strconv.FormatInt(ev.ID, 10),
		Name:        ev.Title,
		Category:    catalog.DefaultCategory,
		Venue:       catalog.VenueTBA,
		Date:        date,
		Time:        clock,
		Price:       extractPrice(ev),
		Description: ev.Title,
		BookingURL:  ev.URL,
		Source:      SourceName,
		Popular:     ev.Score >= popularityThreshold,
		City:        q.City,
	}

	if len(ev.Taxonomies) > 0 && ev.Taxonomies[0].Name != "" {
		rec.Category = titleCase(ev.Taxonomies[0].Name)
	}
	if ev.Venue.Name != "" {
		rec.Venue = ev.Venue.Name
	}
	if ev.Venue.Location.Lat != 0 || ev.Venue.Location.Lon != 0 {
		rec.Coordinates = &catalog.Coordinates{Lat: ev.Venue.Location.Lat, Lon: ev.Venue.Location.Lon}
	}
	if len(ev.Performers) > 0 {
		rec.ImageURL = ev.Performers[0].Image
	}

	return rec
}

// extractPrice applies the price precedence: lowest and highest present,
// range; only lowest, "From"; only average, "Avg"; otherwise the generic
// sentinel.
func extractPrice(ev marketEvent) string {
	stats := ev.Stats
	switch {
	case stats.LowestPrice != nil && stats.HighestPrice != nil:
		return fmt.Sprintf("$%.0f-$%.0f", *stats.LowestPrice, *stats.HighestPrice)
	case stats.LowestPrice != nil:
		return fmt.Sprintf("From $%.0f", *stats.LowestPrice)
	case stats.AveragePrice != nil:
		return fmt.Sprintf("Avg $%.0f", *stats.AveragePrice)
	default:
		return catalog.PriceUnknown
	}
}

// splitLocalDatetime breaks "2024-06-02T20:00:00" into the canonical date
// and HH:MM pair. A missing or malformed time half means no time.
func splitLocalDatetime(dt string) (string, string) {
	parts := strings.SplitN(dt, "T", 2)
	date := parts[0]
	if len(parts) < 2 || len(parts[1]) < 5 {
		return date, ""
	}
	clock := parts[1][:5]
	if _, err := time.Parse(catalog.TimeLayout, clock); err != nil {
		return date, ""
	}
	return date, clock
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
