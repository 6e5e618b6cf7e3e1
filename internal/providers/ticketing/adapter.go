package ticketing

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
const SourceName = "Ticketmaster"

const idPrefix = "tm-"

// envelopeSchema rejects payloads whose top-level shape is not the
// discovery events envelope before any mapping runs.
const envelopeSchema = `{
	"type": "object",
	"properties": {
		"_embedded": {
			"type": "object",
			"properties": {
				"events": {"type": "array"}
			}
		}
	}
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

// Fetch returns ticketed events for the query, or nothing on any internal
// failure.
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

	var payload discoveryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMalformedPayload, SourceName, err)
	}

	return a.mapRecords(q, &payload), nil
}

func (a *Adapter) buildURL(q catalog.Query) string {
	base, _ := url.Parse(a.config.BaseURL)
	base.Path = strings.TrimSuffix(base.Path, "/") + "/events.json"

	params := url.Values{}
	params.Add("apikey", a.config.APIKey)
	params.Add("city", q.City)
	params.Add("startDateTime", q.Start.Format("2006-01-02")+"T00:00:00Z")
	params.Add("endDateTime", q.End.Format("2006-01-02")+"T23:59:59Z")
	params.Add("size", strconv.Itoa(a.config.MaxResults))
	base.RawQuery = params.Encode()
	return base.String()
}

func (a *Adapter) mapRecords(q catalog.Query, payload *discoveryResponse) []catalog.Record {
	records := make([]catalog.Record, 0, len(payload.Embedded.Events))
	for _, ev := range payload.Embedded.Events {
		rec := mapEvent(q, ev)
		if err := rec.Validate(); err != nil {
			a.logger.Debug("dropping record", map[string]interface{}{"reason": err.Error()})
			continue
		}
		records = append(records, rec)
	}
	return records
}

// mapEvent is the total mapping from one upstream event to a canonical
// record. Every defaulting rule lives here; missing upstream fields never
// propagate.
func mapEvent(q catalog.Query, ev discoveryEvent) catalog.Record {
	rec := catalog.Record{
		ID:          idPrefix + ev.ID,
		Name:        ev.Name,
		Category:    catalog.DefaultCategory,
		Venue:       catalog.VenueTBA,
		Date:        ev.Dates.Start.LocalDate,
		Time:        normalizeClock(ev.Dates.Start.LocalTime),
		Price:       extractPrice(ev),
		Description: ev.Info,
		BookingURL:  ev.URL,
		Source:      SourceName,
		// Popularity heuristic: the event is on sale right now.
		Popular: ev.Dates.Status.Code == "onsale",
		City:    q.City,
	}

	if len(ev.Classifications) > 0 && ev.Classifications[0].Segment.Name != "" {
		rec.Category = ev.Classifications[0].Segment.Name
	}
	if len(ev.Images) > 0 {
		rec.ImageURL = ev.Images[0].URL
	}
	if rec.Description == "" {
		rec.Description = ev.Name
	}

	if venues := ev.Embedded.Venues; len(venues) > 0 {
		if venues[0].Name != "" {
			rec.Venue = venues[0].Name
		}
		lat, latErr := strconv.ParseFloat(venues[0].Location.Latitude, 64)
		lon, lonErr := strconv.ParseFloat(venues[0].Location.Longitude, 64)
		if latErr == nil && lonErr == nil {
			rec.Coordinates = &catalog.Coordinates{Lat: lat, Lon: lon}
		}
	}

	return rec
}

// extractPrice applies the price precedence for range-style upstreams:
// min and max present, range; only min, "From"; otherwise the generic
// sentinel. This upstream never reports an average.
func extractPrice(ev discoveryEvent) string {
	if len(ev.PriceRanges) == 0 {
		return catalog.PriceUnknown
	}
	pr := ev.PriceRanges[0]
	switch {
	case pr.Min > 0 && pr.Max > 0:
		return fmt.Sprintf("$%.0f-$%.0f", pr.Min, pr.Max)
	case pr.Min > 0:
		return fmt.Sprintf("From $%.0f", pr.Min)
	default:
		return catalog.PriceUnknown
	}
}

// normalizeClock truncates an upstream HH:MM:SS local time to HH:MM so
// records compare across providers. Anything unparseable means no time.
func normalizeClock(localTime string) string {
	if len(localTime) >= 5 {
		candidate := localTime[:5]
		if _, err := time.Parse(catalog.TimeLayout, candidate); err == nil {
			return candidate
		}
	}
	return ""
}

