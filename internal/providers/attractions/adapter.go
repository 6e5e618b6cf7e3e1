package attractions

import (
	"context"
	"encoding/json"
	"io"
	"math"
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
const SourceName = "OpenTripMap"

const idPrefix = "otm-"

// rateScale is the upstream prominence ceiling; rates normalize against it.
const rateScale = 7.0

// popularityThreshold flags places whose normalized rate crosses it.
const popularityThreshold = 0.7

// kindCategories maps the first recognized upstream kind tag to the
// adapter's category vocabulary.
var kindCategories = map[string]string{
	"museums":           "Museum",
	"theatres":          "Theater",
	"urban_environment": "Outdoor",
	"natural":           "Outdoor",
	"parks":             "Outdoor",
	"historic":          "Historic",
	"cultural":          "Cultural",
	"architecture":      "Architecture",
	"amusements":        "Entertainment",
}

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

// Fetch returns attractions for the query, or nothing on any internal
// failure. Attractions have no date of their own; the adapter assigns
// dates round-robin across the query range so multi-day trips stay
// populated.
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

	var payload placesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMalformedPayload, SourceName, err)
	}

	records := make([]catalog.Record, 0, len(payload.Features))
	for i, feat := range payload.Features {
		rec := mapPlace(q, i, feat)
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
	base.Path = strings.TrimSuffix(base.Path, "/") + "/places"

	params := url.Values{}
	params.Add("apikey", a.config.APIKey)
	params.Add("city", q.City)
	params.Add("limit", strconv.Itoa(a.config.MaxResults))
	base.RawQuery = params.Encode()
	return base.String()
}

// mapPlace is the total mapping from one upstream place to a canonical
// record. i is the place's position in the upstream list, used for the
// round-robin date assignment.
func mapPlace(q catalog.Query, i int, feat placeFeature) catalog.Record {
	props := feat.Properties

	rec := catalog.Record{
		ID:          idPrefix + props.XID,
		Name:        props.Name,
		Category:    categoryFromKinds(props.Kinds),
		Venue:       props.Name, // a place is its own venue
		Date:        q.DateAt(i),
		Price:       catalog.PriceUnknown,
		Description: props.Wikipedia.Text,
		ImageURL:    props.Image,
		BookingURL:  props.OTMURL,
		Source:      SourceName,
		Rating:      normalizeRate(props.Rate),
		Popular:     props.Rate/rateScale >= popularityThreshold,
		City:        q.City,
	}

	if rec.Venue == "" {
		rec.Venue = catalog.VenueTBA
	}
	if rec.Description == "" {
		rec.Description = props.Name
	}
	if coords := feat.Geometry.Coordinates; len(coords) == 2 {
		rec.Coordinates = &catalog.Coordinates{Lat: coords[1], Lon: coords[0]}
	}

	return rec
}

// categoryFromKinds picks the first recognized tag from the comma-separated
// kinds list, defaulting to a generic label.
func categoryFromKinds(kinds string) string {
	for _, kind := range strings.Split(kinds, ",") {
		if cat, ok := kindCategories[strings.TrimSpace(kind)]; ok {
			return cat
		}
	}
	return "Attraction"
}

// normalizeRate converts the upstream 0..7 prominence scale to the
// canonical 0..5 rating, one decimal place.
func normalizeRate(rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	if rate > rateScale {
		rate = rateScale
	}
	return math.Round(rate/rateScale*5*10) / 10
}
