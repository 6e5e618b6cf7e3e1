package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-aggregator/internal/catalog"
	"activity-aggregator/internal/common/logger"
)

func createTestConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		ClientID:   "test-client-id",
		Timeout:    3 * time.Second,
		MaxResults: 20,
	}
}

func createTestQuery() catalog.Query {
	return catalog.Query{
		City:  "Austin",
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	}
}

const searchPayload = `{
	"events": [
		{
			"id": 4401,
			"title": "Jazz Night",
			"url": "https://marketplace.example.com/4401",
			"datetime_local": "2024-06-02T21:00:00",
			"score": 0.84,
			"stats": {"lowest_price": 25, "average_price": 48, "highest_price": 95},
			"venue": {"name": "Blue Note", "location": {"lat": 30.2672, "lon": -97.7431}},
			"taxonomies": [{"name": "concert"}],
			"performers": [{"image": "https://img.example.com/4401.jpg"}]
		},
		{
			"id": 4402,
			"title": "Afternoon Improv",
			"datetime_local": "2024-06-01",
			"score": 0.31,
			"stats": {"lowest_price": null, "average_price": null, "highest_price": null},
			"venue": {"name": ""}
		}
	]
}`

func TestAdapter_Fetch_MapsRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-client-id", r.URL.Query().Get("client_id"))
		assert.Equal(t, "Austin", r.URL.Query().Get("venue.city"))
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("datetime_local.gte"))
		w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	config := createTestConfig()
	config.BaseURL = server.URL
	adapter := New(config, logger.NewTestLogger(t))

	records := adapter.Fetch(context.Background(), createTestQuery())
	require.Len(t, records, 2)

	jazz := records[0]
	assert.Equal(t, "sg-4401", jazz.ID)
	assert.Equal(t, "Jazz Night", jazz.Name)
	assert.Equal(t, "Concert", jazz.Category)
	assert.Equal(t, "Blue Note", jazz.Venue)
	assert.Equal(t, "2024-06-02", jazz.Date)
	assert.Equal(t, "21:00", jazz.Time)
	assert.Equal(t, "$25-$95", jazz.Price)
	assert.True(t, jazz.Popular)
	require.NotNil(t, jazz.Coordinates)
	assert.InDelta(t, -97.7431, jazz.Coordinates.Lon, 0.0001)

	improv := records[1]
	assert.Equal(t, catalog.DefaultCategory, improv.Category)
	assert.Equal(t, catalog.VenueTBA, improv.Venue)
	assert.Equal(t, "2024-06-01", improv.Date)
	assert.Empty(t, improv.Time)
	assert.Equal(t, catalog.PriceUnknown, improv.Price)
	assert.False(t, improv.Popular)
}

func TestAdapter_Fetch_MissingCredentials(t *testing.T) {
	config := createTestConfig()
	config.ClientID = ""
	adapter := New(config, logger.NewTestLogger(t))

	assert.Empty(t, adapter.Fetch(context.Background(), createTestQuery()))
}

func TestAdapter_Fetch_EnvelopeRequiresEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {"total": 0}}`))
	}))
	defer server.Close()

	config := createTestConfig()
	config.BaseURL = server.URL
	adapter := New(config, logger.NewTestLogger(t))

	assert.Empty(t, adapter.Fetch(context.Background(), createTestQuery()))
}

func TestAdapter_Fetch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	config := createTestConfig()
	config.BaseURL = server.URL
	adapter := New(config, logger.NewTestLogger(t))

	assert.Empty(t, adapter.Fetch(context.Background(), createTestQuery()))
}

func TestExtractPrice_Precedence(t *testing.T) {
	price := func(low, avg, high *float64) string {
		ev := marketEvent{}
		ev.Stats.LowestPrice = low
		ev.Stats.AveragePrice = avg
		ev.Stats.HighestPrice = high
		return extractPrice(ev)
	}
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, "$25-$95", price(f(25), f(48), f(95)))
	assert.Equal(t, "From $25", price(f(25), f(48), nil))
	assert.Equal(t, "Avg $48", price(nil, f(48), nil))
	assert.Equal(t, catalog.PriceUnknown, price(nil, nil, nil))
	// Highest alone is not enough for a range.
	assert.Equal(t, catalog.PriceUnknown, price(nil, nil, f(95)))
}

func TestSplitLocalDatetime(t *testing.T) {
	date, clock := splitLocalDatetime("2024-06-02T21:00:00")
	assert.Equal(t, "2024-06-02", date)
	assert.Equal(t, "21:00", clock)

	date, clock = splitLocalDatetime("2024-06-02")
	assert.Equal(t, "2024-06-02", date)
	assert.Empty(t, clock)

	date, clock = splitLocalDatetime("2024-06-02Tlater")
	assert.Equal(t, "2024-06-02", date)
	assert.Empty(t, clock)
}

// Two marketplaces reporting the same happening must normalize to the same
// date/time representation so the deduplicator can compare across sources.
func TestAdapter_NormalizationMatchesTicketingShape(t *testing.T) {
	ev := marketEvent{ID: 1, Title: "Jazz Night", DatetimeLocal: "2024-06-02T20:00:00"}
	ev.Venue.Name = "Blue Note"

	rec := mapEvent(createTestQuery(), ev)
	assert.Equal(t, "2024-06-02", rec.Date)
	assert.Equal(t, "20:00", rec.Time)
	assert.Equal(t, "Jazz Night|Blue Note|2024-06-02", rec.DedupKey())
}
