package fallback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-aggregator/internal/catalog"
	"activity-aggregator/internal/common/logger"
)

func query(days int) catalog.Query {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return catalog.Query{
		City:  "Smallville",
		Start: start,
		End:   start.AddDate(0, 0, days-1),
	}
}

func TestGenerate_CountScalesWithDays(t *testing.T) {
	gen := NewWithSeed(logger.NewTestLogger(t), 1)

	assert.Len(t, gen.Generate(query(1)), 3)
	assert.Len(t, gen.Generate(query(2)), 6)
	assert.Len(t, gen.Generate(query(4)), 12)
	// Capped for long trips.
	assert.Len(t, gen.Generate(query(5)), 15)
	assert.Len(t, gen.Generate(query(10)), 15)
}

func TestGenerate_RecordsAreValid(t *testing.T) {
	gen := NewWithSeed(logger.NewTestLogger(t), 42)
	q := query(5)

	for _, rec := range gen.Generate(q) {
		require.NoError(t, rec.Validate())
		assert.Equal(t, SourceName, rec.Source)
		assert.Equal(t, "Smallville", rec.City)
		assert.True(t, strings.HasPrefix(rec.ID, "local-"))

		date, err := time.Parse(catalog.DateLayout, rec.Date)
		require.NoError(t, err)
		assert.False(t, date.Before(q.Start))
		assert.False(t, date.After(q.End))

		if rec.Price != catalog.PriceFree {
			assert.True(t, strings.HasPrefix(rec.Price, "$"))
		}
	}
}

func TestGenerate_NamesCarryCity(t *testing.T) {
	gen := NewWithSeed(logger.NewTestLogger(t), 7)

	for _, rec := range gen.Generate(query(3)) {
		assert.Contains(t, rec.Name, "Smallville")
	}
}

func TestGenerate_IDsAreUnique(t *testing.T) {
	gen := NewWithSeed(logger.NewTestLogger(t), 7)

	seen := map[string]bool{}
	for _, rec := range gen.Generate(query(10)) {
		assert.False(t, seen[rec.ID])
		seen[rec.ID] = true
	}
}

func TestGenerate_TimesWithinDaytimeWindow(t *testing.T) {
	gen := NewWithSeed(logger.NewTestLogger(t), 99)

	for _, rec := range gen.Generate(query(5)) {
		clock, err := time.Parse(catalog.TimeLayout, rec.Time)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, clock.Hour(), 9)
		assert.LessOrEqual(t, clock.Hour(), 18)
	}
}
