package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-aggregator/internal/catalog"
)

func rec(id, name, venue, date, clock, source string) catalog.Record {
	return catalog.Record{
		ID:       id,
		Name:     name,
		Category: "Event",
		Venue:    venue,
		Date:     date,
		Time:     clock,
		Source:   source,
		City:     "Austin",
	}
}

func TestDedupe_KeepsFirstSeen(t *testing.T) {
	in := []catalog.Record{
		rec("tm-1", "Jazz Night", "Blue Note", "2024-06-02", "20:00", "Ticketmaster"),
		rec("sg-9", "Jazz Night", "Blue Note", "2024-06-02", "21:00", "SeatGeek"),
	}

	out := Dedupe(in)
	require.Len(t, out, 1)
	// First provider in registration order wins, with its own time.
	assert.Equal(t, "tm-1", out[0].ID)
	assert.Equal(t, "20:00", out[0].Time)
}

func TestDedupe_DifferentDatesSurvive(t *testing.T) {
	in := []catalog.Record{
		rec("tm-1", "Jazz Night", "Blue Note", "2024-06-02", "", "Ticketmaster"),
		rec("tm-2", "Jazz Night", "Blue Note", "2024-06-03", "", "Ticketmaster"),
	}

	assert.Len(t, Dedupe(in), 2)
}

func TestDedupe_ExactMatchOnly(t *testing.T) {
	in := []catalog.Record{
		rec("tm-1", "Jazz Night", "Blue Note", "2024-06-02", "", "Ticketmaster"),
		rec("sg-9", "Jazz Night!", "Blue Note", "2024-06-02", "", "SeatGeek"),
	}

	// Near-duplicates are not merged.
	assert.Len(t, Dedupe(in), 2)
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []catalog.Record{
		rec("a", "One", "V", "2024-06-01", "", "Ticketmaster"),
		rec("b", "One", "V", "2024-06-01", "", "SeatGeek"),
		rec("c", "Two", "V", "2024-06-01", "", "SeatGeek"),
	}

	once := Dedupe(in)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestDedupe_DoesNotMutateInput(t *testing.T) {
	in := []catalog.Record{
		rec("a", "One", "V", "2024-06-01", "", "Ticketmaster"),
		rec("b", "One", "V", "2024-06-01", "", "SeatGeek"),
	}

	Dedupe(in)
	assert.Equal(t, "b", in[1].ID)
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}
