package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-aggregator/internal/catalog"
)

func TestRank_Chronological(t *testing.T) {
	in := []catalog.Record{
		rec("c", "Late Show", "V", "2024-06-02", "21:00", "Ticketmaster"),
		rec("a", "Matinee", "V", "2024-06-01", "14:00", "Ticketmaster"),
		rec("b", "Morning Walk", "V", "2024-06-02", "", "OpenTripMap"),
	}

	out := Rank(in, RankChronological)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	// Timeless record sorts as midnight, before that day's timed ones.
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestRank_Relevance(t *testing.T) {
	top := rec("a", "Top Rated", "V", "2024-06-03", "", "Yelp")
	top.Rating = 4.8

	bookable := rec("b", "Bookable", "V", "2024-06-02", "", "Ticketmaster")
	bookable.Rating = 4.0
	bookable.BookingURL = "https://tickets.example.com/b"

	unbookable := rec("c", "Unbookable", "V", "2024-06-01", "", "OpenTripMap")
	unbookable.Rating = 4.0

	unrated := rec("d", "Unrated", "V", "2024-06-01", "", "City Guide")

	out := Rank([]catalog.Record{unrated, unbookable, bookable, top}, RankRelevance)
	require.Len(t, out, 4)
	assert.Equal(t, "a", out[0].ID) // highest rating first
	assert.Equal(t, "b", out[1].ID) // booking link breaks rating ties
	assert.Equal(t, "c", out[2].ID)
	assert.Equal(t, "d", out[3].ID)
}

func TestRank_RelevanceTiesFallBackToChronology(t *testing.T) {
	first := rec("a", "First", "V", "2024-06-01", "10:00", "Ticketmaster")
	second := rec("b", "Second", "V", "2024-06-01", "19:00", "Ticketmaster")

	out := Rank([]catalog.Record{second, first}, RankRelevance)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []catalog.Record{
		rec("b", "Second", "V", "2024-06-02", "", "Ticketmaster"),
		rec("a", "First", "V", "2024-06-01", "", "Ticketmaster"),
	}

	Rank(in, RankChronological)
	assert.Equal(t, "b", in[0].ID)
}

func TestRank_UnknownPolicyDefaultsToChronological(t *testing.T) {
	in := []catalog.Record{
		rec("b", "Second", "V", "2024-06-02", "", "Ticketmaster"),
		rec("a", "First", "V", "2024-06-01", "", "Ticketmaster"),
	}

	out := Rank(in, RankPolicy("bogus"))
	assert.Equal(t, "a", out[0].ID)
}
