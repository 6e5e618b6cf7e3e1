package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		ID:          "tm-123",
		Name:        "Jazz Night",
		Category:    "Music",
		Venue:       "Blue Note",
		Date:        "2024-06-02",
		Time:        "20:00",
		Price:       "$20-$80",
		Description: "Jazz Night",
		Source:      "Ticketmaster",
		City:        "Austin",
	}
}

func TestRecord_Validate_OK(t *testing.T) {
	assert.NoError(t, validRecord().Validate())
}

func TestRecord_Validate_TimeOptional(t *testing.T) {
	r := validRecord()
	r.Time = ""
	assert.NoError(t, r.Validate())
}

func TestRecord_Validate_RequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"missing id", func(r *Record) { r.ID = "" }},
		{"missing name", func(r *Record) { r.Name = "" }},
		{"missing category", func(r *Record) { r.Category = "" }},
		{"missing venue", func(r *Record) { r.Venue = "" }},
		{"missing source", func(r *Record) { r.Source = "" }},
		{"missing city", func(r *Record) { r.City = "" }},
		{"malformed date", func(r *Record) { r.Date = "06/02/2024" }},
		{"malformed time", func(r *Record) { r.Time = "8pm" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRecord()
			tc.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestRecord_EffectiveTime(t *testing.T) {
	r := validRecord()
	assert.Equal(t, "20:00", r.EffectiveTime())

	r.Time = ""
	assert.Equal(t, "00:00", r.EffectiveTime())
}

func TestRecord_StartsAt(t *testing.T) {
	r := validRecord()
	at, err := r.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 2, 20, 0, 0, 0, time.UTC), at)

	r.Time = ""
	at, err = r.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), at)
}

func TestRecord_DedupKey(t *testing.T) {
	a := validRecord()
	b := validRecord()
	b.Time = "21:00"
	b.Source = "SeatGeek"
	b.ID = "sg-999"

	// Same happening from two providers collides on the key.
	assert.Equal(t, a.DedupKey(), b.DedupKey())

	b.Venue = "Red Room"
	assert.NotEqual(t, a.DedupKey(), b.DedupKey())
}

func TestQuery_Days(t *testing.T) {
	q := Query{
		City:  "Austin",
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, q.Days())

	q.End = q.Start
	assert.Equal(t, 1, q.Days())
}

func TestQuery_DateAt_WrapsAroundRange(t *testing.T) {
	q := Query{
		City:  "Austin",
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "2024-06-01", q.DateAt(0))
	assert.Equal(t, "2024-06-02", q.DateAt(1))
	assert.Equal(t, "2024-06-03", q.DateAt(2))
	assert.Equal(t, "2024-06-01", q.DateAt(3))
}
