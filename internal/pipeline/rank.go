package pipeline

import (
	"sort"

	"activity-aggregator/internal/catalog"
)

// RankPolicy selects the ordering applied to the final record list.
type RankPolicy string

const (
	// RankChronological orders by date then time, earliest first. Records
	// without a time sort as midnight, ahead of timed records that day.
	RankChronological RankPolicy = "chronological"
	// RankRelevance orders by rating descending, then prefers records
	// with a booking link, then falls back to chronological order.
	RankRelevance RankPolicy = "relevance"
)

// Rank returns a newly ordered copy; the input slice is left untouched.
func Rank(records []catalog.Record, policy RankPolicy) []catalog.Record {
	out := make([]catalog.Record, len(records))
	copy(out, records)

	switch policy {
	case RankRelevance:
		sort.SliceStable(out, func(i, j int) bool { return relevanceLess(out[i], out[j]) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return chronoLess(out[i], out[j]) })
	}
	return out
}

func chronoLess(a, b catalog.Record) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.EffectiveTime() < b.EffectiveTime()
}

func relevanceLess(a, b catalog.Record) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	aBookable, bBookable := a.BookingURL != "", b.BookingURL != ""
	if aBookable != bBookable {
		return aBookable
	}
	return chronoLess(a, b)
}
