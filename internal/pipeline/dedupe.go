package pipeline

import "activity-aggregator/internal/catalog"

// Dedupe drops records whose (name, venue, date) triple was already seen,
// keeping the first occurrence. Input order is provider registration
// order, so earlier providers win ties. Matching is exact: the same
// happening listed under slightly different names survives as two records.
func Dedupe(records []catalog.Record) []catalog.Record {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	for _, rec := range records {
		key := rec.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}
