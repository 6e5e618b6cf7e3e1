// Package catalog defines the canonical record shape that every provider
// adapter normalizes into. Providers output these, the pipeline consumes
// them; adding a provider never changes this package.
package catalog

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-date format carried on every record.
	DateLayout = "2006-01-02"
	// TimeLayout is the 24h clock-time format, used when a time is present.
	TimeLayout = "15:04"
)

// Defaults substituted when an upstream omits a field.
const (
	VenueTBA        = "Venue TBA"
	DefaultCategory = "Event"
	PriceUnknown    = "Check website"
	PriceFree       = "Free"
)

// Coordinates is an optional geo-point attached to a record.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Record is the unified representation of one event, attraction or place.
// Records are created fresh inside an adapter (or the fallback generator),
// never mutated afterwards, and discarded with the request.
type Record struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Venue       string       `json:"venue"`
	Date        string       `json:"date"`           // YYYY-MM-DD
	Time        string       `json:"time,omitempty"` // HH:MM, absent when upstream has none
	Price       string       `json:"price"`
	Description string       `json:"description"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	BookingURL  string       `json:"bookingUrl,omitempty"`
	Source      string       `json:"source"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Rating      float64      `json:"rating,omitempty"` // 0-5, 0 means absent
	Popular     bool         `json:"popular"`
	City        string       `json:"city"`
}

// Validate reports whether the record satisfies the canonical invariants.
// Adapters drop records that fail validation before emitting them.
func (r Record) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("record missing id")
	case r.Name == "":
		return fmt.Errorf("record %s missing name", r.ID)
	case r.Category == "":
		return fmt.Errorf("record %s missing category", r.ID)
	case r.Venue == "":
		return fmt.Errorf("record %s missing venue", r.ID)
	case r.Source == "":
		return fmt.Errorf("record %s missing source", r.ID)
	case r.City == "":
		return fmt.Errorf("record %s missing city", r.ID)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("record %s has malformed date %q", r.ID, r.Date)
	}
	if r.Time != "" {
		if _, err := time.Parse(TimeLayout, r.Time); err != nil {
			return fmt.Errorf("record %s has malformed time %q", r.ID, r.Time)
		}
	}
	return nil
}

// EffectiveTime returns the record's clock time, treating an absent time
// as midnight. Used for ordering only, the stored record is untouched.
func (r Record) EffectiveTime() string {
	if r.Time == "" {
		return "00:00"
	}
	return r.Time
}

// StartsAt combines date and effective time into a single sortable instant.
func (r Record) StartsAt() (time.Time, error) {
	return time.Parse(DateLayout+" "+TimeLayout, r.Date+" "+r.EffectiveTime())
}

// DedupKey is the (name, venue, date) triple used to spot the same
// real-world happening reported by more than one provider. Exact match
// only: near-duplicates with different name strings are not merged.
func (r Record) DedupKey() string {
	return r.Name + "|" + r.Venue + "|" + r.Date
}

// Query is the validated request the boundary layer hands to the core.
// Start and End are inclusive calendar dates with Start <= End.
type Query struct {
	City  string
	Start time.Time
	End   time.Time
}

// Days returns the inclusive number of calendar days in the range.
func (q Query) Days() int {
	return int(q.End.Sub(q.Start).Hours()/24) + 1
}

// DateAt returns the i-th date of the range, wrapping round-robin. Used
// by adapters whose upstream has no date of its own.
func (q Query) DateAt(i int) string {
	return q.Start.AddDate(0, 0, i%q.Days()).Format(DateLayout)
}
