// Package providers defines the contract between upstream adapters and the
// aggregation pipeline. Each adapter translates one provider's schema into
// canonical records; the pipeline never sees provider-specific shapes.
package providers

import (
	"context"

	"activity-aggregator/internal/catalog"
)

// Provider is one upstream source of activities.
//
// Fetch never returns an error: any upstream failure (network error,
// non-success status, missing credentials, malformed payload, timeout) is
// contained inside the adapter, logged there, and surfaces as an empty
// slice. Callers must not branch on adapter-level success.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q catalog.Query) []catalog.Record
}
