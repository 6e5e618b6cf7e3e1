// Package registry describes the provider catalog: which sources exist,
// what they serve and what credentials they need. The server exposes it
// read-only so operators can see what a deployment can reach.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind groups providers by how they are reached.
type Kind string

const (
	KindHTTP      Kind = "http"
	KindDatabase  Kind = "database"
	KindSynthetic Kind = "synthetic"
)

// ProviderInfo is the static description of one provider.
type ProviderInfo struct {
	Source      string   `json:"source"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Credentials []string `json:"credentials,omitempty"`
	Kind        Kind     `json:"kind"`
}

// ProviderRegistry is the full catalog, ordered by registration order.
type ProviderRegistry struct {
	Providers []ProviderInfo `json:"providers"`
}

// Lookup returns the entry for a source name.
func (r *ProviderRegistry) Lookup(source string) (ProviderInfo, bool) {
	for _, p := range r.Providers {
		if p.Source == source {
			return p, true
		}
	}
	return ProviderInfo{}, false
}

// LoadRegistry reads a registry override from a JSON file.
func LoadRegistry(path string) (*ProviderRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var reg ProviderRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}
	if len(reg.Providers) == 0 {
		return nil, fmt.Errorf("registry file %s lists no providers", path)
	}
	return &reg, nil
}

// Default returns the built-in catalog matching the shipped adapters.
func Default() *ProviderRegistry {
	return &ProviderRegistry{
		Providers: []ProviderInfo{
			{
				Source:      "Ticketmaster",
				DisplayName: "Ticketmaster Discovery",
				Description: "Ticketed concerts, sports and theater",
				Categories:  []string{"Music", "Sports", "Theater"},
				Credentials: []string{"api_key"},
				Kind:        KindHTTP,
			},
			{
				Source:      "SeatGeek",
				DisplayName: "SeatGeek Marketplace",
				Description: "Resale event listings with price ranges",
				Categories:  []string{"Concert", "Sports", "Comedy"},
				Credentials: []string{"client_id", "client_secret"},
				Kind:        KindHTTP,
			},
			{
				Source:      "OpenTripMap",
				DisplayName: "OpenTripMap Places",
				Description: "Sights and attractions with prominence ratings",
				Categories:  []string{"Museum", "Historic", "Outdoor"},
				Credentials: []string{"api_key"},
				Kind:        KindHTTP,
			},
			{
				Source:      "Yelp",
				DisplayName: "Yelp Fusion",
				Description: "Dining suggestions ranked by rating",
				Categories:  []string{"Restaurant"},
				Credentials: []string{"api_key"},
				Kind:        KindHTTP,
			},
			{
				Source:      "City Guide",
				DisplayName: "Curated City Guide",
				Description: "Hand-curated local activities",
				Categories:  []string{"Cultural", "Market", "Outdoor"},
				Kind:        KindDatabase,
			},
			{
				Source:      "Local",
				DisplayName: "Local Fallback",
				Description: "Synthetic suggestions when no provider responds",
				Categories:  []string{"Tour", "Market", "Outdoor"},
				Kind:        KindSynthetic,
			},
		},
	}
}
