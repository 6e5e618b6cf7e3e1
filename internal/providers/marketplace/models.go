package marketplace

// Marketplace payload shapes. Prices live under stats and any of them may
// be null, which is why they are pointers.

type searchResponse struct {
	Events []marketEvent `json:"events"`
}

type marketEvent struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	DatetimeLocal string  `json:"datetime_local"` // 2024-06-02T20:00:00
	Score         float64 `json:"score"`          // normalized 0..1
	Stats         struct {
		LowestPrice  *float64 `json:"lowest_price"`
		AveragePrice *float64 `json:"average_price"`
		HighestPrice *float64 `json:"highest_price"`
	} `json:"stats"`
	Venue struct {
		Name     string `json:"name"`
		Location struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"location"`
	} `json:"venue"`
	Taxonomies []struct {
		Name string `json:"name"`
	} `json:"taxonomies"`
	Performers []struct {
		Image string `json:"image"`
	} `json:"performers"`
}
