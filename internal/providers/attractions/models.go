package attractions

// Places-API payload shapes (GeoJSON-flavored). Coordinates arrive as
// [lon, lat] pairs.

type placesResponse struct {
	Features []placeFeature `json:"features"`
}

type placeFeature struct {
	Properties struct {
		XID       string  `json:"xid"`
		Name      string  `json:"name"`
		Kinds     string  `json:"kinds"` // comma-separated tags
		Rate      float64 `json:"rate"`  // 0..7 prominence scale
		Wikipedia struct {
			Text string `json:"text"`
		} `json:"wikipedia_extracts"`
		OTMURL string `json:"otm"`
		Image  string `json:"preview_image"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}
