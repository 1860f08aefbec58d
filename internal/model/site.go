package model

// Site is a geocoded candidate location with a computed suitability score.
// Site lists returned by the analyze endpoint are sorted descending by score;
// the first element is the top-ranked site.
type Site struct {
	ID         int          `json:"id"`
	Lat        float64      `json:"lat"`
	Lon        float64      `json:"lon"`
	Location   string       `json:"location,omitempty"`
	Score      float64      `json:"score"`
	Irradiance float64      `json:"irradiance,omitempty"`
	Slope      float64      `json:"slope,omitempty"`
	Metrics    *SiteMetrics `json:"metrics,omitempty"`
}

// SiteMetrics carries the per-site measurements behind the composite score.
type SiteMetrics struct {
	Irradiance        float64 `json:"irradiance,omitempty"`
	Slope             float64 `json:"slope,omitempty"`
	Elevation         float64 `json:"elevation,omitempty"`
	LandCover         string  `json:"land_cover,omitempty"`
	ProtectedDistance float64 `json:"protected_distance,omitempty"`
}
