package model

// Predictions holds the forward-looking output of a completed analysis.
// Set at most once per analysis; absent until an analysis that includes
// predictive output completes.
type Predictions struct {
	Forecast2025    string   `json:"forecast_2025"`
	Forecast2030    string   `json:"forecast_2030"`
	ConfidenceScore float64  `json:"confidence_score"`
	KeyTrends       []string `json:"key_trends"`
	RiskFactors     []string `json:"risk_factors"`
	Opportunities   []string `json:"opportunities"`
}
