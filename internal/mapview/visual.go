// Package mapview turns a scored site list into marker, viewport, and legend
// state for a map display.
package mapview

// Bucket is one of the four suitability tiers derived from a site score.
type Bucket string

const (
	BucketExcellent Bucket = "excellent"
	BucketGood      Bucket = "good"
	BucketFair      Bucket = "fair"
	BucketPoor      Bucket = "poor"
)

// Marker colors per bucket.
const (
	ColorExcellent = "#22c55e"
	ColorGood      = "#eab308"
	ColorFair      = "#f97316"
	ColorPoor      = "#ef4444"
)

// Visual is the marker styling derived from a score.
type Visual struct {
	Bucket Bucket  `json:"bucket"`
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
}

// VisualFor maps a suitability score to its color bucket and marker radius.
// Bucket lower bounds are inclusive: 85 excellent, 70 good, 50 fair, below
// that poor. Radius is max(5, score/10) so low scores stay visible.
func VisualFor(score float64) Visual {
	v := Visual{Radius: score / 10}
	if v.Radius < 5 {
		v.Radius = 5
	}

	switch {
	case score >= 85:
		v.Bucket, v.Color = BucketExcellent, ColorExcellent
	case score >= 70:
		v.Bucket, v.Color = BucketGood, ColorGood
	case score >= 50:
		v.Bucket, v.Color = BucketFair, ColorFair
	default:
		v.Bucket, v.Color = BucketPoor, ColorPoor
	}
	return v
}
