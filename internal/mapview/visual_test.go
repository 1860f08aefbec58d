package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisualForBuckets(t *testing.T) {
	tests := []struct {
		score  float64
		bucket Bucket
		color  string
	}{
		{0, BucketPoor, ColorPoor},
		{49, BucketPoor, ColorPoor},
		{50, BucketFair, ColorFair},
		{69, BucketFair, ColorFair},
		{70, BucketGood, ColorGood},
		{84, BucketGood, ColorGood},
		{85, BucketExcellent, ColorExcellent},
		{100, BucketExcellent, ColorExcellent},
	}

	for _, tt := range tests {
		v := VisualFor(tt.score)
		assert.Equal(t, tt.bucket, v.Bucket, "score %.0f", tt.score)
		assert.Equal(t, tt.color, v.Color, "score %.0f", tt.score)
	}
}

func TestVisualForRadius(t *testing.T) {
	// radius == max(5, score/10) across the whole domain
	for score := 0.0; score <= 100; score++ {
		want := score / 10
		if want < 5 {
			want = 5
		}
		assert.InDelta(t, want, VisualFor(score).Radius, 0.0001, "score %.0f", score)
	}
}

func TestVisualForRadiusMonotonic(t *testing.T) {
	prev := VisualFor(0).Radius
	for score := 1.0; score <= 100; score++ {
		r := VisualFor(score).Radius
		assert.GreaterOrEqual(t, r, prev, "score %.0f", score)
		prev = r
	}
}
