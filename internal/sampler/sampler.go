// Package sampler generates scored candidate sites inside a region's
// bounding box. It is the mock stand-in for a real Earth-observation
// pipeline: deterministic for a fixed seed, with per-region climate baselines
// so the numbers stay plausible.
package sampler

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/terralink/terralink/internal/model"
)

var titler = cases.Title(language.AmericanEnglish)

// region holds a bounding box and climate baselines for mock sampling.
type region struct {
	bounds   *geom.Bounds
	irrBase  float64 // kWh/m²/day around which irradiance is jittered
	slopeAvg float64 // degrees
}

// bounds are (minLon, minLat, maxLon, maxLat), SRID 4326.
var regions = map[string]region{
	"texas":      {bounds: geom.NewBounds(geom.XY).Set(-106.6, 25.8, -93.5, 36.5), irrBase: 5.8, slopeAvg: 3.0},
	"california": {bounds: geom.NewBounds(geom.XY).Set(-124.4, 32.5, -114.1, 42.0), irrBase: 5.9, slopeAvg: 6.0},
	"nevada":     {bounds: geom.NewBounds(geom.XY).Set(-120.0, 35.0, -114.0, 42.0), irrBase: 6.2, slopeAvg: 5.0},
	"arizona":    {bounds: geom.NewBounds(geom.XY).Set(-114.8, 31.3, -109.0, 37.0), irrBase: 6.5, slopeAvg: 4.5},
	"new mexico": {bounds: geom.NewBounds(geom.XY).Set(-109.0, 31.3, -103.0, 37.0), irrBase: 6.3, slopeAvg: 4.0},
	"colorado":   {bounds: geom.NewBounds(geom.XY).Set(-109.1, 37.0, -102.0, 41.0), irrBase: 5.5, slopeAvg: 8.0},
	"utah":       {bounds: geom.NewBounds(geom.XY).Set(-114.1, 37.0, -109.0, 42.0), irrBase: 5.8, slopeAvg: 6.5},
}

var landCovers = []string{"grassland", "shrubland", "bare", "cropland"}

// ErrUnknownRegion is returned by Sample for a region with no bounds.
var ErrUnknownRegion = eris.New("sampler: unknown region")

// Regions returns the supported region keys in sorted order.
func Regions() []string {
	out := make([]string, 0, len(regions))
	for name := range regions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Bounds returns the bounding box for a region key, or false for regions the
// sampler has no coverage for.
func Bounds(name string) (*geom.Bounds, bool) {
	r, ok := regions[normalize(name)]
	if !ok {
		return nil, false
	}
	return r.bounds, true
}

// DisplayName renders a region key for user-facing text.
func DisplayName(name string) string {
	return titler.String(normalize(name))
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Sampler generates candidate sites.
type Sampler struct {
	numSamples int
	maxSites   int
	seed       int64
}

// New creates a Sampler that scores numSamples random locations and returns
// the best maxSites of them.
func New(numSamples, maxSites int, seed int64) *Sampler {
	return &Sampler{numSamples: numSamples, maxSites: maxSites, seed: seed}
}

// Sample generates candidates inside the query's region, scores each one,
// and returns the top sites sorted by descending score plus the number of
// locations analyzed. The same seed and query produce the same sites.
func (s *Sampler) Sample(q model.ParsedQuery) ([]model.Site, int, error) {
	key := normalize(q.Region)
	r, ok := regions[key]
	if !ok {
		return nil, 0, eris.Wrapf(ErrUnknownRegion, "sampler: region %q", q.Region)
	}

	display := DisplayName(key)
	rng := rand.New(rand.NewSource(s.seed))

	minLon, minLat := r.bounds.Min(0), r.bounds.Min(1)
	maxLon, maxLat := r.bounds.Max(0), r.bounds.Max(1)

	sites := make([]model.Site, s.numSamples)
	for i := range sites {
		lat := minLat + rng.Float64()*(maxLat-minLat)
		lon := minLon + rng.Float64()*(maxLon-minLon)

		irradiance := r.irrBase + rng.Float64()*2 - 1
		slope := math.Abs(r.slopeAvg + rng.Float64()*10 - 5)
		if slope > 15 {
			slope = 15
		}

		sites[i] = model.Site{
			ID:         i + 1,
			Lat:        round4(lat),
			Lon:        round4(lon),
			Location:   display,
			Score:      compositeScore(irradiance, slope),
			Irradiance: round2(irradiance),
			Slope:      round2(slope),
			Metrics: &model.SiteMetrics{
				Irradiance:        round2(irradiance),
				Slope:             round2(slope),
				Elevation:         math.Round(200 + rng.Float64()*1800),
				LandCover:         landCovers[rng.Intn(len(landCovers))],
				ProtectedDistance: round2(5 + rng.Float64()*45),
			},
		}
	}

	sort.SliceStable(sites, func(a, b int) bool {
		return sites[a].Score > sites[b].Score
	})

	n := s.maxSites
	if n > len(sites) {
		n = len(sites)
	}
	return sites[:n], s.numSamples, nil
}

// compositeScore folds irradiance and slope into a 50-100 suitability score.
// Higher irradiance helps, steeper slope hurts.
func compositeScore(irradiance, slope float64) float64 {
	score := math.Round(irradiance*5 + (45 - slope))
	if score < 50 {
		return 50
	}
	if score > 100 {
		return 100
	}
	return score
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
