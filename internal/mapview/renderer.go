package mapview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/terralink/terralink/internal/model"
)

// DefaultZoom is the fixed zoom level used when recentering on a site.
const DefaultZoom = 6

// Viewport is the map camera position.
type Viewport struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

// Marker is one styled site marker.
type Marker struct {
	SiteID int     `json:"site_id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Visual Visual  `json:"visual"`
	Popup  string  `json:"popup"`
}

// LegendEntry describes one score bucket in the legend.
type LegendEntry struct {
	Bucket Bucket `json:"bucket"`
	Color  string `json:"color"`
	Label  string `json:"label"`
}

// Legend lists the four score buckets plus the current site count.
type Legend struct {
	Entries   []LegendEntry `json:"entries"`
	SiteCount int           `json:"site_count"`
}

// View is the full renderer output for a site list.
type View struct {
	Viewport *Viewport `json:"viewport,omitempty"`
	Markers  []Marker  `json:"markers"`
	Legend   *Legend   `json:"legend,omitempty"`
}

// Render builds the map view for the given site list. A non-empty list
// recenters the viewport on the first site at DefaultZoom; the renderer does
// not compute a bounding box over all sites. An empty list yields a view with
// no viewport, no markers, and no legend.
func Render(sites []model.Site) View {
	if len(sites) == 0 {
		return View{}
	}

	view := View{
		Viewport: &Viewport{Lat: sites[0].Lat, Lon: sites[0].Lon, Zoom: DefaultZoom},
		Markers:  make([]Marker, 0, len(sites)),
		Legend:   legendFor(len(sites)),
	}

	for _, s := range sites {
		view.Markers = append(view.Markers, Marker{
			SiteID: s.ID,
			Lat:    s.Lat,
			Lon:    s.Lon,
			Visual: VisualFor(s.Score),
			Popup:  popupFor(s),
		})
	}
	return view
}

// legendFor builds the static four-bucket legend with the current site count.
func legendFor(count int) *Legend {
	return &Legend{
		SiteCount: count,
		Entries: []LegendEntry{
			{Bucket: BucketExcellent, Color: ColorExcellent, Label: "Excellent (85-100)"},
			{Bucket: BucketGood, Color: ColorGood, Label: "Good (70-84)"},
			{Bucket: BucketFair, Color: ColorFair, Label: "Fair (50-69)"},
			{Bucket: BucketPoor, Color: ColorPoor, Label: "Poor (0-49)"},
		},
	}
}

// popupFor formats the marker popup: id, score, coordinates at fixed
// 4-decimal precision, and irradiance/slope when present.
func popupFor(s model.Site) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Site %d — score %.0f/100 (%s)\n", s.ID, s.Score, VisualFor(s.Score).Bucket)
	fmt.Fprintf(&b, "%.4f, %.4f", s.Lat, s.Lon)
	if s.Irradiance > 0 {
		fmt.Fprintf(&b, "\nIrradiance: %.2f kWh/m²/day", s.Irradiance)
	}
	if s.Slope > 0 {
		fmt.Fprintf(&b, "\nSlope: %.2f°", s.Slope)
	}
	return b.String()
}

// GeoJSON encodes the site list as a FeatureCollection of styled points,
// suitable for any GeoJSON-aware map client.
func GeoJSON(sites []model.Site) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(sites))}

	for _, s := range sites {
		v := VisualFor(s.Score)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       fmt.Sprintf("%d", s.ID),
			Geometry: geom.NewPointFlat(geom.XY, []float64{s.Lon, s.Lat}).SetSRID(4326),
			Properties: map[string]interface{}{
				"score":      s.Score,
				"bucket":     string(v.Bucket),
				"color":      v.Color,
				"radius":     v.Radius,
				"irradiance": s.Irradiance,
				"slope":      s.Slope,
			},
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "mapview: encode geojson")
	}
	return data, nil
}
