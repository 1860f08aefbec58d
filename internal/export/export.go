// Package export writes scored site lists to interchange formats for use in
// GIS tools and spreadsheets.
package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/terralink/terralink/internal/mapview"
	"github.com/terralink/terralink/internal/model"
)

// ErrNoSites is returned when there is nothing to export.
var ErrNoSites = eris.New("export: no sites to export")

// GeoJSON writes the site list as a GeoJSON FeatureCollection.
func GeoJSON(sites []model.Site, path string) error {
	if len(sites) == 0 {
		return ErrNoSites
	}

	data, err := mapview.GeoJSON(sites)
	if err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir %s", dir)
	}
	return nil
}
