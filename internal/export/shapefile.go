package export

import (
	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/terralink/terralink/internal/model"
)

// shapefileFields is the attribute schema for exported point shapefiles.
// DBF limits field names to 10 characters.
var shapefileFields = []shp.Field{
	shp.NumberField("ID", 10),
	shp.FloatField("SCORE", 10, 2),
	shp.FloatField("IRRADIANCE", 10, 2),
	shp.FloatField("SLOPE", 10, 2),
	shp.StringField("LOCATION", 50),
}

// Shapefile writes the site list as a POINT shapefile (plus the .dbf and
// .shx sidecars go-shp maintains).
func Shapefile(sites []model.Site, path string) error {
	if len(sites) == 0 {
		return ErrNoSites
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer w.Close()

	if err := w.SetFields(shapefileFields); err != nil {
		return eris.Wrap(err, "export: set shapefile fields")
	}

	for i, site := range sites {
		w.Write(&shp.Point{X: site.Lon, Y: site.Lat})

		attrs := []any{site.ID, site.Score, site.Irradiance, site.Slope, site.Location}
		for f, v := range attrs {
			if err := w.WriteAttribute(i, f, v); err != nil {
				return eris.Wrapf(err, "export: write attribute %d of site %d", f, site.ID)
			}
		}
	}
	return nil
}
