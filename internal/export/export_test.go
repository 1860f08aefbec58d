package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/terralink/terralink/internal/model"
)

func testSites() []model.Site {
	return []model.Site{
		{ID: 1, Lat: 31.5, Lon: -99.5, Location: "Texas", Score: 92, Irradiance: 6.8, Slope: 2.1},
		{ID: 2, Lat: 30.1, Lon: -98.2, Location: "Texas", Score: 61, Irradiance: 5.2, Slope: 8.4},
	}
}

func TestExportsRejectEmptySiteList(t *testing.T) {
	dir := t.TempDir()

	assert.ErrorIs(t, GeoJSON(nil, filepath.Join(dir, "s.geojson")), ErrNoSites)
	assert.ErrorIs(t, Shapefile(nil, filepath.Join(dir, "s.shp")), ErrNoSites)
	assert.ErrorIs(t, XLSX(nil, filepath.Join(dir, "s.xlsx")), ErrNoSites)
}

func TestGeoJSONExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sites.geojson")
	require.NoError(t, GeoJSON(testSites(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	// GeoJSON positions are lon, lat.
	assert.InDelta(t, -99.5, fc.Features[0].Geometry.Coordinates[0], 0.001)
	assert.InDelta(t, 31.5, fc.Features[0].Geometry.Coordinates[1], 0.001)
	assert.Equal(t, "excellent", fc.Features[0].Properties["bucket"])
	assert.Equal(t, "#22c55e", fc.Features[0].Properties["color"])
}

func TestShapefileExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.shp")
	require.NoError(t, Shapefile(testSites(), path))

	reader, err := shp.Open(path)
	require.NoError(t, err)
	defer reader.Close()

	fields := reader.Fields()
	require.Len(t, fields, 5)
	assert.Equal(t, "ID", fields[0].String())
	assert.Equal(t, "SCORE", fields[1].String())

	var count int
	for reader.Next() {
		n, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		require.True(t, ok)
		if n == 0 {
			assert.InDelta(t, -99.5, point.X, 0.001)
			assert.InDelta(t, 31.5, point.Y, 0.001)
			assert.Equal(t, "Texas", reader.ReadAttribute(n, 4))
		}
		count++
	}
	assert.Equal(t, 2, count)
}

func TestXLSXExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.xlsx")
	require.NoError(t, XLSX(testSites(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Sites", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "1", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "excellent", sheet.Rows[1].Cells[5].String())
	assert.Equal(t, "fair", sheet.Rows[2].Cells[5].String())
}
