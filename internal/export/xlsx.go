package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/terralink/terralink/internal/mapview"
	"github.com/terralink/terralink/internal/model"
)

var xlsxHeader = []string{
	"ID", "Location", "Latitude", "Longitude", "Score", "Bucket",
	"Irradiance (kWh/m²/day)", "Slope (°)",
}

// XLSX writes the site list as a spreadsheet with one row per site,
// including the score bucket used on the map.
func XLSX(sites []model.Site, path string) error {
	if len(sites) == 0 {
		return ErrNoSites
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sites")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, site := range sites {
		v := mapview.VisualFor(site.Score)
		row := sheet.AddRow()
		row.AddCell().SetInt(site.ID)
		row.AddCell().SetString(site.Location)
		row.AddCell().SetFloat(site.Lat)
		row.AddCell().SetFloat(site.Lon)
		row.AddCell().SetFloat(site.Score)
		row.AddCell().SetString(string(v.Bucket))
		row.AddCell().SetFloat(site.Irradiance)
		row.AddCell().SetFloat(site.Slope)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
