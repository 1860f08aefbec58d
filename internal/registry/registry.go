// Package registry tracks the active data sources shown alongside analysis
// results.
package registry

import "github.com/terralink/terralink/internal/model"

// Registry is an ordered list of data sources. It starts from a fixed seed
// list and is replaced wholesale whenever the backend supplies dataset
// metadata; it is never merged.
type Registry struct {
	datasets []model.Dataset
}

// seedDatasets is the initial list shown before any backend response.
var seedDatasets = []model.Dataset{
	{
		Name:     "Solar Irradiance",
		SourceID: "ECMWF/ERA5_LAND/MONTHLY_AGGR",
		Status:   model.DatasetActive,
		URL:      "https://developers.google.com/earth-engine/datasets/catalog/ECMWF_ERA5_LAND_MONTHLY_AGGR",
	},
	{
		Name:     "Elevation/Slope",
		SourceID: "USGS/SRTMGL1_003",
		Status:   model.DatasetActive,
		URL:      "https://developers.google.com/earth-engine/datasets/catalog/USGS_SRTMGL1_003",
	},
	{
		Name:     "Land Cover",
		SourceID: "ESA/WorldCover/v200",
		Status:   model.DatasetActive,
		URL:      "https://developers.google.com/earth-engine/datasets/catalog/ESA_WorldCover_v200",
	},
}

// New creates a Registry populated with the seed datasets.
func New() *Registry {
	r := &Registry{datasets: make([]model.Dataset, len(seedDatasets))}
	copy(r.datasets, seedDatasets)
	return r
}

// Replace discards the current contents entirely and installs the given list.
func (r *Registry) Replace(datasets []model.Dataset) {
	r.datasets = make([]model.Dataset, len(datasets))
	copy(r.datasets, datasets)
}

// RemoveAt deletes the dataset at position i. Out-of-range positions are
// ignored. No backend notification is sent.
func (r *Registry) RemoveAt(i int) {
	if i < 0 || i >= len(r.datasets) {
		return
	}
	r.datasets = append(r.datasets[:i], r.datasets[i+1:]...)
}

// Datasets returns a copy of the current list in order.
func (r *Registry) Datasets() []model.Dataset {
	out := make([]model.Dataset, len(r.datasets))
	copy(out, r.datasets)
	return out
}

// Len returns the number of registered datasets.
func (r *Registry) Len() int {
	return len(r.datasets)
}
