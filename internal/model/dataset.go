package model

// DatasetStatus marks whether a data source participates in analysis.
type DatasetStatus string

const (
	DatasetActive   DatasetStatus = "active"
	DatasetInactive DatasetStatus = "inactive"
)

// Dataset is a data source shown in the registry. Registries are replaced
// wholesale when the backend supplies a dataset list.
type Dataset struct {
	Name     string        `json:"name"`
	SourceID string        `json:"source_id"`
	Status   DatasetStatus `json:"status"`
	URL      string        `json:"url"`
}
