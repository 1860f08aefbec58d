package agents

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/terralink/terralink/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogEntry describes one Earth-observation dataset relevant to an
// energy type. The JSON tags match the wire shape the backend reports.
type CatalogEntry struct {
	Name        string `yaml:"name" json:"name"`
	GEEID       string `yaml:"gee_id" json:"gee_id"`
	Parameter   string `yaml:"parameter" json:"parameter,omitempty"`
	Relevance   string `yaml:"relevance" json:"relevance,omitempty"`
	URL         string `yaml:"url" json:"url,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

var catalog map[string][]CatalogEntry

func init() {
	if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
		panic("agents: embedded catalog is invalid: " + err.Error())
	}
}

// DatasetsFor returns the catalog entries for an energy type. Unknown types
// fall back to the solar catalog.
func DatasetsFor(energy model.EnergyType) []CatalogEntry {
	entries, ok := catalog[string(energy)]
	if !ok {
		entries = catalog[string(model.EnergySolar)]
	}
	out := make([]CatalogEntry, len(entries))
	copy(out, entries)
	return out
}
