package model

// EnergyType classifies the kind of renewable project being sited.
type EnergyType string

const (
	EnergySolar      EnergyType = "solar"
	EnergyWind       EnergyType = "wind"
	EnergyHydro      EnergyType = "hydro"
	EnergyGeothermal EnergyType = "geothermal"
)

// Valid reports whether t is one of the recognized energy types.
func (t EnergyType) Valid() bool {
	switch t {
	case EnergySolar, EnergyWind, EnergyHydro, EnergyGeothermal:
		return true
	}
	return false
}

// Criteria splits siting factors by importance.
type Criteria struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

// ParsedQuery is the structured intent extracted from a natural-language
// siting query. Region is empty when no location could be resolved, which
// drives the clarification branch.
type ParsedQuery struct {
	EnergyType EnergyType `json:"energy_type"`
	Region     string     `json:"region"`
	SizeAcres  *float64   `json:"size_acres"`
	Criteria   Criteria   `json:"criteria"`
}
