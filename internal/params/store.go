// Package params holds the per-criterion analysis parameters the user can
// edit between queries.
package params

import (
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
)

// Parameter is one scoring criterion's weight and accepted value range.
type Parameter struct {
	Weight float64 `json:"weight"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Unit   string  `json:"unit"`
}

// Store keeps parameters keyed by criterion name.
//
// Weights are expected by the domain to sum to 100 across criteria, but the
// store deliberately does not enforce, normalize, or clamp this; WeightSum
// exists so callers can display the drift.
type Store struct {
	params map[string]Parameter
}

// NewStore creates a Store seeded with the default solar criteria.
func NewStore() *Store {
	return &Store{params: map[string]Parameter{
		"irradiance": {Weight: 40, Min: 4.5, Max: 8.0, Unit: "kWh/m²/day"},
		"slope":      {Weight: 30, Min: 0, Max: 15, Unit: "degrees"},
		"land_cover": {Weight: 20, Min: 0, Max: 100, Unit: "%"},
		"protected":  {Weight: 10, Min: 5, Max: 50, Unit: "km"},
	}}
}

// Update parses value as a float and replaces the named field (weight, min,
// or max) on the given criterion. No range validation is applied.
func (s *Store) Update(criterion, field, value string) error {
	p, ok := s.params[criterion]
	if !ok {
		return eris.Errorf("params: unknown criterion %q", criterion)
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return eris.Wrapf(err, "params: parse %s.%s", criterion, field)
	}

	switch field {
	case "weight":
		p.Weight = f
	case "min":
		p.Min = f
	case "max":
		p.Max = f
	default:
		return eris.Errorf("params: unknown field %q", field)
	}

	s.params[criterion] = p
	return nil
}

// SetUnit replaces the unit label on the given criterion.
func (s *Store) SetUnit(criterion, unit string) error {
	p, ok := s.params[criterion]
	if !ok {
		return eris.Errorf("params: unknown criterion %q", criterion)
	}
	p.Unit = unit
	s.params[criterion] = p
	return nil
}

// Get returns the parameter for a criterion.
func (s *Store) Get(criterion string) (Parameter, bool) {
	p, ok := s.params[criterion]
	return p, ok
}

// Criteria returns the criterion names in sorted order.
func (s *Store) Criteria() []string {
	names := make([]string, 0, len(s.params))
	for name := range s.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WeightSum returns the current total weight across all criteria.
func (s *Store) WeightSum() float64 {
	var sum float64
	for _, p := range s.params {
		sum += p.Weight
	}
	return sum
}
