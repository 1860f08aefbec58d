package agents

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/terralink/terralink/internal/model"
)

// ParseResult is the parser agent's structured reading of a user message.
type ParseResult struct {
	Parsed             model.ParsedQuery
	NeedsClarification bool
	Message            string
	AIModel            string
}

const parsePrompt = `You are a renewable energy siting assistant. Extract the query intent from the user's message and answer with ONLY a JSON object, no prose:

{
  "energy_type": "solar|wind|hydro|geothermal",
  "region": "<US state, lowercase, or empty if not stated>",
  "size_acres": <number or null>,
  "criteria": {"primary": ["..."], "secondary": ["..."]},
  "needs_clarification": <true when the region is missing>,
  "clarification_message": "<question to ask the user, or empty>"
}

User message: `

var acreagePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:acre|acres)`)

// knownRegions are the regions the sampler has bounds for.
var knownRegions = []string{
	"texas", "california", "nevada", "arizona", "new mexico", "colorado", "utah",
}

var energyKeywords = map[model.EnergyType][]string{
	model.EnergySolar:      {"solar", "photovoltaic", "pv"},
	model.EnergyWind:       {"wind", "turbine"},
	model.EnergyHydro:      {"hydro", "hydroelectric", "dam"},
	model.EnergyGeothermal: {"geothermal"},
}

// defaultCriteria per energy type, used when the model supplies none.
var defaultCriteria = map[model.EnergyType]model.Criteria{
	model.EnergySolar:      {Primary: []string{"irradiance", "slope"}, Secondary: []string{"land_cover", "protected"}},
	model.EnergyWind:       {Primary: []string{"wind_speed", "slope"}, Secondary: []string{"land_cover", "protected"}},
	model.EnergyHydro:      {Primary: []string{"precipitation", "elevation"}, Secondary: []string{"land_cover"}},
	model.EnergyGeothermal: {Primary: []string{"surface_temperature"}, Secondary: []string{"slope", "land_cover"}},
}

// ParseQuery runs the parser agent: the model first, the keyword heuristic
// when the model is unavailable or answers with something unusable.
func (s *Suite) ParseQuery(ctx context.Context, message string) ParseResult {
	raw, err := s.llm.Generate(ctx, parsePrompt+message)
	if err == nil {
		if res, ok := parseModelAnswer(raw); ok {
			res.AIModel = s.llm.Name()
			return res
		}
		zap.L().Warn("agents: parser answer unusable, using heuristic",
			zap.String("answer", raw))
	} else if !eris.Is(err, ErrNoModel) {
		zap.L().Warn("agents: parser model call failed", zap.Error(err))
	}

	res := heuristicParse(message)
	res.AIModel = s.llm.Name()
	return res
}

// modelAnswer mirrors the JSON shape the prompt requests.
type modelAnswer struct {
	EnergyType           string         `json:"energy_type"`
	Region               string         `json:"region"`
	SizeAcres            *float64       `json:"size_acres"`
	Criteria             model.Criteria `json:"criteria"`
	NeedsClarification   bool           `json:"needs_clarification"`
	ClarificationMessage string         `json:"clarification_message"`
}

func parseModelAnswer(raw string) (ParseResult, bool) {
	var ans modelAnswer
	if err := json.Unmarshal([]byte(stripFences(raw)), &ans); err != nil {
		return ParseResult{}, false
	}

	energy := model.EnergyType(strings.ToLower(strings.TrimSpace(ans.EnergyType)))
	if !energy.Valid() {
		energy = model.EnergySolar
	}

	criteria := ans.Criteria
	if len(criteria.Primary) == 0 {
		criteria = defaultCriteria[energy]
	}

	region := strings.ToLower(strings.TrimSpace(ans.Region))
	res := ParseResult{
		Parsed: model.ParsedQuery{
			EnergyType: energy,
			Region:     region,
			SizeAcres:  ans.SizeAcres,
			Criteria:   criteria,
		},
		NeedsClarification: ans.NeedsClarification || region == "",
		Message:            ans.ClarificationMessage,
	}
	return res, true
}

// heuristicParse is the no-model fallback: keyword scan for energy type,
// region, and acreage. An unrecognized region leaves Region empty so the
// caller can ask for clarification.
func heuristicParse(message string) ParseResult {
	lower := strings.ToLower(message)

	// Map iteration order is random; take the earliest keyword hit in the
	// message, defaulting to solar.
	energy := model.EnergySolar
	best := -1
	for et, words := range energyKeywords {
		for _, w := range words {
			if i := strings.Index(lower, w); i >= 0 && (best == -1 || i < best) {
				best = i
				energy = et
			}
		}
	}

	var region string
	for _, r := range knownRegions {
		if strings.Contains(lower, r) {
			region = r
			break
		}
	}

	var size *float64
	if m := acreagePattern.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			size = &v
		}
	}

	return ParseResult{
		Parsed: model.ParsedQuery{
			EnergyType: energy,
			Region:     region,
			SizeAcres:  size,
			Criteria:   defaultCriteria[energy],
		},
		NeedsClarification: region == "",
	}
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag. Models often wrap JSON answers in one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 && !strings.HasPrefix(s, "{") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
