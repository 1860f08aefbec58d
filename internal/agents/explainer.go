package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/terralink/terralink/internal/model"
)

var titler = cases.Title(language.AmericanEnglish)

const explainPromptFmt = `You are a renewable energy analyst. In 2-3 sentences, explain to a non-expert why these are good %s sites in %s. Top site score: %.0f/100 out of %d analyzed locations. Scoring considered: %s. Do not use markdown.`

// Explain runs the explainer agent over a scored site list. With no model
// available it composes a deterministic summary instead.
func (s *Suite) Explain(ctx context.Context, q model.ParsedQuery, sites []model.Site) string {
	if len(sites) == 0 {
		return fmt.Sprintf("No locations in %s met the %s siting thresholds.",
			titler.String(q.Region), q.EnergyType)
	}

	prompt := fmt.Sprintf(explainPromptFmt,
		q.EnergyType, titler.String(q.Region), sites[0].Score, len(sites),
		strings.Join(append(q.Criteria.Primary, q.Criteria.Secondary...), ", "))

	text, err := s.llm.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	if err != nil && !eris.Is(err, ErrNoModel) {
		zap.L().Warn("agents: explainer model call failed", zap.Error(err))
	}

	return fallbackExplanation(q, sites)
}

func fallbackExplanation(q model.ParsedQuery, sites []model.Site) string {
	region := titler.String(q.Region)
	top := sites[0]

	switch q.EnergyType {
	case model.EnergySolar:
		return fmt.Sprintf("These %s locations combine high solar irradiance with gentle terrain, "+
			"which keeps construction costs down and energy yield up. The top site scored %.0f/100 "+
			"with an estimated %.1f kWh/m²/day of usable sunlight.", region, top.Score, top.Irradiance)
	case model.EnergyWind:
		return fmt.Sprintf("These %s locations sit on exposed terrain with consistent wind resource. "+
			"The top site scored %.0f/100 on wind speed, slope, and land availability.", region, top.Score)
	default:
		return fmt.Sprintf("These %s locations scored well on the %s siting criteria. "+
			"The top site scored %.0f/100 across %d candidate locations.",
			region, q.EnergyType, top.Score, len(sites))
	}
}
