package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/terralink/terralink/internal/model"
)

const predictPromptFmt = `You are a renewable energy market analyst. Forecast the %s market outlook for %s. Answer with ONLY a JSON object, no prose:

{
  "forecast_2025": "<one sentence>",
  "forecast_2030": "<one sentence>",
  "key_trends": ["..."],
  "risk_factors": ["..."],
  "opportunities": ["..."],
  "confidence_score": <0-100>
}`

// Predict runs the predictor agent for a region and energy type. With no
// model available it returns the canned market outlook.
func (s *Suite) Predict(ctx context.Context, energy model.EnergyType, region string) model.Predictions {
	prompt := fmt.Sprintf(predictPromptFmt, energy, titler.String(region))

	raw, err := s.llm.Generate(ctx, prompt)
	if err == nil {
		var p model.Predictions
		if jsonErr := json.Unmarshal([]byte(stripFences(raw)), &p); jsonErr == nil && p.Forecast2025 != "" {
			return p
		}
		zap.L().Warn("agents: predictor answer unusable, using fallback",
			zap.String("answer", raw))
	} else if !eris.Is(err, ErrNoModel) {
		zap.L().Warn("agents: predictor model call failed", zap.Error(err))
	}

	return fallbackPredictions(energy)
}

func fallbackPredictions(energy model.EnergyType) model.Predictions {
	return model.Predictions{
		Forecast2025: fmt.Sprintf("Strong %s capacity growth expected, in the 15-20%% annual range.", energy),
		Forecast2030: "Market maturity with improved storage integration and declining levelized costs.",
		KeyTrends: []string{
			"Declining technology costs",
			"Supportive federal incentives",
			"Grid modernization investment",
		},
		RiskFactors: []string{
			"Interconnection queue delays",
			"Supply chain constraints",
		},
		Opportunities: []string{
			"Hybrid generation-plus-storage projects",
			"Community energy programs",
		},
		ConfidenceScore: 75,
	}
}
