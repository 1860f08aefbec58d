package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/terralink/terralink/internal/agents"
	"github.com/terralink/terralink/internal/model"
	"github.com/terralink/terralink/internal/sampler"
)

const regionSuggestions = "Try including a state name, such as: Find solar sites in Texas"

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response           string                `json:"response"`
	Parsed             *model.ParsedQuery    `json:"parsed,omitempty"`
	Datasets           []agents.CatalogEntry `json:"datasets,omitempty"`
	AIModel            string                `json:"ai_model,omitempty"`
	NeedsClarification bool                  `json:"needs_clarification,omitempty"`
	Error              string                `json:"error,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Response: "Please provide a message in your query.",
			Error:    "message is required",
		})
		return
	}

	res := s.suite.ParseQuery(r.Context(), req.Message)

	if res.NeedsClarification {
		msg := res.Message
		if msg == "" {
			msg = "I couldn't determine the region from your query. Which state are you considering?"
		}
		writeJSON(w, http.StatusOK, chatResponse{
			Response:           msg,
			Parsed:             &res.Parsed,
			AIModel:            res.AIModel,
			NeedsClarification: true,
		})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: fmt.Sprintf("I understand you're looking for %s sites in %s. Analyzing suitable locations...",
			res.Parsed.EnergyType, sampler.DisplayName(res.Parsed.Region)),
		Parsed:   &res.Parsed,
		Datasets: agents.DatasetsFor(res.Parsed.EnergyType),
		AIModel:  res.AIModel,
	})
}

type analyzeRequest struct {
	Query string `json:"query"`
}

type analyzeResponse struct {
	Success       bool                  `json:"success"`
	Sites         []model.Site          `json:"sites,omitempty"`
	Datasets      []agents.CatalogEntry `json:"datasets,omitempty"`
	Explanation   string                `json:"explanation,omitempty"`
	Predictions   *model.Predictions    `json:"predictions,omitempty"`
	ParsedQuery   *model.ParsedQuery    `json:"parsed_query,omitempty"`
	TotalAnalyzed int                   `json:"total_analyzed,omitempty"`
	AIModel       string                `json:"ai_model,omitempty"`
	Error         string                `json:"error,omitempty"`
	Suggestions   string                `json:"suggestions,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{
			Success: false,
			Error:   "query is required",
		})
		return
	}

	res := s.suite.ParseQuery(r.Context(), req.Query)
	parsed := res.Parsed

	if parsed.Region == "" {
		s.recordRun(r.Context(), req.Query, parsed, nil, "region not resolved")
		writeJSON(w, http.StatusBadRequest, analyzeResponse{
			Success:     false,
			Error:       "Could not determine the region from your query.",
			Suggestions: regionSuggestions,
			ParsedQuery: &parsed,
			AIModel:     res.AIModel,
		})
		return
	}

	sites, total, err := s.sampler.Sample(parsed)
	if err != nil {
		s.recordRun(r.Context(), req.Query, parsed, nil, err.Error())
		writeJSON(w, http.StatusBadRequest, analyzeResponse{
			Success: false,
			Error: fmt.Sprintf("No coverage for region %q. Supported regions: %s.",
				parsed.Region, strings.Join(sampler.Regions(), ", ")),
			Suggestions: regionSuggestions,
			ParsedQuery: &parsed,
			AIModel:     res.AIModel,
		})
		return
	}

	// Explanation and prediction are independent model calls; run them in
	// parallel.
	var (
		explanation string
		predictions model.Predictions
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		explanation = s.suite.Explain(gctx, parsed, sites)
		return nil
	})
	g.Go(func() error {
		predictions = s.suite.Predict(gctx, parsed.EnergyType, parsed.Region)
		return nil
	})
	_ = g.Wait()

	s.recordRun(r.Context(), req.Query, parsed, sites, "")

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:       true,
		Sites:         sites,
		Datasets:      agents.DatasetsFor(parsed.EnergyType),
		Explanation:   explanation,
		Predictions:   &predictions,
		ParsedQuery:   &parsed,
		TotalAnalyzed: total,
		AIModel:       res.AIModel,
	})
}

// recordRun persists run history when a store is configured. Failures are
// logged, not surfaced; history is best-effort.
func (s *Server) recordRun(ctx context.Context, query string, parsed model.ParsedQuery, sites []model.Site, errText string) {
	if s.runs == nil {
		return
	}

	run := model.AnalysisRun{
		Query:  query,
		Region: parsed.Region,
		Energy: parsed.EnergyType,
		Status: model.RunStatusComplete,
		Error:  errText,
	}
	if errText != "" {
		run.Status = model.RunStatusFailed
	}
	if len(sites) > 0 {
		run.SiteCount = len(sites)
		run.TopScore = sites[0].Score
	}

	if _, err := s.runs.CreateRun(ctx, run); err != nil {
		zap.L().Warn("server: record run", zap.Error(err))
	}
}

type predictRequest struct {
	EnergyType string `json:"energy_type"`
	Region     string `json:"region"`
}

type predictResponse struct {
	Success     bool               `json:"success"`
	Predictions *model.Predictions `json:"predictions,omitempty"`
	Region      string             `json:"region,omitempty"`
	EnergyType  string             `json:"energy_type,omitempty"`
	AIModel     string             `json:"ai_model,omitempty"`
	Error       string             `json:"error,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, predictResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	energy := model.EnergyType(strings.ToLower(strings.TrimSpace(req.EnergyType)))
	if !energy.Valid() {
		energy = model.EnergySolar
	}
	region := strings.ToLower(strings.TrimSpace(req.Region))
	if region == "" {
		region = "texas"
	}

	p := s.suite.Predict(r.Context(), energy, region)
	writeJSON(w, http.StatusOK, predictResponse{
		Success:     true,
		Predictions: &p,
		Region:      region,
		EnergyType:  string(energy),
		AIModel:     s.suite.ModelName(),
	})
}
