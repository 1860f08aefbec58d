// Package siteapi provides the HTTP client for the TerraLink analysis
// backend: intent parsing via /api/chat and geospatial scoring via
// /api/analyze.
package siteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/terralink/terralink/internal/model"
)

const defaultBaseURL = "http://localhost:5001"

// Client talks to the analysis backend.
//
// Errors returned by Chat and Analyze are transport failures: the backend was
// unreachable, or replied in a way the client cannot interpret. Logical
// failures the backend reports in-band (needs_clarification, success: false)
// come back inside the response value, not as an error.
type Client interface {
	// Chat submits the raw user message for intent parsing.
	Chat(ctx context.Context, message string) (*ChatResponse, error)

	// Analyze runs the geospatial scoring for a parsed query.
	Analyze(ctx context.Context, query string) (*AnalyzeResponse, error)

	// Predict fetches trend forecasts for a region and energy type.
	Predict(ctx context.Context, req PredictRequest) (*PredictResponse, error)

	// Health probes backend liveness.
	Health(ctx context.Context) (*HealthResponse, error)
}

// DatasetRecord is a remote dataset entry as the backend reports it.
type DatasetRecord struct {
	Name        string `json:"name"`
	GEEID       string `json:"gee_id"`
	Parameter   string `json:"parameter,omitempty"`
	Relevance   string `json:"relevance,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Dataset maps a remote record into the local dataset shape.
func (r DatasetRecord) Dataset() model.Dataset {
	return model.Dataset{
		Name:     r.Name,
		SourceID: r.GEEID,
		Status:   model.DatasetActive,
		URL:      r.URL,
	}
}

// ChatResponse is the body of POST /api/chat.
type ChatResponse struct {
	Response           string             `json:"response"`
	Parsed             *model.ParsedQuery `json:"parsed,omitempty"`
	Datasets           []DatasetRecord    `json:"datasets,omitempty"`
	AIModel            string             `json:"ai_model,omitempty"`
	NeedsClarification bool               `json:"needs_clarification,omitempty"`
	Error              string             `json:"error,omitempty"`
}

// AnalyzeResponse is the body of POST /api/analyze. Success false carries the
// backend's error text and optional remediation suggestions.
type AnalyzeResponse struct {
	Success       bool               `json:"success"`
	Sites         []model.Site       `json:"sites,omitempty"`
	Datasets      []DatasetRecord    `json:"datasets,omitempty"`
	Explanation   string             `json:"explanation,omitempty"`
	Predictions   *model.Predictions `json:"predictions,omitempty"`
	ParsedQuery   *model.ParsedQuery `json:"parsed_query,omitempty"`
	TotalAnalyzed int                `json:"total_analyzed,omitempty"`
	AIModel       string             `json:"ai_model,omitempty"`
	Error         string             `json:"error,omitempty"`
	Suggestions   string             `json:"suggestions,omitempty"`
}

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	EnergyType string `json:"energy_type"`
	Region     string `json:"region"`
}

// PredictResponse is the body of POST /api/predict.
type PredictResponse struct {
	Success     bool               `json:"success"`
	Predictions *model.Predictions `json:"predictions,omitempty"`
	Region      string             `json:"region,omitempty"`
	EnergyType  string             `json:"energy_type,omitempty"`
	AIModel     string             `json:"ai_model,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status        string `json:"status"`
	AIModel       string `json:"ai_model"`
	SamplerStatus string `json:"sampler_status"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default backend base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the request timeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an analysis backend client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	var resp ChatResponse
	status, err := c.post(ctx, "/api/chat", map[string]string{"message": message}, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		// Prefer the structured error, fall back to the response text.
		msg := resp.Error
		if msg == "" {
			msg = resp.Response
		}
		return nil, eris.Errorf("siteapi: chat status %d: %s", status, msg)
	}
	return &resp, nil
}

func (c *httpClient) Analyze(ctx context.Context, query string) (*AnalyzeResponse, error) {
	var resp AnalyzeResponse
	status, err := c.post(ctx, "/api/analyze", map[string]string{"query": query}, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		if resp.Error == "" {
			return nil, eris.Errorf("siteapi: analyze status %d with empty body", status)
		}
		// The backend rejected the analysis but explained itself: a logical
		// failure, surfaced in-band.
		resp.Success = false
		return &resp, nil
	}
	return &resp, nil
}

func (c *httpClient) Predict(ctx context.Context, req PredictRequest) (*PredictResponse, error) {
	var resp PredictResponse
	status, err := c.post(ctx, "/api/predict", req, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("siteapi: predict status %d: %s", status, resp.Error)
	}
	return &resp, nil
}

func (c *httpClient) Health(ctx context.Context) (*HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, eris.Wrap(err, "siteapi: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "siteapi: send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("siteapi: health status %d", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, eris.Wrap(err, "siteapi: unmarshal response")
	}
	return &health, nil
}

// post sends a JSON body and decodes the JSON reply, returning the HTTP
// status. A non-JSON reply body is a transport failure regardless of status.
func (c *httpClient) post(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, eris.Wrap(err, "siteapi: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, eris.Wrap(err, "siteapi: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, eris.Wrap(err, "siteapi: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, eris.Wrap(err, "siteapi: read response")
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return 0, eris.Wrapf(err, "siteapi: unmarshal response (status %d)", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
