package model

import "time"

// RunStatus represents the state of a recorded analysis run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// AnalysisRun records one completed (or failed) analyze request.
type AnalysisRun struct {
	ID        string     `json:"id"`
	Query     string     `json:"query"`
	Region    string     `json:"region"`
	Energy    EnergyType `json:"energy_type"`
	Status    RunStatus  `json:"status"`
	SiteCount int        `json:"site_count"`
	TopScore  float64    `json:"top_score"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
