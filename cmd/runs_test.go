package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/terralink/terralink/internal/model"
)

func TestComputeRunStats(t *testing.T) {
	runs := []model.AnalysisRun{
		{Status: model.RunStatusComplete, Region: "texas", TopScore: 90},
		{Status: model.RunStatusComplete, Region: "texas", TopScore: 80},
		{Status: model.RunStatusFailed, Region: "nevada"},
		{Status: model.RunStatusFailed},
	}

	s := computeRunStats(runs)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Complete)
	assert.Equal(t, 2, s.Failed)
	assert.InDelta(t, 85, s.AvgTopScore, 0.001)
	assert.Equal(t, 2, s.ByRegion["texas"])
	assert.Equal(t, 1, s.ByRegion["nevada"])
}

func TestComputeRunStatsEmpty(t *testing.T) {
	s := computeRunStats(nil)
	assert.Equal(t, 0, s.Total)
	assert.Zero(t, s.AvgTopScore)
}

func TestFormatRunsList(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, []model.AnalysisRun{
		{
			ID:        "abcdef1234567890",
			Query:     "30 acre solar farm in Texas with excellent road access nearby",
			Region:    "texas",
			Status:    model.RunStatusComplete,
			SiteCount: 20,
			TopScore:  92,
			CreatedAt: time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
		},
	})

	out := buf.String()
	assert.Contains(t, out, "abcdef12")
	assert.NotContains(t, out, "abcdef1234567890")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "texas")
	assert.Contains(t, out, "2026-08-20 10:30")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("123456789"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestFormatRunStats(t *testing.T) {
	var buf bytes.Buffer
	formatRunStats(&buf, runStats{
		Total: 3, Complete: 2, Failed: 1, AvgTopScore: 87.5,
		ByRegion: map[string]int{"utah": 3},
	})

	out := buf.String()
	assert.Contains(t, out, "Total runs:")
	assert.Contains(t, out, "87.5")
	assert.Contains(t, out, "utah")
}
