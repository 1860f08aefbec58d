package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralink/terralink/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRun() model.AnalysisRun {
	return model.AnalysisRun{
		Query:     "30 acre solar farm in Texas",
		Region:    "texas",
		Energy:    model.EnergySolar,
		Status:    model.RunStatusComplete,
		SiteCount: 20,
		TopScore:  92,
	}
}

func TestSQLiteCreateAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	created, err := s.CreateRun(ctx, sampleRun())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Query, got.Query)
	assert.Equal(t, model.EnergySolar, got.Energy)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, 20, got.SiteCount)
	assert.InDelta(t, 92, got.TopScore, 0.001)
}

func TestSQLiteCreateRunKeepsProvidedID(t *testing.T) {
	s := newTestSQLite(t)

	run := sampleRun()
	run.ID = "fixed-id"
	run.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	created, err := s.CreateRun(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", created.ID)
	assert.Equal(t, run.CreatedAt, created.CreatedAt)
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range []model.AnalysisRun{
		{Query: "solar in texas", Region: "texas", Energy: model.EnergySolar, Status: model.RunStatusComplete, SiteCount: 20, TopScore: 90},
		{Query: "wind in nevada", Region: "nevada", Energy: model.EnergyWind, Status: model.RunStatusComplete, SiteCount: 15, TopScore: 81},
		{Query: "solar nowhere", Region: "", Energy: model.EnergySolar, Status: model.RunStatusFailed, Error: "region not resolved"},
	} {
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := s.CreateRun(ctx, r)
		require.NoError(t, err)
	}

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "solar nowhere", all[0].Query)

	failed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "region not resolved", failed[0].Error)

	texas, err := s.ListRuns(ctx, RunFilter{Region: "texas"})
	require.NoError(t, err)
	require.Len(t, texas, 1)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "wind in nevada", limited[0].Query)
}
