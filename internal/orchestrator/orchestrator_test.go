package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralink/terralink/internal/conversation"
	"github.com/terralink/terralink/internal/model"
	"github.com/terralink/terralink/pkg/siteapi"
)

// fakeClient scripts the backend's behavior per call.
type fakeClient struct {
	chatResp    *siteapi.ChatResponse
	chatErr     error
	analyzeResp *siteapi.AnalyzeResponse
	analyzeErr  error

	chatCalls    int
	analyzeCalls int

	// blockChat, when set, holds Chat until released. Used to exercise the
	// single-flight guard.
	blockChat chan struct{}
	mu        sync.Mutex
}

func (f *fakeClient) Chat(_ context.Context, _ string) (*siteapi.ChatResponse, error) {
	f.mu.Lock()
	f.chatCalls++
	block := f.blockChat
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.chatResp, f.chatErr
}

func (f *fakeClient) Analyze(_ context.Context, _ string) (*siteapi.AnalyzeResponse, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.mu.Unlock()
	return f.analyzeResp, f.analyzeErr
}

func (f *fakeClient) Predict(_ context.Context, _ siteapi.PredictRequest) (*siteapi.PredictResponse, error) {
	return nil, eris.New("not scripted")
}

func (f *fakeClient) Health(_ context.Context) (*siteapi.HealthResponse, error) {
	return &siteapi.HealthResponse{Status: "healthy"}, nil
}

func resolvedChat() *siteapi.ChatResponse {
	return &siteapi.ChatResponse{
		Response: "Looking for solar sites in Texas. Analyzing...",
		Parsed:   &model.ParsedQuery{EnergyType: model.EnergySolar, Region: "texas"},
		Datasets: []siteapi.DatasetRecord{
			{Name: "Solar Irradiance", GEEID: "ECMWF/ERA5_LAND/MONTHLY_AGGR"},
			{Name: "Elevation", GEEID: "USGS/SRTMGL1_003"},
		},
	}
}

func analyzedOK() *siteapi.AnalyzeResponse {
	return &siteapi.AnalyzeResponse{
		Success: true,
		Sites: []model.Site{
			{ID: 1, Lat: 31.2, Lon: -99.4, Score: 92, Irradiance: 6.9, Slope: 1.8},
			{ID: 2, Lat: 30.7, Lon: -98.1, Score: 61, Irradiance: 5.2, Slope: 6.3},
		},
		Explanation:   "High irradiance and gentle terrain across the region.",
		TotalAnalyzed: 100,
		Predictions:   &model.Predictions{Forecast2025: "steady growth", ConfidenceScore: 75},
	}
}

func agentTexts(o *Orchestrator) []string {
	var out []string
	for _, m := range o.Messages() {
		if m.Role == model.RoleAgent {
			out = append(out, m.Text)
		}
	}
	return out
}

func TestSubmitEmptyInputIsNoOp(t *testing.T) {
	client := &fakeClient{}
	o := New(client)

	for _, input := range []string{"", "   ", "\t\n"} {
		out, err := o.Submit(context.Background(), input)
		require.NoError(t, err)
		assert.Nil(t, out)
	}

	assert.Equal(t, 0, client.chatCalls)
	// Only the greeting.
	assert.Equal(t, 1, o.log.Len())
}

func TestSubmitFullAnalysisFlow(t *testing.T) {
	client := &fakeClient{chatResp: resolvedChat(), analyzeResp: analyzedOK()}
	o := New(client)

	out, err := o.Submit(context.Background(), "  30 acre solar farm in Texas  ")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, OutcomeAnalyzed, out.Kind)

	// Sites replaced wholesale, backend order preserved.
	sites := o.Sites()
	require.Len(t, sites, 2)
	assert.InDelta(t, 92, sites[0].Score, 0.001)
	assert.Equal(t, 100, out.TotalAnalyzed)

	require.NotNil(t, o.Predictions())
	assert.InDelta(t, 75, o.Predictions().ConfidenceScore, 0.001)

	// Registry replaced wholesale from the chat response.
	datasets := o.Datasets()
	require.Len(t, datasets, 2)
	assert.Equal(t, "Solar Irradiance", datasets[0].Name)

	// Transcript: greeting, trimmed user text, chat response, progress,
	// explanation, summary.
	msgs := o.Messages()
	require.Len(t, msgs, 6)
	assert.Equal(t, conversation.Greeting, msgs[0].Text)
	assert.Equal(t, model.RoleUser, msgs[1].Role)
	assert.Equal(t, "30 acre solar farm in Texas", msgs[1].Text)
	assert.Equal(t, ProgressText, msgs[3].Text)
	assert.Contains(t, msgs[5].Text, "2 suitable sites")
	assert.Contains(t, msgs[5].Text, "92/100")

	assert.Equal(t, 1, client.chatCalls)
	assert.Equal(t, 1, client.analyzeCalls)
	assert.False(t, o.Busy())
}

func TestSubmitClarificationSkipsAnalyze(t *testing.T) {
	client := &fakeClient{chatResp: &siteapi.ChatResponse{
		Response:           "Which region are you interested in?",
		NeedsClarification: true,
	}}
	o := New(client)

	out, err := o.Submit(context.Background(), "find me a site")
	require.NoError(t, err)
	assert.Equal(t, OutcomeClarification, out.Kind)

	assert.Equal(t, 0, client.analyzeCalls)
	assert.Empty(t, o.Sites())

	texts := agentTexts(o)
	require.Len(t, texts, 3)
	assert.Equal(t, "Which region are you interested in?", texts[1])
	assert.Equal(t, ClarificationTip, texts[2])
}

func TestSubmitChatTransportFailure(t *testing.T) {
	client := &fakeClient{chatErr: eris.New("siteapi: send request: connection refused")}
	o := New(client)

	out, err := o.Submit(context.Background(), "solar farm in Texas")
	require.NoError(t, err)
	assert.Equal(t, OutcomeTransportFailed, out.Kind)

	assert.Equal(t, 0, client.analyzeCalls)

	texts := agentTexts(o)
	require.Len(t, texts, 2)
	assert.Equal(t, ConnectionErrorText, texts[1])
	assert.False(t, o.Busy())
}

func TestSubmitAnalyzeTransportFailure(t *testing.T) {
	client := &fakeClient{
		chatResp:   resolvedChat(),
		analyzeErr: eris.New("siteapi: send request: connection refused"),
	}
	o := New(client)

	out, err := o.Submit(context.Background(), "solar farm in Texas")
	require.NoError(t, err)
	assert.Equal(t, OutcomeTransportFailed, out.Kind)

	texts := agentTexts(o)
	assert.Equal(t, ConnectionErrorText, texts[len(texts)-1])
	assert.Empty(t, o.Sites())
	assert.False(t, o.Busy())
}

func TestSubmitAnalysisFailureKeepsPriorState(t *testing.T) {
	client := &fakeClient{chatResp: resolvedChat(), analyzeResp: analyzedOK()}
	o := New(client)

	_, err := o.Submit(context.Background(), "solar farm in Texas")
	require.NoError(t, err)
	require.Len(t, o.Sites(), 2)

	client.analyzeResp = &siteapi.AnalyzeResponse{
		Success:     false,
		Error:       "Could not determine the region from your query.",
		Suggestions: "Try including a state name, such as: Find solar sites in Texas",
	}

	out, err := o.Submit(context.Background(), "solar farm on the moon")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnalysisFailed, out.Kind)

	// Prior sites and predictions survive a failed analysis.
	assert.Len(t, o.Sites(), 2)
	assert.NotNil(t, o.Predictions())

	texts := agentTexts(o)
	assert.Contains(t, texts[len(texts)-2], "Could not determine the region")
	assert.Contains(t, texts[len(texts)-1], "Try including a state name")
}

func TestSubmitAnalysisFailureWithoutErrorText(t *testing.T) {
	client := &fakeClient{
		chatResp:    resolvedChat(),
		analyzeResp: &siteapi.AnalyzeResponse{Success: false},
	}
	o := New(client)

	out, err := o.Submit(context.Background(), "solar farm in Texas")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnalysisFailed, out.Kind)

	texts := agentTexts(o)
	assert.Equal(t, "The analysis could not be completed.", texts[len(texts)-1])
}

func TestSubmitRejectsOverlappingCalls(t *testing.T) {
	block := make(chan struct{})
	client := &fakeClient{
		chatResp:    resolvedChat(),
		analyzeResp: analyzedOK(),
		blockChat:   block,
	}
	o := New(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := o.Submit(context.Background(), "solar farm in Texas")
		assert.NoError(t, err)
	}()

	// Wait for the first submission to enter the chat call.
	require.Eventually(t, o.Busy, 2*time.Second, time.Millisecond)

	_, err := o.Submit(context.Background(), "wind site in Nevada")
	require.ErrorIs(t, err, ErrBusy)

	close(block)
	<-done

	// The slot is released after a terminal state; the next submit works.
	assert.False(t, o.Busy())
	client.blockChat = nil
	out, err := o.Submit(context.Background(), "wind site in Nevada")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnalyzed, out.Kind)
}

func TestSubmitReleasesSlotAfterTransportFailure(t *testing.T) {
	client := &fakeClient{chatErr: eris.New("down")}
	o := New(client)

	_, err := o.Submit(context.Background(), "solar farm in Texas")
	require.NoError(t, err)
	require.False(t, o.Busy())

	client.chatErr = nil
	client.chatResp = resolvedChat()
	client.analyzeResp = analyzedOK()

	out, err := o.Submit(context.Background(), "solar farm in Texas")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnalyzed, out.Kind)
}

func TestSubmitSecondAnalysisReplacesSites(t *testing.T) {
	client := &fakeClient{chatResp: resolvedChat(), analyzeResp: analyzedOK()}
	o := New(client)

	_, err := o.Submit(context.Background(), "solar farm in Texas")
	require.NoError(t, err)
	require.Len(t, o.Sites(), 2)

	client.analyzeResp = &siteapi.AnalyzeResponse{
		Success:       true,
		Sites:         []model.Site{{ID: 7, Lat: 39.5, Lon: -117.1, Score: 88}},
		TotalAnalyzed: 100,
	}

	out, err := o.Submit(context.Background(), "wind site in Nevada")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnalyzed, out.Kind)

	// No merging: the old list is gone.
	sites := o.Sites()
	require.Len(t, sites, 1)
	assert.Equal(t, 7, sites[0].ID)
}

func TestRemoveDataset(t *testing.T) {
	o := New(&fakeClient{})
	n := len(o.Datasets())
	require.Greater(t, n, 0)

	o.RemoveDataset(0)
	assert.Len(t, o.Datasets(), n-1)

	// Out-of-range removals are ignored.
	o.RemoveDataset(99)
	o.RemoveDataset(-1)
	assert.Len(t, o.Datasets(), n-1)
}
