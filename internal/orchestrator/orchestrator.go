// Package orchestrator sequences the chat-intent call and the analyze call,
// interprets their responses, and projects every outcome into the
// conversation log.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/terralink/terralink/internal/conversation"
	"github.com/terralink/terralink/internal/model"
	"github.com/terralink/terralink/internal/registry"
	"github.com/terralink/terralink/pkg/siteapi"
)

// ErrBusy is returned when Submit is called while a previous submission is
// still in flight. Single-flight is a hard invariant of the orchestrator,
// not a UI affordance.
var ErrBusy = eris.New("orchestrator: a query is already in flight")

// Client-authored message texts. Backend-generated text varies per query;
// these do not.
const (
	// ConnectionErrorText is the single fixed diagnostic appended on any
	// transport failure.
	ConnectionErrorText = "Connection error: could not reach the analysis backend. " +
		"Make sure the server is running and try again."

	// ClarificationTip follows the backend's clarification response.
	ClarificationTip = `Tip: include a location in your query, for example "solar farm in California" or "wind site in Nevada".`

	// ProgressText is appended between the chat and analyze calls.
	ProgressText = "Got it — running the geospatial analysis now..."
)

// OutcomeKind discriminates how a submission ended.
type OutcomeKind string

const (
	OutcomeClarification   OutcomeKind = "clarification"
	OutcomeAnalyzed        OutcomeKind = "analyzed"
	OutcomeAnalysisFailed  OutcomeKind = "analysis_failed"
	OutcomeTransportFailed OutcomeKind = "transport_failed"
)

// Outcome is the typed result of one submission. The conversation log is the
// user-facing projection of the same information.
type Outcome struct {
	Kind          OutcomeKind
	Sites         []model.Site
	Predictions   *model.Predictions
	TotalAnalyzed int
}

// Orchestrator owns the conversation log, the dataset registry, the current
// site list, and the prediction holder. It is the only component that
// performs I/O; everything else is a deterministic transformation of state
// it produces.
type Orchestrator struct {
	client siteapi.Client
	log    *conversation.Log
	reg    *registry.Registry

	mu          sync.Mutex
	busy        bool
	sites       []model.Site
	predictions *model.Predictions
}

// New creates an Orchestrator around a backend client. The conversation log
// starts with the seeded greeting and the registry with its seed datasets.
func New(client siteapi.Client) *Orchestrator {
	return &Orchestrator{
		client: client,
		log:    conversation.NewLog(),
		reg:    registry.New(),
	}
}

// Submit runs one full query sequence: chat call, then — unless the backend
// asked for clarification — the analyze call. Empty or whitespace-only input
// is a no-op returning (nil, nil). A Submit while another is in flight
// returns ErrBusy. All other failures are reported inside the Outcome and
// appended to the conversation log; Submit itself does not fail on them.
func (o *Orchestrator) Submit(ctx context.Context, queryText string) (*Outcome, error) {
	text := strings.TrimSpace(queryText)
	if text == "" {
		return nil, nil
	}

	if err := o.acquire(); err != nil {
		return nil, err
	}
	defer o.release()

	o.log.AppendUser(text)

	chat, err := o.client.Chat(ctx, text)
	if err != nil {
		zap.L().Warn("orchestrator: chat call failed", zap.Error(err))
		o.log.AppendAgent(ConnectionErrorText)
		return &Outcome{Kind: OutcomeTransportFailed}, nil
	}

	if chat.NeedsClarification {
		o.log.AppendAgent(chat.Response)
		o.log.AppendAgent(ClarificationTip)
		return &Outcome{Kind: OutcomeClarification}, nil
	}

	o.log.AppendAgent(chat.Response)
	o.replaceDatasets(chat.Datasets)
	o.log.AppendAgent(ProgressText)

	analysis, err := o.client.Analyze(ctx, text)
	if err != nil {
		zap.L().Warn("orchestrator: analyze call failed", zap.Error(err))
		o.log.AppendAgent(ConnectionErrorText)
		return &Outcome{Kind: OutcomeTransportFailed}, nil
	}

	if !analysis.Success {
		// Logical failure: surface the backend's explanation, keep prior
		// sites and predictions on screen.
		errText := analysis.Error
		if errText == "" {
			errText = "The analysis could not be completed."
		}
		o.log.AppendAgent(errText)
		if analysis.Suggestions != "" {
			o.log.AppendAgent(analysis.Suggestions)
		}
		return &Outcome{Kind: OutcomeAnalysisFailed}, nil
	}

	o.applyAnalysis(analysis)

	if analysis.Explanation != "" {
		o.log.AppendAgent(analysis.Explanation)
	}
	o.log.AppendAgent(summaryText(analysis))

	out := &Outcome{
		Kind:          OutcomeAnalyzed,
		Sites:         o.Sites(),
		Predictions:   o.Predictions(),
		TotalAnalyzed: analysis.TotalAnalyzed,
	}
	return out, nil
}

// acquire claims the single-flight slot.
func (o *Orchestrator) acquire() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return ErrBusy
	}
	o.busy = true
	return nil
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// replaceDatasets maps remote dataset records into the local shape and
// replaces the registry wholesale. An empty list leaves the registry alone.
func (o *Orchestrator) replaceDatasets(records []siteapi.DatasetRecord) {
	if len(records) == 0 {
		return
	}
	datasets := make([]model.Dataset, 0, len(records))
	for _, r := range records {
		datasets = append(datasets, r.Dataset())
	}
	o.reg.Replace(datasets)
}

// applyAnalysis installs a successful analysis: the site list is replaced
// wholesale and predictions are stored when present.
func (o *Orchestrator) applyAnalysis(a *siteapi.AnalyzeResponse) {
	o.mu.Lock()
	o.sites = make([]model.Site, len(a.Sites))
	copy(o.sites, a.Sites)
	if a.Predictions != nil {
		p := *a.Predictions
		o.predictions = &p
	}
	o.mu.Unlock()

	o.replaceDatasets(a.Datasets)
}

// summaryText reports the site count and the top-ranked site's score. The
// backend orders the list; the first element is the top site.
func summaryText(a *siteapi.AnalyzeResponse) string {
	if len(a.Sites) == 0 {
		return "No suitable sites were found for this query."
	}
	if a.TotalAnalyzed > len(a.Sites) {
		return fmt.Sprintf("Found %d suitable sites out of %d analyzed. Top site scored %.0f/100.",
			len(a.Sites), a.TotalAnalyzed, a.Sites[0].Score)
	}
	return fmt.Sprintf("Found %d suitable sites. Top site scored %.0f/100.",
		len(a.Sites), a.Sites[0].Score)
}

// Busy reports whether a submission is currently in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Messages returns the conversation transcript in order.
func (o *Orchestrator) Messages() []model.Message {
	return o.log.Messages()
}

// Sites returns a copy of the current site list.
func (o *Orchestrator) Sites() []model.Site {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.Site, len(o.sites))
	copy(out, o.sites)
	return out
}

// Predictions returns the stored predictions, or nil before the first
// analysis that produced any.
func (o *Orchestrator) Predictions() *model.Predictions {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.predictions == nil {
		return nil
	}
	p := *o.predictions
	return &p
}

// Datasets returns the current dataset registry contents.
func (o *Orchestrator) Datasets() []model.Dataset {
	return o.reg.Datasets()
}

// RemoveDataset deletes the dataset at the given position.
func (o *Orchestrator) RemoveDataset(i int) {
	o.reg.RemoveAt(i)
}
