package study

import (
	"context"

	"go.uber.org/zap"

	"studybuddy/internal/api"
)

const summaryPrompt = "Summarize all my uploaded documents"

// SummaryGenerator holds the one-shot summary for a session. Each run
// replaces the stored text on success; on failure the previous summary is
// retained and the error is logged, not surfaced as a blocking failure.
type SummaryGenerator struct {
	client    api.StudyAPI
	log       *zap.Logger
	sessionID int

	summary    string
	generating bool
	failed     bool
}

func NewSummaryGenerator(client api.StudyAPI, sessionID int, log *zap.Logger) *SummaryGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &SummaryGenerator{client: client, log: log, sessionID: sessionID}
}

func (g *SummaryGenerator) SessionID() int   { return g.sessionID }
func (g *SummaryGenerator) Summary() string  { return g.summary }
func (g *SummaryGenerator) Generating() bool { return g.generating }

// Failed reports whether the most recent run failed, so the UI can offer a
// retry hint without blocking anything.
func (g *SummaryGenerator) Failed() bool { return g.failed }

// Generate requests a fresh summary. Returns nil while one is in flight.
func (g *SummaryGenerator) Generate(ctx context.Context) Command {
	if g.generating {
		return nil
	}
	g.generating = true

	client := g.client
	req := api.ChatRequest{Message: summaryPrompt, SessionID: g.sessionID}
	return func() Event {
		resp, err := client.GenerateSummary(ctx, req)
		return SummaryGenerated{Response: resp, Err: err}
	}
}

func (g *SummaryGenerator) ResolveGenerate(ev SummaryGenerated) {
	g.generating = false
	if ev.Err != nil {
		g.log.Warn("summary generation failed", zap.Int("session_id", g.sessionID), zap.Error(ev.Err))
		g.failed = true
		return
	}
	g.failed = false
	g.summary = ev.Response.Summary
}
