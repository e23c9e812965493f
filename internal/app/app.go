// Package app wires configuration, logging and the backend client into one
// Application handle shared by the TUI and the plain CLI subcommands.
package app

import (
	"go.uber.org/zap"

	"studybuddy/internal/api"
	"studybuddy/internal/study"
)

type Application struct {
	Config Config
	Logger *zap.Logger
	Client api.StudyAPI

	Registry *study.SessionRegistry
	View     *study.StudySessionView
}

// New builds an Application. With mock set, the in-memory backend is used
// instead of HTTP so the client runs without a server.
func New(cfg Config, mock bool, console bool) *Application {
	logger := NewLogger(cfg.LogFile, console)

	var client api.StudyAPI
	if mock {
		client = seededMock()
	} else {
		client = api.NewClient(cfg.BaseURL, cfg.RequestTimeout, logger.Named("api"))
	}

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Registry: study.NewSessionRegistry(client, logger.Named("registry")),
		View:     study.NewStudySessionView(client, logger.Named("view")),
	}
}

func (a *Application) Close() {
	_ = a.Logger.Sync()
}

// seededMock gives the demo mode something to show on first launch.
func seededMock() *api.MockClient {
	m := api.NewMockClient()
	m.Seed(api.Session{ID: 1, Name: "Biology 101", Description: "Demo session", DocumentCount: 2})
	m.Seed(api.Session{ID: 2, Name: "Math Finals", Description: "Demo session", DocumentCount: 1})
	return m
}
