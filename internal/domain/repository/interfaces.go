package repository

import (
	"context"

	"SentimentPulse/internal/domain/models"
)

// Display is the set of named elements an analysis run reads from and writes to.
type Display interface {
	InputCount(id string) int
	SetText(id, value string)
	SetVisible(id string, visible bool)
	SetListItems(id string, items []string)
	Alert(message string)
}

type ResultProvider interface {
	Results(ctx context.Context) (models.ResultSet, error)
}

type RunPublisher interface {
	PublishRun(ctx context.Context, run *models.AnalysisRun) error
	Close() error
}

type Metrics interface {
	RecordRun(outcome string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
