package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SentimentPulse/internal/domain/models"
	drepo "SentimentPulse/internal/domain/repository"
)

// ErrMissingInput is matched by every MissingInputError.
var ErrMissingInput = errors.New("missing input")

// MissingInputError reports which upload was absent.
type MissingInputError struct {
	Presence models.InputPresence
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s: sentiment=%d trader=%d", models.MissingInputMessage, e.Presence.SentimentFiles, e.Presence.TraderFiles)
}

func (e *MissingInputError) Is(target error) bool { return target == ErrMissingInput }

// DisplayTrigger gates the dashboard on both uploads being present.
type DisplayTrigger struct {
	results drepo.ResultProvider
	metrics drepo.Metrics
}

// NewDisplayTrigger creates a trigger. metrics may be nil.
func NewDisplayTrigger(results drepo.ResultProvider, metrics drepo.Metrics) *DisplayTrigger {
	return &DisplayTrigger{results: results, metrics: metrics}
}

// Presence reads the upload counts from d.
func Presence(d drepo.Display) models.InputPresence {
	return models.InputPresence{
		SentimentFiles: d.InputCount(models.SentimentFileID),
		TraderFiles:    d.InputCount(models.TraderFileID),
	}
}

// RunAnalysis checks both uploads and populates d with the result set.
// On missing input it alerts once and leaves every other element untouched.
func (t *DisplayTrigger) RunAnalysis(ctx context.Context, d drepo.Display) error {
	start := time.Now()
	defer t.observe(start)

	presence := Presence(d)
	if !presence.Complete() {
		d.Alert(models.MissingInputMessage)
		t.record(models.OutcomeMissingInput)
		return &MissingInputError{Presence: presence}
	}

	rs, err := t.results.Results(ctx)
	if err != nil {
		if t.metrics != nil {
			t.metrics.RecordError("results")
		}
		return fmt.Errorf("load results: %w", err)
	}

	d.SetVisible(models.ResultsID, true)
	d.SetText(models.FearWinID, rs.Fear.WinRate.String())
	d.SetText(models.FearPnLID, rs.Fear.PnL.String())
	d.SetText(models.GreedWinID, rs.Greed.WinRate.String())
	d.SetText(models.GreedPnLID, rs.Greed.PnL.String())
	d.SetListItems(models.InsightsListID, rs.Insights)

	t.record(models.OutcomeResults)
	return nil
}

func (t *DisplayTrigger) record(outcome string) {
	if t.metrics != nil {
		t.metrics.RecordRun(outcome)
	}
}

func (t *DisplayTrigger) observe(start time.Time) {
	if t.metrics != nil {
		t.metrics.RecordLatency("run_analysis", time.Since(start).Seconds())
	}
}
