package usecase_test

import (
	"context"
	"errors"
	"testing"

	"SentimentPulse/internal/display"
	"SentimentPulse/internal/domain/models"
	"SentimentPulse/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var wantInsights = []string{
	"Fear markets show higher win rates",
	"Greed markets use higher risk",
	"Contrarian strategies work better in fear",
	"Trade size increases during greed",
}

type fakeMetrics struct {
	runs      map[string]int
	errs      map[string]int
	latencies int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{runs: map[string]int{}, errs: map[string]int{}}
}

func (f *fakeMetrics) RecordRun(outcome string)      { f.runs[outcome]++ }
func (f *fakeMetrics) RecordError(kind string)       { f.errs[kind]++ }
func (f *fakeMetrics) RecordLatency(string, float64) { f.latencies++ }

type failingResults struct{}

func (failingResults) Results(context.Context) (models.ResultSet, error) {
	return models.ResultSet{}, errors.New("boom")
}

func counts(sentiment, trader int) map[string]int {
	return map[string]int{models.SentimentFileID: sentiment, models.TraderFileID: trader}
}

func TestRunAnalysisMissingInput(t *testing.T) {
	cases := []struct {
		name              string
		sentiment, trader int
	}{
		{"sentiment missing", 0, 1},
		{"trader missing", 1, 0},
		{"both missing", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newFakeMetrics()
			trigger := usecase.NewDisplayTrigger(usecase.StaticResults{}, m)
			d := display.NewMemory(counts(tc.sentiment, tc.trader))

			err := trigger.RunAnalysis(context.Background(), d)

			require.Error(t, err)
			assert.True(t, errors.Is(err, usecase.ErrMissingInput))
			var mie *usecase.MissingInputError
			require.True(t, errors.As(err, &mie))
			assert.Equal(t, tc.sentiment, mie.Presence.SentimentFiles)
			assert.Equal(t, tc.trader, mie.Presence.TraderFiles)

			assert.Equal(t, []string{models.MissingInputMessage}, d.Alerts())
			assert.False(t, d.Visible(models.ResultsID))
			assert.False(t, d.Written())
			assert.Equal(t, 1, m.runs[models.OutcomeMissingInput])
		})
	}
}

func TestRunAnalysisPopulatesDisplay(t *testing.T) {
	m := newFakeMetrics()
	trigger := usecase.NewDisplayTrigger(usecase.StaticResults{}, m)
	d := display.NewMemory(counts(1, 1))

	require.NoError(t, trigger.RunAnalysis(context.Background(), d))

	assert.True(t, d.Visible(models.ResultsID))
	assert.Equal(t, "62.4", d.Text(models.FearWinID))
	assert.Equal(t, "125.34", d.Text(models.FearPnLID))
	assert.Equal(t, "54.8", d.Text(models.GreedWinID))
	assert.Equal(t, "87.92", d.Text(models.GreedPnLID))
	assert.Equal(t, wantInsights, d.ListItems(models.InsightsListID))
	assert.Empty(t, d.Alerts())
	assert.Equal(t, 1, m.runs[models.OutcomeResults])
	assert.Equal(t, 1, m.latencies)
}

func TestRunAnalysisIgnoresFileCount(t *testing.T) {
	trigger := usecase.NewDisplayTrigger(usecase.StaticResults{}, nil)
	d := display.NewMemory(counts(3, 7))

	require.NoError(t, trigger.RunAnalysis(context.Background(), d))
	assert.Equal(t, "62.4", d.Text(models.FearWinID))
	assert.Equal(t, wantInsights, d.ListItems(models.InsightsListID))
}

func TestRunAnalysisIsIdempotent(t *testing.T) {
	trigger := usecase.NewDisplayTrigger(usecase.StaticResults{}, nil)
	d := display.NewMemory(counts(1, 1))

	require.NoError(t, trigger.RunAnalysis(context.Background(), d))
	first := d.View(false)
	require.NoError(t, trigger.RunAnalysis(context.Background(), d))

	assert.Len(t, d.ListItems(models.InsightsListID), 4)
	assert.Equal(t, first, d.View(false))
}

func TestRunAnalysisResultsErrorLeavesDisplayUntouched(t *testing.T) {
	m := newFakeMetrics()
	trigger := usecase.NewDisplayTrigger(failingResults{}, m)
	d := display.NewMemory(counts(1, 1))

	err := trigger.RunAnalysis(context.Background(), d)

	require.Error(t, err)
	assert.False(t, errors.Is(err, usecase.ErrMissingInput))
	assert.False(t, d.Written())
	assert.Empty(t, d.Alerts())
	assert.Equal(t, 1, m.errs["results"])
}

func TestStaticResultsReturnsIndependentCopies(t *testing.T) {
	a, err := usecase.StaticResults{}.Results(context.Background())
	require.NoError(t, err)
	a.Insights[0] = "changed"

	b, err := usecase.StaticResults{}.Results(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wantInsights, b.Insights)
}
