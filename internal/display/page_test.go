package display_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SentimentPulse/internal/display"
	"SentimentPulse/internal/domain/models"
	"SentimentPulse/internal/usecase"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantInsights = []string{
	"Fear markets show higher win rates",
	"Greed markets use higher risk",
	"Contrarian strategies work better in fear",
	"Trade size increases during greed",
}

func counts(sentiment, trader int) map[string]int {
	return map[string]int{models.SentimentFileID: sentiment, models.TraderFileID: trader}
}

func TestPageStartsHidden(t *testing.T) {
	p, err := display.NewPage(nil)
	require.NoError(t, err)

	assert.False(t, p.Visible(models.ResultsID))
	assert.False(t, p.Visible(models.AlertID))
	assert.Empty(t, p.ListItems(models.InsightsListID))
	assert.Equal(t, 0, p.InputCount(models.SentimentFileID))
}

func TestPageMissingInput(t *testing.T) {
	p, err := display.NewPage(counts(0, 1))
	require.NoError(t, err)

	err = usecase.NewDisplayTrigger(usecase.StaticResults{}, nil).RunAnalysis(context.Background(), p)
	require.ErrorIs(t, err, usecase.ErrMissingInput)

	assert.Equal(t, []string{models.MissingInputMessage}, p.Alerts())
	assert.True(t, p.Visible(models.AlertID))
	assert.Equal(t, models.MissingInputMessage, p.Text(models.AlertID))
	assert.False(t, p.Visible(models.ResultsID))
	assert.Empty(t, p.Text(models.FearWinID))
	assert.Empty(t, p.ListItems(models.InsightsListID))
}

func TestPageResults(t *testing.T) {
	p, err := display.NewPage(counts(1, 1))
	require.NoError(t, err)
	trigger := usecase.NewDisplayTrigger(usecase.StaticResults{}, nil)

	for i := 0; i < 2; i++ {
		require.NoError(t, trigger.RunAnalysis(context.Background(), p))
	}

	assert.True(t, p.Visible(models.ResultsID))
	assert.Equal(t, "62.4", p.Text(models.FearWinID))
	assert.Equal(t, "125.34", p.Text(models.FearPnLID))
	assert.Equal(t, "54.8", p.Text(models.GreedWinID))
	assert.Equal(t, "87.92", p.Text(models.GreedPnLID))
	if diff := cmp.Diff(wantInsights, p.ListItems(models.InsightsListID)); diff != "" {
		t.Fatalf("insights mismatch (-want +got):\n%s", diff)
	}

	out, err := p.HTML()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.ToLower(out), "<!doctype html>"))
	assert.Equal(t, 4, strings.Count(out, "<li>"))
	assert.Contains(t, out, `<span id="fearWin">62.4</span>`)
}

func TestPageEscapesListItems(t *testing.T) {
	p, err := display.NewPageFromTemplate([]byte(`<ul id="l"><li>old</li></ul>`), nil)
	require.NoError(t, err)

	p.SetListItems("l", []string{"<b>bold</b>", "a & b"})

	assert.Equal(t, []string{"<b>bold</b>", "a & b"}, p.ListItems("l"))
	out, err := p.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt;")
	assert.NotContains(t, out, "old")
}

func TestPageSetListItemsReplaces(t *testing.T) {
	p, err := display.NewPage(nil)
	require.NoError(t, err)

	p.SetListItems(models.InsightsListID, []string{"first", "second", "third"})
	require.Equal(t, []string{"first", "second", "third"}, p.ListItems(models.InsightsListID))

	p.SetListItems(models.InsightsListID, []string{"only"})
	assert.Equal(t, []string{"only"}, p.ListItems(models.InsightsListID))

	out, err := p.HTML()
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "<li>"))
	assert.Contains(t, out, `<ul id="insightsList"><li>only</li></ul>`)
}

func TestMemoryApplyToMatchesDirectRun(t *testing.T) {
	trigger := usecase.NewDisplayTrigger(usecase.StaticResults{}, nil)
	for name, in := range map[string]map[string]int{
		"results": counts(1, 1),
		"missing": counts(0, 1),
	} {
		t.Run(name, func(t *testing.T) {
			direct, err := display.NewPage(in)
			require.NoError(t, err)
			_ = trigger.RunAnalysis(context.Background(), direct)

			mem := display.NewMemory(in)
			_ = trigger.RunAnalysis(context.Background(), mem)
			replayed, err := display.NewPage(in)
			require.NoError(t, err)
			mem.ApplyTo(replayed)

			want, err := direct.HTML()
			require.NoError(t, err)
			got, err := replayed.HTML()
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("replayed page differs (-direct +replayed):\n%s", diff)
			}
		})
	}
}

func TestPageSetVisibleToggles(t *testing.T) {
	p, err := display.NewPage(nil)
	require.NoError(t, err)

	p.SetVisible(models.ResultsID, true)
	assert.True(t, p.Visible(models.ResultsID))
	p.SetVisible(models.ResultsID, false)
	assert.False(t, p.Visible(models.ResultsID))
	assert.False(t, p.Visible("doesNotExist"))
}

func TestTerminalRender(t *testing.T) {
	dir := t.TempDir()
	sentiment := filepath.Join(dir, "bitcoin_sentiment.csv")
	trader := filepath.Join(dir, "trader_data.csv")
	require.NoError(t, os.WriteFile(sentiment, []byte("date,classification\n"), 0o644))
	require.NoError(t, os.WriteFile(trader, nil, 0o644))

	t.Run("results", func(t *testing.T) {
		term := display.NewTerminal(sentiment, trader)
		require.NoError(t, usecase.NewDisplayTrigger(usecase.StaticResults{}, nil).RunAnalysis(context.Background(), term))

		var b strings.Builder
		require.NoError(t, term.Render(&b))
		out := b.String()
		for _, s := range append([]string{"62.4", "125.34", "54.8", "87.92"}, wantInsights...) {
			assert.Contains(t, out, s)
		}
		assert.NotContains(t, out, models.MissingInputMessage)
	})

	t.Run("missing", func(t *testing.T) {
		term := display.NewTerminal(sentiment, filepath.Join(dir, "absent.csv"))
		err := usecase.NewDisplayTrigger(usecase.StaticResults{}, nil).RunAnalysis(context.Background(), term)
		require.ErrorIs(t, err, usecase.ErrMissingInput)

		var b strings.Builder
		require.NoError(t, term.Render(&b))
		assert.Contains(t, b.String(), models.MissingInputMessage)
		assert.NotContains(t, b.String(), "62.4")
	})
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	assert.Equal(t, 0, display.CountFiles(""))
	assert.Equal(t, 0, display.CountFiles(dir))
	assert.Equal(t, 0, display.CountFiles(filepath.Join(dir, "missing.csv")))
	assert.Equal(t, 1, display.CountFiles(f))
	assert.Equal(t, 2, display.CountFiles(f, f))
}
