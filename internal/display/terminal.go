package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"SentimentPulse/internal/domain/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	fearStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Padding(0, 2).
			Width(34)

	greedStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 2).
			Width(34)

	insightsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2).
			Width(72)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// Terminal renders display state to a console.
type Terminal struct {
	*Memory
}

// NewTerminal counts each non-empty path that names an existing regular file.
// File contents are never opened.
func NewTerminal(sentimentPath, traderPath string) *Terminal {
	return &Terminal{Memory: NewMemory(map[string]int{
		models.SentimentFileID: CountFiles(sentimentPath),
		models.TraderFileID:    CountFiles(traderPath),
	})}
}

func CountFiles(paths ...string) int {
	n := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			n++
		}
	}
	return n
}

// Render writes alerts followed by the results block when it is visible.
func (t *Terminal) Render(w io.Writer) error {
	var b strings.Builder
	for _, a := range t.Alerts() {
		b.WriteString(alertStyle.Render("! "+a) + "\n")
	}
	if t.Visible(models.ResultsID) {
		b.WriteString(titleStyle.Render("Bitcoin Sentiment vs Trader Performance") + "\n")
		fear := fearStyle.Render(conditionBlock("Fear", t.Text(models.FearWinID), t.Text(models.FearPnLID)))
		greed := greedStyle.Render(conditionBlock("Greed", t.Text(models.GreedWinID), t.Text(models.GreedPnLID)))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, fear, " ", greed) + "\n")

		var lines []string
		for _, item := range t.ListItems(models.InsightsListID) {
			lines = append(lines, "• "+item)
		}
		b.WriteString(insightsStyle.Render("Key insights\n\n"+strings.Join(lines, "\n")) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func conditionBlock(label, win, pnl string) string {
	return fmt.Sprintf("%s\n\nWin rate: %s%%\nAvg PnL:  $%s", label, win, pnl)
}
