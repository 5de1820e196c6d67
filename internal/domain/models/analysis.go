package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Element identifiers shared by every display.
const (
	SentimentFileID = "sentimentFile"
	TraderFileID    = "traderFile"
	ResultsID       = "results"
	FearWinID       = "fearWin"
	FearPnLID       = "fearPnL"
	GreedWinID      = "greedWin"
	GreedPnLID      = "greedPnL"
	InsightsListID  = "insightsList"
	AlertID         = "alert"
)

// MissingInputMessage is shown when either upload is absent.
const MissingInputMessage = "Please upload both CSV files first."

// Run outcomes.
const (
	OutcomeResults      = "results"
	OutcomeMissingInput = "missing_input"
)

// InputPresence is derived from the display on every run and never stored.
type InputPresence struct {
	SentimentFiles int `json:"sentiment_files"`
	TraderFiles    int `json:"trader_files"`
}

// Complete reports whether both uploads are present.
func (p InputPresence) Complete() bool {
	return p.SentimentFiles > 0 && p.TraderFiles > 0
}

type ConditionResult struct {
	Label   string          `json:"label"`    // "Fear" | "Greed"
	WinRate decimal.Decimal `json:"win_rate"` // percent
	PnL     decimal.Decimal `json:"pnl"`
}

type ResultSet struct {
	Fear     ConditionResult `json:"fear"`
	Greed    ConditionResult `json:"greed"`
	Insights []string        `json:"insights"`
}

// StaticResultSet returns a fresh copy of the fixed dashboard values.
func StaticResultSet() ResultSet {
	return ResultSet{
		Fear: ConditionResult{
			Label:   "Fear",
			WinRate: decimal.RequireFromString("62.4"),
			PnL:     decimal.RequireFromString("125.34"),
		},
		Greed: ConditionResult{
			Label:   "Greed",
			WinRate: decimal.RequireFromString("54.8"),
			PnL:     decimal.RequireFromString("87.92"),
		},
		Insights: []string{
			"Fear markets show higher win rates",
			"Greed markets use higher risk",
			"Contrarian strategies work better in fear",
			"Trade size increases during greed",
		},
	}
}

// AnalysisRun is the event emitted after each analysis request.
type AnalysisRun struct {
	ID             string    `json:"id"`
	Outcome        string    `json:"outcome"`
	SentimentFiles int       `json:"sentiment_files"`
	TraderFiles    int       `json:"trader_files"`
	Source         string    `json:"source"` // "page" | "api" | "cli"
	At             time.Time `json:"at"`
}
