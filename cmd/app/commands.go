package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"SentimentPulse/internal/di"
	"SentimentPulse/internal/display"
	"SentimentPulse/internal/usecase"
	"SentimentPulse/pkg/config"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sentimentpulse",
		Short: "Bitcoin market sentiment vs trader performance dashboard",
		Long: `SentimentPulse serves a dashboard comparing trader performance across
Fear and Greed market sentiment, and can print the same summary in a terminal.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			log.Printf("env=%s cache=%s events=%t", cfg.Environment, cfg.Cache.Backend, cfg.Events.Enabled)

			// Wire DI: Initialize all dependencies
			app, cleanup, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}
			defer cleanup()

			// blocks until signal
			return app.Run()
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var sentiment, trader string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the sentiment summary for the given CSV files",
		Long: `Print the sentiment summary in the terminal.
Example: sentimentpulse analyze --sentiment fear_greed_index.csv --trader historical_data.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), sentiment, trader)
		},
	}
	cmd.Flags().StringVar(&sentiment, "sentiment", "", "Fear & Greed index CSV file")
	cmd.Flags().StringVar(&trader, "trader", "", "historical trader data CSV file")
	return cmd
}

// runAnalyze renders to w and returns the trigger error so the process exits non-zero on missing input.
func runAnalyze(ctx context.Context, w io.Writer, sentimentPath, traderPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	term := display.NewTerminal(sentimentPath, traderPath)
	runErr := usecase.NewDisplayTrigger(usecase.StaticResults{}, nil).RunAnalysis(ctx, term)
	if err := term.Render(w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return runErr
}
