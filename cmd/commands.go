package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/okian/firewatch/internal/adapters/fixture"
	"github.com/okian/firewatch/internal/adapters/source"
	"github.com/okian/firewatch/internal/adapters/tui"
	"github.com/okian/firewatch/internal/config"
	"github.com/okian/firewatch/internal/domain/model"
	"github.com/okian/firewatch/internal/viz"
	"github.com/okian/firewatch/pkg/logger"
	"github.com/spf13/cobra"
)

// addTUICmd adds the 'tui' subcommand running the terminal dashboard.
func addTUICmd(rootCmd *cobra.Command) {
	var (
		logFile string
		refresh time.Duration
	)
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), logFile, refresh)
		},
	}
	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of discarding them")
	tuiCmd.Flags().DurationVar(&refresh, "refresh", 250*time.Millisecond, "Screen refresh interval")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(parent context.Context, logFile string, refresh time.Duration) error {
	ctx, stop := signalContext(parent)
	defer stop()

	var w io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	cfg, log, err := setup(ctx, w)
	if err != nil {
		return err
	}
	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}

	// The HTTP surface stays up so the fixture and API are reachable while
	// the terminal dashboard runs.
	srv := newHTTPServer(newMux(ctx, cfg, svc))
	if _, err := listen(ctx, log, srv, cfg.Addr); err != nil {
		return err
	}
	defer shutdown(log, srv)

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	return tui.Run(ctx, svc, refresh)
}

// addSummaryCmd adds the 'summary' subcommand printing both panels of a day.
func addSummaryCmd(rootCmd *cobra.Command) {
	var (
		date       string
		useFixture bool
	)
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch once and print the fire and AQI panels of a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			cfg, log, err := setup(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if date == "" {
				date = cfg.InitialDate
			}
			out, err := summarize(ctx, cfg, log, date, useFixture)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	summaryCmd.Flags().StringVarP(&date, "date", "d", "", "Day to summarize (YYYY-MM-DD); defaults to initial_date")
	summaryCmd.Flags().BoolVar(&useFixture, "fixture", false, "Use the built-in mock data instead of source_url")
	rootCmd.AddCommand(summaryCmd)
}

type fixtureSource struct{}

func (fixtureSource) Fetch(context.Context) (model.Dataset, error) {
	return fixture.Payload().Dataset(), nil
}

// summarize loads the dataset once and renders day onto a text board.
func summarize(ctx context.Context, cfg *config.Config, log logger.Logger, day string, useFixture bool) (string, error) {
	var src viz.Source = fixtureSource{}
	if !useFixture {
		src = source.New(cfg.SourceURL,
			source.WithTimeout(cfg.FetchTimeout()),
			source.WithMaxAttempts(cfg.FetchMaxAttempts),
			source.WithBackoff(cfg.FetchBackoff()),
			source.WithLogger(log.Named("source")),
		)
	}

	board := viz.NewBoard()
	ctrl := viz.New(viz.WithSource(src), viz.WithPanels(board), viz.WithLogger(log.Named("viz")))
	defer ctrl.Close()

	if err := ctrl.Load(ctx); err != nil {
		return "", err
	}
	if err := ctrl.Render(day); err != nil {
		return "", err
	}
	return board.String(), nil
}

// addFixtureCmd adds the 'fixture' subcommand serving only the mock data.
func addFixtureCmd(rootCmd *cobra.Command) {
	fixtureCmd := &cobra.Command{
		Use:   "fixture",
		Short: "Serve only the mock /api/fire_aqi_data endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			cfg, log, err := setup(ctx, os.Stdout)
			if err != nil {
				return err
			}
			mux := http.NewServeMux()
			fixture.Register(mux)
			srv := newHTTPServer(mux)
			errCh, err := listen(ctx, log, srv, cfg.Addr)
			if err != nil {
				return err
			}
			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return err
				}
			}
			shutdown(log, srv)
			return nil
		},
	}
	rootCmd.AddCommand(fixtureCmd)
}
