// Command matchlens serves the match analytics page and can walk the page
// headlessly from the terminal.
//
// Usage:
//
//	matchlens serve
//	matchlens browse --competition 43 --season 106 --match 3869685 --tab team1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/matchlens/internal/app"
	"github.com/riskibarqy/matchlens/internal/config"
	"github.com/riskibarqy/matchlens/internal/observability"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "matchlens",
		Short:        "Match analytics page server",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(browseCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the page shell and its websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg config.Config) error {
	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("start pprof: %w", err)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, shutdownTimeout); err != nil {
			logger.Warn("pprof shutdown failed", "error", err)
		}
	}()

	srv, err := app.NewHTTPServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "analytics_url", cfg.AnalyticsBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			logger.Error("http server failed", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}

	logger.Info("http server stopped")
	return nil
}

func browseCmd() *cobra.Command {
	var (
		input      usecase.BrowseInput
		analytics  string
		indent     bool
		logVerbose bool
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Walk the page headlessly and print the resulting document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if analytics != "" {
				cfg.AnalyticsBaseURL = analytics
			}

			level := logging.LevelWarn
			if logVerbose {
				level = logging.LevelDebug
			}
			logger := logging.NewConsole(os.Stderr, level)
			defer func() { _ = logger.Sync() }()

			return runBrowse(cmd.Context(), cfg, logger, input, indent)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.CompetitionID, "competition", "", "Competition id")
	flags.StringVar(&input.SeasonID, "season", "", "Season id, required with --competition")
	flags.StringVar(&input.MatchID, "match", "", "Match id to open")
	flags.StringVar(&input.Tab, "tab", "", "Tab to activate: overview, team1 or team2")
	flags.IntVar(&input.Width, "width", 0, "Graph container width in pixels")
	flags.IntVar(&input.Height, "height", 0, "Graph container height in pixels")
	flags.StringVar(&analytics, "analytics-url", "", "Override ANALYTICS_BASE_URL")
	flags.BoolVar(&indent, "indent", true, "Indent the printed document")
	flags.BoolVarP(&logVerbose, "verbose", "v", false, "Log loads to stderr")
	cmd.MarkFlagsRequiredTogether("competition", "season")
	return cmd
}

func runBrowse(ctx context.Context, cfg config.Config, logger *logging.Logger, input usecase.BrowseInput, indent bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := app.NewAnalyticsClient(cfg, logger)
	page, err := app.NewPageFactory(cfg, client, logger)(ctx)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	snapshot, err := page.Browse(ctx, input)
	if err != nil {
		return fmt.Errorf("browse page: %w", err)
	}

	var out []byte
	if indent {
		out, err = sonic.ConfigStd.MarshalIndent(snapshot, "", "  ")
	} else {
		out, err = sonic.Marshal(snapshot)
	}
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
