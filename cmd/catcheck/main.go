package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/catcheck/catcheck/internal/catalog"
	"github.com/catcheck/catcheck/internal/client"
	"github.com/catcheck/catcheck/internal/config"
	"github.com/catcheck/catcheck/internal/notifier"
	"github.com/catcheck/catcheck/internal/report"
	"github.com/catcheck/catcheck/internal/suite"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "catcheck",
		Short: "End-to-end test suite for the cat-image catalog API",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to configuration file")

	root.AddCommand(newRunCmd(&cfgPath))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "catcheck %s\n", version)
		},
	}
}

func newRunCmd(cfgPath *string) *cobra.Command {
	var reportPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the suite against the configured API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("report") {
				cfg.Report.Path = reportPath
			}
			if verbose {
				cfg.Run.Verbose = true
				cfg.Logging.Level = "debug"
			}

			failed, err := run(cfg)
			if err != nil {
				return err
			}
			if failed {
				// Failures already printed in full; a non-zero exit is enough.
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reportPath, "report", "", "path for the JSON report (empty disables)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log request and response detail")
	return cmd
}

func run(cfg *config.Config) (failed bool, err error) {
	logger := setupLogger(cfg.Logging)
	logger.Info("starting catcheck", "version", version, "base_url", cfg.API.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One shared limiter keeps the whole run polite to the remote API even
	// though every case gets its own client.
	var limiter *rate.Limiter
	if cfg.API.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.API.RatePerSec), cfg.API.RateBurst)
	}

	defaultHeaders := make(map[string]string, len(cfg.API.DefaultHeaders)+1)
	for k, v := range cfg.API.DefaultHeaders {
		defaultHeaders[k] = v
	}
	if cfg.API.Key != "" {
		if _, ok := defaultHeaders["X-Api-Key"]; !ok {
			defaultHeaders["X-Api-Key"] = cfg.API.Key
		}
	}

	s := &catalog.Suite{
		HasKey: cfg.API.Key != "",
		NewClient: func() *client.Client {
			return client.New(client.Options{
				BaseURL:        cfg.API.BaseURL,
				DefaultHeaders: defaultHeaders,
				HTTPClient:     &http.Client{Timeout: cfg.API.Timeout},
				Limiter:        limiter,
				Logger:         logger,
				Verbose:        cfg.Run.Verbose,
			})
		},
	}

	runner := suite.NewRunner(cfg.Run.Workers, cfg.Run.CaseTimeout, logger)
	results, sum := runner.Run(ctx, s.Cases())

	(&report.Printer{Out: os.Stdout}).Print(results, sum)

	if cfg.Report.Path != "" {
		if err := report.New(results, sum).WriteJSON(cfg.Report.Path); err != nil {
			logger.Error("report write failed", "path", cfg.Report.Path, "error", err)
		} else {
			logger.Info("report written", "path", cfg.Report.Path)
		}
	}

	notifier.NewDispatcher(logger).Notify(ctx, cfg.Notify, sum)

	return sum.Failed > 0, nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
