// Package main provides the caliper binary entry point.
// Caliper inspects the Caliper vocabulary and checks YAML fixtures of
// entities and events against the conformance rules.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c360studio/caliper/config"
	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/metrics"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "caliper"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand once the root has run.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// eventOptions returns the builder options implied by the configuration.
func (a *app) eventOptions(strict bool) []event.Option {
	opts := []event.Option{event.WithObserver(a.metrics)}
	if strict || a.cfg.Validation.StrictDuration {
		opts = append(opts, event.WithDurationFormat(conformance.ISO8601Duration))
	}
	return opts
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Caliper vocabulary and conformance tool",
		Long: `Caliper inspects the Caliper learning-analytics vocabulary and checks
fixtures of entities and events against its conformance rules.

Fixtures are YAML files listing entities and events. Checked events can be
rendered as JSON-LD, Turtle or N-Triples, and archived to a NATS JetStream
key-value bucket.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, configPath, logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		vocabCmd(),
		actionsCmd(a),
		rulesCmd(),
		checkCmd(a),
		exportCmd(a),
		archiveCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command, configPath, logLevel string) error {
	bootstrap := newLogger(cmd.ErrOrStderr(), slog.LevelWarn)

	loader := config.NewLoader(bootstrap)
	if configPath != "" {
		loader.WithPath(configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), level)
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
