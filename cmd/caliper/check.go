package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/export"
	"github.com/c360studio/caliper/fixture"
	"github.com/c360studio/caliper/graph"
	"github.com/c360studio/caliper/sensor"
	"github.com/c360studio/caliper/storage"
)

// errCheckFailed is returned when any fixture item failed to build.
var errCheckFailed = errors.New("conformance check failed")

var (
	passLabel = color.New(color.FgGreen, color.Bold).Sprint("PASS")
	failLabel = color.New(color.FgRed, color.Bold).Sprint("FAIL")
	dim       = color.New(color.Faint).SprintFunc()
)

// openArchive connects to the configured archive. Tests replace it.
var openArchive = func(ctx context.Context, a *app) (sensor.Sink, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Archive.Timeout)
	defer cancel()
	archive, closeFn, err := storage.Connect(ctx, a.cfg.Archive.URL, a.cfg.Archive.Bucket, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return archive, closeFn, nil
}

// eventPublisher is the part of graph.Publisher check uses.
type eventPublisher interface {
	PublishEvent(ctx context.Context, e *event.Event) (int, error)
}

// openPublisher connects to the graph ingest stream. Tests replace it.
var openPublisher = func(ctx context.Context, a *app) (eventPublisher, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Archive.Timeout)
	defer cancel()
	return graph.Connect(ctx, a.cfg.Archive.URL, export.Profile(a.cfg.Export.Profile), a.logger)
}

type checkOptions struct {
	watch   bool
	archive bool
	publish bool
	strict  bool
}

func checkCmd(a *app) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check <glob>...",
		Short: "Build fixture files and report conformance violations",
		Long: `Check builds every entity and event of the matching fixture files and
prints each conformance violation. Globs may use "**".

With --archive, the events that pass are sent as one envelope per file to
the JetStream archive. With --publish, their triples are published for graph
ingestion. With --watch, files are re-checked when they change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), a, cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-check fixtures when they change")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "Archive the events that pass")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Publish the triples of events that pass to the graph")
	cmd.Flags().BoolVar(&opts.strict, "strict-duration", false, "Check durations against ISO-8601")
	return cmd
}

func runCheck(ctx context.Context, a *app, out io.Writer, patterns []string, opts checkOptions) error {
	paths, err := fixture.Expand(patterns...)
	if err != nil {
		return err
	}

	c := &checker{app: a, out: out, strict: opts.strict}
	if opts.archive {
		sink, closeFn, err := openArchive(ctx, a)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer closeFn()

		sensorOpts := []sensor.Option{sensor.WithLogger(a.logger), sensor.WithMetrics(a.metrics)}
		if a.cfg.Sensor.DataVersion != "" {
			sensorOpts = append(sensorOpts, sensor.WithDataVersion(a.cfg.Sensor.DataVersion))
		}
		c.sensor, err = sensor.New(a.cfg.Sensor.ID, sink, sensorOpts...)
		if err != nil {
			return err
		}
	}

	if opts.publish {
		pub, closeFn, err := openPublisher(ctx, a)
		if err != nil {
			return fmt.Errorf("open graph publisher: %w", err)
		}
		defer closeFn()
		c.publisher = pub
	}

	failures := 0
	for _, path := range paths {
		failures += c.checkFile(ctx, path)
	}
	fmt.Fprintf(out, "%d file(s), %d failure(s)\n", len(paths), failures)

	if opts.watch {
		return c.watch(ctx, paths)
	}
	if failures > 0 {
		return errCheckFailed
	}
	return nil
}

type checker struct {
	app    *app
	out    io.Writer
	strict    bool
	sensor    *sensor.Sensor
	publisher eventPublisher
}

// checkFile prints the outcome of one fixture and returns its failure count.
func (c *checker) checkFile(ctx context.Context, path string) int {
	fmt.Fprintln(c.out, path)

	f, err := fixture.Load(path)
	if err != nil {
		fmt.Fprintf(c.out, "  %s  %v\n", failLabel, err)
		return 1
	}
	res := fixture.Build(f, c.app.eventOptions(c.strict)...)

	for _, r := range res.Entities {
		if r.Err != nil {
			fmt.Fprintf(c.out, "  %s  %v\n", failLabel, r.Err)
		}
	}
	for _, r := range res.Events {
		name := fmt.Sprintf("%s %s", r.Name(), dim(r.Spec.Type))
		switch {
		case r.Err == nil:
			fmt.Fprintf(c.out, "  %s  %s\n", passLabel, name)
		case !r.Report.Valid():
			fmt.Fprintf(c.out, "  %s  %s\n", failLabel, name)
			for _, line := range strings.Split(r.Report.String(), "\n") {
				fmt.Fprintf(c.out, "        %s\n", line)
			}
		default:
			fmt.Fprintf(c.out, "  %s  %s: %v\n", failLabel, name, r.Err)
		}
	}

	failures := res.Failures()
	if built := res.Built(); c.sensor != nil && len(built) > 0 {
		env, err := c.sensor.Send(ctx, built...)
		if err != nil {
			fmt.Fprintf(c.out, "  %s  archive: %v\n", failLabel, err)
			failures++
		} else {
			fmt.Fprintf(c.out, "  archived %d event(s) as %s\n", len(env.Data), env.ID)
		}
	}
	if c.publisher != nil {
		for _, e := range res.Built() {
			if e.ID() == "" {
				c.app.logger.Warn("Not publishing event without @id", "path", path, "type", e.Type())
				continue
			}
			if _, err := c.publisher.PublishEvent(ctx, e); err != nil {
				fmt.Fprintf(c.out, "  %s  publish %s: %v\n", failLabel, e.ID(), err)
				failures++
			}
		}
	}
	return failures
}

func (c *checker) watch(ctx context.Context, paths []string) error {
	w, err := fixture.NewWatcher(paths, 0, c.app.logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}
	defer w.Stop()

	fmt.Fprintln(c.out, "watching for changes, press Ctrl+C to stop")
	for change := range w.Changes() {
		if change.Op == fixture.OpRemove {
			fmt.Fprintf(c.out, "%s removed\n", change.Path)
			continue
		}
		failures := c.checkFile(ctx, change.Path)
		fmt.Fprintf(c.out, "%d failure(s)\n", failures)
	}
	return nil
}
