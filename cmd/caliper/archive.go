package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/caliper/storage"
)

// envelopeStore is the part of storage.Archive the archive commands use.
type envelopeStore interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]storage.Summary, error)
}

// openStore connects to the configured archive. Tests replace it.
var openStore = func(ctx context.Context, a *app) (envelopeStore, func(), error) {
	return storage.Connect(ctx, a.cfg.Archive.URL, a.cfg.Archive.Bucket, a.logger)
}

func archiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect archived envelopes",
	}

	withStore := func(run func(ctx context.Context, cmd *cobra.Command, store envelopeStore, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Archive.Timeout)
			defer cancel()
			store, closeFn, err := openStore(ctx, a)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer closeFn()
			return run(ctx, cmd, store, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List archived envelopes, oldest first",
			Args:  cobra.NoArgs,
			RunE: withStore(func(ctx context.Context, cmd *cobra.Command, store envelopeStore, _ []string) error {
				summaries, err := store.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSENSOR\tSENT\tEVENTS")
				for _, s := range summaries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.Sensor, s.SendTime.UTC().Format(time.RFC3339), s.Events)
				}
				return tw.Flush()
			}),
		},
		&cobra.Command{
			Use:   "show <envelope-id>",
			Short: "Print an archived envelope",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(ctx context.Context, cmd *cobra.Command, store envelopeStore, args []string) error {
				body, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", body)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <envelope-id>",
			Short: "Delete an archived envelope",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(ctx context.Context, cmd *cobra.Command, store envelopeStore, args []string) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			}),
		},
	)
	return cmd
}
