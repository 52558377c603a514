package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/c360studio/caliper/export"
	"github.com/c360studio/caliper/fixture"
)

func exportCmd(a *app) *cobra.Command {
	var format, profile string

	cmd := &cobra.Command{
		Use:   "export <glob>...",
		Short: "Render the events of fixture files as JSON-LD or RDF",
		Long: `Export builds the matching fixture files and writes every event that
passes. JSON-LD is written one event per line; Turtle and N-Triples are
written as a single graph. Events without an @id have no RDF subject and are
skipped in the RDF formats.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Export.Format
			}
			if profile == "" {
				profile = a.cfg.Export.Profile
			}
			return runExport(cmd.Context(), a, cmd.OutOrStdout(), args, format, profile)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: jsonld, turtle, ntriples (default from config)")
	cmd.Flags().StringVar(&profile, "profile", "", "RDF profile: minimal, prov (default from config)")
	return cmd
}

func runExport(ctx context.Context, a *app, out io.Writer, patterns []string, formatName, profileName string) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	profile := export.Profile(profileName)
	if _, ok := export.Profiles[profile]; !ok {
		return fmt.Errorf("unknown profile %q", profileName)
	}

	paths, err := fixture.Expand(patterns...)
	if err != nil {
		return err
	}

	rdf := export.NewRDFExporter()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := fixture.Load(path)
		if err != nil {
			return err
		}
		res := fixture.Build(f, a.eventOptions(false)...)
		if n := res.Failures(); n > 0 {
			a.logger.Warn("Skipping items that failed to build", "path", path, "failures", n)
		}

		for _, e := range res.Built() {
			if format == export.FormatJSONLD {
				data, err := export.MarshalEvent(e)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", data)
				continue
			}
			triples, err := export.Triples(e, profile)
			if errors.Is(err, export.ErrNoSubject) {
				a.logger.Warn("Skipping event without @id", "path", path, "type", e.Type())
				continue
			}
			if err != nil {
				return err
			}
			rdf.Add(triples...)
		}
	}

	if format == export.FormatJSONLD {
		return nil
	}
	doc, err := rdf.Export(format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, doc)
	return err
}
