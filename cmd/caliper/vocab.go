package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/label"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

func vocabCmd() *cobra.Command {
	var events, entities bool

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "List the event and entity types with their IRIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !events && !entities {
				events, entities = true, true
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if events {
				for _, t := range caliper.EventTypes() {
					fmt.Fprintf(tw, "event\t%s\t%s\n", t, t.URI())
				}
			}
			if entities {
				for _, t := range caliper.EntityTypes() {
					fmt.Fprintf(tw, "entity\t%s\t%s\n", t, t.URI())
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&events, "events", false, "List event types only")
	cmd.Flags().BoolVar(&entities, "entities", false, "List entity types only")
	return cmd
}

func actionsCmd(a *app) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the registered actions with their keys and labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := label.Load()
			if err != nil {
				return fmt.Errorf("load labels: %w", err)
			}
			if locale == "" {
				locale = a.cfg.Labels.Locale
			}
			tag := catalog.Match(locale)
			a.logger.Debug("Resolved label locale", "requested", locale, "locale", tag.String())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, action := range caliper.Actions() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", action, strings.Join(caliper.ActionKeys(action), ","), catalog.Label(tag, action))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Label locale, e.g. es or es-MX (default from config)")
	return cmd
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules <variant>",
		Short: "Show the conformance rules of an event or entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := rulesFor(args[0])
			if err != nil {
				return err
			}
			return printRules(cmd.OutOrStdout(), rs)
		},
	}
}

// rulesFor resolves an event type first, then an entity type.
func rulesFor(name string) (conformance.RuleSet, error) {
	if t, err := caliper.ParseEventType(name); err == nil {
		return conformance.EventRules(t), nil
	}
	if t, err := caliper.ParseEntityType(name); err == nil {
		return conformance.EntityRules(t), nil
	}
	return conformance.RuleSet{}, fmt.Errorf("unknown event or entity type %q", name)
}

func printRules(w io.Writer, rs conformance.RuleSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "variant\t%s\n", rs.Variant)
	if !rs.Context.IsZero() {
		fmt.Fprintf(tw, "@context\t%s\n", rs.Context)
	}
	fmt.Fprintf(tw, "@type\t%s\n", rs.Type)
	fmt.Fprintf(tw, "@id\t%s\n", presence(rs.RequireID))

	switch {
	case len(rs.Actions) > 0:
		names := make([]string, len(rs.Actions))
		for i, action := range rs.Actions {
			names[i] = string(action)
		}
		fmt.Fprintf(tw, "action\t%s\t%s\n", presence(rs.RequireAction), strings.Join(names, ", "))
	case rs.RequireAction:
		fmt.Fprintf(tw, "action\trequired\tany\n")
	}

	for _, ref := range rs.References {
		caps := "any"
		if !ref.Capabilities.IsEmpty() {
			caps = ref.Capabilities.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ref.Field, ref.Presence, caps)
	}

	if rs.Temporal.RequireEventTime {
		fmt.Fprintf(tw, "eventTime\trequired\n")
	}
	if rs.Temporal.RequireStart {
		fmt.Fprintf(tw, "startedAtTime\trequired\n")
	}
	if rs.Temporal.EndAfterStart {
		fmt.Fprintf(tw, "endedAtTime\toptional\tafter startedAtTime\n")
	}
	fmt.Fprintf(tw, "duration\t%s\n", presence(rs.Duration.Required))
	return tw.Flush()
}

func presence(required bool) string {
	if required {
		return conformance.Required.String()
	}
	return conformance.Optional.String()
}
