package conformance

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/c360studio/caliper/vocabulary/caliper"
)

// Validate checks c against rs and returns every violation found.
//
// Rules are evaluated in a fixed order: context, type, id, action, the
// declared references in declaration order, event time, temporal ordering
// and duration. No rule short-circuits another, so the same candidate
// always yields the same report.
func Validate(c Candidate, rs RuleSet) Report {
	v := &collector{variant: rs.Variant}

	if !rs.Context.IsZero() && !rs.Context.Equal(c.Context) {
		v.add("@context", RuleContext, "@context must be %s, got %s", rs.Context, orNone(c.Context.String()))
	}

	if c.Type != rs.Type {
		v.add("@type", RuleType, "@type must be %s, got %s", rs.Type, orNone(c.Type))
	}

	if rs.RequireID && strings.TrimSpace(c.ID) == "" {
		v.add("@id", RuleID, "@id is required")
	}

	checkAction(v, c.Action, rs)

	for _, ref := range rs.References {
		checkReference(v, ref, c.References[ref.Field])
	}

	if rs.Temporal.RequireEventTime && c.EventTime.IsZero() {
		v.add("eventTime", RuleEventTime, "eventTime is required")
	}
	if rs.Temporal.RequireStart && c.StartedAt.IsZero() {
		v.add("startedAtTime", RuleStartRequired, "startedAtTime is required")
	}
	if rs.Temporal.EndAfterStart && !c.StartedAt.IsZero() && !c.EndedAt.IsZero() && !c.StartedAt.Before(c.EndedAt) {
		v.add("endedAtTime", RuleTemporalOrder, "endedAtTime %s must be after startedAtTime %s",
			stamp(c.EndedAt), stamp(c.StartedAt))
	}

	checkDuration(v, c.Duration, rs.Duration)

	return Report{variant: rs.Variant, violations: v.violations}
}

type collector struct {
	variant    string
	violations []Violation
}

func (c *collector) add(field string, rule Rule, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		Field:   field,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}

func checkAction(v *collector, a caliper.Action, rs RuleSet) {
	if a == "" {
		if rs.RequireAction {
			v.add("action", RuleActionRequired, "action is required")
		}
		return
	}
	if rs.Allows(a) {
		return
	}
	if len(rs.Actions) == 0 {
		v.add("action", RuleActionAllowed, "action %s is not a registered Caliper action", a)
		return
	}
	v.add("action", RuleActionAllowed, "action %s is not supported by %s (allowed: %s)",
		a, v.variant, joinActions(rs.Actions))
}

func checkReference(v *collector, ref ReferenceRule, values []Participant) {
	present := make([]Participant, 0, len(values))
	for _, p := range values {
		if !isNil(p) {
			present = append(present, p)
		}
	}

	switch {
	case len(present) == 0 && ref.Presence == Required:
		v.add(ref.Field, RuleReferenceRequired, "%s is required", ref.Field)
		return
	case len(present) == 0:
		return
	case ref.Presence == Forbidden:
		v.add(ref.Field, RuleReferenceForbidden, "%s is not permitted for %s", ref.Field, v.variant)
		return
	}

	for i, p := range present {
		if p.Capabilities().Any(ref.Capabilities) {
			continue
		}
		field := ref.Field
		if len(present) > 1 {
			field = fmt.Sprintf("%s[%d]", ref.Field, i)
		}
		v.add(field, RuleReferenceCapability, "%s must be one of %s, got %s",
			field, ref.Capabilities, p.Type())
	}
}

func checkDuration(v *collector, d *string, rule DurationRule) {
	if d == nil {
		if rule.Required {
			v.add("duration", RuleDurationRequired, "duration is required")
		}
		return
	}
	if *d == "" {
		v.add("duration", RuleDurationFormat, "duration must not be empty")
		return
	}
	if rule.Format == nil {
		return
	}
	if err := rule.Format(*d); err != nil {
		v.add("duration", RuleDurationFormat, "duration %q is invalid: %v", *d, err)
	}
}

// isNil catches typed nil pointers stored in the interface.
func isNil(p Participant) bool {
	if p == nil {
		return true
	}
	rv := reflect.ValueOf(p)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func joinActions(actions []caliper.Action) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
