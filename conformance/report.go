package conformance

import (
	"errors"
	"fmt"
	"strings"
)

// Rule names the rule a violation breaks.
type Rule string

const (
	RuleContext             Rule = "context"
	RuleType                Rule = "type"
	RuleID                  Rule = "id"
	RuleActionRequired      Rule = "action.required"
	RuleActionAllowed       Rule = "action.allowed"
	RuleReferenceRequired   Rule = "reference.required"
	RuleReferenceForbidden  Rule = "reference.forbidden"
	RuleReferenceCapability Rule = "reference.capability"
	RuleEventTime           Rule = "eventTime.required"
	RuleStartRequired       Rule = "startedAtTime.required"
	RuleTemporalOrder       Rule = "temporal.order"
	RuleDurationRequired    Rule = "duration.required"
	RuleDurationFormat      Rule = "duration.format"
)

// Violation is a single failed rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Report is the outcome of one validation pass.
type Report struct {
	variant    string
	violations []Violation
}

// Variant returns the name of the validated variant.
func (r Report) Variant() string { return r.variant }

// Valid reports whether no rule was violated.
func (r Report) Valid() bool { return len(r.violations) == 0 }

// Violations returns the violations in evaluation order.
func (r Report) Violations() []Violation {
	return append([]Violation(nil), r.violations...)
}

// Has reports whether any violation breaks rule.
func (r Report) Has(rule Rule) bool {
	for _, v := range r.violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// Summary returns the fixed closing line of the rendering.
func (r Report) Summary() string {
	return "Caliper " + r.variant + " conformance:"
}

// String renders one message per line followed by the summary line.
func (r Report) String() string {
	var sb strings.Builder
	for _, v := range r.violations {
		sb.WriteString(v.Message)
		sb.WriteByte('\n')
	}
	sb.WriteString(r.Summary())
	return sb.String()
}

// Err returns nil for a valid report and *Error otherwise.
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Report: r}
}

// ErrNonConformant is matched by every *Error.
var ErrNonConformant = errors.New("non-conformant")

// Error carries the full report of a failed construction.
type Error struct {
	Report Report
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Report.violations))
	for i, v := range e.Report.violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("%s: %d violation(s): %s",
		e.Report.Summary(), len(msgs), strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() error { return ErrNonConformant }

// ReportOf extracts the report carried by err, if any.
func ReportOf(err error) (Report, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Report, true
	}
	return Report{}, false
}
