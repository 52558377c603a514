// Package event builds conformant Caliper events.
//
// Each event variant has its own entry point (NewReading, NewToolLaunch, and
// so on) that binds the variant's type, JSON-LD context and default rule
// set. A Builder accumulates fields; Build validates them in one pass and
// returns either an immutable *Event or an error. Semantic failures carry
// the full conformance report:
//
//	e, err := event.NewReading().
//		Actor(bob).
//		Action(caliper.ActionViewed).
//		Object(page).
//		EventTime(now).
//		Build()
//	if report, ok := conformance.ReportOf(err); ok {
//		fmt.Println(report)
//	}
//
// Entity references are values built independently with package entity and
// may be shared between any number of events.
package event
