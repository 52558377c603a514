// Package entity provides the immutable Caliper entities and their builders.
//
// Every entity variant has an entry point returning a concrete builder:
//
//	p, err := entity.NewPerson().
//		ID("https://example.edu/users/554433").
//		Name("Bob Jones").
//		Build()
//
// Families of related variants share one Go type tagged by kind (a
// CourseSection is an *Organization whose Type is EntityCourseSection). The
// type of a built entity is fixed by the entry point that created its
// builder and cannot be set by callers.
//
// Setters record their values; Build validates the snapshot once against
// the variant's conformance rules and returns either the entity or a
// *conformance.Error. Setting a field that the builder's kind does not
// carry (a course number on a Group, say) is rejected immediately with a
// *FieldError, which Build then returns without running conformance.
//
// Built entities are immutable: slices, maps and times are copied on the
// way in and on the way out, so values can be shared freely between
// goroutines.
package entity
