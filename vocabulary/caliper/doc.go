// Package caliper is the vocabulary registry for the Caliper learning-analytics
// taxonomy.
//
// It maps every entity and event variant to its canonical type URI, every
// action token to its action URI, and every short action key (for example
// "item.downloaded") back to its token. The tables are closed: they are built
// once at package initialization and never mutated afterwards, so lookups are
// safe for concurrent use without synchronization.
//
// # Lookups
//
// URI lookups over the closed variant sets are total:
//
//	caliper.EntityPerson.URI()   // http://purl.imsglobal.org/caliper/v1/lis/Person
//	caliper.EventReading.URI()   // http://purl.imsglobal.org/caliper/v1/ReadingEvent
//	caliper.ActionViewed.URI()   // http://purl.imsglobal.org/vocab/caliper/v1/action#Viewed
//
// Asking for the URI of a tag that was never registered is a programming
// error and panics. Caller-supplied action keys go through ActionForKey or
// LookupAction, which report unknown keys instead.
//
// # Semstreams Integration
//
// Caliper properties (actor, object, eventTime, ...) are registered as
// semstreams predicates in init() using vocabulary.Register(), with IRIs
// aligned to PROV-O and Dublin Core where a standard term exists. The export
// package resolves those IRIs when emitting RDF.
package caliper
