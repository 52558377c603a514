package caliper

import "github.com/c360studio/semstreams/vocabulary"

// rdfType is the RDF type predicate IRI.
const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Event predicates describe the fields of a Caliper event.
const (
	// EventTypePredicate is the event variant IRI.
	EventTypePredicate = "caliper.event.type"

	// EventActor links an event to the agent that performed it.
	EventActor = "caliper.event.actor"

	// EventAction is the action IRI.
	EventAction = "caliper.event.action"

	// EventObject links an event to the entity acted upon.
	EventObject = "caliper.event.object"

	// EventTarget links an event to a location inside the object.
	EventTarget = "caliper.event.target"

	// EventGenerated links an event to the entity it produced.
	EventGenerated = "caliper.event.generated"

	// EventReferrer links an event to the resource the actor came from.
	EventReferrer = "caliper.event.referrer"

	// EventTime is the RFC3339 time the event occurred.
	EventTime = "caliper.event.time"

	// EventStartedAt is the RFC3339 start of the activity.
	EventStartedAt = "caliper.event.started_at"

	// EventEndedAt is the RFC3339 end of the activity.
	EventEndedAt = "caliper.event.ended_at"

	// EventDuration is the ISO-8601 duration of the activity.
	EventDuration = "caliper.event.duration"

	// EventEdApp links an event to the software application that emitted it.
	EventEdApp = "caliper.event.ed_app"

	// EventGroup links an event to the organization it happened in.
	EventGroup = "caliper.event.group"

	// EventMembership links an event to the actor's membership.
	EventMembership = "caliper.event.membership"

	// EventSessionPredicate links an event to the actor's session.
	EventSessionPredicate = "caliper.event.session"

	// EventFederatedSession links an event to an LTI tool session.
	EventFederatedSession = "caliper.event.federated_session"
)

// Entity predicates describe the common fields of every entity.
const (
	// EntityTypePredicate is the entity variant IRI.
	EntityTypePredicate = "caliper.entity.type"

	// EntityName is the display name.
	EntityName = "caliper.entity.name"

	// EntityDescription is the free-text description.
	EntityDescription = "caliper.entity.description"

	// EntityDateCreated is the RFC3339 creation time.
	EntityDateCreated = "caliper.entity.date_created"

	// EntityDateModified is the RFC3339 modification time.
	EntityDateModified = "caliper.entity.date_modified"

	// EntityIsPartOf links a resource to its parent.
	EntityIsPartOf = "caliper.entity.is_part_of"

	// EntityCreator links a resource to one of its creators.
	EntityCreator = "caliper.entity.creator"

	// EntityMember links a membership to its person.
	EntityMember = "caliper.entity.member"

	// EntityOrganizationPredicate links a membership to its organization.
	EntityOrganizationPredicate = "caliper.entity.organization"

	// EntityAssignee links an attempt to the person making it.
	EntityAssignee = "caliper.entity.assignee"

	// EntityAssignable links an attempt to the assigned resource.
	EntityAssignable = "caliper.entity.assignable"

	// EntityAttemptPredicate links a response or result to its attempt.
	EntityAttemptPredicate = "caliper.entity.attempt"

	// EntityAnnotator links an annotation to its author.
	EntityAnnotator = "caliper.entity.annotator"

	// EntityAnnotated links an annotation to the annotated resource.
	EntityAnnotated = "caliper.entity.annotated"

	// EntityUser links a session to its user.
	EntityUser = "caliper.entity.user"

	// EntityItem links a collection to one of its items.
	EntityItem = "caliper.entity.item"

	// EntityScoredBy links a score to the agent that assigned it.
	EntityScoredBy = "caliper.entity.scored_by"
)

// Action predicates describe action tokens.
const (
	// ActionLabel is the human-readable action label.
	ActionLabel = "caliper.action.label"

	// ActionKey is the short dotted lookup key.
	ActionKey = "caliper.action.key"
)

// properties maps JSON-LD property names to their predicates. Event and
// entity fields share a name only where they share meaning.
var properties = map[string]string{
	"actor":            EventActor,
	"action":           EventAction,
	"object":           EventObject,
	"target":           EventTarget,
	"generated":        EventGenerated,
	"referrer":         EventReferrer,
	"eventTime":        EventTime,
	"startedAtTime":    EventStartedAt,
	"endedAtTime":      EventEndedAt,
	"duration":         EventDuration,
	"edApp":            EventEdApp,
	"group":            EventGroup,
	"membership":       EventMembership,
	"session":          EventSessionPredicate,
	"federatedSession": EventFederatedSession,
	"name":             EntityName,
	"description":      EntityDescription,
	"dateCreated":      EntityDateCreated,
	"dateModified":     EntityDateModified,
	"isPartOf":         EntityIsPartOf,
	"creators":         EntityCreator,
	"member":           EntityMember,
	"organization":     EntityOrganizationPredicate,
	"assignee":         EntityAssignee,
	"assignable":       EntityAssignable,
	"attempt":          EntityAttemptPredicate,
	"annotator":        EntityAnnotator,
	"annotated":        EntityAnnotated,
	"user":             EntityUser,
	"items":            EntityItem,
	"scoredBy":         EntityScoredBy,
}

// PredicateFor returns the predicate registered for a JSON-LD property.
func PredicateFor(property string) (string, bool) {
	p, ok := properties[property]
	return p, ok
}

func init() {
	vocabulary.Register(EventTypePredicate,
		vocabulary.WithDescription("Event variant"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(rdfType))

	vocabulary.Register(EventActor,
		vocabulary.WithDescription("Agent that performed the action"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasAssociatedWith))

	vocabulary.Register(EventAction,
		vocabulary.WithDescription("Action performed"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropertyNamespace+"action"))

	vocabulary.Register(EventObject,
		vocabulary.WithDescription("Entity acted upon"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvUsed))

	vocabulary.Register(EventTarget,
		vocabulary.WithDescription("Location within the object"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"target"))

	vocabulary.Register(EventGenerated,
		vocabulary.WithDescription("Entity produced by the action"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvGenerated))

	vocabulary.Register(EventReferrer,
		vocabulary.WithDescription("Resource the actor arrived from"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvHadPrimarySource))

	vocabulary.Register(EventTime,
		vocabulary.WithDescription("Time the event occurred"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(vocabulary.ProvGeneratedAtTime))

	vocabulary.Register(EventStartedAt,
		vocabulary.WithDescription("Activity start time"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(vocabulary.ProvStartedAtTime))

	vocabulary.Register(EventEndedAt,
		vocabulary.WithDescription("Activity end time"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(vocabulary.ProvEndedAtTime))

	vocabulary.Register(EventDuration,
		vocabulary.WithDescription("Activity duration"),
		vocabulary.WithDataType("string"),
		vocabulary.WithRange("ISO-8601 duration"),
		vocabulary.WithIRI(PropertyNamespace+"duration"))

	vocabulary.Register(EventEdApp,
		vocabulary.WithDescription("Software application that emitted the event"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"edApp"))

	vocabulary.Register(EventGroup,
		vocabulary.WithDescription("Organization in which the event occurred"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"group"))

	vocabulary.Register(EventMembership,
		vocabulary.WithDescription("Actor membership in the group"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"membership"))

	vocabulary.Register(EventSessionPredicate,
		vocabulary.WithDescription("Actor session"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"session"))

	vocabulary.Register(EventFederatedSession,
		vocabulary.WithDescription("LTI tool consumer session"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"federatedSession"))

	vocabulary.Register(EntityTypePredicate,
		vocabulary.WithDescription("Entity variant"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(rdfType))

	vocabulary.Register(EntityName,
		vocabulary.WithDescription("Display name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.DcTitle))

	vocabulary.Register(EntityDescription,
		vocabulary.WithDescription("Free-text description"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropertyNamespace+"description"))

	vocabulary.Register(EntityDateCreated,
		vocabulary.WithDescription("Creation time"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(vocabulary.ProvGeneratedAtTime))

	vocabulary.Register(EntityDateModified,
		vocabulary.WithDescription("Last modification time"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(PropertyNamespace+"dateModified"))

	vocabulary.Register(EntityIsPartOf,
		vocabulary.WithDescription("Parent resource or organization"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasDerivedFrom))

	vocabulary.Register(EntityCreator,
		vocabulary.WithDescription("Creator of the resource"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasAttributedTo))

	vocabulary.Register(EntityMember,
		vocabulary.WithDescription("Person holding the membership"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"member"))

	vocabulary.Register(EntityOrganizationPredicate,
		vocabulary.WithDescription("Organization of the membership"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"organization"))

	vocabulary.Register(EntityAssignee,
		vocabulary.WithDescription("Person making the attempt"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasAttributedTo))

	vocabulary.Register(EntityAssignable,
		vocabulary.WithDescription("Resource being attempted"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvUsed))

	vocabulary.Register(EntityAttemptPredicate,
		vocabulary.WithDescription("Attempt the entity belongs to"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasGeneratedBy))

	vocabulary.Register(EntityAnnotator,
		vocabulary.WithDescription("Author of the annotation"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasAttributedTo))

	vocabulary.Register(EntityAnnotated,
		vocabulary.WithDescription("Resource being annotated"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"annotated"))

	vocabulary.Register(EntityUser,
		vocabulary.WithDescription("Session user"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasAssociatedWith))

	vocabulary.Register(EntityItem,
		vocabulary.WithDescription("Collection member"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyNamespace+"items"))

	vocabulary.Register(EntityScoredBy,
		vocabulary.WithDescription("Agent that assigned the score"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasAttributedTo))

	vocabulary.Register(ActionLabel,
		vocabulary.WithDescription("Human-readable action label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.SkosPrefLabel))

	vocabulary.Register(ActionKey,
		vocabulary.WithDescription("Short dotted action lookup key"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.DcIdentifier))
}
