package caliper

import "fmt"

// EntityType identifies a concrete entity variant. The value is the short
// Caliper type name; URI returns the canonical IRI.
type EntityType string

const (
	// Agents.
	EntityPerson              EntityType = "Person"
	EntitySoftwareApplication EntityType = "SoftwareApplication"

	// LIS organizations.
	EntityOrganization   EntityType = "Organization"
	EntityCourseOffering EntityType = "CourseOffering"
	EntityCourseSection  EntityType = "CourseSection"
	EntityGroup          EntityType = "Group"
	EntityMembership     EntityType = "Membership"

	// Digital resources.
	EntityDigitalResource EntityType = "DigitalResource"
	EntityDocument        EntityType = "Document"
	EntityChapter         EntityType = "Chapter"
	EntityPage            EntityType = "Page"
	EntityWebPage         EntityType = "WebPage"
	EntityFrame           EntityType = "Frame"
	EntityReading         EntityType = "Reading"
	EntityEpubVolume      EntityType = "EpubVolume"
	EntityEpubPart        EntityType = "EpubPart"
	EntityEpubChapter     EntityType = "EpubChapter"
	EntityEpubSubChapter  EntityType = "EpubSubChapter"
	EntityMessage         EntityType = "Message"

	// Assignable resources.
	EntityAssignableDigitalResource EntityType = "AssignableDigitalResource"
	EntityAssessment                EntityType = "Assessment"
	EntityAssessmentItem            EntityType = "AssessmentItem"

	// Collections.
	EntityDigitalResourceCollection EntityType = "DigitalResourceCollection"
	EntityForum                     EntityType = "Forum"
	EntityThread                    EntityType = "Thread"

	// Media.
	EntityMediaObject   EntityType = "MediaObject"
	EntityAudioObject   EntityType = "AudioObject"
	EntityImageObject   EntityType = "ImageObject"
	EntityVideoObject   EntityType = "VideoObject"
	EntityMediaLocation EntityType = "MediaLocation"

	// Annotations.
	EntityAnnotation          EntityType = "Annotation"
	EntityBookmarkAnnotation  EntityType = "BookmarkAnnotation"
	EntityHighlightAnnotation EntityType = "HighlightAnnotation"
	EntitySharedAnnotation    EntityType = "SharedAnnotation"
	EntityTagAnnotation       EntityType = "TagAnnotation"

	// Assessment outcomes.
	EntityAttempt                  EntityType = "Attempt"
	EntityResponse                 EntityType = "Response"
	EntityFillinBlankResponse      EntityType = "FillinBlankResponse"
	EntityMultipleChoiceResponse   EntityType = "MultipleChoiceResponse"
	EntityMultipleResponseResponse EntityType = "MultipleResponseResponse"
	EntitySelectTextResponse       EntityType = "SelectTextResponse"
	EntityTrueFalseResponse        EntityType = "TrueFalseResponse"
	EntityResult                   EntityType = "Result"
	EntityScore                    EntityType = "Score"

	// Sessions.
	EntitySession    EntityType = "Session"
	EntityLtiSession EntityType = "LtiSession"

	EntityLearningObjective EntityType = "LearningObjective"
)

// entityTypes lists every entity variant in registry order.
var entityTypes = []EntityType{
	EntityPerson, EntitySoftwareApplication,
	EntityOrganization, EntityCourseOffering, EntityCourseSection, EntityGroup, EntityMembership,
	EntityDigitalResource, EntityDocument, EntityChapter, EntityPage, EntityWebPage, EntityFrame,
	EntityReading, EntityEpubVolume, EntityEpubPart, EntityEpubChapter, EntityEpubSubChapter, EntityMessage,
	EntityAssignableDigitalResource, EntityAssessment, EntityAssessmentItem,
	EntityDigitalResourceCollection, EntityForum, EntityThread,
	EntityMediaObject, EntityAudioObject, EntityImageObject, EntityVideoObject, EntityMediaLocation,
	EntityAnnotation, EntityBookmarkAnnotation, EntityHighlightAnnotation, EntitySharedAnnotation, EntityTagAnnotation,
	EntityAttempt, EntityResponse, EntityFillinBlankResponse, EntityMultipleChoiceResponse,
	EntityMultipleResponseResponse, EntitySelectTextResponse, EntityTrueFalseResponse,
	EntityResult, EntityScore,
	EntitySession, EntityLtiSession,
	EntityLearningObjective,
}

// LIS types live under the lis/ path of the namespace.
var lisEntityTypes = map[EntityType]bool{
	EntityPerson:         true,
	EntityOrganization:   true,
	EntityCourseOffering: true,
	EntityCourseSection:  true,
	EntityGroup:          true,
	EntityMembership:     true,
}

var entityURIs = func() map[EntityType]string {
	m := make(map[EntityType]string, len(entityTypes))
	for _, t := range entityTypes {
		if lisEntityTypes[t] {
			m[t] = Namespace + lisPrefix + string(t)
		} else {
			m[t] = Namespace + string(t)
		}
	}
	return m
}()

// URI returns the canonical type IRI. It panics for an unregistered type.
func (t EntityType) URI() string {
	uri, ok := entityURIs[t]
	if !ok {
		panic("caliper: unregistered entity type " + string(t))
	}
	return uri
}

// IsValid reports whether t is a registered entity variant.
func (t EntityType) IsValid() bool {
	_, ok := entityURIs[t]
	return ok
}

// String returns the short type name.
func (t EntityType) String() string { return string(t) }

// EntityTypes returns every registered entity variant in registry order.
func EntityTypes() []EntityType {
	return append([]EntityType(nil), entityTypes...)
}

// ParseEntityType resolves a short name or a full IRI to an entity type.
func ParseEntityType(s string) (EntityType, error) {
	if t := EntityType(s); t.IsValid() {
		return t, nil
	}
	for t, uri := range entityURIs {
		if uri == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type: %s", s)
}

// EventType identifies a concrete event variant.
type EventType string

const (
	EventGeneric            EventType = "Event"
	EventAnnotation         EventType = "AnnotationEvent"
	EventAssessment         EventType = "AssessmentEvent"
	EventAssessmentItem     EventType = "AssessmentItemEvent"
	EventAssignable         EventType = "AssignableEvent"
	EventForum              EventType = "ForumEvent"
	EventGrade              EventType = "GradeEvent"
	EventMedia              EventType = "MediaEvent"
	EventMessage            EventType = "MessageEvent"
	EventNavigation         EventType = "NavigationEvent"
	EventReading            EventType = "ReadingEvent"
	EventResourceManagement EventType = "ResourceManagementEvent"
	EventSession            EventType = "SessionEvent"
	EventThread             EventType = "ThreadEvent"
	EventToolLaunch         EventType = "ToolLaunchEvent"
	EventToolUse            EventType = "ToolUseEvent"
	EventView               EventType = "ViewEvent"
)

var eventTypes = []EventType{
	EventGeneric, EventAnnotation, EventAssessment, EventAssessmentItem, EventAssignable,
	EventForum, EventGrade, EventMedia, EventMessage, EventNavigation, EventReading,
	EventResourceManagement, EventSession, EventThread, EventToolLaunch, EventToolUse, EventView,
}

var eventTypeSet = func() map[EventType]bool {
	m := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		m[t] = true
	}
	return m
}()

// URI returns the canonical type IRI. It panics for an unregistered type.
func (t EventType) URI() string {
	if !eventTypeSet[t] {
		panic("caliper: unregistered event type " + string(t))
	}
	return Namespace + string(t)
}

// IsValid reports whether t is a registered event variant.
func (t EventType) IsValid() bool { return eventTypeSet[t] }

// String returns the short type name.
func (t EventType) String() string { return string(t) }

// EventTypes returns every registered event variant in registry order.
func EventTypes() []EventType {
	return append([]EventType(nil), eventTypes...)
}

// ParseEventType resolves a short name or a full IRI to an event type.
func ParseEventType(s string) (EventType, error) {
	if t := EventType(s); t.IsValid() {
		return t, nil
	}
	for _, t := range eventTypes {
		if t.URI() == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown event type: %s", s)
}
