package conformance

import (
	"github.com/c360studio/caliper/capability"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

func ref(field string, p Presence, caps ...capability.Capability) ReferenceRule {
	return ReferenceRule{Field: field, Presence: p, Capabilities: capability.Of(caps...)}
}

// eventProfile is the variant-specific part of an event rule set.
type eventProfile struct {
	actions   []caliper.Action
	actor     ReferenceRule
	object    ReferenceRule
	target    ReferenceRule
	generated ReferenceRule
}

var (
	personActor = ref("actor", Required, capability.Person)
	agentActor  = ref("actor", Required, capability.Agent)

	anyTarget      = ref("target", Optional, capability.Targetable)
	noTarget       = ref("target", Forbidden)
	noGenerated    = ref("generated", Forbidden)
	anyGenerated   = ref("generated", Optional, capability.Generatable)
	resourceObject = ref("object", Required, capability.DigitalResource)
	softwareObject = ref("object", Required, capability.SoftwareApplication)
)

var mediaActions = []caliper.Action{
	caliper.ActionStarted, caliper.ActionPaused, caliper.ActionResumed, caliper.ActionRestarted,
	caliper.ActionEnded, caliper.ActionJumpedTo, caliper.ActionForwardedTo,
	caliper.ActionChangedSpeed, caliper.ActionChangedVolume, caliper.ActionChangedResolution,
	caliper.ActionEnabledClosedCaptioning, caliper.ActionDisabledClosedCaptioning,
	caliper.ActionEnteredFullScreen, caliper.ActionExitedFullScreen,
	caliper.ActionMuted, caliper.ActionUnmuted, caliper.ActionOpenedPopout, caliper.ActionClosedPopout,
}

var resourceActions = []caliper.Action{
	caliper.ActionArchived, caliper.ActionCopied, caliper.ActionCreated, caliper.ActionDeleted,
	caliper.ActionDescribed, caliper.ActionDownloaded, caliper.ActionModified, caliper.ActionPrinted,
	caliper.ActionPublished, caliper.ActionRestored, caliper.ActionRetrieved, caliper.ActionSaved,
	caliper.ActionUnpublished, caliper.ActionUploaded,
}

var eventProfiles = map[caliper.EventType]eventProfile{
	caliper.EventGeneric: {
		actor:     agentActor,
		object:    ref("object", Required),
		target:    anyTarget,
		generated: anyGenerated,
	},
	caliper.EventAnnotation: {
		actions: []caliper.Action{
			caliper.ActionBookmarked, caliper.ActionHighlighted, caliper.ActionShared, caliper.ActionTagged,
		},
		actor:     personActor,
		object:    resourceObject,
		target:    anyTarget,
		generated: ref("generated", Optional, capability.Annotation),
	},
	caliper.EventAssessment: {
		actions: []caliper.Action{
			caliper.ActionStarted, caliper.ActionPaused, caliper.ActionResumed,
			caliper.ActionRestarted, caliper.ActionReset, caliper.ActionSubmitted,
		},
		actor:     personActor,
		object:    ref("object", Required, capability.Assessment),
		target:    noTarget,
		generated: ref("generated", Optional, capability.Attempt),
	},
	caliper.EventAssessmentItem: {
		actions:   []caliper.Action{caliper.ActionStarted, caliper.ActionSkipped, caliper.ActionCompleted},
		actor:     personActor,
		object:    ref("object", Required, capability.AssessmentItem),
		target:    noTarget,
		generated: ref("generated", Optional, capability.Response),
	},
	caliper.EventAssignable: {
		actions: []caliper.Action{
			caliper.ActionActivated, caliper.ActionDeactivated, caliper.ActionStarted,
			caliper.ActionCompleted, caliper.ActionSubmitted, caliper.ActionReviewed,
		},
		actor:     personActor,
		object:    ref("object", Required, capability.AssignableDigitalResource),
		target:    anyTarget,
		generated: ref("generated", Optional, capability.Attempt),
	},
	caliper.EventForum: {
		actions:   []caliper.Action{caliper.ActionSubscribed, caliper.ActionUnsubscribed},
		actor:     personActor,
		object:    ref("object", Required, capability.Forum),
		target:    noTarget,
		generated: noGenerated,
	},
	caliper.EventGrade: {
		actions:   []caliper.Action{caliper.ActionGraded},
		actor:     agentActor,
		object:    ref("object", Required, capability.Attempt),
		target:    noTarget,
		generated: ref("generated", Optional, capability.Result, capability.Score),
	},
	caliper.EventMedia: {
		actions:   mediaActions,
		actor:     personActor,
		object:    ref("object", Required, capability.MediaObject),
		target:    ref("target", Optional, capability.MediaLocation),
		generated: noGenerated,
	},
	caliper.EventMessage: {
		actions:   []caliper.Action{caliper.ActionPosted, caliper.ActionMarkedAsRead, caliper.ActionMarkedAsUnread},
		actor:     personActor,
		object:    ref("object", Required, capability.Message),
		target:    noTarget,
		generated: noGenerated,
	},
	caliper.EventNavigation: {
		actions:   []caliper.Action{caliper.ActionNavigatedTo},
		actor:     personActor,
		object:    ref("object", Required, capability.DigitalResource, capability.SoftwareApplication),
		target:    anyTarget,
		generated: noGenerated,
	},
	caliper.EventReading: {
		actions:   []caliper.Action{caliper.ActionSearched, caliper.ActionViewed},
		actor:     personActor,
		object:    resourceObject,
		target:    anyTarget,
		generated: noGenerated,
	},
	caliper.EventResourceManagement: {
		actions:   resourceActions,
		actor:     personActor,
		object:    resourceObject,
		target:    noTarget,
		generated: ref("generated", Optional, capability.DigitalResource),
	},
	caliper.EventSession: {
		actions:   []caliper.Action{caliper.ActionLoggedIn, caliper.ActionLoggedOut, caliper.ActionTimedOut},
		actor:     agentActor,
		object:    ref("object", Required, capability.SoftwareApplication, capability.Session),
		target:    anyTarget,
		generated: ref("generated", Optional, capability.Session),
	},
	caliper.EventThread: {
		actions:   []caliper.Action{caliper.ActionMarkedAsRead, caliper.ActionMarkedAsUnread},
		actor:     personActor,
		object:    ref("object", Required, capability.Thread),
		target:    noTarget,
		generated: noGenerated,
	},
	caliper.EventToolLaunch: {
		actions:   []caliper.Action{caliper.ActionLaunched, caliper.ActionReturned},
		actor:     personActor,
		object:    softwareObject,
		target:    anyTarget,
		generated: noGenerated,
	},
	caliper.EventToolUse: {
		actions:   []caliper.Action{caliper.ActionUsed},
		actor:     personActor,
		object:    softwareObject,
		target:    noTarget,
		generated: noGenerated,
	},
	caliper.EventView: {
		actions:   []caliper.Action{caliper.ActionViewed},
		actor:     personActor,
		object:    resourceObject,
		target:    anyTarget,
		generated: noGenerated,
	},
}

// contextualRefs are the optional references every event shares.
var contextualRefs = []ReferenceRule{
	ref("referrer", Optional, capability.Referrable),
	ref("edApp", Optional, capability.SoftwareApplication),
	ref("group", Optional, capability.Organization),
	ref("membership", Optional, capability.Membership),
	ref("session", Optional, capability.Session),
	ref("federatedSession", Optional, capability.LtiSession),
}

var eventRules = func() map[caliper.EventType]RuleSet {
	m := make(map[caliper.EventType]RuleSet, len(eventProfiles))
	for _, t := range caliper.EventTypes() {
		p, ok := eventProfiles[t]
		if !ok {
			panic("conformance: no rules for event type " + string(t))
		}
		refs := []ReferenceRule{p.actor, p.object, p.target, p.generated}
		m[t] = RuleSet{
			Variant:       string(t),
			Context:       caliper.ContextFor(t),
			Type:          t.URI(),
			Actions:       p.actions,
			RequireAction: true,
			References:    append(refs, contextualRefs...),
			Temporal: TemporalRule{
				RequireEventTime: true,
				EndAfterStart:    true,
			},
		}
	}
	return m
}()

// EventRules returns the default rule set of an event variant. It panics
// for an unregistered type.
func EventRules(t caliper.EventType) RuleSet {
	rs, ok := eventRules[t]
	if !ok {
		panic("conformance: unregistered event type " + string(t))
	}
	return rs.Clone()
}

// entityRefs lists the reference rules of each entity family member.
var entityRefs = func() map[caliper.EntityType][]ReferenceRule {
	resource := []ReferenceRule{
		ref("isPartOf", Optional, capability.DigitalResource, capability.Organization),
		ref("creators", Optional, capability.Agent),
		ref("learningObjectives", Optional, capability.LearningObjective),
	}
	organization := []ReferenceRule{ref("subOrganizationOf", Optional, capability.Organization)}
	annotation := []ReferenceRule{
		ref("annotator", Optional, capability.Person),
		ref("annotated", Optional, capability.DigitalResource),
		ref("withAgents", Optional, capability.Agent),
	}
	response := []ReferenceRule{ref("attempt", Optional, capability.Attempt)}
	result := []ReferenceRule{
		ref("attempt", Optional, capability.Attempt),
		ref("scoredBy", Optional, capability.Agent),
	}
	session := []ReferenceRule{ref("user", Optional, capability.Person)}

	m := map[caliper.EntityType][]ReferenceRule{
		caliper.EntityPerson:              nil,
		caliper.EntitySoftwareApplication: nil,
		caliper.EntityLearningObjective:   nil,
		caliper.EntityMediaLocation:       nil,
		caliper.EntityMembership: {
			ref("member", Optional, capability.Person),
			ref("organization", Optional, capability.Organization),
		},
		caliper.EntityAttempt: {
			ref("assignee", Optional, capability.Person),
			ref("assignable", Optional, capability.DigitalResource),
			ref("isPartOf", Optional, capability.Attempt),
		},
		caliper.EntityDigitalResourceCollection: append(resource[:len(resource):len(resource)],
			ref("items", Optional, capability.DigitalResource)),
		caliper.EntityForum: append(resource[:len(resource):len(resource)],
			ref("items", Optional, capability.Thread)),
		caliper.EntityThread: append(resource[:len(resource):len(resource)],
			ref("items", Optional, capability.Message)),
	}
	for _, t := range []caliper.EntityType{
		caliper.EntityOrganization, caliper.EntityCourseOffering, caliper.EntityCourseSection, caliper.EntityGroup,
	} {
		m[t] = organization
	}
	for _, t := range []caliper.EntityType{
		caliper.EntityDigitalResource, caliper.EntityDocument, caliper.EntityChapter, caliper.EntityPage,
		caliper.EntityWebPage, caliper.EntityFrame, caliper.EntityReading, caliper.EntityEpubVolume,
		caliper.EntityEpubPart, caliper.EntityEpubChapter, caliper.EntityEpubSubChapter, caliper.EntityMessage,
		caliper.EntityAssignableDigitalResource, caliper.EntityAssessment, caliper.EntityAssessmentItem,
		caliper.EntityMediaObject, caliper.EntityAudioObject, caliper.EntityImageObject, caliper.EntityVideoObject,
	} {
		m[t] = resource
	}
	for _, t := range []caliper.EntityType{
		caliper.EntityAnnotation, caliper.EntityBookmarkAnnotation, caliper.EntityHighlightAnnotation,
		caliper.EntitySharedAnnotation, caliper.EntityTagAnnotation,
	} {
		m[t] = annotation
	}
	for _, t := range []caliper.EntityType{
		caliper.EntityResponse, caliper.EntityFillinBlankResponse, caliper.EntityMultipleChoiceResponse,
		caliper.EntityMultipleResponseResponse, caliper.EntitySelectTextResponse, caliper.EntityTrueFalseResponse,
	} {
		m[t] = response
	}
	m[caliper.EntityResult] = result
	m[caliper.EntityScore] = result
	m[caliper.EntitySession] = session
	m[caliper.EntityLtiSession] = session
	return m
}()

var entityRules = func() map[caliper.EntityType]RuleSet {
	m := make(map[caliper.EntityType]RuleSet, len(entityRefs))
	for _, t := range caliper.EntityTypes() {
		refs, ok := entityRefs[t]
		if !ok {
			panic("conformance: no rules for entity type " + string(t))
		}
		m[t] = RuleSet{
			Variant:    string(t),
			Type:       t.URI(),
			RequireID:  true,
			References: refs,
			Temporal:   TemporalRule{EndAfterStart: true},
		}
	}
	return m
}()

// EntityRules returns the default rule set of an entity variant. It panics
// for an unregistered type.
func EntityRules(t caliper.EntityType) RuleSet {
	rs, ok := entityRules[t]
	if !ok {
		panic("conformance: unregistered entity type " + string(t))
	}
	return rs.Clone()
}

// Events returns a copy of every default event rule set, keyed by variant.
func Events() map[caliper.EventType]RuleSet {
	out := make(map[caliper.EventType]RuleSet, len(eventRules))
	for t, rs := range eventRules {
		out[t] = rs.Clone()
	}
	return out
}

// Entities returns a copy of every default entity rule set, keyed by variant.
func Entities() map[caliper.EntityType]RuleSet {
	out := make(map[caliper.EntityType]RuleSet, len(entityRules))
	for t, rs := range entityRules {
		out[t] = rs.Clone()
	}
	return out
}
