package entity

import (
	"github.com/c360studio/caliper/capability"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

var (
	resourceCaps   = capability.Of(capability.DigitalResource, capability.Targetable, capability.Referrable)
	assignableCaps = resourceCaps.Union(capability.Of(capability.AssignableDigitalResource))
	collectionCaps = resourceCaps.Union(capability.Of(capability.DigitalResourceCollection))
	mediaCaps      = resourceCaps.Union(capability.Of(capability.MediaObject))
	annotationCaps = capability.Of(capability.Annotation, capability.Generatable)
	responseCaps   = capability.Of(capability.Response, capability.Generatable)
	sessionCaps    = capability.Of(capability.Session, capability.Generatable)
)

// capabilityTable declares the capabilities of every entity variant. The
// conformance engine sees entities only through these sets.
var capabilityTable = map[caliper.EntityType]capability.Set{
	caliper.EntityPerson:              capability.Of(capability.Agent, capability.Person),
	caliper.EntitySoftwareApplication: capability.Of(capability.Agent, capability.SoftwareApplication, capability.Referrable),

	caliper.EntityOrganization:   capability.Of(capability.Organization),
	caliper.EntityCourseOffering: capability.Of(capability.Organization),
	caliper.EntityCourseSection:  capability.Of(capability.Organization),
	caliper.EntityGroup:          capability.Of(capability.Organization),
	caliper.EntityMembership:     capability.Of(capability.Membership),

	caliper.EntityDigitalResource: resourceCaps,
	caliper.EntityDocument:        resourceCaps,
	caliper.EntityChapter:         resourceCaps,
	caliper.EntityPage:            resourceCaps,
	caliper.EntityWebPage:         resourceCaps,
	caliper.EntityFrame:           resourceCaps.Union(capability.Of(capability.Frame)),
	caliper.EntityReading:         resourceCaps,
	caliper.EntityEpubVolume:      resourceCaps,
	caliper.EntityEpubPart:        resourceCaps,
	caliper.EntityEpubChapter:     resourceCaps,
	caliper.EntityEpubSubChapter:  resourceCaps,
	caliper.EntityMessage:         resourceCaps.Union(capability.Of(capability.Message)),

	caliper.EntityAssignableDigitalResource: assignableCaps,
	caliper.EntityAssessment:                assignableCaps.Union(capability.Of(capability.Assessment)),
	caliper.EntityAssessmentItem:            assignableCaps.Union(capability.Of(capability.AssessmentItem)),

	caliper.EntityDigitalResourceCollection: collectionCaps,
	caliper.EntityForum:                     collectionCaps.Union(capability.Of(capability.Forum)),
	caliper.EntityThread:                    collectionCaps.Union(capability.Of(capability.Thread)),

	caliper.EntityMediaObject:   mediaCaps,
	caliper.EntityAudioObject:   mediaCaps,
	caliper.EntityImageObject:   mediaCaps,
	caliper.EntityVideoObject:   mediaCaps,
	caliper.EntityMediaLocation: capability.Of(capability.MediaLocation, capability.Targetable),

	caliper.EntityAnnotation:          annotationCaps,
	caliper.EntityBookmarkAnnotation:  annotationCaps,
	caliper.EntityHighlightAnnotation: annotationCaps,
	caliper.EntitySharedAnnotation:    annotationCaps,
	caliper.EntityTagAnnotation:       annotationCaps,

	caliper.EntityAttempt:                  capability.Of(capability.Attempt, capability.Generatable),
	caliper.EntityResponse:                 responseCaps,
	caliper.EntityFillinBlankResponse:      responseCaps,
	caliper.EntityMultipleChoiceResponse:   responseCaps,
	caliper.EntityMultipleResponseResponse: responseCaps,
	caliper.EntitySelectTextResponse:       responseCaps,
	caliper.EntityTrueFalseResponse:        responseCaps,
	caliper.EntityResult:                   capability.Of(capability.Result, capability.Generatable),
	caliper.EntityScore:                    capability.Of(capability.Score, capability.Generatable),

	caliper.EntitySession:    sessionCaps,
	caliper.EntityLtiSession: sessionCaps.Union(capability.Of(capability.LtiSession)),

	caliper.EntityLearningObjective: capability.Of(capability.LearningObjective),
}

// capabilitiesOf returns the declared capabilities of t. An undeclared
// variant is a programming error.
func capabilitiesOf(t caliper.EntityType) capability.Set {
	caps, ok := capabilityTable[t]
	if !ok {
		panic("entity: no capabilities declared for " + string(t))
	}
	return caps
}
