package entity

import (
	"slices"
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// Organization is an LIS organization, course offering, course section or
// group, distinguished by Type.
type Organization struct {
	core
	subOrganizationOf Entity
	courseNumber      string
	academicSession   string
}

// SubOrganizationOf returns the parent organization, or nil.
func (o *Organization) SubOrganizationOf() Entity { return o.subOrganizationOf }

// CourseNumber returns the course number of an offering or section.
func (o *Organization) CourseNumber() string { return o.courseNumber }

// AcademicSession returns the academic session of an offering or section.
func (o *Organization) AcademicSession() string { return o.academicSession }

type organizationState struct {
	coreState
	subOrganizationOf Entity
	courseNumber      string
	academicSession   string
}

// OrganizationBuilder accumulates the fields of an Organization.
type OrganizationBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[organizationState]
}

// NewOrganization starts a generic LIS Organization.
func NewOrganization() *OrganizationBuilder {
	return &OrganizationBuilder{kind: caliper.EntityOrganization}
}

// NewCourseOffering starts a CourseOffering.
func NewCourseOffering() *OrganizationBuilder {
	return &OrganizationBuilder{kind: caliper.EntityCourseOffering}
}

// NewCourseSection starts a CourseSection.
func NewCourseSection() *OrganizationBuilder {
	return &OrganizationBuilder{kind: caliper.EntityCourseSection}
}

// NewGroup starts a Group.
func NewGroup() *OrganizationBuilder {
	return &OrganizationBuilder{kind: caliper.EntityGroup}
}

func (b *OrganizationBuilder) ID(id string) *OrganizationBuilder {
	b.acc.Set(func(s *organizationState) { s.id = id })
	return b
}

func (b *OrganizationBuilder) Name(name string) *OrganizationBuilder {
	b.acc.Set(func(s *organizationState) { s.name = name })
	return b
}

func (b *OrganizationBuilder) Description(description string) *OrganizationBuilder {
	b.acc.Set(func(s *organizationState) { s.description = description })
	return b
}

func (b *OrganizationBuilder) DateCreated(t time.Time) *OrganizationBuilder {
	b.acc.Set(func(s *organizationState) { s.dateCreated = t })
	return b
}

func (b *OrganizationBuilder) DateModified(t time.Time) *OrganizationBuilder {
	b.acc.Set(func(s *organizationState) { s.dateModified = t })
	return b
}

func (b *OrganizationBuilder) Extension(key string, value any) *OrganizationBuilder {
	b.acc.Set(func(s *organizationState) { s.setExtension(key, value) })
	return b
}

// SubOrganizationOf sets the parent organization.
func (b *OrganizationBuilder) SubOrganizationOf(parent Entity) *OrganizationBuilder {
	b.acc.Set(func(s *organizationState) { s.subOrganizationOf = orNil(parent) })
	return b
}

var courseKinds = []caliper.EntityType{caliper.EntityCourseOffering, caliper.EntityCourseSection}

// CourseNumber sets the course number. Only offerings and sections carry it.
func (b *OrganizationBuilder) CourseNumber(n string) *OrganizationBuilder {
	if allow(&b.acc, b.kind, "courseNumber", courseKinds...) {
		b.acc.Set(func(s *organizationState) { s.courseNumber = n })
	}
	return b
}

// AcademicSession sets the academic session, e.g. "Fall 2016".
func (b *OrganizationBuilder) AcademicSession(session string) *OrganizationBuilder {
	if allow(&b.acc, b.kind, "academicSession", courseKinds...) {
		b.acc.Set(func(s *organizationState) { s.academicSession = session })
	}
	return b
}

func (b *OrganizationBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the Organization.
func (b *OrganizationBuilder) Build() (*Organization, error) {
	return construct.Build(&b.acc, construct.Recipe[organizationState, *Organization]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s organizationState) organizationState {
			s.coreState = s.coreState.clone()
			return s
		},
		Defaults: func(s *organizationState) { s.typ = b.kind },
		Candidate: func(s *organizationState) conformance.Candidate {
			c := s.candidate()
			c.References["subOrganizationOf"] = one(s.subOrganizationOf)
			return c
		},
		Freeze: func(s organizationState) *Organization {
			return &Organization{
				core:              s.freeze(),
				subOrganizationOf: s.subOrganizationOf,
				courseNumber:      s.courseNumber,
				academicSession:   s.academicSession,
			}
		},
	}, nil)
}

// Membership relates a member to an organization with roles and a status.
type Membership struct {
	core
	member       Entity
	organization Entity
	roles        []Role
	status       Status
}

func (m *Membership) Member() Entity       { return m.member }
func (m *Membership) Organization() Entity { return m.organization }
func (m *Membership) Roles() []Role        { return slices.Clone(m.roles) }
func (m *Membership) Status() Status       { return m.status }

type membershipState struct {
	coreState
	member       Entity
	organization Entity
	roles        []Role
	status       Status
}

// MembershipBuilder accumulates the fields of a Membership.
type MembershipBuilder struct {
	acc construct.Accumulator[membershipState]
}

// NewMembership starts a Membership.
func NewMembership() *MembershipBuilder {
	return &MembershipBuilder{}
}

func (b *MembershipBuilder) ID(id string) *MembershipBuilder {
	b.acc.Set(func(s *membershipState) { s.id = id })
	return b
}

func (b *MembershipBuilder) Name(name string) *MembershipBuilder {
	b.acc.Set(func(s *membershipState) { s.name = name })
	return b
}

func (b *MembershipBuilder) Description(description string) *MembershipBuilder {
	b.acc.Set(func(s *membershipState) { s.description = description })
	return b
}

func (b *MembershipBuilder) DateCreated(t time.Time) *MembershipBuilder {
	b.acc.Set(func(s *membershipState) { s.dateCreated = t })
	return b
}

func (b *MembershipBuilder) DateModified(t time.Time) *MembershipBuilder {
	b.acc.Set(func(s *membershipState) { s.dateModified = t })
	return b
}

func (b *MembershipBuilder) Extension(key string, value any) *MembershipBuilder {
	b.acc.Set(func(s *membershipState) { s.setExtension(key, value) })
	return b
}

// Member sets the person holding the membership.
func (b *MembershipBuilder) Member(member Entity) *MembershipBuilder {
	b.acc.Set(func(s *membershipState) { s.member = orNil(member) })
	return b
}

// Organization sets the organization the membership belongs to.
func (b *MembershipBuilder) Organization(org Entity) *MembershipBuilder {
	b.acc.Set(func(s *membershipState) { s.organization = orNil(org) })
	return b
}

// Roles appends roles. Unknown roles are rejected.
func (b *MembershipBuilder) Roles(roles ...Role) *MembershipBuilder {
	for _, r := range roles {
		if !r.IsValid() {
			b.acc.Reject(&FieldError{Field: "roles", Type: caliper.EntityMembership})
			return b
		}
	}
	b.acc.Set(func(s *membershipState) { s.roles = append(s.roles, roles...) })
	return b
}

// Status sets the membership status. Unknown statuses are rejected.
func (b *MembershipBuilder) Status(status Status) *MembershipBuilder {
	if !status.IsValid() {
		b.acc.Reject(&FieldError{Field: "status", Type: caliper.EntityMembership})
		return b
	}
	b.acc.Set(func(s *membershipState) { s.status = status })
	return b
}

func (b *MembershipBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the Membership.
func (b *MembershipBuilder) Build() (*Membership, error) {
	return construct.Build(&b.acc, construct.Recipe[membershipState, *Membership]{
		Rules: conformance.EntityRules(caliper.EntityMembership),
		Clone: func(s membershipState) membershipState {
			s.coreState = s.coreState.clone()
			s.roles = slices.Clone(s.roles)
			return s
		},
		Defaults: func(s *membershipState) { s.typ = caliper.EntityMembership },
		Candidate: func(s *membershipState) conformance.Candidate {
			c := s.candidate()
			c.References["member"] = one(s.member)
			c.References["organization"] = one(s.organization)
			return c
		},
		Freeze: func(s membershipState) *Membership {
			return &Membership{
				core:         s.freeze(),
				member:       s.member,
				organization: s.organization,
				roles:        s.roles,
				status:       s.status,
			}
		},
	}, nil)
}

// LearningObjective is a statement of what a learner should achieve.
type LearningObjective struct {
	core
}

type objectiveState struct {
	coreState
}

// LearningObjectiveBuilder accumulates the fields of a LearningObjective.
type LearningObjectiveBuilder struct {
	acc construct.Accumulator[objectiveState]
}

// NewLearningObjective starts a LearningObjective.
func NewLearningObjective() *LearningObjectiveBuilder {
	return &LearningObjectiveBuilder{}
}

func (b *LearningObjectiveBuilder) ID(id string) *LearningObjectiveBuilder {
	b.acc.Set(func(s *objectiveState) { s.id = id })
	return b
}

func (b *LearningObjectiveBuilder) Name(name string) *LearningObjectiveBuilder {
	b.acc.Set(func(s *objectiveState) { s.name = name })
	return b
}

func (b *LearningObjectiveBuilder) Description(description string) *LearningObjectiveBuilder {
	b.acc.Set(func(s *objectiveState) { s.description = description })
	return b
}

func (b *LearningObjectiveBuilder) DateCreated(t time.Time) *LearningObjectiveBuilder {
	b.acc.Set(func(s *objectiveState) { s.dateCreated = t })
	return b
}

func (b *LearningObjectiveBuilder) DateModified(t time.Time) *LearningObjectiveBuilder {
	b.acc.Set(func(s *objectiveState) { s.dateModified = t })
	return b
}

func (b *LearningObjectiveBuilder) Extension(key string, value any) *LearningObjectiveBuilder {
	b.acc.Set(func(s *objectiveState) { s.setExtension(key, value) })
	return b
}

func (b *LearningObjectiveBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the LearningObjective.
func (b *LearningObjectiveBuilder) Build() (*LearningObjective, error) {
	return construct.Build(&b.acc, construct.Recipe[objectiveState, *LearningObjective]{
		Rules: conformance.EntityRules(caliper.EntityLearningObjective),
		Clone: func(s objectiveState) objectiveState {
			s.coreState = s.coreState.clone()
			return s
		},
		Defaults:  func(s *objectiveState) { s.typ = caliper.EntityLearningObjective },
		Candidate: func(s *objectiveState) conformance.Candidate { return s.candidate() },
		Freeze: func(s objectiveState) *LearningObjective {
			return &LearningObjective{core: s.freeze()}
		},
	}, nil)
}
