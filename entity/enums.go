package entity

import (
	"fmt"
	"strings"
)

// lisMembership is the base IRI for LIS membership roles and statuses.
const lisMembership = "http://purl.imsglobal.org/vocab/lis/v2/membership#"

// Role is an LIS membership role.
type Role string

const (
	RoleLearner           Role = "Learner"
	RoleInstructor        Role = "Instructor"
	RoleTeachingAssistant Role = "TeachingAssistant"
	RoleMentor            Role = "Mentor"
	RoleAdministrator     Role = "Administrator"
	RoleContentDeveloper  Role = "ContentDeveloper"
	RoleMember            Role = "Member"
)

// IsValid checks if a role string is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleLearner, RoleInstructor, RoleTeachingAssistant, RoleMentor,
		RoleAdministrator, RoleContentDeveloper, RoleMember:
		return true
	}
	return false
}

// URI returns the LIS role IRI.
func (r Role) URI() string { return lisMembership + string(r) }

// ParseRole accepts a role name or IRI.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimPrefix(s, lisMembership))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown membership role: %s", s)
	}
	return r, nil
}

// Status is an LIS membership status.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// IsValid checks if a status string is a known status.
func (s Status) IsValid() bool { return s == StatusActive || s == StatusInactive }

// URI returns the LIS status IRI.
func (s Status) URI() string { return lisMembership + string(s) }

// ParseStatus accepts a status name or IRI.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimPrefix(s, lisMembership))
	if !st.IsValid() {
		return "", fmt.Errorf("unknown membership status: %s", s)
	}
	return st, nil
}
