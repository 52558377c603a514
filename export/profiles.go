package export

import (
	"github.com/c360studio/semstreams/vocabulary"

	"github.com/c360studio/caliper/capability"
	"github.com/c360studio/caliper/entity"
)

// Profile determines which type assertions accompany the Caliper types in
// triple output.
type Profile string

const (
	// ProfileMinimal asserts Caliper types only.
	ProfileMinimal Profile = "minimal"

	// ProfilePROV also asserts the PROV-O class of every subject.
	ProfilePROV Profile = "prov"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	Name        Profile
	Description string
	IncludePROV bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileMinimal: {
		Name:        ProfileMinimal,
		Description: "Caliper type assertions only",
	},
	ProfilePROV: {
		Name:        ProfilePROV,
		Description: "Caliper types plus PROV-O activity, agent and entity classes",
		IncludePROV: true,
	},
}

// GetProfileConfig returns the configuration for a profile, defaulting to
// ProfileMinimal.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileMinimal]
}

// provClassOf maps an entity to its PROV-O class.
func provClassOf(e entity.Entity) string {
	caps := e.Capabilities()
	switch {
	case caps.Has(capability.Person):
		return vocabulary.ProvPerson
	case caps.Has(capability.SoftwareApplication):
		return vocabulary.ProvSoftwareAgent
	case caps.Has(capability.Agent), caps.Has(capability.Organization):
		return vocabulary.ProvAgent
	default:
		return vocabulary.ProvEntity
	}
}

// PROVClassDescriptions provides human-readable descriptions for the PROV-O
// classes used by ProfilePROV.
var PROVClassDescriptions = map[string]string{
	vocabulary.ProvEntity:        "Thing with fixed aspects",
	vocabulary.ProvActivity:      "Something that occurs over time",
	vocabulary.ProvAgent:         "Something bearing responsibility",
	vocabulary.ProvPerson:        "Human agent",
	vocabulary.ProvSoftwareAgent: "Software agent",
}
