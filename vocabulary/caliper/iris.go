package caliper

import "strings"

// Namespace is the base IRI for Caliper entity and event types.
const Namespace = "http://purl.imsglobal.org/caliper/v1/"

// ActionNamespace is the base IRI for action tokens.
const ActionNamespace = "http://purl.imsglobal.org/vocab/caliper/v1/action#"

// ContextNamespace is the base IRI for JSON-LD context documents.
const ContextNamespace = "http://purl.imsglobal.org/ctx/caliper/v1/"

// PropertyNamespace is the base IRI for Caliper properties without a
// standard equivalent.
const PropertyNamespace = "http://purl.imsglobal.org/vocab/caliper/v1/"

// DefaultContext is the general Caliper JSON-LD context.
const DefaultContext = ContextNamespace + "Context"

// lisPrefix scopes the IMS Learning Information Services types.
const lisPrefix = "lis/"

// Context is a JSON-LD context descriptor. It is either a single vocabulary
// URI or an ordered list of prefix mappings; never both.
type Context struct {
	uri      string
	mappings []PrefixMapping
}

// PrefixMapping binds a compact prefix to a vocabulary URI.
type PrefixMapping struct {
	Prefix string
	URI    string
}

// ContextURI returns a single-URI context.
func ContextURI(uri string) Context {
	return Context{uri: uri}
}

// ContextMappings returns a context made of ordered prefix mappings.
func ContextMappings(mappings ...PrefixMapping) Context {
	return Context{mappings: append([]PrefixMapping(nil), mappings...)}
}

// URI returns the single context URI, or "" for a mapping context.
func (c Context) URI() string { return c.uri }

// Mappings returns a copy of the prefix mappings.
func (c Context) Mappings() []PrefixMapping {
	if len(c.mappings) == 0 {
		return nil
	}
	return append([]PrefixMapping(nil), c.mappings...)
}

// IsZero reports whether the context is unset.
func (c Context) IsZero() bool { return c.uri == "" && len(c.mappings) == 0 }

// Equal reports whether two contexts describe the same URI or the same
// ordered mappings.
func (c Context) Equal(other Context) bool {
	if c.uri != other.uri || len(c.mappings) != len(other.mappings) {
		return false
	}
	for i := range c.mappings {
		if c.mappings[i] != other.mappings[i] {
			return false
		}
	}
	return true
}

// String renders the context for messages.
func (c Context) String() string {
	if c.uri != "" || len(c.mappings) == 0 {
		return c.uri
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range c.mappings {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.Prefix + ": " + m.URI)
	}
	sb.WriteByte('}')
	return sb.String()
}

// ContextFor returns the canonical context of an event variant.
func ContextFor(t EventType) Context {
	if !t.IsValid() {
		panic("caliper: unregistered event type " + string(t))
	}
	return ContextURI(ContextNamespace + string(t))
}
