package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatJSONLD produces Caliper JSON-LD documents.
	FormatJSONLD Format = "jsonld"

	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - Caliper event documents",
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name, accepting "nt" and "ttl" as aliases.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "nt":
		return FormatNTriples, nil
	case "ttl":
		return FormatTurtle, nil
	case "json-ld", "json":
		return FormatJSONLD, nil
	default:
		if _, ok := FormatRegistry[f]; ok {
			return f, nil
		}
		return "", fmt.Errorf("unknown format: %q", s)
	}
}

// iri marks an object that is written as an IRI rather than a literal.
type iri string

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a new Turtle writer with default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: defaultPrefixes(),
	}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	w.sb.WriteString("\n")
}

// WriteSubject starts a new subject block.
func (w *TurtleWriter) WriteSubject(subject string) {
	fmt.Fprintf(&w.sb, "<%s>\n", subject)
}

// WritePredicate writes a predicate-object pair.
func (w *TurtleWriter) WritePredicate(predicateIRI string, object any, last bool) {
	terminator := " ;"
	if last {
		terminator = " ."
	}
	fmt.Fprintf(&w.sb, "    %s %s%s\n", w.compact(predicateIRI), formatObject(object, w.xsd), terminator)
}

// WriteBlank writes a blank line for readability.
func (w *TurtleWriter) WriteBlank() {
	w.sb.WriteString("\n")
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// compact abbreviates an IRI with a declared prefix when the local name is
// a plain word.
func (w *TurtleWriter) compact(full string) string {
	if full == defaultPrefixes()["rdf"]+"type" {
		return "a"
	}
	best := ""
	for prefix, ns := range w.prefixes {
		local, ok := strings.CutPrefix(full, ns)
		if !ok || !isLocalName(local) {
			continue
		}
		if best == "" || prefix < best {
			best = prefix
		}
	}
	if best == "" {
		return "<" + full + ">"
	}
	return best + ":" + strings.TrimPrefix(full, w.prefixes[best])
}

func (w *TurtleWriter) xsd(datatype string) string { return "xsd:" + datatype }

func isLocalName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(subject, predicate string, object any) {
	fmt.Fprintf(&w.sb, "<%s> <%s> %s .\n", subject, predicate, formatObject(object, xsdIRI))
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

func xsdIRI(datatype string) string {
	return "<http://www.w3.org/2001/XMLSchema#" + datatype + ">"
}

// formatObject renders an object as an IRI or a typed literal. xsd renders
// the datatype reference for the target syntax.
func formatObject(obj any, xsd func(string) string) string {
	switch v := obj.(type) {
	case iri:
		return "<" + string(v) + ">"
	case string:
		return `"` + escapeString(v) + `"`
	case time.Time:
		return `"` + v.UTC().Format(time.RFC3339Nano) + `"^^` + xsd("dateTime")
	case int:
		return `"` + strconv.Itoa(v) + `"^^` + xsd("integer")
	case int64:
		return `"` + strconv.FormatInt(v, 10) + `"^^` + xsd("integer")
	case float64:
		return `"` + strconv.FormatFloat(v, 'f', -1, 64) + `"^^` + xsd("decimal")
	case bool:
		return `"` + strconv.FormatBool(v) + `"^^` + xsd("boolean")
	default:
		return `"` + escapeString(fmt.Sprint(v)) + `"`
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
