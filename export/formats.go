package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned for an output format that has no writer.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
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

	// Prefixes reports whether the format can abbreviate IRIs with
	// declared namespaces. Only such formats are canonicalized.
	Prefixes bool
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
		Prefixes:    true,
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name or MIME type. MIME parameters such as
// "; charset=utf-8" are ignored.
func ParseFormat(s string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	if v == "" {
		return FormatTurtle, nil
	}
	for name, info := range FormatRegistry {
		if v == string(name) || v == info.MIMEType || v == strings.TrimPrefix(info.Extension, ".") {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnsupportedFormat, s, strings.Join(FormatNames(), ", "))
}

// FormatNames returns the sorted names of all registered formats.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for name := range FormatRegistry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// NewWriter creates the base grammar writer for format.
func NewWriter(format Format, w io.Writer, pretty bool) (Writer, error) {
	switch format {
	case FormatTurtle:
		return NewTurtleWriter(w, pretty), nil
	case FormatNTriples:
		return NewNTriplesWriter(w), nil
	case FormatJSONLD:
		return NewJSONLDWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// NewEmitter creates the writer the transcoder emits through. Formats with
// prefix support are wrapped in a CanonicalWriter; others pass triples
// through untouched.
func NewEmitter(format Format, w io.Writer, profile Profile) (Writer, error) {
	cfg := GetProfileConfig(profile)
	base, err := NewWriter(format, w, cfg.Pretty)
	if err != nil {
		return nil, err
	}
	if info, _ := GetFormatInfo(format); info.Prefixes {
		return NewCanonicalWriter(base), nil
	}
	return base, nil
}
