package transcode

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/c360studio/gfa2rdf/export"
	"github.com/c360studio/gfa2rdf/metrics"
)

// DefaultBaseIRI is used when no base IRI is configured.
const DefaultBaseIRI = "http://example.org/vg/"

// ErrMalformedBaseIRI is returned for a base IRI that is not an absolute IRI.
var ErrMalformedBaseIRI = errors.New("malformed base IRI")

// Options select what a run emits. They are fixed for the whole run.
type Options struct {
	// BaseIRI prefixes node ("node/") and path ("path/") IRIs.
	BaseIRI string

	// Profile selects output density.
	Profile export.Profile

	// Extended adds begin/end positions to every path step.
	Extended bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics counts records and triples on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// ValidateBaseIRI checks that base is an absolute IRI that can be written
// between angle brackets.
func ValidateBaseIRI(base string) error {
	if base == "" {
		return fmt.Errorf("%w: empty", ErrMalformedBaseIRI)
	}
	if strings.ContainsFunc(base, forbiddenInIRI) {
		return fmt.Errorf("%w: %q contains characters not allowed in an IRI", ErrMalformedBaseIRI, base)
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBaseIRI, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("%w: %q is not absolute", ErrMalformedBaseIRI, base)
	}
	return nil
}

func forbiddenInIRI(r rune) bool {
	if r <= 0x20 {
		return true
	}
	switch r {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return true
	}
	return false
}
