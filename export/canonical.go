package export

import (
	"strings"

	"github.com/c360studio/gfa2rdf/vocabulary/rdf"
	"github.com/c360studio/gfa2rdf/vocabulary/xsd"
)

// CanonicalWriter decorates a Writer with IRI abbreviation against the live
// namespace bindings and canonical numeric literals.
type CanonicalWriter struct {
	delegate Writer

	byPrefix    map[string]string
	byNamespace map[string]string
}

// NewCanonicalWriter wraps delegate.
func NewCanonicalWriter(delegate Writer) *CanonicalWriter {
	return &CanonicalWriter{
		delegate:    delegate,
		byPrefix:    make(map[string]string),
		byNamespace: make(map[string]string),
	}
}

// Start implements Writer.
func (c *CanonicalWriter) Start() error { return c.delegate.Start() }

// End implements Writer.
func (c *CanonicalWriter) End() error { return c.delegate.End() }

// HandleNamespace binds prefix to namespace and declares it downstream. A
// prefix that was bound to another namespace is rebound.
func (c *CanonicalWriter) HandleNamespace(prefix, namespace string) error {
	if err := c.delegate.HandleNamespace(prefix, namespace); err != nil {
		return err
	}
	if old, ok := c.byPrefix[prefix]; ok && old != namespace {
		delete(c.byNamespace, old)
	}
	if old, ok := c.byNamespace[namespace]; ok && old != prefix {
		delete(c.byPrefix, old)
	}
	c.byPrefix[prefix] = namespace
	c.byNamespace[namespace] = prefix
	return nil
}

// UnsetNamespace stops abbreviating namespace. Nothing is written.
func (c *CanonicalWriter) UnsetNamespace(namespace string) {
	prefix, ok := c.byNamespace[namespace]
	if !ok {
		return
	}
	delete(c.byNamespace, namespace)
	if c.byPrefix[prefix] == namespace {
		delete(c.byPrefix, prefix)
	}
}

// Bindings returns the number of live bindings.
func (c *CanonicalWriter) Bindings() int { return len(c.byNamespace) }

// HandleStatement rewrites the triple's terms and passes it on.
func (c *CanonicalWriter) HandleStatement(t Triple) error {
	t.Subject = c.rewrite(t.Subject)
	// rdf:type stays a full IRI so the grammar writer can print "a".
	if !(t.Predicate.Kind == TermIRI && t.Predicate.Value == rdf.Type) {
		t.Predicate = c.rewrite(t.Predicate)
	}
	t.Object = c.rewrite(t.Object)
	return c.delegate.HandleStatement(t)
}

func (c *CanonicalWriter) rewrite(t Term) Term {
	switch t.Kind {
	case TermIRI:
		return c.Abbreviate(t.Value)
	case TermLiteral:
		return CanonicalLiteral(t)
	default:
		return t
	}
}

// Abbreviate returns iri as a prefixed name when a bound namespace covers it.
// An exact namespace match gives "prefix:". Otherwise the longest namespace
// whose remainder is a valid local name wins.
func (c *CanonicalWriter) Abbreviate(iri string) Term {
	if prefix, ok := c.byNamespace[iri]; ok {
		return PrefixedName(prefix, "")
	}
	best := ""
	for ns := range c.byNamespace {
		if len(ns) <= len(best) || !strings.HasPrefix(iri, ns) {
			continue
		}
		if validLocalName(iri[len(ns):]) {
			best = ns
		}
	}
	if best == "" {
		return IRI(iri)
	}
	return PrefixedName(c.byNamespace[best], iri[len(best):])
}

// CanonicalLiteral rewrites a numeric literal as a bare numeral in canonical
// form. Special float values and invalid lexical forms stay typed literals.
func CanonicalLiteral(t Term) Term {
	if t.Kind != TermLiteral || !xsd.IsNumeric(t.Datatype) {
		return t
	}
	canonical, ok := NormalizeNumeric(t.Value, t.Datatype)
	if !ok {
		return t
	}
	if IsSpecialFloat(canonical) {
		return Literal(canonical, t.Datatype)
	}
	return Numeral(canonical)
}
