// Package export serializes RDF triples as a stream.
//
// The base writers (Turtle, N-Triples, JSON-LD) only know the grammar of
// their format. CanonicalWriter decorates a Turtle writer with namespace
// abbreviation and numeric literal canonicalization, and Profile decides
// which prefixes exist and which inferable triples are left out.
package export

import (
	"math"
	"strconv"
	"strings"

	"github.com/c360studio/gfa2rdf/vocabulary/xsd"
)

// TermKind distinguishes the lexical shapes a term can be written in.
type TermKind uint8

const (
	// TermIRI is an absolute IRI written in full.
	TermIRI TermKind = iota
	// TermPrefixedName is an IRI already abbreviated to prefix:local.
	TermPrefixedName
	// TermLiteral is a quoted literal with an optional datatype.
	TermLiteral
	// TermNumeral is a numeric literal written bare, without quotes or
	// datatype.
	TermNumeral
)

// Term is an RDF term together with the form it should be written in.
type Term struct {
	Kind TermKind
	// Value holds the IRI, the local name, the lexical form or the numeral.
	Value string
	// Prefix is set for prefixed names.
	Prefix string
	// Datatype is set for typed literals. Empty means xsd:string.
	Datatype string
}

// IRI returns an IRI term.
func IRI(iri string) Term { return Term{Kind: TermIRI, Value: iri} }

// PrefixedName returns an abbreviated IRI term.
func PrefixedName(prefix, local string) Term {
	return Term{Kind: TermPrefixedName, Prefix: prefix, Value: local}
}

// Literal returns a typed literal.
func Literal(lexical, datatype string) Term {
	return Term{Kind: TermLiteral, Value: lexical, Datatype: datatype}
}

// StringLiteral returns a plain string literal.
func StringLiteral(s string) Term { return Term{Kind: TermLiteral, Value: s} }

// IntLiteral returns an xsd:int literal when v fits in 32 bits and an
// xsd:long literal otherwise.
func IntLiteral(v int64) Term {
	if v < math.MaxInt32 && v >= math.MinInt32 {
		return Literal(strconv.FormatInt(v, 10), xsd.Int)
	}
	return Literal(strconv.FormatInt(v, 10), xsd.Long)
}

// Numeral returns a bare numeric term.
func Numeral(text string) Term { return Term{Kind: TermNumeral, Value: text} }

// IsIRI reports whether t denotes an IRI in either written form.
func (t Term) IsIRI() bool { return t.Kind == TermIRI || t.Kind == TermPrefixedName }

// Triple is one RDF statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple builds a triple of IRIs from their string values, with obj as
// the object term.
func NewTriple(subject, predicate string, obj Term) Triple {
	return Triple{Subject: IRI(subject), Predicate: IRI(predicate), Object: obj}
}

// Writer is the narrow capability the transcoder emits through.
// Implementations write incrementally and never buffer the whole document.
type Writer interface {
	Start() error
	HandleNamespace(prefix, namespace string) error
	HandleStatement(t Triple) error
	End() error
}

// NamespaceRetracter is implemented by writers that can stop abbreviating a
// namespace that was declared earlier.
type NamespaceRetracter interface {
	UnsetNamespace(namespace string)
}

// escapeString escapes a literal's lexical form for Turtle and N-Triples.
func escapeString(s string) string {
	if !strings.ContainsFunc(s, needsStringEscape) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				writeUCHAR(&sb, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

func needsStringEscape(r rune) bool {
	return r == '\\' || r == '"' || r < 0x20 || r == 0x7f
}

// escapeIRI escapes characters that may not appear raw inside <...>.
func escapeIRI(s string) string {
	if !strings.ContainsFunc(s, needsIRIEscape) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		if needsIRIEscape(r) {
			writeUCHAR(&sb, r)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func needsIRIEscape(r rune) bool {
	if r <= 0x20 {
		return true
	}
	switch r {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return true
	}
	return false
}

func writeUCHAR(sb *strings.Builder, r rune) {
	hex := strconv.FormatInt(int64(r), 16)
	if r > 0xffff {
		sb.WriteString(`\U`)
		sb.WriteString(strings.Repeat("0", 8-len(hex)))
	} else {
		sb.WriteString(`\u`)
		sb.WriteString(strings.Repeat("0", 4-len(hex)))
	}
	sb.WriteString(strings.ToUpper(hex))
}
