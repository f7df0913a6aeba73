package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/gfa2rdf/vocabulary/xsd"
)

// NTriplesWriter writes one triple per line. Namespaces have no meaning in
// N-Triples and are ignored.
type NTriplesWriter struct {
	w   *bufio.Writer
	err error
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter(w io.Writer) *NTriplesWriter {
	return &NTriplesWriter{w: bufio.NewWriter(w)}
}

// Start implements Writer.
func (n *NTriplesWriter) Start() error { return n.err }

// HandleNamespace implements Writer.
func (n *NTriplesWriter) HandleNamespace(string, string) error { return n.err }

// HandleStatement writes a single triple.
func (n *NTriplesWriter) HandleStatement(t Triple) error {
	if n.err != nil {
		return n.err
	}
	s, err := ntriplesTerm(t.Subject)
	if err != nil {
		return err
	}
	p, err := ntriplesTerm(t.Predicate)
	if err != nil {
		return err
	}
	o, err := ntriplesTerm(t.Object)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(n.w, "%s %s %s .\n", s, p, o); err != nil {
		n.err = err
	}
	return n.err
}

// End flushes buffered output.
func (n *NTriplesWriter) End() error {
	if n.err != nil {
		return n.err
	}
	n.err = n.w.Flush()
	return n.err
}

func ntriplesTerm(t Term) (string, error) {
	switch t.Kind {
	case TermIRI:
		return "<" + escapeIRI(t.Value) + ">", nil
	case TermLiteral:
		if t.Datatype == "" || t.Datatype == xsd.String {
			return `"` + escapeString(t.Value) + `"`, nil
		}
		return `"` + escapeString(t.Value) + `"^^<` + escapeIRI(t.Datatype) + ">", nil
	case TermNumeral:
		return `"` + t.Value + `"^^<` + numeralDatatype(t.Value) + ">", nil
	default:
		return "", fmt.Errorf("cannot write prefixed name %s:%s as N-Triples", t.Prefix, t.Value)
	}
}

// numeralDatatype returns the datatype Turtle assigns to a bare numeral.
func numeralDatatype(s string) string {
	switch {
	case strings.ContainsAny(s, "eE"):
		return xsd.Double
	case strings.Contains(s, "."):
		return xsd.Decimal
	default:
		return xsd.Integer
	}
}
