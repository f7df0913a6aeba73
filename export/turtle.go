package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/c360studio/gfa2rdf/vocabulary/rdf"
	"github.com/c360studio/gfa2rdf/vocabulary/xsd"
)

// TurtleWriter streams Turtle. Consecutive statements about the same subject
// are grouped with ';' and ',' so the output stays compact without buffering.
type TurtleWriter struct {
	w      *bufio.Writer
	pretty bool

	open      bool
	subject   Term
	predicate Term
	err       error
}

// NewTurtleWriter creates a Turtle writer. Pretty output puts each
// predicate on its own line and separates subjects with a blank line.
func NewTurtleWriter(w io.Writer, pretty bool) *TurtleWriter {
	return &TurtleWriter{w: bufio.NewWriter(w), pretty: pretty}
}

// Start implements Writer.
func (t *TurtleWriter) Start() error { return t.err }

// HandleNamespace writes a prefix declaration. A prefix may be declared again
// with a different namespace; later statements use the newest binding.
func (t *TurtleWriter) HandleNamespace(prefix, namespace string) error {
	if t.err != nil {
		return t.err
	}
	if !validPrefix(prefix) {
		return fmt.Errorf("invalid turtle prefix %q", prefix)
	}
	t.closeStatement()
	t.writeString("@prefix ")
	t.writeString(prefix)
	t.writeString(": <")
	t.writeString(escapeIRI(namespace))
	t.writeString("> .\n")
	return t.err
}

// HandleStatement implements Writer.
func (t *TurtleWriter) HandleStatement(st Triple) error {
	if t.err != nil {
		return t.err
	}
	if !st.Subject.IsIRI() {
		return errors.New("turtle subject must be an IRI")
	}
	if !st.Predicate.IsIRI() {
		return errors.New("turtle predicate must be an IRI")
	}

	switch {
	case t.open && st.Subject == t.subject && st.Predicate == t.predicate:
		if t.pretty {
			t.writeString(" ,\n        ")
		} else {
			t.writeString(" , ")
		}
	case t.open && st.Subject == t.subject:
		if t.pretty {
			t.writeString(" ;\n    ")
		} else {
			t.writeString(" ; ")
		}
		t.writePredicate(st.Predicate)
		t.writeString(" ")
	default:
		t.closeStatement()
		t.writeTerm(st.Subject)
		t.writeString(" ")
		t.writePredicate(st.Predicate)
		t.writeString(" ")
	}
	t.writeTerm(st.Object)

	t.open = true
	t.subject = st.Subject
	t.predicate = st.Predicate
	return t.err
}

// End terminates the last statement and flushes.
func (t *TurtleWriter) End() error {
	t.closeStatement()
	if t.err != nil {
		return t.err
	}
	if err := t.w.Flush(); err != nil {
		t.err = err
	}
	return t.err
}

func (t *TurtleWriter) closeStatement() {
	if !t.open {
		return
	}
	if t.pretty {
		t.writeString(" .\n\n")
	} else {
		t.writeString(" .\n")
	}
	t.open = false
}

func (t *TurtleWriter) writePredicate(p Term) {
	if p.Kind == TermIRI && p.Value == rdf.Type {
		t.writeString("a")
		return
	}
	t.writeTerm(p)
}

func (t *TurtleWriter) writeTerm(term Term) {
	switch term.Kind {
	case TermIRI:
		t.writeString("<")
		t.writeString(escapeIRI(term.Value))
		t.writeString(">")
	case TermPrefixedName:
		t.writeString(term.Prefix)
		t.writeString(":")
		t.writeString(term.Value)
	case TermNumeral:
		t.writeString(term.Value)
	case TermLiteral:
		t.writeString(`"`)
		t.writeString(escapeString(term.Value))
		t.writeString(`"`)
		if term.Datatype != "" && term.Datatype != xsd.String {
			t.writeString("^^<")
			t.writeString(escapeIRI(term.Datatype))
			t.writeString(">")
		}
	}
}

func (t *TurtleWriter) writeString(s string) {
	if t.err != nil {
		return
	}
	if _, err := t.w.WriteString(s); err != nil {
		t.err = err
	}
}

// validPrefix reports whether p is a Turtle PN_PREFIX (or empty). Only
// ASCII letters, digits, '_', '-' and inner '.' are accepted.
func validPrefix(p string) bool {
	if p == "" {
		return true
	}
	if !isASCIILetter(p[0]) || p[len(p)-1] == '.' {
		return false
	}
	for i := 1; i < len(p); i++ {
		c := p[i]
		if !isASCIILetter(c) && !isDigit(c) && c != '_' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

// validLocalName reports whether s can follow "prefix:" unescaped.
// The check is a conservative ASCII subset of Turtle's PN_LOCAL.
func validLocalName(s string) bool {
	if s == "" {
		return true
	}
	first := s[0]
	if !isASCIILetter(first) && !isDigit(first) && first != '_' {
		return false
	}
	if s[len(s)-1] == '.' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isASCIILetter(c) && !isDigit(c) && c != '_' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
