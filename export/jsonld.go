package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/c360studio/gfa2rdf/vocabulary/rdf"
	"github.com/c360studio/gfa2rdf/vocabulary/xsd"
)

// JSONLDNode represents a node object in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter streams a flattened JSON-LD document: one node object per run
// of consecutive statements about the same subject, inside "@graph".
// IRIs are always written in full, so namespaces are ignored.
type JSONLDWriter struct {
	w       *bufio.Writer
	current *JSONLDNode
	nodes   int
	err     error
}

// NewJSONLDWriter creates a new JSON-LD writer.
func NewJSONLDWriter(w io.Writer) *JSONLDWriter {
	return &JSONLDWriter{w: bufio.NewWriter(w)}
}

// Start writes the document head.
func (j *JSONLDWriter) Start() error {
	j.writeString("{\n  \"@graph\": [")
	return j.err
}

// HandleNamespace implements Writer.
func (j *JSONLDWriter) HandleNamespace(string, string) error { return j.err }

// HandleStatement implements Writer.
func (j *JSONLDWriter) HandleStatement(t Triple) error {
	if j.err != nil {
		return j.err
	}
	if t.Subject.Kind != TermIRI || t.Predicate.Kind != TermIRI {
		return fmt.Errorf("json-ld writer needs full IRIs")
	}
	if j.current == nil || j.current.ID != t.Subject.Value {
		j.flushNode()
		j.current = &JSONLDNode{ID: t.Subject.Value, Properties: make(map[string]any)}
	}

	if t.Predicate.Value == rdf.Type && t.Object.Kind == TermIRI {
		j.current.Type = append(j.current.Type, t.Object.Value)
		return j.err
	}
	value, err := jsonldValue(t.Object)
	if err != nil {
		return err
	}
	existing, _ := j.current.Properties[t.Predicate.Value].([]any)
	j.current.Properties[t.Predicate.Value] = append(existing, value)
	return j.err
}

// End writes the last node and closes the document.
func (j *JSONLDWriter) End() error {
	j.flushNode()
	j.writeString("\n  ]\n}\n")
	if j.err != nil {
		return j.err
	}
	j.err = j.w.Flush()
	return j.err
}

func (j *JSONLDWriter) flushNode() {
	if j.current == nil || j.err != nil {
		return
	}
	data, err := json.Marshal(j.current)
	if err != nil {
		j.err = err
		return
	}
	if j.nodes > 0 {
		j.writeString(",")
	}
	j.writeString("\n    ")
	j.writeString(string(data))
	j.nodes++
	j.current = nil
}

func (j *JSONLDWriter) writeString(s string) {
	if j.err != nil {
		return
	}
	if _, err := j.w.WriteString(s); err != nil {
		j.err = err
	}
}

func jsonldValue(t Term) (map[string]string, error) {
	switch t.Kind {
	case TermIRI:
		return map[string]string{"@id": t.Value}, nil
	case TermLiteral:
		if t.Datatype == "" || t.Datatype == xsd.String {
			return map[string]string{"@value": t.Value}, nil
		}
		return map[string]string{"@value": t.Value, "@type": t.Datatype}, nil
	case TermNumeral:
		return map[string]string{"@value": t.Value, "@type": numeralDatatype(t.Value)}, nil
	default:
		return nil, fmt.Errorf("cannot write prefixed name %s:%s as JSON-LD", t.Prefix, t.Value)
	}
}
