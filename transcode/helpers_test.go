package transcode_test

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/c360studio/gfa2rdf/export"
)

// event is either a namespace declaration or a statement, in write order.
type event struct {
	binding   *export.Binding
	statement *export.Triple
}

// recorder is an export.Writer that keeps everything it is given.
type recorder struct {
	events  []event
	started bool
	ended   bool
}

func (r *recorder) Start() error { r.started = true; return nil }

func (r *recorder) HandleNamespace(prefix, ns string) error {
	r.events = append(r.events, event{binding: &export.Binding{Prefix: prefix, Namespace: ns}})
	return nil
}

func (r *recorder) HandleStatement(t export.Triple) error {
	r.events = append(r.events, event{statement: &t})
	return nil
}

func (r *recorder) End() error { r.ended = true; return nil }

func (r *recorder) statements() []export.Triple {
	var out []export.Triple
	for _, e := range r.events {
		if e.statement != nil {
			out = append(out, *e.statement)
		}
	}
	return out
}

func (r *recorder) bindings() []export.Binding {
	var out []export.Binding
	for _, e := range r.events {
		if e.binding != nil {
			out = append(out, *e.binding)
		}
	}
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }

func testutilValue(c prometheus.Collector) float64 { return testutil.ToFloat64(c) }
