// Package transcode turns a stream of GFA1 records into RDF statements
// describing a variation graph.
//
// Segments become vg:Node resources, links one of four directed vg:links*
// statements, and paths a vg:Path with one vg:Step per element. In extended
// mode every step also gets a faldo begin/end position pair, computed from
// segment lengths recorded earlier in the same stream.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/c360studio/gfa2rdf/export"
	"github.com/c360studio/gfa2rdf/gfa"
	"github.com/c360studio/gfa2rdf/metrics"
	"github.com/c360studio/gfa2rdf/storage"
)

// RecordSource yields classified records until io.EOF. Sources that also
// implement Line() int get line numbers attached to record errors.
type RecordSource interface {
	Next() (gfa.Record, error)
}

type lineCounter interface {
	Line() int
}

// Stats summarizes a run.
type Stats struct {
	Records    int64
	Segments   int64
	Links      int64
	Paths      int64
	Steps      int64
	Ignored    int64
	Triples    int64
	Namespaces int64
	Duration   time.Duration
}

// RecordError reports the record a run stopped at.
type RecordError struct {
	Line int
	Kind byte
	Err  error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d (%c record): %v", e.Line, e.Kind, e.Err)
	}
	return fmt.Sprintf("%c record: %v", e.Kind, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Engine transcodes one record stream. It is not safe for concurrent use and
// should not be reused across streams: its store belongs to a single run.
type Engine struct {
	opts    Options
	profile export.ProfileConfig
	nodeNS  string

	w       export.Writer
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates an engine writing to w. store is only consulted in extended
// mode. The base IRI is validated before anything is written.
func New(opts Options, w export.Writer, store storage.Store, options ...Option) (*Engine, error) {
	if opts.BaseIRI == "" {
		opts.BaseIRI = DefaultBaseIRI
	}
	if err := ValidateBaseIRI(opts.BaseIRI); err != nil {
		return nil, err
	}
	if opts.Extended && store == nil {
		return nil, errors.New("extended mode needs a length store")
	}
	profile := export.GetProfileConfig(opts.Profile)
	opts.Profile = profile.Name

	e := &Engine{
		opts:    opts,
		profile: profile,
		nodeNS:  opts.BaseIRI + "node/",
		w:       w,
		store:   store,
		logger:  slog.Default(),
	}
	for _, o := range options {
		o(e)
	}
	return e, nil
}

// Run reads src to the end and emits its triples. On error the run stops
// without ending the document; output already written is not retracted.
func (e *Engine) Run(ctx context.Context, src RecordSource) (Stats, error) {
	start := time.Now()
	stats, err := e.run(ctx, src)
	stats.Duration = time.Since(start)
	e.metrics.ObserveRun(stats.Duration, err)

	if err != nil {
		e.logger.Error("Transcoding failed",
			slog.Int64("records", stats.Records),
			slog.Int64("triples", stats.Triples),
			slog.String("error", err.Error()))
		return stats, err
	}
	e.logger.Info("Transcoding finished",
		slog.Int64("records", stats.Records),
		slog.Int64("segments", stats.Segments),
		slog.Int64("links", stats.Links),
		slog.Int64("paths", stats.Paths),
		slog.Int64("triples", stats.Triples),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

func (e *Engine) run(ctx context.Context, src RecordSource) (Stats, error) {
	var stats Stats
	out := &sink{w: e.w, stats: &stats, metrics: e.metrics}

	if err := out.w.Start(); err != nil {
		return stats, fmt.Errorf("start output: %w", err)
	}
	if err := out.declare(e.profile.FixedBindings(e.nodeNS)); err != nil {
		return stats, fmt.Errorf("declare namespaces: %w", err)
	}

	lines, _ := src.(lineCounter)
	pathCounter := 0
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read input: %w", err)
		}
		stats.Records++
		e.metrics.Record(string(rec.Code()))

		switch r := rec.(type) {
		case gfa.Segment:
			stats.Segments++
			err = e.segment(out, r)
		case gfa.Link:
			stats.Links++
			err = e.link(out, r)
		case gfa.Path:
			stats.Paths++
			pathCounter, err = e.path(out, r, pathCounter)
		default:
			stats.Ignored++
		}
		if err != nil {
			recErr := &RecordError{Kind: rec.Code(), Err: err}
			if lines != nil {
				recErr.Line = lines.Line()
			}
			return stats, recErr
		}
	}

	if err := out.w.End(); err != nil {
		return stats, fmt.Errorf("end output: %w", err)
	}
	return stats, nil
}

// sink counts what reaches the writer.
type sink struct {
	w       export.Writer
	stats   *Stats
	metrics *metrics.Metrics
}

func (s *sink) statement(subject, predicate string, object export.Term) error {
	if err := s.w.HandleStatement(export.NewTriple(subject, predicate, object)); err != nil {
		return err
	}
	s.stats.Triples++
	s.metrics.Triple()
	return nil
}

func (s *sink) declare(bindings []export.Binding) error {
	_, err := s.openScope(bindings)
	return err
}

func (s *sink) openScope(bindings []export.Binding) (*export.Scope, error) {
	scope, err := export.OpenScope(s.w, bindings...)
	if err != nil {
		return nil, err
	}
	s.stats.Namespaces += int64(len(bindings))
	for range bindings {
		s.metrics.Namespace()
	}
	return scope, nil
}
