package transcode

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/c360studio/gfa2rdf/export"
	"github.com/c360studio/gfa2rdf/gfa"
	"github.com/c360studio/gfa2rdf/vocabulary/faldo"
	"github.com/c360studio/gfa2rdf/vocabulary/rdf"
	"github.com/c360studio/gfa2rdf/vocabulary/vg"
)

// linkPredicates is indexed by [from reverse][to reverse].
var linkPredicates = [2][2]string{
	{vg.LinksForwardToForward, vg.LinksForwardToReverse},
	{vg.LinksReverseToForward, vg.LinksReverseToReverse},
}

// LinkPredicate returns the directed link predicate for a pair of strands.
func LinkPredicate(from, to gfa.Orientation) string {
	return linkPredicates[strand(from)][strand(to)]
}

func strand(o gfa.Orientation) int {
	if o.IsReverse() {
		return 1
	}
	return 0
}

func (e *Engine) nodeIRI(id string) string { return e.nodeNS + id }

func (e *Engine) segment(out *sink, seg gfa.Segment) error {
	node := e.nodeIRI(seg.ID)
	if err := out.statement(node, rdf.Type, export.IRI(vg.Node)); err != nil {
		return err
	}
	if seg.HasSequence() {
		if err := out.statement(node, rdf.Value, export.StringLiteral(seg.Sequence)); err != nil {
			return err
		}
	}
	if !e.opts.Extended {
		return nil
	}
	length, ok := seg.Length()
	if !ok {
		e.logger.Debug("Segment has no known length", slog.String("segment", seg.ID))
		return nil
	}
	if err := e.store.Record(seg.ID, length); err != nil {
		return fmt.Errorf("record length of segment %s: %w", seg.ID, err)
	}
	return nil
}

func (e *Engine) link(out *sink, l gfa.Link) error {
	return out.statement(e.nodeIRI(l.From), LinkPredicate(l.FromOrient, l.ToOrient), export.IRI(e.nodeIRI(l.To)))
}

// PathIRI resolves a path name. Names that already are http, https or ftp
// IRIs are used verbatim; derived reports whether base was prepended.
func PathIRI(base, name string) (iri string, derived bool) {
	for _, scheme := range []string{"http://", "https://", "ftp://"} {
		if strings.HasPrefix(name, scheme) {
			return name, false
		}
	}
	return base + "path/" + name, true
}

// unnamedPathPrefix starts the name given to a path record with an empty
// name field. The counter alone could collide with a path named by a number.
const unnamedPathPrefix = "_unnamed"

// path emits one path and its steps. The returned counter is the one to
// pass for the next path.
func (e *Engine) path(out *sink, p gfa.Path, counter int) (int, error) {
	name := p.Name
	if name == "" {
		name = unnamedPathPrefix + strconv.Itoa(counter)
		e.logger.Warn("Path without a name", slog.String("assigned", name))
	}
	pathIRI, derived := PathIRI(e.opts.BaseIRI, name)
	ns := export.NewPathNamespaces(pathIRI)
	suffix := e.profile.PathSuffix(name, derived, counter)

	scope, err := out.openScope(e.profile.PathBindings(ns, suffix, e.opts.Extended))
	if err != nil {
		return counter, err
	}
	defer scope.Close()

	if err := out.statement(pathIRI, rdf.Type, export.IRI(vg.Path)); err != nil {
		return counter, err
	}

	cursor := int64(1)
	var steps int64
	for step, err := range p.Steps() {
		if err != nil {
			return counter, fmt.Errorf("path %s: %w", name, err)
		}
		cursor, err = e.step(out, ns, step, cursor)
		if err != nil {
			return counter, fmt.Errorf("path %s step %d: %w", name, step.Rank, err)
		}
		steps++
	}
	out.stats.Steps += steps
	e.metrics.Path(steps)
	e.logger.Debug("Path transcoded", slog.String("path", name), slog.Int64("steps", steps))
	return counter + 1, nil
}

// step emits one step and returns the cursor for the next one.
func (e *Engine) step(out *sink, ns export.PathNamespaces, st gfa.Step, cursor int64) (int64, error) {
	var length int64
	if e.opts.Extended {
		// Resolve before writing so a missing segment leaves no partial step.
		n, err := e.store.Lookup(st.NodeID)
		if err != nil {
			return cursor, err
		}
		length = n
	}

	stepIRI := ns.Step + strconv.FormatInt(st.Rank, 10)
	if !e.profile.OmitInferable {
		if err := out.statement(stepIRI, rdf.Type, export.IRI(vg.Step)); err != nil {
			return cursor, err
		}
		if err := out.statement(stepIRI, rdf.Type, export.IRI(faldo.Region)); err != nil {
			return cursor, err
		}
	}
	if err := out.statement(stepIRI, vg.PathProp, export.IRI(ns.Path)); err != nil {
		return cursor, err
	}
	if err := out.statement(stepIRI, vg.Rank, export.IntLiteral(st.Rank)); err != nil {
		return cursor, err
	}
	if err := out.statement(stepIRI, vg.NodeProp, export.IRI(e.nodeIRI(st.NodeID))); err != nil {
		return cursor, err
	}
	if !e.opts.Extended {
		return cursor, nil
	}

	end := cursor + length
	beginIRI := ns.Position + strconv.FormatInt(cursor, 10)
	endIRI := ns.Position + strconv.FormatInt(end, 10)
	if err := out.statement(stepIRI, faldo.Begin, export.IRI(beginIRI)); err != nil {
		return cursor, err
	}
	if err := out.statement(stepIRI, faldo.End, export.IRI(endIRI)); err != nil {
		return cursor, err
	}
	if err := e.position(out, beginIRI, cursor); err != nil {
		return cursor, err
	}
	if err := e.position(out, endIRI, end); err != nil {
		return cursor, err
	}
	return end, nil
}

func (e *Engine) position(out *sink, iri string, at int64) error {
	if !e.profile.OmitInferable {
		if err := out.statement(iri, rdf.Type, export.IRI(faldo.Position)); err != nil {
			return err
		}
	}
	if err := out.statement(iri, rdf.Type, export.IRI(faldo.ExactPosition)); err != nil {
		return err
	}
	return out.statement(iri, faldo.PositionProp, export.IntLiteral(at))
}
