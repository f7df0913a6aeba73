package transcode_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	knakk "github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/gfa2rdf/export"
	"github.com/c360studio/gfa2rdf/gfa"
	"github.com/c360studio/gfa2rdf/metrics"
	"github.com/c360studio/gfa2rdf/storage"
	"github.com/c360studio/gfa2rdf/transcode"
)

const smallGraph = "H\tVN:Z:1.0\n" +
	"S\t1\tACGTACGT\n" +
	"S\t2\tA\n" +
	"L\t1\t+\t2\t+\t0M\n" +
	"P\tx\t1+,2+\t*\n"

const (
	rdfType   = "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>"
	rdfValue  = "<http://www.w3.org/1999/02/22-rdf-syntax-ns#value>"
	vgNode    = "<http://biohackathon.org/resource/vg#Node>"
	vgFF      = "<http://biohackathon.org/resource/vg#linksForwardToForward>"
	faldoBeg  = "<http://biohackathon.org/resource/faldo#begin>"
	faldoEnd  = "<http://biohackathon.org/resource/faldo#end>"
	faldoPos  = "<http://biohackathon.org/resource/faldo#position>"
	xsdInt    = "<http://www.w3.org/2001/XMLSchema#int>"
	node1     = "<http://example.org/vg/node/1>"
	node2     = "<http://example.org/vg/node/2>"
	pathXStep = "http://example.org/vg/path/x/step/"
	pathXPos  = "http://example.org/vg/path/x/position/"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// convert runs the engine over input and returns the serialized output.
func convert(t *testing.T, input string, opts transcode.Options, format export.Format) (string, transcode.Stats) {
	t.Helper()
	var buf bytes.Buffer
	w, err := export.NewEmitter(format, &buf, opts.Profile)
	require.NoError(t, err)
	store := storage.NewMemoryStore()
	defer store.Close()

	engine, err := transcode.New(opts, w, store, transcode.WithLogger(quietLogger()))
	require.NoError(t, err)
	stats, err := engine.Run(context.Background(), gfa.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	return buf.String(), stats
}

func parse(t *testing.T, doc string, format knakk.Format) map[string]bool {
	t.Helper()
	triples, err := knakk.NewTripleDecoder(strings.NewReader(doc), format).DecodeAll()
	require.NoError(t, err, "output must parse:\n%s", doc)
	set := make(map[string]bool, len(triples))
	for _, tr := range triples {
		set[strings.TrimSpace(tr.Serialize(knakk.NTriples))] = true
	}
	return set
}

func TestConcreteScenarioExtended(t *testing.T) {
	out, stats := convert(t, smallGraph, transcode.Options{Extended: true}, export.FormatNTriples)

	want := []string{
		node1 + " " + rdfType + " " + vgNode + " .",
		node1 + " " + rdfValue + ` "ACGTACGT" .`,
		node1 + " " + vgFF + " " + node2 + " .",
		"<" + pathXStep + "0> " + faldoBeg + " <" + pathXPos + "1> .",
		"<" + pathXStep + "0> " + faldoEnd + " <" + pathXPos + "9> .",
		"<" + pathXStep + "1> " + faldoBeg + " <" + pathXPos + "9> .",
		"<" + pathXStep + "1> " + faldoEnd + " <" + pathXPos + "10> .",
		"<" + pathXPos + "10> " + faldoPos + ` "10"^^` + xsdInt + " .",
	}
	for _, line := range want {
		assert.Contains(t, out, line+"\n")
	}

	assert.Equal(t, int64(5), stats.Records)
	assert.Equal(t, int64(2), stats.Segments)
	assert.Equal(t, int64(1), stats.Links)
	assert.Equal(t, int64(1), stats.Paths)
	assert.Equal(t, int64(2), stats.Steps)
	assert.Equal(t, int64(1), stats.Ignored)
	assert.Equal(t, int64(strings.Count(out, "\n")), stats.Triples)
	parse(t, out, knakk.NTriples)
}

func TestUnknownSegmentAbortsRun(t *testing.T) {
	input := "S\t1\tACGT\n" +
		"P\tx\t1+,3+\t*\n" +
		"S\t3\tA\n"

	rec := &recorder{}
	store := storage.NewMemoryStore()
	engine, err := transcode.New(transcode.Options{Extended: true}, rec, store, transcode.WithLogger(quietLogger()))
	require.NoError(t, err)

	stats, err := engine.Run(context.Background(), gfa.NewReader(strings.NewReader(input)))
	require.ErrorIs(t, err, storage.ErrUnknownSegment)

	var recErr *transcode.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Line)
	assert.Equal(t, gfa.CodePath, recErr.Kind)
	assert.Contains(t, err.Error(), "path x step 1")

	assert.False(t, rec.ended, "a failed run is not terminated")
	for _, st := range rec.statements() {
		assert.NotEqual(t, pathXStep+"1", st.Subject.Value, "no triples for the failing step")
	}
	assert.Equal(t, int64(2), stats.Records)
}

func TestLinkPredicateTable(t *testing.T) {
	tests := []struct {
		from, to gfa.Orientation
		want     string
	}{
		{gfa.Forward, gfa.Forward, "linksForwardToForward"},
		{gfa.Forward, gfa.Reverse, "linksForwardToReverse"},
		{gfa.Reverse, gfa.Forward, "linksReverseToForward"},
		{gfa.Reverse, gfa.Reverse, "linksReverseToReverse"},
	}

	for _, tc := range tests {
		t.Run(tc.from.String()+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, "http://biohackathon.org/resource/vg#"+tc.want, transcode.LinkPredicate(tc.from, tc.to))
			// Swapping ids does not change the predicate.
			input := "L\t9\t" + tc.from.String() + "\t3\t" + tc.to.String() + "\t*\n" +
				"L\t3\t" + tc.from.String() + "\t9\t" + tc.to.String() + "\t*\n"
			out, _ := convert(t, input, transcode.Options{}, export.FormatNTriples)
			assert.Equal(t, 2, strings.Count(out, "#"+tc.want+">"))
		})
	}
}

func TestPositionsAreContiguous(t *testing.T) {
	input := "S\t1\tACGTACGT\n" +
		"S\tchrA\tAC\n" +
		"S\t007\tACGTA\n" +
		"S\t5\t*\tLN:i:100\n" +
		"P\tp\t1+,chrA-,7+,1-,5+,1+\t*\n"

	rec := &recorder{}
	store := storage.NewMemoryStore()
	engine, err := transcode.New(transcode.Options{Extended: true}, rec, store, transcode.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), gfa.NewReader(strings.NewReader(input)))
	require.NoError(t, err)

	begins := map[string]string{}
	ends := map[string]string{}
	for _, st := range rec.statements() {
		switch st.Predicate.Value {
		case "http://biohackathon.org/resource/faldo#begin":
			begins[st.Subject.Value] = st.Object.Value
		case "http://biohackathon.org/resource/faldo#end":
			ends[st.Subject.Value] = st.Object.Value
		}
	}

	lengths := []int{8, 2, 5, 8, 100, 8}
	pos := 1
	stepNS := "http://example.org/vg/path/p/step/"
	posNS := "http://example.org/vg/path/p/position/"
	for i, n := range lengths {
		step := stepNS + itoa(i)
		assert.Equal(t, posNS+itoa(pos), begins[step], "begin of step %d", i)
		assert.Equal(t, posNS+itoa(pos+n), ends[step], "end of step %d", i)
		pos += n
	}
}

func TestDuplicateSegmentFirstLengthWins(t *testing.T) {
	input := "S\t1\tACGT\nS\t1\tA\nP\tx\t1+\t*\n"
	out, stats := convert(t, input, transcode.Options{Extended: true}, export.FormatNTriples)
	assert.Contains(t, out, "<"+pathXStep+"0> "+faldoEnd+" <"+pathXPos+"5> .\n")
	assert.Equal(t, int64(2), stats.Segments)
}

func TestSegmentWithoutSequence(t *testing.T) {
	out, _ := convert(t, "S\t1\t*\n", transcode.Options{Extended: true}, export.FormatNTriples)
	assert.Contains(t, out, node1+" "+rdfType+" "+vgNode+" .\n")
	assert.NotContains(t, out, rdfValue)
}

func TestNoPositionsWithoutExtendedMode(t *testing.T) {
	out, _ := convert(t, "P\tx\t1+,2-\t*\n", transcode.Options{}, export.FormatNTriples)
	assert.NotContains(t, out, faldoBeg)
	assert.Contains(t, out, "<"+pathXStep+"1> <http://biohackathon.org/resource/vg#node> "+node2+" .\n")
}

func TestAbsolutePathName(t *testing.T) {
	out, _ := convert(t, "P\thttps://ex.org/p/1\t1+\t*\n", transcode.Options{}, export.FormatNTriples)
	assert.Contains(t, out, "<https://ex.org/p/1> "+rdfType+" <http://biohackathon.org/resource/vg#Path> .\n")
	assert.Contains(t, out, "<https://ex.org/p/1/step/0> <http://biohackathon.org/resource/vg#path> <https://ex.org/p/1> .\n")
}

func TestUnnamedPathDoesNotCollide(t *testing.T) {
	out, stats := convert(t, "S\t1\tA\nP\t\t1+\t*\nP\t0\t1+\t*\n", transcode.Options{}, export.FormatNTriples)
	assert.Equal(t, int64(2), stats.Paths)
	assert.Contains(t, out, "<http://example.org/vg/path/_unnamed0> "+rdfType+" <http://biohackathon.org/resource/vg#Path> .\n")
	assert.Contains(t, out, "<http://example.org/vg/path/0> "+rdfType+" <http://biohackathon.org/resource/vg#Path> .\n")
	assert.Contains(t, out, "<http://example.org/vg/path/_unnamed0/step/0> <http://biohackathon.org/resource/vg#path> <http://example.org/vg/path/_unnamed0> .\n")
}

func TestUnnamedPathTurtlePrefix(t *testing.T) {
	out, _ := convert(t, "S\t1\tA\nP\t\t1+\t*\n", transcode.Options{}, export.FormatTurtle)
	assert.Contains(t, out, "@prefix path_unnamed0: <http://example.org/vg/path/_unnamed0> .")
	parse(t, out, knakk.Turtle)
}

func TestPathIRI(t *testing.T) {
	tests := []struct {
		name        string
		wantIRI     string
		wantDerived bool
	}{
		{"x", "http://b/path/x", true},
		{"http://a/p", "http://a/p", false},
		{"https://a/p", "https://a/p", false},
		{"ftp://a/p", "ftp://a/p", false},
		{"urn:p", "http://b/path/urn:p", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			iri, derived := transcode.PathIRI("http://b/", tc.name)
			assert.Equal(t, tc.wantIRI, iri)
			assert.Equal(t, tc.wantDerived, derived)
		})
	}
}

func TestMalformedBaseIRI(t *testing.T) {
	for _, base := range []string{"relative/path/", "http://ex.org/a b/", "http://ex.org/<x>/"} {
		t.Run(base, func(t *testing.T) {
			rec := &recorder{}
			_, err := transcode.New(transcode.Options{BaseIRI: base}, rec, storage.NewMemoryStore())
			require.ErrorIs(t, err, transcode.ErrMalformedBaseIRI)
			assert.False(t, rec.started, "nothing is written")
		})
	}
	require.NoError(t, transcode.ValidateBaseIRI("urn:example:vg:"))
}

func TestExtendedModeNeedsStore(t *testing.T) {
	_, err := transcode.New(transcode.Options{Extended: true}, &recorder{}, nil)
	assert.Error(t, err)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine, err := transcode.New(transcode.Options{}, &recorder{}, nil, transcode.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = engine.Run(ctx, gfa.NewReader(strings.NewReader(smallGraph)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMalformedRecordCarriesLine(t *testing.T) {
	engine, err := transcode.New(transcode.Options{}, &recorder{}, nil, transcode.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), gfa.NewReader(strings.NewReader("S\t1\tA\nL\t1\t+\n")))
	require.ErrorIs(t, err, gfa.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 2")
}

func TestMetricsAreCounted(t *testing.T) {
	m := metrics.New()
	rec := &recorder{}
	engine, err := transcode.New(transcode.Options{Extended: true}, rec, storage.NewMemoryStore(),
		transcode.WithLogger(quietLogger()), transcode.WithMetrics(m))
	require.NoError(t, err)
	stats, err := engine.Run(context.Background(), gfa.NewReader(strings.NewReader(smallGraph)))
	require.NoError(t, err)

	assert.Equal(t, float64(stats.Triples), testutilValue(m.Triples))
	assert.Equal(t, float64(stats.Namespaces), testutilValue(m.Namespaces))
	assert.Equal(t, 2.0, testutilValue(m.Steps))
	assert.Equal(t, 2.0, testutilValue(m.Records.WithLabelValues("S")))
}
