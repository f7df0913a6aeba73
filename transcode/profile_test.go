package transcode_test

import (
	"context"
	"strings"
	"testing"

	knakk "github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/gfa2rdf/export"
	"github.com/c360studio/gfa2rdf/gfa"
	"github.com/c360studio/gfa2rdf/storage"
	"github.com/c360studio/gfa2rdf/transcode"
)

const twoPaths = "H\tVN:Z:1.0\n" +
	"S\t1\tACGTACGT\n" +
	"S\t2\tA\n" +
	"S\ts3\tGGC\n" +
	"L\t1\t+\t2\t-\t0M\n" +
	"L\t2\t-\ts3\t+\t0M\n" +
	"P\tx\t1+,2-,s3+\t*\n" +
	"P\tchr1.alt\ts3-,1+\t*\n" +
	"P\thttp://ex.org/paths/z\t2+\t*\n"

func TestTurtleRoundTrip(t *testing.T) {
	for _, profile := range []export.Profile{export.ProfileExplicit, export.ProfileCompressed} {
		for _, extended := range []bool{false, true} {
			name := string(profile)
			if extended {
				name += "-extended"
			}
			t.Run(name, func(t *testing.T) {
				opts := transcode.Options{Profile: profile, Extended: extended}
				ttl, _ := convert(t, twoPaths, opts, export.FormatTurtle)
				nt, _ := convert(t, twoPaths, opts, export.FormatNTriples)
				assert.Len(t, parse(t, ttl, knakk.Turtle), len(parse(t, nt, knakk.NTriples)),
					"every statement survives the round trip")
			})
		}
	}
}

func TestAllFormatsAgree(t *testing.T) {
	opts := transcode.Options{Extended: true}
	nt, _ := convert(t, twoPaths, opts, export.FormatNTriples)
	ttl, _ := convert(t, twoPaths, opts, export.FormatTurtle)

	fromNT := parse(t, nt, knakk.NTriples)
	fromTTL := parse(t, ttl, knakk.Turtle)
	require.Equal(t, len(fromNT), len(fromTTL))
	for triple := range fromNT {
		if strings.Contains(triple, "XMLSchema#int>") {
			// Turtle writes ints as bare integers.
			continue
		}
		assert.True(t, fromTTL[triple], "missing from turtle: %s", triple)
	}
}

func TestCompressedIsExplicitMinusInferable(t *testing.T) {
	for _, extended := range []bool{false, true} {
		opts := transcode.Options{Extended: extended}
		explicitTTL, _ := convert(t, twoPaths, opts, export.FormatTurtle)
		opts.Profile = export.ProfileCompressed
		compressedTTL, _ := convert(t, twoPaths, opts, export.FormatTurtle)

		explicit := parse(t, explicitTTL, knakk.Turtle)
		compressed := parse(t, compressedTTL, knakk.Turtle)

		// Put back what the compressed profile leaves out.
		const (
			rdfTypeIRI = "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>"
			vgPath     = "<http://biohackathon.org/resource/vg#path>"
			exactPos   = "<http://biohackathon.org/resource/faldo#ExactPosition>"
		)
		restored := make(map[string]bool, len(explicit))
		for triple := range compressed {
			restored[triple] = true
			fields := strings.SplitN(triple, " ", 3)
			subject := fields[0]
			switch {
			case fields[1] == vgPath:
				restored[subject+" "+rdfTypeIRI+" <http://biohackathon.org/resource/vg#Step> ."] = true
				restored[subject+" "+rdfTypeIRI+" <http://biohackathon.org/resource/faldo#Region> ."] = true
			case fields[1] == rdfTypeIRI && strings.HasPrefix(fields[2], exactPos):
				restored[subject+" "+rdfTypeIRI+" <http://biohackathon.org/resource/faldo#Position> ."] = true
			}
		}
		assert.Equal(t, explicit, restored, "extended=%v", extended)
		if extended {
			// On a small graph without positions the compressed prefix
			// header outweighs the shorter statements.
			assert.Less(t, len(compressedTTL), len(explicitTTL))
		}
	}
}

func TestPathScopedBindingsAreRetracted(t *testing.T) {
	rec := &recorder{}
	cw := export.NewCanonicalWriter(rec)
	engine, err := transcode.New(transcode.Options{Extended: true}, cw, storage.NewMemoryStore(),
		transcode.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), gfa.NewReader(strings.NewReader(twoPaths)))
	require.NoError(t, err)

	fixed := export.GetProfileConfig(export.ProfileExplicit).FixedBindings("http://example.org/vg/node/")
	assert.Equal(t, len(fixed), cw.Bindings(), "only run-wide bindings stay live")

	// A step IRI of the finished path x no longer abbreviates.
	assert.Equal(t, export.IRI(pathXStep+"0"), cw.Abbreviate(pathXStep+"0"))

	// Every IRI under path x was abbreviated with path x's own prefixes.
	live := map[string]string{}
	for _, ev := range rec.events {
		if ev.binding != nil {
			live[ev.binding.Prefix] = ev.binding.Namespace
			continue
		}
		for _, term := range []export.Term{ev.statement.Subject, ev.statement.Object} {
			if term.Kind != export.TermPrefixedName {
				continue
			}
			expanded := live[term.Prefix] + term.Value
			if strings.HasPrefix(expanded, "http://example.org/vg/path/x/") {
				assert.Contains(t, []string{"pathx", "pathstepx", "pathpositionx"}, term.Prefix)
			}
		}
	}
}

func TestExplicitPathPrefixes(t *testing.T) {
	rec := &recorder{}
	engine, err := transcode.New(transcode.Options{Extended: true}, rec, storage.NewMemoryStore(),
		transcode.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), gfa.NewReader(strings.NewReader(twoPaths)))
	require.NoError(t, err)

	prefixes := map[string]string{}
	for _, b := range rec.bindings() {
		prefixes[b.Prefix] = b.Namespace
	}
	assert.Equal(t, "http://example.org/vg/path/x", prefixes["pathx"])
	assert.Equal(t, "http://example.org/vg/path/x/step/", prefixes["pathstepx"])
	// Names that are not plain tokens fall back to the path counter.
	assert.Equal(t, "http://example.org/vg/path/chr1.alt/step/", prefixes["pathstep1"])
	assert.Equal(t, "http://ex.org/paths/z/position/", prefixes["pathposition2"])
}

func TestCompressedPathPrefixes(t *testing.T) {
	rec := &recorder{}
	engine, err := transcode.New(transcode.Options{Profile: export.ProfileCompressed}, rec, nil,
		transcode.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), gfa.NewReader(strings.NewReader(twoPaths)))
	require.NoError(t, err)

	var pathPrefixes []string
	for _, b := range rec.bindings() {
		if strings.Contains(b.Namespace, "/path") {
			pathPrefixes = append(pathPrefixes, b.Prefix)
		}
	}
	// Two bindings per path without positions.
	assert.Equal(t, []string{"pn", "ps", "pn", "ps", "pn", "ps"}, pathPrefixes)

	for _, st := range rec.statements() {
		assert.NotEqual(t, "http://biohackathon.org/resource/vg#Step", st.Object.Value)
	}
}
