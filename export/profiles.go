package export

import (
	"regexp"
	"strconv"

	"github.com/c360studio/gfa2rdf/vocabulary/faldo"
	"github.com/c360studio/gfa2rdf/vocabulary/rdf"
	"github.com/c360studio/gfa2rdf/vocabulary/vg"
)

// Profile determines output density: which prefixes are declared and which
// inferable triples are written.
type Profile string

const (
	// ProfileExplicit declares the long vocabulary prefixes once and writes
	// every triple.
	ProfileExplicit Profile = "explicit"

	// ProfileCompressed binds short prefixes to whole vocabulary terms and
	// omits type triples that can be inferred from other triples.
	ProfileCompressed Profile = "compressed"
)

// Binding is a prefix bound to a namespace IRI.
type Binding struct {
	Prefix    string
	Namespace string
}

// ProfileConfig contains configuration for an output profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// Pretty selects multi-line Turtle output.
	Pretty bool

	// OmitInferable drops the vg:Step, faldo:Region and faldo:Position type
	// triples.
	OmitInferable bool

	// NodePrefix is bound to the node namespace derived from the base IRI.
	NodePrefix string

	// PathPrefix, StepPrefix and PositionPrefix are bound for the duration
	// of one path.
	PathPrefix     string
	StepPrefix     string
	PositionPrefix string

	// SuffixPathPrefixes appends the path name or counter to the path
	// scoped prefixes.
	SuffixPathPrefixes bool

	// Vocabulary lists the bindings declared once at the start of a run.
	Vocabulary []Binding
}

// Profiles contains the configuration for all available profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileExplicit: {
		Name:               ProfileExplicit,
		Description:        "Long prefixes, every triple written",
		Pretty:             true,
		NodePrefix:         "node",
		PathPrefix:         "path",
		StepPrefix:         "pathstep",
		PositionPrefix:     "pathposition",
		SuffixPathPrefixes: true,
		Vocabulary: []Binding{
			{Prefix: rdf.Prefix, Namespace: rdf.Namespace},
			{Prefix: vg.Prefix, Namespace: vg.Namespace},
			{Prefix: faldo.Prefix, Namespace: faldo.Namespace},
		},
	},
	ProfileCompressed: {
		Name:           ProfileCompressed,
		Description:    "Short whole-term prefixes, inferable triples omitted",
		OmitInferable:  true,
		NodePrefix:     "n",
		PathPrefix:     "pn",
		StepPrefix:     "ps",
		PositionPrefix: "pp",
		Vocabulary: []Binding{
			{Prefix: "r", Namespace: rdf.Namespace},
			{Prefix: "", Namespace: vg.Namespace},
			{Prefix: "f", Namespace: faldo.Namespace},
			{Prefix: "S", Namespace: vg.Step},
			{Prefix: "N", Namespace: vg.Node},
			{Prefix: "P", Namespace: vg.Path},
			{Prefix: "v", Namespace: rdf.Value},
			{Prefix: "ff", Namespace: vg.LinksForwardToForward},
			{Prefix: "fr", Namespace: vg.LinksForwardToReverse},
			{Prefix: "rf", Namespace: vg.LinksReverseToForward},
			{Prefix: "rr", Namespace: vg.LinksReverseToReverse},
			{Prefix: "l", Namespace: vg.Links},
			{Prefix: "sp", Namespace: vg.PathProp},
			{Prefix: "sr", Namespace: vg.Rank},
			{Prefix: "sn", Namespace: vg.NodeProp},
			{Prefix: "ep", Namespace: faldo.ExactPosition},
			{Prefix: "p", Namespace: faldo.PositionProp},
			{Prefix: "b", Namespace: faldo.Begin},
			{Prefix: "e", Namespace: faldo.End},
		},
	},
}

// GetProfileConfig returns the configuration for a profile. Unknown
// profiles resolve to ProfileExplicit.
func GetProfileConfig(profile Profile) ProfileConfig {
	if cfg, ok := Profiles[profile]; ok {
		return cfg
	}
	return Profiles[ProfileExplicit]
}

// ProfileFor maps the compressed flag to a profile.
func ProfileFor(compressed bool) Profile {
	if compressed {
		return ProfileCompressed
	}
	return ProfileExplicit
}

// FixedBindings returns the bindings declared once per run.
func (c ProfileConfig) FixedBindings(nodeNamespace string) []Binding {
	out := make([]Binding, 0, len(c.Vocabulary)+1)
	out = append(out, c.Vocabulary...)
	return append(out, Binding{Prefix: c.NodePrefix, Namespace: nodeNamespace})
}

var plainPathName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// PathSuffix returns the text appended to path scoped prefixes. The path
// name is used when it is a plain token and the path IRI was derived from
// the base; otherwise the path counter keeps prefixes distinct.
func (c ProfileConfig) PathSuffix(name string, derived bool, counter int) string {
	if !c.SuffixPathPrefixes {
		return ""
	}
	if derived && plainPathName.MatchString(name) {
		return name
	}
	return strconv.Itoa(counter)
}

// PathNamespaces are the namespaces minted for one path.
type PathNamespaces struct {
	Path     string
	Step     string
	Position string
}

// NewPathNamespaces derives the step and position namespaces of pathIRI.
func NewPathNamespaces(pathIRI string) PathNamespaces {
	return PathNamespaces{
		Path:     pathIRI,
		Step:     pathIRI + "/step/",
		Position: pathIRI + "/position/",
	}
}

// PathBindings returns the bindings scoped to one path. The position
// binding is only included when positions are written.
func (c ProfileConfig) PathBindings(ns PathNamespaces, suffix string, positions bool) []Binding {
	out := []Binding{
		{Prefix: c.PathPrefix + suffix, Namespace: ns.Path},
		{Prefix: c.StepPrefix + suffix, Namespace: ns.Step},
	}
	if positions {
		out = append(out, Binding{Prefix: c.PositionPrefix + suffix, Namespace: ns.Position})
	}
	return out
}

// Declare writes each binding to w in order.
func Declare(w Writer, bindings []Binding) error {
	for _, b := range bindings {
		if err := w.HandleNamespace(b.Prefix, b.Namespace); err != nil {
			return err
		}
	}
	return nil
}

// Scope is a set of bindings that are retracted together.
type Scope struct {
	w        Writer
	bindings []Binding
}

// OpenScope declares bindings on w and returns a scope that retracts them.
func OpenScope(w Writer, bindings ...Binding) (*Scope, error) {
	if err := Declare(w, bindings); err != nil {
		return nil, err
	}
	return &Scope{w: w, bindings: bindings}, nil
}

// Close retracts the scope's bindings. Writers that do not abbreviate IRIs
// have nothing to retract.
func (s *Scope) Close() {
	if s == nil {
		return
	}
	r, ok := s.w.(NamespaceRetracter)
	if !ok {
		return
	}
	for i := len(s.bindings) - 1; i >= 0; i-- {
		r.UnsetNamespace(s.bindings[i].Namespace)
	}
	s.bindings = nil
}
