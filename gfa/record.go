// Package gfa reads GFA1 graph files as a stream of typed records.
//
// Only the record kinds needed to describe a variation graph are decoded:
// header (H), segment (S), link (L) and path (P). Every other line is
// returned as Other so callers can count or ignore it.
package gfa

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Record codes.
const (
	CodeHeader  byte = 'H'
	CodeSegment byte = 'S'
	CodeLink    byte = 'L'
	CodePath    byte = 'P'
	CodeComment byte = '#'
)

// ErrMalformedRecord is returned when an S, L or P line lacks the fields
// needed to describe it.
var ErrMalformedRecord = errors.New("malformed record")

// Record is one classified GFA line.
type Record interface {
	Code() byte
}

// Orientation is the strand of a segment reference.
type Orientation byte

// Orientations as written in GFA1.
const (
	Forward Orientation = '+'
	Reverse Orientation = '-'
)

// ParseOrientation parses "+" or "-".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	default:
		return 0, fmt.Errorf("%w: invalid orientation %q", ErrMalformedRecord, s)
	}
}

// IsReverse reports whether o refers to the reverse complement strand.
func (o Orientation) IsReverse() bool { return o == Reverse }

func (o Orientation) String() string { return string(rune(o)) }

// Header is an H line. Its tags are kept verbatim.
type Header struct {
	Tags []string
}

// Code implements Record.
func (Header) Code() byte { return CodeHeader }

// Segment is an S line.
type Segment struct {
	ID       string
	Sequence string
	Tags     []string
}

// Code implements Record.
func (Segment) Code() byte { return CodeSegment }

// HasSequence reports whether the segment carries its sequence inline.
// GFA1 writes "*" when the sequence is stored elsewhere.
func (s Segment) HasSequence() bool { return s.Sequence != "*" }

// Length returns the sequence length. For a "*" sequence it falls back to
// the LN:i tag, and ok is false when neither is available.
func (s Segment) Length() (length int64, ok bool) {
	if s.HasSequence() {
		return int64(len(s.Sequence)), true
	}
	return intTag(s.Tags, "LN")
}

// Link is an L line.
type Link struct {
	From       string
	FromOrient Orientation
	To         string
	ToOrient   Orientation
	Overlap    string
}

// Code implements Record.
func (Link) Code() byte { return CodeLink }

// Path is a P line. Steps are decoded lazily from the segment name list.
type Path struct {
	Name     string
	Overlaps string

	segments string
}

// Code implements Record.
func (Path) Code() byte { return CodePath }

// NewPath builds a path from its name and comma separated, oriented segment
// names, e.g. "1+,3-,5+".
func NewPath(name, segments string) Path {
	return Path{Name: name, segments: segments}
}

// Step is one oriented segment reference in a path.
type Step struct {
	NodeID string
	Orient Orientation
	// Rank is the 0-based ordinal of the step within its path.
	Rank int64
}

// Steps yields the path's steps in file order. Iteration stops after the
// first malformed step, which is yielded with its error.
func (p Path) Steps() iter.Seq2[Step, error] {
	return func(yield func(Step, error) bool) {
		rest := p.segments
		if rest == "" || rest == "*" {
			return
		}
		var rank int64
		for {
			elem, tail, more := strings.Cut(rest, ",")
			step, err := parseStep(elem, rank)
			if !yield(step, err) || err != nil {
				return
			}
			if !more {
				return
			}
			rest = tail
			rank++
		}
	}
}

func parseStep(elem string, rank int64) (Step, error) {
	if len(elem) < 2 {
		return Step{}, fmt.Errorf("%w: invalid path step %q", ErrMalformedRecord, elem)
	}
	orient, err := ParseOrientation(elem[len(elem)-1:])
	if err != nil {
		return Step{}, err
	}
	return Step{NodeID: elem[:len(elem)-1], Orient: orient, Rank: rank}, nil
}

// Other is any line whose kind the transcoder does not interpret,
// including comments and GFA1.1 walks.
type Other struct {
	Kind byte
}

// Code implements Record.
func (o Other) Code() byte { return o.Kind }

// intTag finds a NAME:i:VALUE optional field.
func intTag(tags []string, name string) (int64, bool) {
	prefix := name + ":i:"
	for _, tag := range tags {
		if v, ok := strings.CutPrefix(tag, prefix); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}
