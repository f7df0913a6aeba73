package gfa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const readBufferSize = 1 << 20

// Reader pulls records from a GFA1 stream one line at a time.
// Lines may be arbitrarily long; path lines of large pangenomes routinely
// exceed any fixed scanner buffer.
type Reader struct {
	br   *bufio.Reader
	line int
	err  error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, readBufferSize)}
}

// Line returns the 1-based number of the line last returned by Next.
func (r *Reader) Line() int { return r.line }

// Next returns the next record, or io.EOF when the stream is exhausted.
// Blank lines are skipped.
func (r *Reader) Next() (Record, error) {
	for {
		if r.err != nil {
			return nil, r.err
		}
		text, err := r.br.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.err = fmt.Errorf("read line %d: %w", r.line+1, err)
				return nil, r.err
			}
			r.err = io.EOF
			if text == "" {
				return nil, io.EOF
			}
		}
		r.line++
		text = strings.TrimRight(text, "\r\n")
		if text == "" {
			continue
		}
		rec, perr := ParseLine(text)
		if perr != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, perr)
		}
		return rec, nil
	}
}

// ParseLine classifies a single GFA1 line without its terminator.
func ParseLine(line string) (Record, error) {
	if line == "" {
		return nil, fmt.Errorf("%w: empty line", ErrMalformedRecord)
	}
	switch line[0] {
	case CodeHeader:
		fields := strings.Split(line, "\t")
		return Header{Tags: fields[1:]}, nil
	case CodeSegment:
		fields, err := split(line, 3)
		if err != nil {
			return nil, err
		}
		return Segment{ID: fields[1], Sequence: fields[2], Tags: fields[3:]}, nil
	case CodeLink:
		fields, err := split(line, 5)
		if err != nil {
			return nil, err
		}
		from, err := ParseOrientation(fields[2])
		if err != nil {
			return nil, err
		}
		to, err := ParseOrientation(fields[4])
		if err != nil {
			return nil, err
		}
		link := Link{From: fields[1], FromOrient: from, To: fields[3], ToOrient: to}
		if len(fields) > 5 {
			link.Overlap = fields[5]
		}
		return link, nil
	case CodePath:
		fields, err := split(line, 3)
		if err != nil {
			return nil, err
		}
		p := NewPath(fields[1], fields[2])
		if len(fields) > 3 {
			p.Overlaps = fields[3]
		}
		return p, nil
	default:
		return Other{Kind: line[0]}, nil
	}
}

func split(line string, minFields int) ([]string, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minFields {
		return nil, fmt.Errorf("%w: %c line needs %d fields, got %d",
			ErrMalformedRecord, line[0], minFields, len(fields))
	}
	return fields, nil
}
