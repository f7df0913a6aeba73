// Package output provides the sinks a run writes its serialized RDF to: a
// file or stdout, optionally compressed, and a NATS subject.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Stdout is the path that selects standard output.
const Stdout = "-"

// Compression settings accepted by Create.
const (
	CompressionAuto = "auto"
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// ResolveCompression picks the codec for path. "auto" looks at the file
// extension.
func ResolveCompression(path, setting string) (string, error) {
	switch setting {
	case "", CompressionAuto:
		switch {
		case strings.HasSuffix(path, ".gz"):
			return CompressionGzip, nil
		case strings.HasSuffix(path, ".zst"):
			return CompressionZstd, nil
		default:
			return CompressionNone, nil
		}
	case CompressionNone, CompressionGzip, CompressionZstd:
		return setting, nil
	default:
		return "", fmt.Errorf("unknown compression %q", setting)
	}
}

// stackedWriter closes its layers innermost first.
type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriter) Close() error {
	var err error
	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Create opens path for writing, or stdout for "-", and wraps it in the
// configured compressor. Closing the result flushes the compressor and
// closes the file.
func Create(path, compression string) (io.WriteCloser, error) {
	codec, err := ResolveCompression(path, compression)
	if err != nil {
		return nil, err
	}

	var (
		base   io.Writer
		closer io.Closer
	)
	if path == Stdout {
		base, closer = os.Stdout, nopCloser{}
	} else {
		fh, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		base, closer = fh, fh
	}

	return Compress(base, closer, codec)
}

// Compress layers codec over w. closer is closed after the codec.
func Compress(w io.Writer, closer io.Closer, codec string) (io.WriteCloser, error) {
	switch codec {
	case CompressionGzip:
		zw := gzip.NewWriter(w)
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, closer}}, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			closer.Close()
			return nil, err
		}
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, closer}}, nil
	case CompressionNone, "":
		return &stackedWriter{Writer: w, closers: []io.Closer{closer}}, nil
	default:
		closer.Close()
		return nil, fmt.Errorf("unknown compression %q", codec)
	}
}
