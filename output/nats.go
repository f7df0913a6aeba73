package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
)

// Headers set on published chunks.
const (
	HeaderSeq = "Gfa2rdf-Seq"
	HeaderEOF = "Gfa2rdf-Eof"
	HeaderRun = "Gfa2rdf-Run"
	// HeaderError replaces HeaderEOF on the final message of a failed run.
	HeaderError = "Gfa2rdf-Error"
)

// ErrWriterClosed is returned by Write after Close.
var ErrWriterClosed = errors.New("nats writer closed")

// Publisher is the part of *nats.Conn the writer needs.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
	Flush() error
}

// ErrorCloser is a sink that can record that the stream it carries ended
// early.
type ErrorCloser interface {
	CloseWithError(err error) error
}

// CloseSink closes c. A non-nil runErr is passed to sinks implementing
// ErrorCloser.
func CloseSink(c io.Closer, runErr error) error {
	if ec, ok := c.(ErrorCloser); ok && runErr != nil {
		return ec.CloseWithError(runErr)
	}
	return c.Close()
}

// Connect dials a NATS server for publishing output.
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return conn, nil
}

// NATSWriter publishes a byte stream as newline-aligned chunks. Every
// message carries a sequence number; Close sends a final empty message
// marked end-of-stream so subscribers know the document is complete.
// CloseWithError marks that message with the failure instead.
type NATSWriter struct {
	pub       Publisher
	subject   string
	runID     string
	chunkSize int

	buf    bytes.Buffer
	seq    int
	closed bool
}

// NewNATSWriter creates a writer publishing to subject in chunks of at most
// chunkSize bytes. A line longer than chunkSize is split.
func NewNATSWriter(pub Publisher, subject, runID string, chunkSize int) *NATSWriter {
	if chunkSize <= 0 {
		chunkSize = 512 * 1024
	}
	return &NATSWriter{pub: pub, subject: subject, runID: runID, chunkSize: chunkSize}
}

// Write buffers p and publishes every full chunk.
func (w *NATSWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	w.buf.Write(p)
	for w.buf.Len() >= w.chunkSize {
		if err := w.publishChunk(); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// publishChunk sends the longest newline-terminated prefix of the buffer
// that fits in a chunk.
func (w *NATSWriter) publishChunk() error {
	window := w.buf.Bytes()[:w.chunkSize]
	n := bytes.LastIndexByte(window, '\n') + 1
	if n == 0 {
		n = w.chunkSize
	}
	data := make([]byte, n)
	copy(data, w.buf.Next(n))
	return w.publish(data, "", "")
}

// publish sends data. A non-empty key is set as an extra header.
func (w *NATSWriter) publish(data []byte, key, value string) error {
	msg := nats.NewMsg(w.subject)
	msg.Data = data
	msg.Header.Set(HeaderSeq, strconv.Itoa(w.seq))
	if w.runID != "" {
		msg.Header.Set(HeaderRun, w.runID)
	}
	if key != "" {
		msg.Header.Set(key, value)
	}
	if err := w.pub.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish chunk %d: %w", w.seq, err)
	}
	w.seq++
	return nil
}

// Close publishes what is left, the end-of-stream marker, and flushes the
// connection.
func (w *NATSWriter) Close() error {
	return w.CloseWithError(nil)
}

// CloseWithError publishes what is left and ends the stream. When runErr is
// not nil the final message carries HeaderError with its text and no
// HeaderEOF, so subscribers can discard the partial document.
func (w *NATSWriter) CloseWithError(runErr error) error {
	if w.closed {
		return nil
	}
	w.closed = true
	for w.buf.Len() > 0 {
		if w.buf.Len() >= w.chunkSize {
			if err := w.publishChunk(); err != nil {
				return err
			}
			continue
		}
		data := make([]byte, w.buf.Len())
		copy(data, w.buf.Bytes())
		w.buf.Reset()
		if err := w.publish(data, "", ""); err != nil {
			return err
		}
	}

	key, value := HeaderEOF, "true"
	if runErr != nil {
		key, value = HeaderError, runErr.Error()
	}
	if err := w.publish(nil, key, value); err != nil {
		return err
	}
	return w.pub.Flush()
}

// Chunks returns the number of messages published so far.
func (w *NATSWriter) Chunks() int { return w.seq }
