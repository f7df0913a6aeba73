package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/c360studio/gfa2rdf/config"
	"github.com/c360studio/gfa2rdf/export"
	"github.com/c360studio/gfa2rdf/gfa"
	"github.com/c360studio/gfa2rdf/metrics"
	"github.com/c360studio/gfa2rdf/output"
	"github.com/c360studio/gfa2rdf/source"
	"github.com/c360studio/gfa2rdf/storage"
	"github.com/c360studio/gfa2rdf/transcode"
)

// App wires configuration, sinks and metrics around transcoding runs. Every
// run gets a fresh engine and length store.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	natsConn *nats.Conn
	// publisher is natsConn, or a stand-in set by tests.
	publisher output.Publisher
}

func newAppFromFlags(cmd *cobra.Command, f *flags) (*App, error) {
	logger, err := bootstrapLogger(f)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(cmd, f, logger)
	if err != nil {
		return nil, err
	}
	logger, err = newLogger(os.Stderr, cfg.LogLevel(), cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, logger)
}

// NewApp creates an application for cfg and connects to NATS when
// publishing is configured.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	if cfg.NATS.URL != "" {
		logger.Info("Connecting to NATS", "url", cfg.NATS.URL)
		conn, err := output.Connect(cfg.NATS.URL, appName)
		if err != nil {
			return nil, err
		}
		app.natsConn = conn
		app.publisher = conn
	}
	return app, nil
}

// Close drains the NATS connection.
func (a *App) Close() {
	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.logger.Warn("Failed to drain NATS connection", "error", err)
		}
		a.natsConn.Close()
	}
}

// Convert transcodes in to out. Either may be "-".
func (a *App) Convert(ctx context.Context, in, out string) (transcode.Stats, error) {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)
	logger.Info("Converting", "input", in, "output", out)

	format, err := a.cfg.OutputFormat()
	if err != nil {
		return transcode.Stats{}, err
	}

	src, err := source.OpenInput(in)
	if err != nil {
		return transcode.Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer src.Close()

	store, err := a.openStore(logger)
	if err != nil {
		return transcode.Stats{}, err
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close length store", "error", err)
			}
		}()
	}

	sink, err := a.openSink(out, runID)
	if err != nil {
		return transcode.Stats{}, err
	}

	stats, err := a.runEngine(ctx, logger, format, src, sink, store)
	if cerr := output.CloseSink(sink, err); cerr != nil && err == nil {
		err = fmt.Errorf("close output: %w", cerr)
	}

	if path := a.cfg.Metrics.Textfile; path != "" {
		if werr := a.metrics.WriteTextfile(path); werr != nil {
			logger.Warn("Failed to write metrics textfile", "path", path, "error", werr)
		}
	}
	return stats, err
}

func (a *App) runEngine(ctx context.Context, logger *slog.Logger, format export.Format, src io.Reader, sink io.Writer, store storage.Store) (transcode.Stats, error) {
	w, err := export.NewEmitter(format, sink, a.cfg.Profile())
	if err != nil {
		return transcode.Stats{}, err
	}
	engine, err := transcode.New(a.cfg.TranscodeOptions(), w, store,
		transcode.WithLogger(logger),
		transcode.WithMetrics(a.metrics))
	if err != nil {
		return transcode.Stats{}, err
	}
	return engine.Run(ctx, gfa.NewReader(src))
}

// openStore returns nil when positions are not written.
func (a *App) openStore(logger *slog.Logger) (storage.Store, error) {
	if !a.cfg.Extended {
		return nil, nil
	}
	switch a.cfg.LengthStore.Backend {
	case config.BackendBadger:
		store, err := storage.OpenBadger(storage.BadgerConfig{
			Path:   a.cfg.LengthStore.Path,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open length store: %w", err)
		}
		return store, nil
	default:
		return storage.NewMemoryStore(), nil
	}
}

// openSink opens the output file and, when configured, tees it to NATS.
func (a *App) openSink(out, runID string) (io.WriteCloser, error) {
	file, err := output.Create(out, a.cfg.Output.Compression)
	if err != nil {
		return nil, err
	}
	if a.publisher == nil {
		return file, nil
	}
	nw := output.NewNATSWriter(a.publisher, a.cfg.NATS.Subject, runID, a.cfg.NATS.ChunkSize)
	return &teeWriter{Writer: io.MultiWriter(file, nw), closers: []io.Closer{file, nw}}, nil
}

type teeWriter struct {
	io.Writer
	closers []io.Closer
}

func (t *teeWriter) Close() error {
	return t.CloseWithError(nil)
}

// CloseWithError closes every sink, passing runErr on to those that record
// failures.
func (t *teeWriter) CloseWithError(runErr error) error {
	var errs []error
	for _, c := range t.closers {
		if err := output.CloseSink(c, runErr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Batch converts every file matching patterns into outDir, one at a time.
func (a *App) Batch(ctx context.Context, patterns []string, outDir string) error {
	inputs, err := source.ResolveInputs(patterns)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files match %v", patterns)
	}
	format, err := a.cfg.OutputFormat()
	if err != nil {
		return err
	}
	info, _ := export.GetFormatInfo(format)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var total transcode.Stats
	for _, in := range inputs {
		out := source.OutputName(outDir, in, info.Extension)
		stats, err := a.Convert(ctx, in, out)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		total.Records += stats.Records
		total.Triples += stats.Triples
	}

	a.logger.Info("Batch complete",
		"files", len(inputs),
		"records", total.Records,
		"triples", total.Triples)
	return nil
}

// Watch converts in to out and converts again after every change to in
// until ctx is done. Failed conversions are logged and the watch goes on.
func (a *App) Watch(ctx context.Context, in, out string) error {
	if in == source.Stdin {
		return errors.New("watch needs an input file, not stdin")
	}

	watcher, err := source.NewFileWatcher(in, source.DefaultDebounce, a.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	a.convertLogged(ctx, in, out)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped")
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if ev.Operation == source.WatchOpDelete {
				a.logger.Warn("Input removed, waiting for it to return", "path", ev.Path)
				continue
			}
			a.convertLogged(ctx, in, out)
		}
	}
}

func (a *App) convertLogged(ctx context.Context, in, out string) {
	if _, err := a.Convert(ctx, in, out); err != nil && ctx.Err() == nil {
		a.logger.Error("Conversion failed", "input", in, "error", err)
	}
}
