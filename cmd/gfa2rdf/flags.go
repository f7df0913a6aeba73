package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/c360studio/gfa2rdf/config"
)

// flags holds the persistent command-line settings. Only flags the user set
// override the loaded configuration.
type flags struct {
	configPath      string
	base            string
	short           bool
	extra           bool
	format          string
	compression     string
	logLevel        string
	logFormat       string
	lengthStore     string
	lengthStorePath string
	natsURL         string
	natsSubject     string
	metricsTextfile string
}

func (f *flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVarP(&f.base, "base", "b", "", "Base IRI for node and path IRIs (default http://example.org/vg/)")
	pf.BoolVarP(&f.short, "short", "s", false, "Compressed output: short prefixes, inferable triples omitted")
	pf.BoolVarP(&f.extra, "extra", "e", false, "Add FALDO begin/end positions to path steps")
	pf.StringVarP(&f.format, "rdf-format", "f", "", "Output format name or MIME type (turtle, ntriples, jsonld)")
	pf.StringVar(&f.compression, "compression", "", "Output compression (auto, none, gzip, zstd)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", "", "Log format (auto, text, json)")
	pf.StringVar(&f.lengthStore, "length-store", "", "Segment length store for --extra (memory, badger)")
	pf.StringVar(&f.lengthStorePath, "length-store-path", "", "Badger directory (default: temporary)")
	pf.StringVar(&f.natsURL, "nats-url", "", "Also publish output to this NATS server")
	pf.StringVar(&f.natsSubject, "nats-subject", "", "NATS subject for published output")
	pf.StringVar(&f.metricsTextfile, "metrics-textfile", "", "Write run metrics to this file in textfile collector format")
}

// apply overrides cfg with every flag the user set on cmd.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("base") {
		cfg.BaseIRI = f.base
	}
	if set("short") {
		cfg.Compressed = f.short
	}
	if set("extra") {
		cfg.Extended = f.extra
	}
	if set("rdf-format") {
		cfg.Format = f.format
	}
	if set("compression") {
		cfg.Output.Compression = f.compression
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if set("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if set("length-store") {
		cfg.LengthStore.Backend = f.lengthStore
	}
	if set("length-store-path") {
		cfg.LengthStore.Path = f.lengthStorePath
	}
	if set("nats-url") {
		cfg.NATS.URL = f.natsURL
	}
	if set("nats-subject") {
		cfg.NATS.Subject = f.natsSubject
	}
	if set("metrics-textfile") {
		cfg.Metrics.Textfile = f.metricsTextfile
	}
}

// loadConfig resolves the layered configuration and applies the flags.
func loadConfig(cmd *cobra.Command, f *flags, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.NewLoader(logger).Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	f.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bootstrapLogger is used while the configuration itself is loaded.
func bootstrapLogger(f *flags) (*slog.Logger, error) {
	cfg := config.DefaultConfig()
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	return newLogger(os.Stderr, cfg.LogLevel(), cfg.Log.Format)
}

// newLogger builds the slog logger. "auto" picks text on a terminal and
// JSON otherwise.
func newLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", "auto":
		if isTerminal(w) {
			return slog.New(slog.NewTextHandler(w, opts)), nil
		}
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	fh, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(fh.Fd()) || isatty.IsCygwinTerminal(fh.Fd())
}
