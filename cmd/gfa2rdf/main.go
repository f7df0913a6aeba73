// Package main provides the gfa2rdf binary entry point.
// gfa2rdf converts GFA1 variation graphs into RDF using the vg and FALDO
// vocabularies.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/gfa2rdf/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "gfa2rdf"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "gfa2rdf [flags] <input> <output>",
		Short: "Convert GFA1 graphs to RDF",
		Long: `gfa2rdf streams a GFA1 variation graph into RDF using the vg and
FALDO vocabularies.

Segments become vg:Node resources, links become vg:links* triples and
paths become vg:Path resources with ranked vg:Step members. With --extra
every step also gets FALDO begin and end positions.

Input and output may be "-" for stdin and stdout. Compressed input is
detected automatically; output ending in .gz or .zst is compressed.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppFromFlags(cmd, f)
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Convert(cmd.Context(), args[0], args[1])
			return err
		},
	}

	f.register(cmd)

	cmd.AddCommand(batchCmd(f))
	cmd.AddCommand(watchCmd(f))
	cmd.AddCommand(initConfigCmd(f))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func batchCmd(f *flags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "batch --out-dir DIR PATTERN...",
		Short: "Convert every file matching the patterns",
		Long: `Batch expands each pattern (doublestar globs such as data/**/*.gfa.gz
are supported) and converts the matching files one after another. Each
output is named after its input with the format's extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppFromFlags(cmd, f)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Batch(cmd.Context(), args, outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for converted files")
	return cmd
}

func watchCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <input> <output>",
		Short: "Convert a file and reconvert it whenever it changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppFromFlags(cmd, f)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Watch(cmd.Context(), args[0], args[1])
		},
	}
}

func initConfigCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write the default user config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := bootstrapLogger(f)
			if err != nil {
				return err
			}
			path, err := config.NewLoader(logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Config at %s\n", path)
			return nil
		},
	}
}
