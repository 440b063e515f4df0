// Package main implements mda, a command line tool running a one-shot
// aggregation pipeline: read metadata from files, directories, or URLs,
// process it, and write one assembled EntitiesDescriptor.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/dom/saml"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/config"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/httpclient"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mda",
		Short:         "SAML metadata aggregation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mda version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

type runOptions struct {
	in       []string
	out      string
	name     string
	lifetime time.Duration
	logLevel string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a one-shot aggregation pipeline",
		Long: `Run reads SAML metadata from every --in location (an XML file, a
directory of XML files, or an HTTP URL), splits aggregates into per-entity
items, drops items with error statuses, and writes one assembled
EntitiesDescriptor to --out.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPipeline(opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.in, "in", nil, "input file, directory, or URL (repeatable)")
	cmd.Flags().StringVar(&opts.out, "out", "-", "output file, or - for stdout")
	cmd.Flags().StringVar(&opts.name, "name", "", "Name attribute for the assembled EntitiesDescriptor")
	cmd.Flags().DurationVar(&opts.lifetime, "lifetime", 0, "validUntil window for the output, e.g. 336h (0 omits validUntil)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runPipeline(opts *runOptions) error {
	logger := logging.New(opts.logLevel, "text", os.Stderr)

	out, closeOut, err := openOutput(opts.out)
	if err != nil {
		return err
	}
	defer closeOut()

	stages, err := buildStages(opts, out, logger)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline("mda", stages, pipeline.WithPipelineLogger[*etree.Element](logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var items []*dom.Item
	return p.Execute(ctx, &items)
}

func buildStages(opts *runOptions, out io.Writer, logger *slog.Logger) ([]pipeline.Stage[*etree.Element], error) {
	var stages []pipeline.Stage[*etree.Element]

	var client *httpclient.Client
	for i, in := range opts.in {
		id := fmt.Sprintf("source-%d", i+1)
		if isURL(in) {
			if client == nil {
				client = httpclient.New(defaultClientConfig(), "metadata-source", nil, logger)
			}
			stage, err := dom.NewHTTPSourceStage(id, in, client)
			if err != nil {
				return nil, err
			}
			stages = append(stages, stage)
			continue
		}
		stage, err := dom.NewFilesystemSourceStage(id, in)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	ident := pipeline.FirstItemID[*etree.Element]{}
	assembleOpts := []saml.AssemblerOption{}
	if opts.name != "" {
		assembleOpts = append(assembleOpts, saml.WithDescriptorName(opts.name))
	}

	stages = append(stages,
		saml.NewDisassemblerStage("disassemble", logger),
		saml.NewItemIDPopulationStage("populate-item-ids"),
		pipeline.NewStatusLoggingStage[*etree.Element]("log-statuses", logger, ident),
		pipeline.NewMetadataFilterStage[*etree.Element]("drop-error-items", pipeline.KindErrorStatus),
		saml.NewAssemblerStage("assemble", assembleOpts...),
		saml.NewGenerateIDStage("generate-id"),
	)
	if opts.lifetime > 0 {
		stages = append(stages, saml.NewSetValidUntilStage("set-valid-until", opts.lifetime))
	}
	stages = append(stages,
		pipeline.NewSerializationStage("serialize", out,
			dom.ElementSerializer{Indent: 2, Declaration: true}),
	)
	return stages, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// defaultClientConfig returns the outbound client settings used when mda
// fetches metadata over HTTP. The CLI has no config file; these mirror the
// service's base configuration.
func defaultClientConfig() *config.ClientConfig {
	return &config.ClientConfig{
		Timeout: 60 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
}
