package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labindex/internal/config"
	"github.com/matzehuels/labindex/pkg/integrations"
	"github.com/matzehuels/labindex/pkg/metrics"
	"github.com/matzehuels/labindex/pkg/observability"
	"github.com/matzehuels/labindex/pkg/pipeline"
)

// buildCommand creates the build command. It does the same as running
// labindex without a subcommand.
func (c *CLI) buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the catalog and write it to the output file",
		Long: `Build the catalog: list the organization's public repositories, apply the
allow and block lists, probe each repository's site for its metadata document
and write all normalized items, sorted by course code and title.

The output file is replaced atomically once every repository was processed.
A failed listing aborts the build without touching the output file.

Examples:
  labindex build --org acme
  labindex build --org acme --block template,sandbox -o site/data/catalog.json
  labindex --config labindex.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runBuild(cmd)
		},
	}
}

func (c *CLI) runBuild(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Metrics.Pushgateway != "" {
		m := enableMetrics(cfg)
		defer pushMetrics(ctx, m, cfg)
	}

	opts := cfg.PipelineOptions()
	opts.Logger = logger

	prog := newProgress(logger)
	result, err := c.newRunner(logger).Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("wrote %d items to %s", result.Stats.Items, result.Path))

	c.printSummary(result)
	return nil
}

// printSummary prints the build outcome to the CLI's output.
func (c *CLI) printSummary(result *pipeline.Result) {
	s := result.Stats
	printSuccess(c.Out, "Catalog for %s written", result.Catalog.Org)
	printFile(c.Out, result.Path)
	printCount(c.Out, "repos", s.Selected)
	printCount(c.Out, "with items", s.Found)
	printCount(c.Out, "items", s.Items)
	printKeyValue(c.Out, "took", s.Duration.Round(time.Millisecond).String())
	if s.FallbackFound > 0 {
		printCount(c.Out, "yaml only", s.FallbackFound)
	}
	for _, d := range result.Duplicates {
		printWarning(c.Out, "duplicate id %q in %s", d.ID, strings.Join(d.Repos, ", "))
	}
}

// enableMetrics registers a metrics manager as the pipeline and HTTP hooks.
func enableMetrics(cfg *config.Config) *metrics.Manager {
	m := metrics.NewManager(
		metrics.WithNamespace(appName),
		metrics.WithHTTPClient(integrations.NewHTTPClient(cfg.HTTPTimeout)),
	)
	observability.SetPipelineHooks(m)
	observability.SetHTTPHooks(m)
	return m
}

// pushMetrics sends the run's metrics to the Pushgateway. A failed push
// only logs a warning.
func pushMetrics(ctx context.Context, m *metrics.Manager, cfg *config.Config) {
	logger := loggerFromContext(ctx)
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if err := m.Push(ctx, cfg.Metrics.Pushgateway, cfg.Metrics.Job, cfg.Org); err != nil {
		logger.Warn("metrics push failed", "gateway", cfg.Metrics.Pushgateway, "error", err)
		return
	}
	logger.Debug("pushed metrics", "gateway", cfg.Metrics.Pushgateway, "job", cfg.Metrics.Job)
}
