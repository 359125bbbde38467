package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labindex/internal/config"
	"github.com/matzehuels/labindex/pkg/buildinfo"
	"github.com/matzehuels/labindex/pkg/catalog"
	"github.com/matzehuels/labindex/pkg/errors"
	"github.com/matzehuels/labindex/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and the metrics job.
const appName = "labindex"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output such as repository lists and summaries.
	Out io.Writer

	configPath string
	overrides  overrides
}

// overrides holds the flags that take precedence over file and environment.
type overrides struct {
	org    string
	output string
	allow  string
	block  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// ReportError logs err as one line. Coded errors drop the code prefix from
// the message and carry it as a field instead.
func (c *CLI) ReportError(err error) {
	if code := errors.GetCode(err); code != "" {
		c.Logger.Error(errors.UserMessage(err), "code", code)
		return
	}
	c.Logger.Error(err.Error())
}

// RootCommand creates the root cobra command with all subcommands registered.
// Running the root command without a subcommand builds the catalog.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "labindex builds a catalog of an organization's teaching resources",
		Long: `labindex lists an organization's public GitHub repositories, looks for a
catalog.json metadata document on each repository's published site and
writes every discovered item into one sorted catalog file.

Configuration comes from a YAML or TOML file (--config or LABINDEX_CONFIG),
GITHUB_TOKEN, GITHUB_ORG, REPO_ALLOWLIST, REPO_BLOCKLIST, LABINDEX_* variables
and the flags below, in increasing precedence.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(withRunLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runBuild(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	flags.StringVar(&c.overrides.org, "org", "", "GitHub organization (overrides GITHUB_ORG)")
	flags.StringVarP(&c.overrides.output, "output", "o", "", "catalog output path")
	flags.StringVar(&c.overrides.allow, "allow", "", "comma-separated repositories to include (overrides REPO_ALLOWLIST)")
	flags.StringVar(&c.overrides.block, "block", "", "comma-separated repositories to exclude (overrides REPO_BLOCKLIST)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.listCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig layers the changed flags over the loaded configuration and
// validates the result before any network call.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("org") {
		cfg.Org = c.overrides.org
	}
	if flags.Changed("output") {
		cfg.Output = c.overrides.output
	}
	if flags.Changed("allow") {
		cfg.Allow = catalog.ParseNameSet(c.overrides.allow).Names()
	}
	if flags.Changed("block") {
		cfg.Block = catalog.ParseNameSet(c.overrides.block).Names()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(logger *log.Logger) *pipeline.Runner {
	return pipeline.NewRunner(logger)
}
