package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labindex/pkg/integrations/github"
)

// listCommand creates the list command, a dry run of the listing stage.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the repositories a build would probe",
		Long: `List the organization's public repositories after the allow and block lists
are applied, one name per line. No site is probed and nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			opts := cfg.PipelineOptions()
			opts.Logger = logger

			prog := newProgress(logger)
			repos, err := c.newRunner(logger).ListRepos(ctx, opts)
			if err != nil {
				return err
			}
			for _, name := range github.Names(repos) {
				fmt.Fprintln(c.Out, name)
			}
			prog.done(fmt.Sprintf("%d repositories selected", len(repos)))
			return nil
		},
	}
}
