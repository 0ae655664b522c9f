package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github-profile-analyzer/internal/service"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "analyze <username|profile-url>",
		Short: "Score a GitHub profile and print the report",
		Example: `  profilectl analyze torvalds
  profilectl analyze https://github.com/torvalds --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			logger := opts.logger(cmd.ErrOrStderr())
			source, err := opts.newSource(cfg.GitHub, &logger)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}

			svc := service.New(source, nil, &logger, service.WithClock(opts.now))
			report, err := svc.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), report, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(formatTable), "output format: table or json")
	return cmd
}
