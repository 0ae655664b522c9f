package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github-profile-analyzer/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of profilectl",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("profilectl (%s)\n", app.ServiceName)
			cmd.Printf("  Version: %s\n", app.Version)
			cmd.Printf("  Runtime: %s\n", runtime.Version())
		},
	}
}
