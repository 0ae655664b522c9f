// Package cli contains the profilectl commands, built using the Cobra library.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github-profile-analyzer/internal/config"
	"github-profile-analyzer/internal/github"
	"github-profile-analyzer/internal/service"
)

// sourceFactory builds the profile data source for a command run
type sourceFactory func(cfg config.GitHubConfig, logger *zerolog.Logger) (service.ProfileSource, error)

type rootOptions struct {
	configPath string
	token      string
	verbose    bool

	newSource sourceFactory
	now       func() time.Time
}

func defaultSource(cfg config.GitHubConfig, logger *zerolog.Logger) (service.ProfileSource, error) {
	client, err := github.NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewRootCmd returns the profilectl command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{newSource: defaultSource, now: time.Now})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "profilectl",
		Short: "Analyze a GitHub profile the way a technical recruiter would.",
		Long: `profilectl scores a GitHub profile across six dimensions
(documentation, code structure, activity, organization, impact and depth)
and prints a recruiter-style report with a verdict and a 30 day plan.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "GitHub token (defaults to GITHUB_TOKEN)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose/debug logging")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the optional config file and applies flag overrides
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.token != "" {
		cfg.GitHub.Token = o.token
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	return cfg, nil
}

// logger discards everything unless --verbose is set
func (o *rootOptions) logger(errOut io.Writer) zerolog.Logger {
	if !o.verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: errOut, TimeFormat: time.Kitchen}).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}
