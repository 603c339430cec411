// Package cli defines the commlog command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/commlog/internal/config"
	"github.com/mrlokans/commlog/internal/logging"
)

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(version, commit string) *cobra.Command {
	var (
		cfg         *config.Config
		flushLogger func()
	)

	root := &cobra.Command{
		Use:           "commlog",
		Short:         "Keep a dated log of communication and incidents",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.NewConfig()
			flush, err := logging.Init(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			flushLogger = flush
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if flushLogger != nil {
				flushLogger()
			}
		},
	}

	loadConfig := func() *config.Config { return cfg }

	serve := newServeCommand(loadConfig, version)
	root.RunE = serve.RunE

	root.AddCommand(
		serve,
		newImportCommand(loadConfig),
		newTemplateCommand(),
		newUsersCommand(loadConfig),
	)
	return root
}

// Execute runs the command line against os.Args.
func Execute(version, commit string) error {
	return NewRootCommand(version, commit).Execute()
}
