package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/commlog/internal/config"
	"github.com/mrlokans/commlog/internal/entrypoint"
)

func newServeCommand(loadConfig func() *config.Config, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(loadConfig(), version)
		},
	}
}
