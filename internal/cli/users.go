package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/commlog/internal/config"
	"github.com/mrlokans/commlog/internal/entrypoint"
)

func newUsersCommand(loadConfig func() *config.Config) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage API users",
	}

	users.AddCommand(&cobra.Command{
		Use:   "create <username>",
		Short: "Create a user and print their API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := entrypoint.NewApp(loadConfig())
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Users == nil {
				return errors.New("users need the sqlite storage backend")
			}

			user, err := app.Users.CreateUser(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created user %q (id %d)\n", user.Username, user.ID)
			fmt.Fprintf(out, "API token: %s\n", user.Token)
			return nil
		},
	})

	return users
}
