package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmot-dev/marmot/pkg/auth"
)

// authCommand creates the auth command group for managing index credentials.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage credentials for authenticated package indexes",
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authListCommand())

	return cmd
}

// authLoginCommand creates the "auth login" subcommand.
func (c *CLI) authLoginCommand() *cobra.Command {
	var token, username, password string

	cmd := &cobra.Command{
		Use:   "login <host>",
		Short: "Store a credential for an index host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]
			if token == "" && username == "" {
				return fmt.Errorf("provide --token or --username/--password")
			}
			if token != "" && username != "" {
				return fmt.Errorf("--token and --username are mutually exclusive")
			}

			store, err := auth.NewStore("")
			if err != nil {
				return err
			}
			cred := auth.Credential{Token: token, Username: username, Password: password}
			if err := store.Set(host, cred); err != nil {
				return err
			}
			printSuccess("Stored credential for %s", StyleHighlight.Render(host))
			printDetail("File: %s", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	cmd.Flags().StringVar(&username, "username", "", "basic auth username")
	cmd.Flags().StringVar(&password, "password", "", "basic auth password")
	return cmd
}

// authLogoutCommand creates the "auth logout" subcommand.
func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <host>",
		Short: "Remove the stored credential for an index host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := auth.NewStore("")
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			printSuccess("Removed credential for %s", args[0])
			return nil
		},
	}
}

// authListCommand creates the "auth list" subcommand.
func (c *CLI) authListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List index hosts with stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := auth.NewStore("")
			if err != nil {
				return err
			}
			hosts, err := store.Hosts()
			if err != nil {
				return err
			}
			if len(hosts) == 0 {
				printInfo("No stored credentials")
				return nil
			}
			for _, host := range hosts {
				fmt.Println(StyleValue.Render(host))
			}
			return nil
		},
	}
}
