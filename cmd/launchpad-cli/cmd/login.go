package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nfrund/launchpad/internal/flow"
	"github.com/spf13/cobra"
)

var loginFlags struct {
	email    string
	password string
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Log in against the account service. On success the command prints the route the web
screen would navigate to; on failure it prints the same message the login banner shows.

Examples:
  launchpad-cli login --email ada@example.com --password 'correct horse'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		nav := newTerminalNavigator(out)
		ctrl := flow.NewLoginController(newClient(), nav, flow.WithLogger(slog.Default()))
		defer ctrl.Dispose()

		ctrl.UpdateField(flow.FieldEmail, loginFlags.email)
		ctrl.UpdateField(flow.FieldPassword, loginFlags.password)
		if err := ctrl.Submit(cmd.Context()); err != nil {
			return err
		}

		if st := ctrl.State(); st.Error != "" {
			return errors.New(st.Error)
		}
		select {
		case <-nav.routes:
			fmt.Fprintln(out, "Logged in.")
		default:
			fmt.Fprintln(out, "The service answered without a user; still logged out.")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginFlags.email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginFlags.password, "password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
