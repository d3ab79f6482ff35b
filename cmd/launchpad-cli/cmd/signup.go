package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfrund/launchpad/internal/flow"
	"github.com/spf13/cobra"
)

var signupFlags struct {
	email    string
	password string
	confirm  string
	delay    time.Duration
	noWait   bool
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create an account. The password confirmation is checked locally and never sent. After a
successful signup the command waits for the delayed redirect to the login screen, like the web
form does, unless --no-wait is given.

Examples:
  launchpad-cli signup --email ada@example.com --password pw --confirm pw
  launchpad-cli signup --email ada@example.com --password pw --confirm pw --no-wait`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		nav := newTerminalNavigator(out)
		ctrl := flow.NewSignupController(newClient(), nav,
			flow.WithLogger(slog.Default()),
			flow.WithSignupRedirectDelay(signupFlags.delay),
		)
		defer ctrl.Dispose()

		ctrl.UpdateField(flow.FieldEmail, signupFlags.email)
		ctrl.UpdateField(flow.FieldPassword, signupFlags.password)
		ctrl.UpdateField(flow.FieldConfirmPassword, signupFlags.confirm)
		if err := ctrl.Submit(cmd.Context()); err != nil {
			return err
		}

		st := ctrl.State()
		if st.Error != "" {
			return errors.New(st.Error)
		}
		fmt.Fprintln(out, st.Success)
		if signupFlags.noWait || !ctrl.RedirectPending() {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), signupFlags.delay+time.Second)
		defer cancel()
		nav.wait(ctx)
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupFlags.email, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupFlags.password, "password", "", "Account password")
	signupCmd.Flags().StringVar(&signupFlags.confirm, "confirm", "", "Password confirmation")
	signupCmd.Flags().DurationVar(&signupFlags.delay, "redirect-delay", flow.DefaultSignupRedirectDelay, "Delay before the redirect to login")
	signupCmd.Flags().BoolVar(&signupFlags.noWait, "no-wait", false, "Exit without waiting for the redirect")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(signupCmd)
}
