package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nfrund/launchpad/internal/authapi"
	"github.com/nfrund/launchpad/internal/config"
	"github.com/nfrund/launchpad/internal/logging"
	"github.com/spf13/cobra"
)

var (
	apiURL  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "launchpad-cli",
	Short: "Launchpad account flows from the terminal",
	Long: `launchpad-cli runs the Launchpad signup, login and email verification flows against the
remote account service, the same way the web screens do.

Available commands:
  signup    Create an account and wait for the redirect to login
  login     Log in with email and password
  verify    Confirm an email address from a verification link or token
  events    List the auth event topics published by the web shell

Use "launchpad-cli [command] --help" for more information about a specific command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		slog.SetDefault(logging.NewWithWriter(cmd.ErrOrStderr(), "text", level))
	},
}

// Execute executes the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

// newClient builds the API client from --api, falling back to AUTH_API_URL (and .env).
func newClient() *authapi.Client {
	url := apiURL
	if url == "" {
		config.LoadDotEnv()
		url = config.AuthAPIURL(os.Getenv)
	}
	client := authapi.New(url, authapi.WithUserAgent("launchpad-cli/"+version))
	slog.Debug("Using account service", "url", client.BaseURL())
	return client
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Base URL of the account service (default $AUTH_API_URL or http://localhost:8000)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and flow decisions to stderr")
}
