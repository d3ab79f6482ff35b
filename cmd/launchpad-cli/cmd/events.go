package cmd

import (
	"github.com/nfrund/launchpad/cmd/launchpad-cli/internal/events"
	"github.com/spf13/cobra"
)

var eventsFormat string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the auth event topics",
	Long: `List the topics the web shell publishes auth outcomes on. Each settled signup, login and
verification produces one event on its topic.

Examples:
  launchpad-cli events
  launchpad-cli events --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return events.Display(cmd.OutOrStdout(), events.Topics(), eventsFormat)
	},
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsFormat, "format", "f", "table", "Output format (table, json)")
	rootCmd.AddCommand(eventsCmd)
}
