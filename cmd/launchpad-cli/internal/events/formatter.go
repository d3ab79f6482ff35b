// Package events formats the auth event topics for the CLI.
package events

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nfrund/launchpad/internal/authevents"
)

// TopicDisplay represents a topic for display purposes
type TopicDisplay struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Topics returns the display form of every auth event topic.
func Topics() []TopicDisplay {
	out := make([]TopicDisplay, len(authevents.All))
	for i, ev := range authevents.All {
		out[i] = TopicDisplay{Name: ev.Name(), Description: ev.Description()}
	}
	return out
}

// Display writes topics to w as a table or as JSON.
func Display(w io.Writer, topics []TopicDisplay, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(topics)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t-----------")
		if len(topics) == 0 {
			fmt.Fprintln(tw, "No topics found")
		}
		for _, t := range topics {
			fmt.Fprintf(tw, "%s\t%s\n", t.Name, truncateString(t.Description, 60))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported format %q (use table or json)", format)
	}
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
