package cmd

import (
	"context"
	"fmt"
	"io"
)

// terminalNavigator reports navigations instead of performing them.
type terminalNavigator struct {
	out    io.Writer
	routes chan string
}

func newTerminalNavigator(out io.Writer) *terminalNavigator {
	return &terminalNavigator{out: out, routes: make(chan string, 1)}
}

func (n *terminalNavigator) Navigate(route string) {
	fmt.Fprintf(n.out, "-> %s\n", route)
	select {
	case n.routes <- route:
	default:
	}
}

// wait returns the next navigation, or "" when ctx ends first.
func (n *terminalNavigator) wait(ctx context.Context) string {
	select {
	case r := <-n.routes:
		return r
	case <-ctx.Done():
		return ""
	}
}
