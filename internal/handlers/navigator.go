package handlers

import "context"

// pageNavigator is the flow.Navigator of a mounted web form. The controller navigates from
// whatever goroutine settles it; the HTTP layer picks the route up and turns it into a redirect.
type pageNavigator struct {
	routes chan string
}

func newPageNavigator() *pageNavigator {
	return &pageNavigator{routes: make(chan string, 1)}
}

// Navigate records route without blocking. A navigation nobody has collected yet wins.
func (n *pageNavigator) Navigate(route string) {
	select {
	case n.routes <- route:
	default:
	}
}

// Pending returns a navigation that already happened, if any.
func (n *pageNavigator) Pending() (string, bool) {
	select {
	case r := <-n.routes:
		return r, true
	default:
		return "", false
	}
}

// Wait blocks until the controller navigates or ctx ends.
func (n *pageNavigator) Wait(ctx context.Context) (string, error) {
	select {
	case r := <-n.routes:
		return r, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
