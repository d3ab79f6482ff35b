package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"
)

// Renderer defines the contract for rendering gomponents nodes as full pages or htmx fragments.
type Renderer interface {
	// RenderComponent renders a node to a slice of bytes. Useful for HTMX out-of-band fragments.
	RenderComponent(ctx context.Context, node g.Node) ([]byte, error)

	// RenderPage writes node as the HTML body of the response with the given status.
	RenderPage(c echo.Context, status int, node g.Node) error
}

// NodeRenderer is the concrete Renderer. It also implements echo.Renderer.
type NodeRenderer struct{}

// NewNodeRenderer creates a new NodeRenderer instance.
func NewNodeRenderer() *NodeRenderer {
	return &NodeRenderer{}
}

func (r *NodeRenderer) render(node g.Node, w io.Writer) error {
	if node == nil {
		return fmt.Errorf("nil component")
	}
	return node.Render(w)
}

// RenderComponent implements the Renderer interface.
func (r *NodeRenderer) RenderComponent(_ context.Context, node g.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(node, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage renders into a buffer first so a failing component never leaves a half-written
// 200 behind; the error then reaches the central error handler.
func (r *NodeRenderer) RenderPage(c echo.Context, status int, node g.Node) error {
	var buf bytes.Buffer
	if err := r.render(node, &buf); err != nil {
		slog.ErrorContext(c.Request().Context(), "Failed to render component", "path", c.Path(), "error", err)
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// Render implements echo.Renderer for use with c.Render(status, name, node).
func (r *NodeRenderer) Render(w io.Writer, _ string, data interface{}, c echo.Context) error {
	node, ok := data.(g.Node)
	if !ok {
		return fmt.Errorf("unsupported component type: %T", data)
	}
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return r.render(node, w)
}
