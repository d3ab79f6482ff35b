package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/launchpad/internal/rendering"
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/nfrund/launchpad/web/src/templates/pages"
	g "maragu.dev/gomponents"
)

// HomeHandler handles requests for the home page.
type HomeHandler struct {
	renderer rendering.Renderer
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(r rendering.Renderer) *HomeHandler {
	return &HomeHandler{renderer: r}
}

// HomeGet handles the GET request for the home page.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	return renderPage(h.renderer, c, http.StatusOK, "Home", func(st theme.Styles) g.Node {
		return pages.Home(st)
	})
}

// Health answers liveness probes.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
