package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/launchpad/internal/rendering"
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/nfrund/launchpad/internal/view"
	"github.com/nfrund/launchpad/web/src/templates/layouts"
	g "maragu.dev/gomponents"
)

// htmx request and response headers.
const (
	headerHXRequest  = "HX-Request"
	headerHXRedirect = "HX-Redirect"
)

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get(headerHXRequest) == "true"
}

// renderPage wraps the content built for the request's theme in the Base layout, consuming any
// flash messages.
func renderPage(r rendering.Renderer, c echo.Context, status int, title string, build func(theme.Styles) g.Node) error {
	mode := theme.FromContext(c.Request().Context())
	page := layouts.Base(title, mode, view.GetFlashData(c), build(mode.Styles()))
	return r.RenderPage(c, status, page)
}

// renderFragment renders nodes without the layout, as an htmx swap target.
func renderFragment(r rendering.Renderer, c echo.Context, build func(theme.Styles) g.Node) error {
	st := theme.FromContext(c.Request().Context()).Styles()
	return r.RenderPage(c, http.StatusOK, build(st))
}

// navigate turns a controller navigation into a client redirect: an HX-Redirect header for htmx
// requests, a 303 otherwise.
func navigate(c echo.Context, route string) error {
	if isHTMX(c) {
		c.Response().Header().Set(headerHXRedirect, route)
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, route)
}
