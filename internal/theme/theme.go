// Package theme carries the dark/light flag. The flag is read from the session once per request
// and passed down through the request context; views only ever read it.
package theme

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// Mode is the active color scheme.
type Mode int

const (
	Light Mode = iota
	Dark
)

// IsDark reports whether the dark scheme is active.
func (m Mode) IsDark() bool { return m == Dark }

func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

const (
	sessionName = "theme-session"
	sessionKey  = "dark"
)

type ctxKey struct{}

// WithMode returns a context carrying m.
func WithMode(ctx context.Context, m Mode) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the mode stored in ctx, Light when none is set.
func FromContext(ctx context.Context) Mode {
	if m, ok := ctx.Value(ctxKey{}).(Mode); ok {
		return m
	}
	return Light
}

// Middleware reads the flag from the theme session and stores it in the request context.
// It must run after the session middleware.
func Middleware(fallback Mode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mode := fallback
			if sess, err := session.Get(sessionName, c); err == nil {
				if dark, ok := sess.Values[sessionKey].(bool); ok {
					mode = Light
					if dark {
						mode = Dark
					}
				}
			}
			c.SetRequest(c.Request().WithContext(WithMode(c.Request().Context(), mode)))
			return next(c)
		}
	}
}

// Toggle flips the flag (POST /theme) and sends the user back where they came from.
func Toggle(c echo.Context) error {
	next := FromContext(c.Request().Context())
	if next.IsDark() {
		next = Light
	} else {
		next = Dark
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionKey] = next.IsDark()
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save theme session", "error", err)
		return err
	}

	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Refresh", "true")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, sameOriginPath(c.Request().Referer()))
}

// sameOriginPath keeps only the path and query of a referer so the redirect cannot leave the site.
func sameOriginPath(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || !isLocalPath(u.Path) || !isLocalPath(u.EscapedPath()) {
		return "/"
	}
	if u.RawQuery != "" {
		return u.EscapedPath() + "?" + u.RawQuery
	}
	return u.EscapedPath()
}

// isLocalPath rejects paths a browser would resolve against another host, such as "//x" or "/\x".
func isLocalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	return len(p) == 1 || (p[1] != '/' && p[1] != '\\')
}
