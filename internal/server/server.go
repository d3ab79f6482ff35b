package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/launchpad/internal/authapi"
	"github.com/nfrund/launchpad/internal/authevents"
	"github.com/nfrund/launchpad/internal/config"
	"github.com/nfrund/launchpad/internal/flow"
	"github.com/nfrund/launchpad/internal/handlers"
	"github.com/nfrund/launchpad/internal/middleware"
	"github.com/nfrund/launchpad/internal/mounts"
	"github.com/nfrund/launchpad/internal/pubsub"
	"github.com/nfrund/launchpad/internal/rendering"
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/nfrund/launchpad/web"
	"github.com/samber/do/v2"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	injector do.Injector
	logger   *slog.Logger

	bus    *pubsub.WatermillBridge
	mounts *handlers.Mounts
}

type options struct {
	authAPI handlers.AuthAPI
}

// Option customizes how New wires the server.
type Option func(*options)

// WithAuthAPI replaces the HTTP client for the remote account service.
func WithAuthAPI(api handlers.AuthAPI) Option {
	return func(o *options) { o.authAPI = api }
}

// New wires the services into a container and builds the echo instance with middleware and
// routes registered.
func New(cfg config.Provider, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg.GetAuthAPIURL() == "" {
		return nil, errors.New("server: auth API URL is not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	i := newInjector(cfg, logger, o)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.Renderer = do.MustInvoke[*rendering.NodeRenderer](i)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.Recover())

	// Configure and use session middleware; theme and flash messages live in cookie sessions.
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(theme.Middleware(theme.Light))

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	setupErrorHandling(e)

	s := &Server{
		E:        e,
		Cfg:      cfg,
		injector: i,
		logger:   logger,
		bus:      do.MustInvoke[*pubsub.WatermillBridge](i),
		mounts:   do.MustInvoke[*handlers.Mounts](i),
	}
	s.RegisterRoutes()
	return s, nil
}

// newInjector registers every service the web shell needs. Providers are lazy; the first
// MustInvoke builds the graph.
func newInjector(cfg config.Provider, logger *slog.Logger, o options) do.Injector {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.ProvideValue(i, logger)

	do.Provide(i, func(i do.Injector) (handlers.AuthAPI, error) {
		if o.authAPI != nil {
			return o.authAPI, nil
		}
		return authapi.New(cfg.GetAuthAPIURL(), authapi.WithHTTPClient(&http.Client{Timeout: 15 * time.Second})), nil
	})
	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(), nil
	})
	do.Provide(i, func(i do.Injector) (*authevents.Recorder, error) {
		return authevents.NewRecorder(do.MustInvoke[*pubsub.WatermillBridge](i)), nil
	})
	do.Provide(i, func(i do.Injector) (*handlers.Mounts, error) {
		return handlers.NewMounts(cfg.GetMountTTL(), mounts.WithLogger(logger)), nil
	})
	do.Provide(i, func(i do.Injector) (*rendering.NodeRenderer, error) {
		return rendering.NewNodeRenderer(), nil
	})
	do.Provide(i, func(i do.Injector) (*handlers.HomeHandler, error) {
		return handlers.NewHomeHandler(do.MustInvoke[*rendering.NodeRenderer](i)), nil
	})
	do.Provide(i, func(i do.Injector) (*handlers.AuthHandler, error) {
		return handlers.NewAuthHandler(
			do.MustInvoke[handlers.AuthAPI](i),
			do.MustInvoke[*handlers.Mounts](i),
			do.MustInvoke[*rendering.NodeRenderer](i),
			cfg.GetSignupRedirectDelay(),
			flow.WithLogger(logger),
			flow.WithRecorder(do.MustInvoke[*authevents.Recorder](i)),
		), nil
	})
	return i
}
