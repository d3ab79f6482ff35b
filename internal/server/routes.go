package server

import (
	"github.com/nfrund/launchpad/internal/handlers"
	"github.com/nfrund/launchpad/internal/middleware"
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/samber/do/v2"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	homeHandler := do.MustInvoke[*handlers.HomeHandler](s.injector)
	authHandler := do.MustInvoke[*handlers.AuthHandler](s.injector)
	rateLimiter := middleware.RateLimiter(middleware.DefaultSubmitRate, middleware.DefaultSubmitBurst)

	s.E.GET("/", homeHandler.HomeGet)
	s.E.GET("/health", handlers.Health)

	s.E.GET("/login", authHandler.LoginGet)
	s.E.POST("/login", authHandler.LoginPost, rateLimiter)

	s.E.GET("/signup", authHandler.SignupGet)
	s.E.POST("/signup", authHandler.SignupPost, rateLimiter)
	s.E.GET("/signup/next", authHandler.SignupNext)

	s.E.GET("/verify-email", authHandler.VerifyGet)
	s.E.GET("/verify-email/status", authHandler.VerifyStatus)

	s.E.POST("/logout", authHandler.LogoutPost)
	s.E.POST("/theme", theme.Toggle)
}
