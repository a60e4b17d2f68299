// Package router wires endpoints to handlers and attaches the per-group
// middleware chain: CORS allow-list and general rate limit on everything
// under /api, a tighter limit on the auth endpoints, session verification on
// the protected surface and permission gates on the destructive and admin
// routes.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lawease/lawease/internal/auth"
	"github.com/lawease/lawease/internal/config"
	"github.com/lawease/lawease/internal/handler"
	"github.com/lawease/lawease/internal/middleware"
	"github.com/lawease/lawease/internal/store"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg   config.Config
	Store store.Store
	Redis *redis.Client

	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
	Clients   *handler.ClientHandler
	Cases     *handler.CaseHandler
	Documents *handler.DocumentHandler
	Messages  *handler.MessageHandler
	Stats     *handler.StatsHandler
	Audit     *handler.AuditHandler
}

// Register mounts the full API surface on e.
func Register(e *echo.Echo, d Deps) {
	api := e.Group("/api")
	api.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	api.Use(middleware.RateLimit(config.LoadAPIRateLimit(), d.Redis))

	api.GET("/health", handler.Health)

	// Auth endpoints carry the tighter bucket on top of the general one.
	authLimit := middleware.RateLimit(config.LoadAuthRateLimit(), d.Redis)
	api.POST("/auth/signup", d.Auth.Signup, authLimit)
	api.POST("/auth/login", d.Auth.Login, authLimit)
	api.POST("/auth/request-password-reset", d.Auth.RequestPasswordReset, authLimit)
	api.POST("/auth/reset-password", d.Auth.ResetPassword, authLimit)

	// Everything below requires a live session.
	p := api.Group("", middleware.SessionAuth(d.Cfg.JWTSecret, d.Store))

	p.GET("/auth/me", d.Auth.Me)

	admin := p.Group("/admin", middleware.RequirePermission(auth.PermUserManage))
	admin.GET("/users", d.Admin.ListUsers)
	admin.PATCH("/users/:id/role", d.Admin.UpdateRole)

	p.GET("/clients", d.Clients.List)
	p.POST("/clients", d.Clients.Create)
	p.PUT("/clients/:id", d.Clients.Update)
	p.DELETE("/clients/:id", d.Clients.Delete, middleware.RequirePermission(auth.PermClientDelete))

	p.GET("/cases", d.Cases.List)
	p.POST("/cases", d.Cases.Create)
	p.GET("/cases/:id", d.Cases.Get)
	p.PUT("/cases/:id", d.Cases.Update)
	p.DELETE("/cases/:id", d.Cases.Delete, middleware.RequirePermission(auth.PermCaseDelete))

	p.GET("/documents", d.Documents.List)
	p.POST("/documents", d.Documents.Create)
	p.PUT("/documents/:id", d.Documents.Update)
	p.GET("/documents/:id/download", d.Documents.Download)
	p.DELETE("/documents/:id", d.Documents.Delete, middleware.RequirePermission(auth.PermDocumentDelete))

	p.GET("/messages", d.Messages.List)
	p.POST("/messages", d.Messages.Create)
	p.PUT("/messages/:id", d.Messages.Update)
	p.DELETE("/messages/:id", d.Messages.Delete, middleware.RequirePermission(auth.PermMessageDelete))

	p.GET("/stats", d.Stats.Get)
	p.GET("/audit-logs", d.Audit.List, middleware.RequirePermission(auth.PermAuditRead))
}
