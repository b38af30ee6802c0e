// Package rest is the JSON API used by the site. It calls the same handler
// as the gRPC service and maps status codes onto HTTP.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rodeo-drive-api/internal/handler"
	"rodeo-drive-api/internal/i18n"
	"rodeo-drive-api/internal/middleware"
	"rodeo-drive-api/internal/reveal"
	"rodeo-drive-api/internal/rpc"
)

type Server struct {
	h        *handler.Handler
	gate     *middleware.Gate
	limiter  *middleware.RateLimiter
	catalog  *i18n.Catalog
	manifest *reveal.Manifest

	origins       []string
	secureCookies bool
	bridge        http.Handler
}

type Options struct {
	AllowedOrigins []string
	SecureCookies  bool
	// Bridge, when set, serves gRPC-Web calls under the service path.
	Bridge http.Handler
}

func New(h *handler.Handler, gate *middleware.Gate, limiter *middleware.RateLimiter, catalog *i18n.Catalog, manifest *reveal.Manifest, opts Options) *Server {
	return &Server{
		h:             h,
		gate:          gate,
		limiter:       limiter,
		catalog:       catalog,
		manifest:      manifest,
		origins:       opts.AllowedOrigins,
		secureCookies: opts.SecureCookies,
		bridge:        opts.Bridge,
	}
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(s.cors(), s.language(), s.identify())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", s.limit(), s.register)
		authRoutes.POST("/login", s.limit(), s.login)
		authRoutes.POST("/refresh", s.refresh)
		authRoutes.POST("/logout", s.logout)
	}

	api := r.Group("/api")
	{
		api.POST("/appointments", s.limit(), s.createAppointment)
		api.GET("/appointments", s.requireAdmin(), s.listAppointments)
		api.POST("/sendAppointmentEmail", s.limit(), s.sendAppointmentEmail)

		api.POST("/messages", s.limit(), s.createMessage)
		api.GET("/messages", s.listMessages)
		api.PUT("/messages/:id/reply", s.requireAdmin(), s.replyMessage)

		api.GET("/i18n/:lang", s.dictionary)
		api.PUT("/i18n/preference", s.setLanguage)

		api.GET("/reveals/:page", s.reveals)
	}

	if s.bridge != nil {
		path := "/" + rpc.ServiceName + "/:method"
		r.POST(path, gin.WrapH(s.bridge))
		r.OPTIONS(path, gin.WrapH(s.bridge))
	}
	return r
}
