package rest

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"rodeo-drive-api/internal/i18n"
	"rodeo-drive-api/internal/rpc"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
	langKey       = "lang"
)

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		// the grpc-web bridge answers its own preflights
		if strings.HasPrefix(c.Request.URL.Path, "/"+rpc.ServiceName+"/") {
			c.Next()
			return
		}
		origin := c.GetHeader("Origin")
		switch {
		case len(s.origins) == 0:
			// no allow-list: readable from anywhere, never with cookies
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.origins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// language resolves the request language and tags the response with it.
func (s *Server) language() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(i18n.CookieName)
		lang := i18n.Resolve(cookie, c.GetHeader("Accept-Language"))
		c.Set(langKey, lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// identify attaches the caller when a valid token is present, from the
// Authorization header or the access cookie. Anonymous requests pass.
func (s *Server) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			raw, _ = c.Cookie(accessCookie)
		}
		if raw != "" {
			if ctx, err := s.gate.Identify(c.Request.Context(), raw); err == nil {
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.gate.RequireAdmin(c.Request.Context()); err != nil {
			fail(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow(c.ClientIP()) {
			fail(c, status.Error(codes.ResourceExhausted, "too many requests"))
			return
		}
		c.Next()
	}
}
