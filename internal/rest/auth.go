package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rodeo-drive-api/internal/auth"
	"rodeo-drive-api/internal/rpc"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) register(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	resp, err := s.h.Register(c.Request.Context(), &rpc.RegisterRequest{Email: in.Email, Password: in.Password, Name: in.Name})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"userId": resp.UserId, "token": resp.Token})
}

func (s *Server) login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	ctx := c.Request.Context()
	resp, err := s.h.Login(ctx, &rpc.LoginRequest{Email: in.Email, Password: in.Password})
	if err != nil {
		fail(c, err)
		return
	}
	refresh, err := s.h.StartSession(ctx, resp.UserId)
	if err != nil {
		fail(c, err)
		return
	}
	s.setSession(c, resp.Token, refresh)
	c.JSON(http.StatusOK, gin.H{
		"token":   resp.Token,
		"userId":  resp.UserId,
		"name":    resp.Name,
		"isAdmin": resp.IsAdmin,
	})
}

func (s *Server) refresh(c *gin.Context) {
	raw, _ := c.Cookie(refreshCookie)
	if raw == "" {
		// non-browser clients may send it in the body
		var in struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = c.ShouldBindJSON(&in)
		raw = in.RefreshToken
	}
	sess, err := s.h.Refresh(c.Request.Context(), raw)
	if err != nil {
		s.clearSession(c)
		fail(c, err)
		return
	}
	s.setSession(c, sess.AccessToken, sess.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"token": sess.AccessToken, "userId": sess.UserID})
}

func (s *Server) logout(c *gin.Context) {
	raw, _ := c.Cookie(refreshCookie)
	if err := s.h.Logout(c.Request.Context(), raw); err != nil {
		fail(c, err)
		return
	}
	s.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) setSession(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, access, int(auth.AccessTTL/time.Second), "/", "", s.secureCookies, true)
	c.SetCookie(refreshCookie, refresh, int(auth.RefreshTTL/time.Second), "/auth", "", s.secureCookies, true)
}

func (s *Server) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, "", -1, "/", "", s.secureCookies, true)
	c.SetCookie(refreshCookie, "", -1, "/auth", "", s.secureCookies, true)
}
