package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rodeo-drive-api/internal/i18n"
)

const langCookieAge = 365 * 24 * 60 * 60

func (s *Server) dictionary(c *gin.Context) {
	lang := c.Param("lang")
	msgs, ok := s.catalog.Messages(lang)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unsupported language"})
		return
	}
	c.Header("Content-Language", lang)
	c.JSON(http.StatusOK, gin.H{"lang": lang, "dir": i18n.Dir(lang), "messages": msgs})
}

// setLanguage stores the preference in a cookie the site can also read.
func (s *Server) setLanguage(c *gin.Context) {
	var in struct {
		Lang string `json:"lang"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if !i18n.Supported(in.Lang) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(i18n.CookieName, in.Lang, langCookieAge, "/", "", s.secureCookies, false)
	c.Header("Content-Language", in.Lang)
	c.JSON(http.StatusOK, gin.H{"lang": in.Lang, "dir": i18n.Dir(in.Lang)})
}

func (s *Server) reveals(c *gin.Context) {
	page := c.Param("page")
	sections, ok := s.manifest.Page(page)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown page"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page, "sections": sections})
}
