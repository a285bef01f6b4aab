package handler

import (
	"net/http"

	"github.com/fourways-coffee/storefront/internal/session"
	"github.com/fourways-coffee/storefront/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// page merges the fields every template header reads into data.
func page(c *gin.Context, data gin.H) gin.H {
	s := session.From(c)
	out := gin.H{
		"CartCount": s.Cart().Count(),
		"Admin":     s.IsAdmin(),
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", page(c, gin.H{
		"Title":     http.StatusText(status),
		"Status":    status,
		"Message":   message,
		"RequestID": requestID(c),
	}))
}

func saveSession(c *gin.Context, logger *zap.Logger) bool {
	if err := session.From(c).Save(); err != nil {
		logger.Error("Failed to save session",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		return false
	}
	return true
}

// baseURL is the scheme and host the request arrived on, honouring a TLS
// terminating proxy.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
