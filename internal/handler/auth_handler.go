package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fourways-coffee/storefront/internal/auth"
	"github.com/fourways-coffee/storefront/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminAuthenticator interface {
	AuthenticateAdmin(ctx context.Context, email, password string) (auth.User, error)
}

type AuthHandler struct {
	authenticator AdminAuthenticator
	logger        *zap.Logger
}

func NewAuthHandler(authenticator AdminAuthenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		logger:        logger,
	}
}

type loginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, email, message string) {
	c.HTML(status, "login.html", page(c, gin.H{
		"Title": "Admin login",
		"Email": email,
		"Error": message,
	}))
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if session.From(c).IsAdmin() {
		c.Redirect(http.StatusFound, "/admin/orders")
		return
	}
	h.renderLogin(c, http.StatusOK, "", "")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "", "Invalid login request.")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		h.renderLogin(c, http.StatusBadRequest, email, "Email and password are required.")
		return
	}

	user, err := h.authenticator.AuthenticateAdmin(c.Request.Context(), email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.renderLogin(c, http.StatusUnauthorized, email, "Invalid email or password.")
		case errors.Is(err, auth.ErrNotAdmin):
			h.logger.Warn("Non-admin login attempt", zap.String("email", email))
			h.renderLogin(c, http.StatusForbidden, email, "This user is not authorized for the admin dashboard.")
		default:
			h.logger.Error("Admin login failed",
				zap.String("request_id", requestID(c)),
				zap.Error(err))
			h.renderLogin(c, http.StatusInternalServerError, email, "Unable to start session. Please try again.")
		}
		return
	}

	session.From(c).SetAdmin(user.ID, user.Email)
	if !saveSession(c, h.logger) {
		h.renderLogin(c, http.StatusInternalServerError, email, "Unable to start session. Please try again.")
		return
	}

	h.logger.Info("Admin logged in", zap.String("user_id", user.ID))
	c.Redirect(http.StatusSeeOther, "/admin/orders")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session.From(c).Clear()
	if !saveSession(c, h.logger) {
		c.String(http.StatusInternalServerError, "Unable to log out right now.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// RequireAdmin sends visitors without an admin session to the login page.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.From(c).IsAdmin() {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
