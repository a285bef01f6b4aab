// Package session keeps the shopper's cart and the admin login in a signed
// cookie.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/fourways-coffee/storefront/internal/cart"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	CookieName = "fourways.sid"
	MaxAge     = 7 * 24 * 60 * 60

	stateKey = "session_state"

	cartKey       = "cart"
	adminKey      = "is_admin"
	adminIDKey    = "admin_id"
	adminEmailKey = "admin_email"
)

func init() {
	gob.Register(cart.Cart{})
}

type Manager struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

func NewManager(secret string, secure bool, logger *zap.Logger) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   MaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, logger: logger}
}

// Middleware loads the session for every request. A cookie that fails to
// decode (rotated secret, tampering) is replaced by a fresh session.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.store.Get(c.Request, CookieName)
		if err != nil {
			m.logger.Debug("Discarding unreadable session cookie", zap.Error(err))
		}
		c.Set(stateKey, &State{session: s, req: c.Request, w: c.Writer})
		c.Next()
	}
}

// From returns the request's session. It panics if Middleware is not installed.
func From(c *gin.Context) *State {
	return c.MustGet(stateKey).(*State)
}

// State is one request's view of the session. Changes are written only by Save.
type State struct {
	session *sessions.Session
	req     *http.Request
	w       http.ResponseWriter
}

func (s *State) Cart() cart.Cart {
	if c, ok := s.session.Values[cartKey].(cart.Cart); ok {
		return c
	}
	return cart.Cart{}
}

func (s *State) SetCart(c cart.Cart) {
	if c.IsEmpty() {
		delete(s.session.Values, cartKey)
		return
	}
	s.session.Values[cartKey] = c
}

func (s *State) IsAdmin() bool {
	v, _ := s.session.Values[adminKey].(bool)
	return v
}

func (s *State) AdminEmail() string {
	v, _ := s.session.Values[adminEmailKey].(string)
	return v
}

func (s *State) SetAdmin(id, email string) {
	s.session.Values[adminKey] = true
	s.session.Values[adminIDKey] = id
	s.session.Values[adminEmailKey] = email
}

// Clear drops every value and expires the cookie on Save.
func (s *State) Clear() {
	for k := range s.session.Values {
		delete(s.session.Values, k)
	}
	s.session.Options.MaxAge = -1
}

func (s *State) Save() error {
	return s.session.Save(s.req, s.w)
}
