// Package session stores the request principal and flash messages in the
// client's signed session cookie.
package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/feedbox/internal/access"
)

const (
	usernameKey  = "username"
	principalKey = "principal"
)

// Category is the bootstrap style a flash message is rendered with.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryPrimary Category = "primary"
	CategoryInfo    Category = "info"
	CategoryDanger  Category = "danger"
)

// categories fixes the order flashes are rendered in.
var categories = []Category{CategoryDanger, CategorySuccess, CategoryPrimary, CategoryInfo}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category Category
	Message  string
}

// Session wraps the gin session of a single request.
type Session struct {
	s sessions.Session
}

// From returns the session of the current request.
// The sessions middleware must be installed.
func From(c *gin.Context) *Session {
	return &Session{s: sessions.Default(c)}
}

// Establish binds username to the session, replacing any previous identity.
func (s *Session) Establish(username string) error {
	s.s.Set(usernameKey, username)
	return s.s.Save()
}

// Clear removes the identity. Pending flash messages are kept.
func (s *Session) Clear() error {
	s.s.Delete(usernameKey)
	return s.s.Save()
}

// Current returns the username bound to the session, if any.
func (s *Session) Current() (string, bool) {
	username, ok := s.s.Get(usernameKey).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

// Principal returns the access principal for the session.
func (s *Session) Principal() access.Principal {
	username, ok := s.Current()
	if !ok {
		return access.Anon()
	}
	return access.As(username)
}

// Flash queues a message for the next page.
func (s *Session) Flash(category Category, message string) error {
	s.s.AddFlash(message, string(category))
	return s.s.Save()
}

// Flashes pops all queued messages.
func (s *Session) Flashes() ([]Flash, error) {
	var out []Flash
	for _, category := range categories {
		for _, v := range s.s.Flashes(string(category)) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Category: category, Message: msg})
			}
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, s.s.Save()
}

// Middleware resolves the principal once per request and stores it on the context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, From(c).Principal())
		c.Next()
	}
}

// PrincipalFrom returns the principal resolved by Middleware.
func PrincipalFrom(c *gin.Context) access.Principal {
	if p, ok := c.Get(principalKey); ok {
		if principal, ok := p.(access.Principal); ok {
			return principal
		}
	}
	return From(c).Principal()
}
