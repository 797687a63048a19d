package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/feedbox/internal/api/handler"
	"github.com/jon4hz/feedbox/internal/config"
	"github.com/jon4hz/feedbox/internal/engine"
	"github.com/jon4hz/feedbox/internal/session"
	"github.com/jon4hz/feedbox/internal/static"
	"github.com/jon4hz/feedbox/web"
)

const (
	sessionName     = "feedbox_session"
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	engine    *engine.Engine
	server    *http.Server
}

func New(cfg *config.Config, e *engine.Engine) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	ginEngine := gin.New()
	ginEngine.SetHTMLTemplate(tmpl)
	ginEngine.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		gzip.Gzip(gzip.DefaultCompression),
	)

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		engine:    e,
		server: &http.Server{
			Addr:              cfg.Listen,
			Handler:           ginEngine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store), session.Middleware())
}

func (s *Server) setupRoutes() error {
	assets, err := static.Assets()
	if err != nil {
		return err
	}

	h := handler.New(s.engine, s.cfg)

	// no session needed to report health
	s.ginEngine.GET("/healthz", h.Health)

	s.setupSession()

	// after the session middleware, a missing asset renders the 404 page
	s.ginEngine.StaticFS("/static", http.FS(assets))

	s.ginEngine.GET("/", h.Home)
	s.ginEngine.GET("/register", h.RegisterForm)
	s.ginEngine.POST("/register", h.Register)
	s.ginEngine.GET("/login", h.LoginForm)
	s.ginEngine.POST("/login", h.Login)
	s.ginEngine.GET("/logout", h.Logout)

	users := s.ginEngine.Group("/users/:username")
	users.GET("", h.ShowUser)
	users.POST("/delete", h.DeleteUser)
	users.GET("/feedback/add", h.AddFeedbackForm)
	users.POST("/feedback/add", h.AddFeedback)

	feedback := s.ginEngine.Group("/feedback/:id")
	feedback.GET("/update", h.UpdateFeedbackForm)
	feedback.POST("/update", h.UpdateFeedback)
	feedback.POST("/delete", h.DeleteFeedback)

	s.ginEngine.NoRoute(h.NotFound)
	return nil
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	log.Info("Starting server", "listen", s.cfg.Listen)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	log.Info("Shutting down server")
	return s.server.Shutdown(ctx)
}
