package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/feedbox/internal/auth"
	"github.com/jon4hz/feedbox/internal/cache"
	"github.com/jon4hz/feedbox/internal/config"
	"github.com/jon4hz/feedbox/internal/database"
	"github.com/jon4hz/feedbox/internal/notify/email"
	"github.com/jon4hz/feedbox/internal/scheduler"
)

// ErrNotFound is returned when a user or feedback entry does not exist.
var ErrNotFound = database.ErrNotFound

// welcomer sends the welcome message after registration.
type welcomer interface {
	SendWelcome(w email.Welcome) error
}

// Engine implements the feedbox use cases. Every operation that touches a
// user's data takes the request principal explicitly and checks ownership
// before changing anything.
type Engine struct {
	cfg       *config.Config
	db        database.DB
	auth      *auth.Authenticator
	profiles  *cache.ProfileCache
	email     welcomer
	scheduler *scheduler.Scheduler
}

// New creates a new Engine instance.
func New(cfg *config.Config, db database.DB) (*Engine, error) {
	sched, err := scheduler.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	authenticator, err := auth.New(db, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	engine := &Engine{
		cfg:       cfg,
		db:        db,
		auth:      authenticator,
		profiles:  cache.NewProfileCache(cfg.Cache),
		email:     email.New(cfg.Email, cfg.ServerURL),
		scheduler: sched,
	}

	if err := engine.setupJobs(); err != nil {
		return nil, fmt.Errorf("failed to setup jobs: %w", err)
	}

	return engine, nil
}

// Ping reports whether the credential store is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.db.Ping(ctx)
}

// profile returns the public profile of username, served from cache when possible.
func (e *Engine) profile(ctx context.Context, username string) (*cache.Profile, error) {
	if p, ok := e.profiles.Get(ctx, username); ok {
		return &p, nil
	}
	user, err := e.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	p := cache.ProfileFromUser(user)
	e.profiles.Put(ctx, p)
	log.Debug("cached profile", "username", username)
	return &p, nil
}
