package cache

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/jon4hz/feedbox/internal/config"
	"github.com/jon4hz/feedbox/internal/database"
)

// ProfilesCachePrefix namespaces profile keys.
const ProfilesCachePrefix = "feedbox-profile-"

// Profile is the public part of a user, safe to keep outside the database.
type Profile struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileFromUser strips credentials from a user record.
func ProfileFromUser(u *database.User) Profile {
	return Profile{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileCache caches user profiles by username.
type ProfileCache struct {
	profiles *PrefixedCache[Profile]
}

func NewProfileCache(cfg *config.CacheConfig) *ProfileCache {
	return &ProfileCache{
		profiles: NewPrefixedCache[Profile](
			newCacheInstanceByType(cfg),
			cfg.Type,
			ProfilesCachePrefix,
		),
	}
}

// Get returns a cached profile. Any cache error counts as a miss.
func (p *ProfileCache) Get(ctx context.Context, username string) (Profile, bool) {
	profile, err := p.profiles.Get(ctx, username)
	if err != nil {
		log.Debug("profile cache miss", "username", username)
		return Profile{}, false
	}
	return profile, true
}

// Put stores a profile. Failures are logged, the cache is best-effort.
func (p *ProfileCache) Put(ctx context.Context, profile Profile) {
	if err := p.profiles.Set(ctx, profile.Username, profile); err != nil {
		log.Warn("failed to cache profile", "username", profile.Username, "error", err)
	}
}

// Evict removes a profile.
func (p *ProfileCache) Evict(ctx context.Context, username string) {
	if err := p.profiles.Delete(ctx, username); err != nil {
		log.Debug("failed to evict profile", "username", username, "error", err)
	}
}

// Purge drops every cached profile.
func (p *ProfileCache) Purge(ctx context.Context) error {
	return p.profiles.Clear(ctx)
}

// Stats returns hit/miss counters of the underlying cache.
func (p *ProfileCache) Stats() *codec.Stats {
	return p.profiles.GetStats()
}
