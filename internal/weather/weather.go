// Package weather attaches current weather to entries. Readings are cached
// per rounded coordinate with an explicit expiry; lookups never fail the
// caller, a missing reading is a normal result.
package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Reading is a weather observation.
type Reading struct {
	Condition string    `json:"condition"`
	TempC     float64   `json:"temp_c"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Provider fetches the current weather at a coordinate.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (*Reading, error)
}

// Cache stores readings by key until they expire.
type Cache interface {
	Get(ctx context.Context, key string) (*Reading, bool)
	Set(ctx context.Context, key string, r Reading, ttl time.Duration) error
}

// DefaultTTL is how long a reading is reused.
const DefaultTTL = 30 * time.Minute

// CacheKey rounds coordinates to two decimals (about 1 km).
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// Service resolves weather through a cache in front of a provider.
type Service struct {
	provider Provider
	cache    Cache
	ttl      time.Duration
	log      *slog.Logger
}

// NewService returns a Service. A nil provider yields no readings; a nil
// cache means an in-memory one.
func NewService(p Provider, c Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if c == nil {
		c = NewMemoryCache(nil)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: p, cache: c, ttl: ttl, log: logger}
}

// Current returns the weather at a coordinate, or nil when it is unknown.
func (s *Service) Current(ctx context.Context, lat, lon float64) *Reading {
	key := CacheKey(lat, lon)
	if r, ok := s.cache.Get(ctx, key); ok {
		return r
	}
	if s.provider == nil {
		return nil
	}

	r, err := s.provider.Current(ctx, lat, lon)
	if err != nil || r == nil {
		if err != nil {
			s.log.Warn("weather lookup failed", "key", key, "err", err)
		}
		return nil
	}
	if err := s.cache.Set(ctx, key, *r, s.ttl); err != nil {
		s.log.Warn("weather cache write failed", "key", key, "err", err)
	}
	return r
}

// Remember caches a reading observed at a coordinate, so later lookups
// nearby reuse it until it expires.
func (s *Service) Remember(ctx context.Context, lat, lon float64, r Reading) {
	if r.FetchedAt.IsZero() {
		r.FetchedAt = time.Now().UTC()
	}
	key := CacheKey(lat, lon)
	if err := s.cache.Set(ctx, key, r, s.ttl); err != nil {
		s.log.Warn("weather cache write failed", "key", key, "err", err)
	}
}
