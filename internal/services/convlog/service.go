// Package convlog keeps a short-lived, encrypted per-session log of
// handled turns for observability and support handoff. It is best
// effort and never part of the conversational state: contexts remain
// the only memory between turns.
package convlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/energix/fulfillment-service/internal/core/cache"
	"github.com/energix/fulfillment-service/internal/pkg/encryption"
)

const (
	// DefaultTTL is the default retention for a session's turn log.
	DefaultTTL = 30 * time.Minute

	// DefaultMaxEntries caps the trail length per session.
	DefaultMaxEntries = 20
)

// Entry is one handled turn. Entries carry identity fragments, which
// is why the trail is encrypted at rest.
type Entry struct {
	Intent string    `json:"intent"`
	Action string    `json:"action,omitempty"`
	Status string    `json:"status,omitempty"`
	Reply  string    `json:"reply"`
	At     time.Time `json:"at"`
}

// Service records and reads per-session turn trails.
type Service struct {
	cacheClient cache.Client
	encryptor   encryption.Encryptor
	ttl         time.Duration
	maxEntries  int
}

// Config holds the configuration for the turn log service.
type Config struct {
	CacheClient cache.Client
	Encryptor   encryption.Encryptor
	TTL         time.Duration
	MaxEntries  int
}

// NewService creates a new turn log service.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.CacheClient == nil {
		return nil, fmt.Errorf("cache client is required")
	}
	if cfg.Encryptor == nil {
		return nil, fmt.Errorf("encryptor is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &Service{
		cacheClient: cfg.CacheClient,
		encryptor:   cfg.Encryptor,
		ttl:         ttl,
		maxEntries:  maxEntries,
	}, nil
}

// Record appends an entry to the session's trail, trimming the oldest
// entries beyond the cap and refreshing the TTL.
func (s *Service) Record(ctx context.Context, sessionKey string, entry Entry) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	trail, err := s.Trail(ctx, sessionKey)
	if err != nil {
		return err
	}
	trail = append(trail, entry)
	if len(trail) > s.maxEntries {
		trail = trail[len(trail)-s.maxEntries:]
	}

	data, err := json.Marshal(trail)
	if err != nil {
		return fmt.Errorf("failed to marshal turn log: %w", err)
	}
	encrypted, err := s.encryptor.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt turn log: %w", err)
	}
	if err := s.cacheClient.Set(ctx, s.key(sessionKey), []byte(encrypted), s.ttl); err != nil {
		return fmt.Errorf("failed to store turn log: %w", err)
	}
	return nil
}

// Trail returns the session's recorded turns, oldest first. A stale or
// undecryptable trail is dropped rather than surfaced: the log is
// observability, not state.
func (s *Service) Trail(ctx context.Context, sessionKey string) ([]Entry, error) {
	encrypted, err := s.cacheClient.Get(ctx, s.key(sessionKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get turn log: %w", err)
	}
	if encrypted == nil {
		return nil, nil
	}

	data, err := s.encryptor.Decrypt(string(encrypted))
	if err != nil {
		_, _ = s.cacheClient.Delete(ctx, s.key(sessionKey))
		return nil, nil
	}
	var trail []Entry
	if err := json.Unmarshal(data, &trail); err != nil {
		_, _ = s.cacheClient.Delete(ctx, s.key(sessionKey))
		return nil, nil
	}
	return trail, nil
}

func (s *Service) key(sessionKey string) string {
	return "turnlog:" + sessionKey
}
