// Package session persists named tuning sessions between runs.
//
// A session records where an interactive edit left off: the topology, the
// parameters and the seed. Resuming a session restores all three, so the same
// scene comes back when the seed was pinned.
//
//	store, err := session.NewFileStore(dir)
//	sess, err := store.Get(ctx, "lecture-3")
//	if sess == nil {
//	    sess, err = session.New("lecture-3", scene.TopologyNetwork, params.Default(), 0, session.DefaultTTL)
//	}
//	sess.Params.LayerCount = 5
//	err = store.Set(ctx, sess)
//
// Sessions expire after their TTL; an expired session reads as absent.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * 24 * time.Hour

// Session is the saved state of one tuning session.
type Session struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Topology  scene.Topology `json:"topology"`
	Params    params.Params  `json:"params"`
	Seed      uint64         `json:"seed,omitempty"` // 0 means unpinned
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records an update and extends the expiry by ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.UpdatedAt = time.Now()
	s.ExpiresAt = s.UpdatedAt.Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by name.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, name string) (*Session, error)

	// Set stores a session under its name.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, name string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// New creates a session. The name must be a short identifier because it
// becomes a file name.
func New(name string, t scene.Topology, p params.Params, seed uint64, ttl time.Duration) (*Session, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Topology:  t,
		Params:    p.Clamp(),
		Seed:      seed,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// ValidateName rejects names that are not plain identifiers.
func ValidateName(name string) error {
	return errors.ValidateName("session name", name)
}
