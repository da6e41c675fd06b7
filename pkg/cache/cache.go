// Package cache stores generated scenes and rendered artifacts.
//
// Caches are accelerators, not state: every entry can be regenerated from its
// key inputs, and every entry expires. Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (caching disabled)
//
// Keys come from a [Keyer] so that callers never hand-build them. Keys have the
// form prefix:sha256(json(parts)), which keeps them fixed-length and safe to
// use as file names or Redis keys.
package cache

import (
	"context"
	"time"
)

// Entry lifetimes.
const (
	TTLScene    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// SceneKeyOpts are the inputs that determine a generated scene.
type SceneKeyOpts struct {
	LearningRate float64 `json:"lr"`
	Layers       int     `json:"layers"`
	Neurons      int     `json:"neurons"`
	Activation   string  `json:"activation"`
	Epochs       int     `json:"epochs"`
	Seed         uint64  `json:"seed"`
}

// ArtifactKeyOpts are the inputs that determine one rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Time   float64 `json:"time"`
}

// Keyer builds cache keys.
type Keyer interface {
	SceneKey(topology string, opts SceneKeyOpts) string
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SceneKey returns the key of a generated scene.
func (DefaultKeyer) SceneKey(topology string, opts SceneKeyOpts) string {
	return hashKey("scene", topology, opts)
}

// ArtifactKey returns the key of an artifact rendered from the scene whose
// serialized form hashes to sceneHash.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
