// Package cache provides the byte-level cache used by the exhibitnet pipeline.
//
// Two things are cached: membership tables fetched from remote sources
// (S3), and rendered artifacts (SVG, PNG, DOT). Layouts are never cached;
// they are recomputed from the tables on every run so that no position
// outlives the invocation that produced it.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP server
//   - [MongoCache]: shared cache with a TTL index
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from the cached object's inputs. [DefaultKeyer]
// hashes every input into the key, so any change to a source URI or render
// option produces a different entry. [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache TTLs.
const (
	// TTLTable bounds how long a fetched table is reused. Remote tables are
	// refreshed daily unless the caller forces a refresh.
	TTLTable = 24 * time.Hour

	// TTLArtifact bounds rendered artifacts. They are keyed by a content
	// hash of the layout, so staleness is not a concern.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
//
// Implementations must be safe for concurrent use. A miss is reported as
// (nil, false, nil); an error means the backend itself failed.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// TableKey identifies a fetched table by its source location.
	TableKey(uri string, opts TableKeyOpts) string

	// ArtifactKey identifies a rendered artifact by the hash of the layout it
	// was rendered from.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// TableKeyOpts are the inputs of a table key besides the URI.
type TableKeyOpts struct {
	// Kind is "artists" or "memberships".
	Kind string `json:"kind"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Engine   string `json:"engine,omitempty"`
	Labels   bool   `json:"labels,omitempty"`
	AllEdges bool   `json:"all_edges,omitempty"`
}

// DefaultKeyer hashes all inputs into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TableKey generates a key for a fetched table.
func (DefaultKeyer) TableKey(uri string, opts TableKeyOpts) string {
	return hashKey("table", uri, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
