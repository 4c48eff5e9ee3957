// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/metricsgraph/schema"
)

// MetricRegistry is a fixed, read-only set of datasets keyed by id.
type MetricRegistry interface {
	// Get returns the dataset for id or an *schema.UnknownMetricError.
	Get(id string) (schema.MetricDataset, error)

	// ListIDs returns every id in registration order.
	ListIDs() []string

	// Datasets returns every dataset in registration order.
	Datasets() []schema.MetricDataset

	// Fingerprint returns a stable hash of the registry contents.
	Fingerprint() string
}

// RegistryLoader builds a registry from the configured sources.
// This allows config validation to be tested without touching the filesystem.
type RegistryLoader interface {
	// Load reads datasets from path when set, then from inline, then falls back to built-ins.
	Load(path string, inline []schema.MetricDataset) (MetricRegistry, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetChartStore() CacheStore
	GetSessionStore() SessionStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SessionStore defines the interface for recording viewing sessions and their transitions.
type SessionStore interface {
	// BeginSession inserts a new session row
	BeginSession(record schema.SessionRecord) error

	// RecordTransition stores one transition of a running session
	RecordTransition(sessionID string, transition schema.Transition) error

	// EndSession marks the session as unmounted
	EndSession(sessionID string, endedAt time.Time, transitions int) error

	// GetStatus returns status information about the session store
	GetStatus() (schema.SessionStatus, error)

	// GetAllSessions returns every recorded session ordered by start time
	GetAllSessions() ([]schema.SessionRecord, error)

	// GetAllTransitions returns every recorded transition ordered by session and sequence
	GetAllTransitions() ([]schema.TransitionRecord, error)

	// Close closes the underlying connection
	Close() error
}

// OutputWriter defines the interface for writing command results.
// This allows the output layer to be mocked for testing.
type OutputWriter interface {
	WriteMetrics(datasets []schema.MetricDataset, active string, cfg *Config) error
	WritePaths(charts []schema.Chart, cfg *Config) error
	WriteChart(chart schema.Chart, cfg *Config) error
}
