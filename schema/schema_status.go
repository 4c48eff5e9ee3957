package schema

import "time"

// CacheStatus represents the status of the render cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SessionStatus represents the status of the session store.
type SessionStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalSessions    int              `json:"total_sessions"`
	TotalTransitions int              `json:"total_transitions"`
	LastSessionID    string           `json:"last_session_id"`
	LastSessionTime  time.Time        `json:"last_session_time"`
	OldestSessionAt  time.Time        `json:"oldest_session_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
