package schema

import "time"

// SessionRecord represents a row from the metricsgraph_sessions table.
type SessionRecord struct {
	SessionID     string
	Surface       string
	StartedAt     time.Time
	EndedAt       *time.Time
	InitialMetric string
	Transitions   int32
}

// TransitionRecord represents a row from the metricsgraph_transitions table.
type TransitionRecord struct {
	SessionID  string
	Seq        int64
	FromMetric string
	ToMetric   string
	Cause      string
	At         time.Time
}
