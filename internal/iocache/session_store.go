package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
)

// Table names for session history.
const (
	sessionsTable    = "metricsgraph_sessions"
	transitionsTable = "metricsgraph_transitions"
)

// SessionStoreImpl implements the SessionStore interface.
type SessionStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SessionStore = &SessionStoreImpl{} // Compile-time check

// NewSessionStore creates a new SessionStore with the specified backend.
func NewSessionStore(backend schema.DatabaseBackend, connStr string) (contract.SessionStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &SessionStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetSessionDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createSessionTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session tables: %w", err)
	}

	return &SessionStoreImpl{db: db, backend: backend}, nil
}

// createSessionTables creates the session history tables.
func createSessionTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{sessionsTable, getCreateSessionsQuery(backend)},
		{transitionsTable, getCreateTransitionsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateSessionsQuery returns the CREATE TABLE query for metricsgraph_sessions.
func getCreateSessionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(sessionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id VARCHAR(64) PRIMARY KEY,
				surface VARCHAR(16) NOT NULL,
				started_at DATETIME(6) NOT NULL,
				ended_at DATETIME(6),
				initial_metric VARCHAR(255) NOT NULL,
				transitions INT NOT NULL DEFAULT 0
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id TEXT PRIMARY KEY,
				surface TEXT NOT NULL,
				started_at TIMESTAMPTZ NOT NULL,
				ended_at TIMESTAMPTZ,
				initial_metric TEXT NOT NULL,
				transitions INT NOT NULL DEFAULT 0
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id TEXT PRIMARY KEY,
				surface TEXT NOT NULL,
				started_at TEXT NOT NULL,
				ended_at TEXT,
				initial_metric TEXT NOT NULL,
				transitions INTEGER NOT NULL DEFAULT 0
			);
		`, quotedTableName)
	}
}

// getCreateTransitionsQuery returns the CREATE TABLE query for metricsgraph_transitions.
func getCreateTransitionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(transitionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id VARCHAR(64) NOT NULL,
				seq BIGINT NOT NULL,
				from_metric VARCHAR(255) NOT NULL,
				to_metric VARCHAR(255) NOT NULL,
				cause VARCHAR(16) NOT NULL,
				occurred_at DATETIME(6) NOT NULL,
				PRIMARY KEY (session_id, seq)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id TEXT NOT NULL,
				seq BIGINT NOT NULL,
				from_metric TEXT NOT NULL,
				to_metric TEXT NOT NULL,
				cause TEXT NOT NULL,
				occurred_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (session_id, seq)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id TEXT NOT NULL,
				seq INTEGER NOT NULL,
				from_metric TEXT NOT NULL,
				to_metric TEXT NOT NULL,
				cause TEXT NOT NULL,
				occurred_at TEXT NOT NULL,
				PRIMARY KEY (session_id, seq)
			);
		`, quotedTableName)
	}
}

// BeginSession inserts a new session row.
func (ss *SessionStoreImpl) BeginSession(record schema.SessionRecord) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}
	if record.SessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	query := fmt.Sprintf(`INSERT INTO %s (session_id, surface, started_at, initial_metric, transitions) VALUES (%s)`,
		quoteTableName(sessionsTable, ss.backend), placeholders(ss.backend, 5))
	_, err := ss.db.Exec(query, record.SessionID, record.Surface, formatTime(record.StartedAt, ss.backend), record.InitialMetric, record.Transitions)
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", record.SessionID, err)
	}
	return nil
}

// RecordTransition stores one transition of a running session.
func (ss *SessionStoreImpl) RecordTransition(sessionID string, transition schema.Transition) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (session_id, seq, from_metric, to_metric, cause, occurred_at) VALUES (%s)`,
		quoteTableName(transitionsTable, ss.backend), placeholders(ss.backend, 6))
	_, err := ss.db.Exec(query, sessionID, int64(transition.Seq), transition.From, transition.To,
		string(transition.Cause), formatTime(transition.At, ss.backend))
	if err != nil {
		return fmt.Errorf("failed to insert transition %d for session %s: %w", transition.Seq, sessionID, err)
	}
	return nil
}

// EndSession marks the session as unmounted.
func (ss *SessionStoreImpl) EndSession(sessionID string, endedAt time.Time, transitions int) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET ended_at = %s, transitions = %s WHERE session_id = %s`,
		quoteTableName(sessionsTable, ss.backend),
		placeholder(ss.backend, 1), placeholder(ss.backend, 2), placeholder(ss.backend, 3))
	result, err := ss.db.Exec(query, formatTime(endedAt, ss.backend), transitions, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}

// Close closes the underlying connection.
func (ss *SessionStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the session store.
func (ss *SessionStoreImpl) GetStatus() (schema.SessionStatus, error) {
	status := schema.SessionStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}

	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	quotedSessions := quoteTableName(sessionsTable, ss.backend)

	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedSessions))
	if err := row.Scan(&status.TotalSessions); err != nil {
		return status, fmt.Errorf("failed to get total sessions: %w", err)
	}

	if status.TotalSessions > 0 {
		// Get last session info
		last := timeScanner{backend: ss.backend}
		row = ss.db.QueryRow(fmt.Sprintf("SELECT session_id, started_at FROM %s ORDER BY started_at DESC LIMIT 1", quotedSessions))
		if err := row.Scan(&status.LastSessionID, last.target()); err != nil {
			return status, fmt.Errorf("failed to get last session info: %w", err)
		}
		lastTime, _, err := last.value()
		if err != nil {
			return status, fmt.Errorf("failed to parse last session time: %w", err)
		}
		status.LastSessionTime = lastTime

		// Get oldest session time
		oldest := timeScanner{backend: ss.backend}
		row = ss.db.QueryRow(fmt.Sprintf("SELECT started_at FROM %s ORDER BY started_at ASC LIMIT 1", quotedSessions))
		if err := row.Scan(oldest.target()); err != nil {
			return status, fmt.Errorf("failed to get oldest session time: %w", err)
		}
		oldestTime, _, err := oldest.value()
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest session time: %w", err)
		}
		status.OldestSessionAt = oldestTime
	}

	// Get table sizes
	for _, table := range []string{sessionsTable, transitionsTable} {
		var count int64
		row = ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ss.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalTransitions = int(status.TableSizes[transitionsTable])

	return status, nil
}

// GetAllSessions retrieves all sessions from the store.
func (ss *SessionStoreImpl) GetAllSessions() ([]schema.SessionRecord, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT session_id, surface, started_at, ended_at, initial_metric, transitions FROM %s ORDER BY started_at, session_id",
		quoteTableName(sessionsTable, ss.backend))
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SessionRecord
	for rows.Next() {
		var record schema.SessionRecord
		started := timeScanner{backend: ss.backend}
		ended := timeScanner{backend: ss.backend}
		if err := rows.Scan(&record.SessionID, &record.Surface, started.target(), ended.target(), &record.InitialMetric, &record.Transitions); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		startedAt, _, err := started.value()
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		record.StartedAt = startedAt

		endedAt, ok, err := ended.value()
		if err != nil {
			return nil, fmt.Errorf("failed to parse ended_at: %w", err)
		}
		if ok {
			record.EndedAt = &endedAt
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return results, nil
}

// GetAllTransitions retrieves all transitions from the store.
func (ss *SessionStoreImpl) GetAllTransitions() ([]schema.TransitionRecord, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT session_id, seq, from_metric, to_metric, cause, occurred_at FROM %s ORDER BY session_id, seq",
		quoteTableName(transitionsTable, ss.backend))
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TransitionRecord
	for rows.Next() {
		var record schema.TransitionRecord
		at := timeScanner{backend: ss.backend}
		if err := rows.Scan(&record.SessionID, &record.Seq, &record.FromMetric, &record.ToMetric, &record.Cause, at.target()); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		occurredAt, _, err := at.value()
		if err != nil {
			return nil, fmt.Errorf("failed to parse occurred_at: %w", err)
		}
		record.At = occurredAt
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transitions: %w", err)
	}
	return results, nil
}
