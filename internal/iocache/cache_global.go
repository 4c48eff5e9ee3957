package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
)

// chartTable is the name of the table for rendered chart caching.
const chartTable = "metricsgraph_charts"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for chart caching.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetSessionDBFilePath returns the path to the SQLite DB file for session history.
func GetSessionDBFilePath() string {
	return contract.GetSessionDBFilePath()
}

// InitStores initializes the global manager with separate chart and session stores.
// An empty backend leaves the corresponding store unset.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, sessionBackend schema.DatabaseBackend, sessionConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var chartStore contract.CacheStore
		if cacheBackend != "" {
			chartStore, err = NewCacheStore(chartTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize chart caching: %w", err)
				return
			}
		}

		var sessionStore contract.SessionStore
		if sessionBackend != "" {
			sessionStore, err = NewSessionStore(sessionBackend, sessionConnStr)
			if err != nil {
				if chartStore != nil {
					_ = chartStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize session store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.charts = chartStore
		Manager.sessions = sessionStore
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.charts != nil {
			_ = Manager.charts.Close()
		}
		if Manager.sessions != nil {
			_ = Manager.sessions.Close()
		}
	})
}

// ClearCache clears the chart cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearTables(backend, dbFilePath, connStr, chartTable)
}

// ClearSessions clears the session history for the specified backend.
func ClearSessions(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearTables(backend, dbFilePath, connStr, transitionsTable, sessionsTable)
}

func clearTables(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
