package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/internal/parquet"
)

// ExecuteSessionExport writes the session history held by store to two Parquet files
// named outputFile + ".sessions.parquet" and outputFile + ".transitions.parquet".
func ExecuteSessionExport(store contract.SessionStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("session store is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get session status: %w", err)
	}
	if status.TotalSessions == 0 {
		return errors.New("no session data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total sessions: %d\n", status.TotalSessions)
	fmt.Printf("Total transitions: %d\n", status.TotalTransitions)

	sessions, err := store.GetAllSessions()
	if err != nil {
		return fmt.Errorf("failed to retrieve sessions: %w", err)
	}
	transitions, err := store.GetAllTransitions()
	if err != nil {
		return fmt.Errorf("failed to retrieve transitions: %w", err)
	}

	sessionRows := parquet.ConvertSessionRecords(sessions)
	sessionsFile := outputFile + ".sessions.parquet"
	if err := parquet.WriteSessionsParquet(sessionRows, sessionsFile); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	fmt.Printf("Exported %d sessions to: %s\n", len(sessionRows), sessionsFile)

	transitionRows := parquet.ConvertTransitionRecords(transitions)
	transitionsFile := outputFile + ".transitions.parquet"
	if err := parquet.WriteTransitionsParquet(transitionRows, transitionsFile); err != nil {
		return fmt.Errorf("failed to write transitions: %w", err)
	}
	fmt.Printf("Exported %d transitions to: %s\n", len(transitionRows), transitionsFile)

	return nil
}
