package iocache

import (
	"fmt"
	"sort"

	"github.com/huangsam/metricsgraph/schema"
)

// PrintCacheStatus prints chart cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Cached Charts: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintSessionStatus prints session store status information.
func PrintSessionStatus(status schema.SessionStatus) {
	fmt.Printf("Session Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Sessions: %d\n", status.TotalSessions)
	if status.TotalSessions > 0 {
		fmt.Printf("Last Session ID: %s\n", status.LastSessionID)
		fmt.Printf("Last Session: %s\n", status.LastSessionTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Session: %s\n", status.OldestSessionAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Total Transitions: %d\n", status.TotalTransitions)
	}

	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	fmt.Println("Table Sizes:")
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
