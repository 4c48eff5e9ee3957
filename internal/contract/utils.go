package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Trend label constants.
const (
	UpValue   = "Up"   // Up value
	DownValue = "Down" // Down value
	FlatValue = "Flat" // Flat value
)

// Color variables for console output.
var (
	UpColor     = color.New(color.FgGreen, color.Bold) // UpColor marks a current series that ended above baseline.
	DownColor   = color.New(color.FgRed, color.Bold)   // DownColor marks a regression.
	FlatColor   = color.New(color.FgCyan)              // FlatColor is informational.
	ActiveColor = color.New(color.FgYellow, color.Bold)
)

// GetColorTrend returns a colored trend label for console output (table).
func GetColorTrend(label string) string {
	switch label {
	case UpValue:
		return UpColor.Sprint(label)
	case DownValue:
		return DownColor.Sprint(label)
	default:
		return FlatColor.Sprint(label)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for render cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".metricsgraph_cache.db"
	}
	return filepath.Join(homeDir, ".metricsgraph_cache.db")
}

// GetSessionDBFilePath returns the path to the SQLite DB file for session storage.
func GetSessionDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".metricsgraph_sessions.db"
	}
	return filepath.Join(homeDir, ".metricsgraph_sessions.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseDurationDefault parses a Go duration string, returning def for blank input.
// Bare integers are read as milliseconds.
func ParseDurationDefault(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	var ms int64
	if _, err := fmt.Sscanf(s, "%d", &ms); err == nil && fmt.Sprint(ms) == s {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return 0, fmt.Errorf("cannot parse duration %q", s)
}
