package outwriter

import (
	"os"

	"github.com/huangsam/metricsgraph/internal/contract"
	"golang.org/x/term"
)

// GetTerminalWidth returns the width override from config, the detected
// terminal width, or a conservative default of 80 columns.
func GetTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxTablePathWidth calculates the maximum width for path strings in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	// Reserve space for the Metric and Series columns with borders/padding
	baseWidth := 30

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 10

	available := GetTerminalWidth(cfg) - baseWidth
	if available < 20 {
		// Minimum reasonable path width
		return 20
	}
	return available
}

// GetMaxTableTextWidth bounds the width of free-text columns such as subtitles.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	// Order + ID + Title + Unit + Points + Final + Trend with borders/padding
	baseWidth := 75
	available := GetTerminalWidth(cfg) - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
