package schema

import (
	"strconv"
	"strings"
)

// FormatCoord formats a coordinate with the shortest decimal form that round-trips.
func FormatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatValue formats a data value with its unit the way the chart callout does.
// Percentages are suffixed directly, other units are left to the legend.
func FormatValue(v float64, unit string) string {
	s := FormatCoord(v)
	if unit == "%" {
		return s + "%"
	}
	return s
}

// IndexLabel returns the label drawn under a point, e.g. "W3".
func IndexLabel(index int) string {
	return "W" + strconv.Itoa(index)
}

// ParseSeries parses a series selector, tolerating case and whitespace.
func ParseSeries(s string) (Series, bool) {
	series := Series(strings.ToLower(strings.TrimSpace(s)))
	if series == BothSeries {
		return series, true
	}
	_, ok := ValidSeries[series]
	return series, ok
}
