// Package timelog writes the commander's append-only CSV records (per
// participant visit timings, per poll occupancy state) and parses them
// back for offline analysis. Both files use the same sortable timestamp
// format so rows written by the live loop round-trip through the
// analyzer unchanged.
package timelog

import "time"

// TimeFormat is the sortable textual timestamp used in every CSV row.
const TimeFormat = "2006-01-02 15:04:05.000000"

// Placeholder marks an absent assignment time or assistant in a row.
const Placeholder = "-"

// FormatTime renders t in the log timestamp format.
func FormatTime(t time.Time) string { return t.Format(TimeFormat) }

// ParseTime parses a log timestamp.
func ParseTime(s string) (time.Time, error) { return time.Parse(TimeFormat, s) }
