package timelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/paulsc/officehours/internal/roster"
	"github.com/paulsc/officehours/internal/session"
)

// timingsHeader is the column schema of the timings log.
var timingsHeader = []string{"Name", "Joined", "Assigned", "TA", "Left"}

// TimingsLog appends one row per finalized participant visit. Rows are
// flushed immediately so a crash loses at most the row being written.
type TimingsLog struct {
	w *csv.Writer
}

// NewTimingsLog starts a new session in the timings log: a session
// marker line followed by the column header.
func NewTimingsLog(out io.Writer, sessionID string, start time.Time) (*TimingsLog, error) {
	l := &TimingsLog{w: csv.NewWriter(out)}
	if err := l.w.Write([]string{sessionMarker(sessionID, start)}); err != nil {
		return nil, fmt.Errorf("failed to write session marker: %w", err)
	}
	if err := l.w.Write(timingsHeader); err != nil {
		return nil, fmt.Errorf("failed to write timings header: %w", err)
	}
	l.w.Flush()
	return l, l.w.Error()
}

// Record appends the final row for a participant who left the call.
func (l *TimingsLog) Record(name roster.Name, times *session.Times, leftAt time.Time) error {
	assignedAt, assistant := Placeholder, Placeholder
	if a := times.Assignment; a != nil {
		assignedAt = FormatTime(a.Time)
		assistant = a.Assistant.String()
	}
	row := []string{name.String(), FormatTime(times.JoinTime), assignedAt, assistant, FormatTime(leftAt)}
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("failed to write timings row: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}

func sessionMarker(sessionID string, start time.Time) string {
	return fmt.Sprintf("-- Session %s started at %s", sessionID, FormatTime(start))
}
