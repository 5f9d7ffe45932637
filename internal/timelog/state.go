package timelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// stateHeader is the column schema of the state log. The room columns
// are variadic: one count per non-empty room at that poll.
var stateHeader = []string{"Time", "Unassigned", "In Rooms"}

// StateLog appends one row per poll iteration with the observed
// occupancy: timestamp, unassigned count, then the size of every
// non-empty room.
type StateLog struct {
	w *csv.Writer
}

// NewStateLog starts a new session in the state log.
func NewStateLog(out io.Writer, sessionID string, start time.Time) (*StateLog, error) {
	l := &StateLog{w: csv.NewWriter(out)}
	if err := l.w.Write([]string{sessionMarker(sessionID, start)}); err != nil {
		return nil, fmt.Errorf("failed to write session marker: %w", err)
	}
	if err := l.w.Write(stateHeader); err != nil {
		return nil, fmt.Errorf("failed to write state header: %w", err)
	}
	l.w.Flush()
	return l, l.w.Error()
}

// Record appends one poll's occupancy row. roomCounts should already be
// filtered to non-empty rooms, in snapshot order.
func (l *StateLog) Record(now time.Time, unassigned int, roomCounts []int) error {
	row := make([]string, 0, 2+len(roomCounts))
	row = append(row, FormatTime(now), strconv.Itoa(unassigned))
	for _, c := range roomCounts {
		row = append(row, strconv.Itoa(c))
	}
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("failed to write state row: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}
