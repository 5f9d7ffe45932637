package timelog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/paulsc/officehours/internal/roster"
	"github.com/paulsc/officehours/internal/session"
)

// ErrRowSchema is returned for rows that do not match the five-column
// timings schema (session markers, headers, truncated rows).
var ErrRowSchema = errors.New("row does not match timings schema")

// Row is one parsed timings record: a single participant visit.
type Row struct {
	Name       roster.Name
	JoinTime   time.Time
	Assignment *session.Assignment
	LeftTime   time.Time
}

// WasServed reports whether the participant was assigned to an
// assistant before leaving.
func (r Row) WasServed() bool { return r.Assignment != nil }

// WaitDuration is the time spent in the queue: join to assignment when
// served, join to departure when the participant gave up.
func (r Row) WaitDuration() time.Duration {
	if r.Assignment == nil {
		return r.LeftTime.Sub(r.JoinTime)
	}
	return r.Assignment.Time.Sub(r.JoinTime)
}

// QuestionDuration is the time spent with an assistant; zero when the
// participant was never served.
func (r Row) QuestionDuration() time.Duration {
	if r.Assignment == nil {
		return 0
	}
	return r.LeftTime.Sub(r.Assignment.Time)
}

// ParseRow decodes one CSV record into a Row. Records with the wrong
// column count fail with ErrRowSchema so callers can skip marker and
// header lines.
func ParseRow(record []string) (Row, error) {
	if len(record) != len(timingsHeader) {
		return Row{}, fmt.Errorf("%w: %d columns", ErrRowSchema, len(record))
	}
	joinTime, err := ParseTime(record[1])
	if err != nil {
		return Row{}, fmt.Errorf("%w: bad join time %q", ErrRowSchema, record[1])
	}
	leftTime, err := ParseTime(record[4])
	if err != nil {
		return Row{}, fmt.Errorf("%w: bad left time %q", ErrRowSchema, record[4])
	}
	row := Row{Name: roster.Name(record[0]), JoinTime: joinTime, LeftTime: leftTime}
	if record[2] != Placeholder {
		assignedTime, err := ParseTime(record[2])
		if err != nil {
			return Row{}, fmt.Errorf("%w: bad assigned time %q", ErrRowSchema, record[2])
		}
		row.Assignment = &session.Assignment{Time: assignedTime, Assistant: roster.Name(record[3])}
	}
	return row, nil
}

// ReadRows parses a whole timings log, skipping session markers, column
// headers and any other row that does not match the schema.
func ReadRows(in io.Reader) ([]Row, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read timings log: %w", err)
		}
		row, err := ParseRow(record)
		if err != nil {
			if errors.Is(err, ErrRowSchema) {
				continue
			}
			return nil, err
		}
		rows = append(rows, row)
	}
}
