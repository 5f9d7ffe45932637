package timelog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/paulsc/officehours/internal/session"
)

func TestTimingsRoundTrip(t *testing.T) {
	join := time.Date(2026, 3, 2, 14, 0, 1, 500000000, time.UTC)
	assigned := join.Add(90 * time.Second)
	left := join.Add(10 * time.Minute)

	var buf bytes.Buffer
	log, err := NewTimingsLog(&buf, "session-1", join)
	if err != nil {
		t.Fatalf("NewTimingsLog() error: %v", err)
	}

	served := &session.Times{
		JoinTime:   join,
		Assignment: &session.Assignment{Time: assigned, Assistant: "TA [assistant]"},
	}
	if err := log.Record("alice", served, left); err != nil {
		t.Fatalf("Record(alice) error: %v", err)
	}
	gaveUp := &session.Times{JoinTime: join}
	if err := log.Record("bob", gaveUp, left); err != nil {
		t.Fatalf("Record(bob) error: %v", err)
	}

	rows, err := ReadRows(&buf)
	if err != nil {
		t.Fatalf("ReadRows() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ReadRows() returned %d rows, want 2 (marker and header skipped)", len(rows))
	}

	alice := rows[0]
	if alice.Name != "alice" {
		t.Errorf("Name = %q, want alice", alice.Name)
	}
	if !alice.JoinTime.Equal(join) {
		t.Errorf("JoinTime = %v, want %v", alice.JoinTime, join)
	}
	if alice.Assignment == nil {
		t.Fatal("Assignment = nil, want record")
	}
	if !alice.Assignment.Time.Equal(assigned) || alice.Assignment.Assistant != "TA [assistant]" {
		t.Errorf("Assignment = %+v, want time %v assistant TA", alice.Assignment, assigned)
	}
	if !alice.LeftTime.Equal(left) {
		t.Errorf("LeftTime = %v, want %v", alice.LeftTime, left)
	}

	bob := rows[1]
	if bob.WasServed() {
		t.Error("bob.WasServed() = true, want false")
	}
	if got := bob.WaitDuration(); got != 10*time.Minute {
		t.Errorf("bob.WaitDuration() = %v, want 10m", got)
	}
	if got := bob.QuestionDuration(); got != 0 {
		t.Errorf("bob.QuestionDuration() = %v, want 0", got)
	}
	if got := alice.WaitDuration(); got != 90*time.Second {
		t.Errorf("alice.WaitDuration() = %v, want 90s", got)
	}
}

func TestSessionMarkerWritten(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	if _, err := NewTimingsLog(&buf, "abc-123", start); err != nil {
		t.Fatalf("NewTimingsLog() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "-- Session abc-123 started at 2026-03-02 14:00:00.000000") {
		t.Errorf("missing session marker in output:\n%s", out)
	}
	if !strings.Contains(out, "Name,Joined,Assigned,TA,Left") {
		t.Errorf("missing header in output:\n%s", out)
	}
}

func TestParseRowSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
	}{
		{"marker row", []string{"-- Session abc started at 2026-03-02 14:00:00.000000"}},
		{"header row", []string{"Name", "Joined", "Assigned", "TA", "Left"}},
		{"too few columns", []string{"alice", "2026-03-02 14:00:00.000000"}},
		{"bad join time", []string{"alice", "nope", "-", "-", "2026-03-02 14:00:00.000000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRow(tt.record); !errors.Is(err, ErrRowSchema) {
				t.Errorf("ParseRow(%v) error = %v, want ErrRowSchema", tt.record, err)
			}
		})
	}
}

func TestStateLogRow(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 2, 0, time.UTC)
	var buf bytes.Buffer
	log, err := NewStateLog(&buf, "session-1", now)
	if err != nil {
		t.Fatalf("NewStateLog() error: %v", err)
	}

	if err := log.Record(now, 3, []int{2, 1}); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	want := "2026-03-02 14:00:02.000000,3,2,1"
	if last != want {
		t.Errorf("state row = %q, want %q", last, want)
	}
}
