// Package session holds the per-session mutable state of the commander:
// timing records for every participant seen in the waiting pool and the
// watermarks of what has last been published to the call. One State
// instance is owned by the poll loop for the lifetime of the process;
// it is only ever touched from the loop's single goroutine.
package session

import (
	"time"

	"github.com/paulsc/officehours/internal/roster"
)

// Assignment records when a participant was matched and with whom.
type Assignment struct {
	Time      time.Time
	Assistant roster.Name
}

// Times tracks one participant's visit: when they joined the waiting
// pool, their assignment if any, and whether a kick command was honored
// against them.
type Times struct {
	JoinTime   time.Time
	Assignment *Assignment
	Kicked     bool
}

// State is the live session state threaded through each poll iteration.
type State struct {
	timings map[roster.Name]*Times

	// LastPublishedPriorityList is the waiting list as last announced to
	// the main room; re-publication is suppressed while it is unchanged.
	LastPublishedPriorityList []roster.Name

	// LastPublishedQueueLength is the queue length as last broadcast.
	LastPublishedQueueLength int
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{timings: make(map[roster.Name]*Times)}
}

// Times returns the timing record for name, or nil if none exists.
func (s *State) Times(name roster.Name) *Times {
	return s.timings[name]
}

// Track creates a timing record with the given join time if the
// participant is not already tracked, and returns the record.
func (s *State) Track(name roster.Name, joinTime time.Time) *Times {
	if t, ok := s.timings[name]; ok {
		return t
	}
	t := &Times{JoinTime: joinTime}
	s.timings[name] = t
	return t
}

// Forget removes the timing record for name, returning the removed
// record, or nil if the participant was not tracked.
func (s *State) Forget(name roster.Name) *Times {
	t := s.timings[name]
	delete(s.timings, name)
	return t
}

// Tracked returns the number of live timing records.
func (s *State) Tracked() int { return len(s.timings) }
