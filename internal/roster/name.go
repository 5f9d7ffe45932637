// Package roster models the occupancy of a conference call: participant
// display names, breakout rooms, full-call snapshots and the comparisons
// between them that drive assignment decisions.
package roster

import "strings"

// Assistant role markers recognized inside display names, matched
// case-insensitively. Both the English and French forms are accepted.
const (
	assistantMarkerEN = "[assistant"
	assistantMarkerFR = "[enseignant"
)

// Name is a participant display name. It is the only identity the call
// backend exposes; comparisons for identity are case-sensitive, while
// role and command detection lowercase internally.
type Name string

// String returns the raw display name.
func (n Name) String() string { return string(n) }

// IsAssistant reports whether the display name carries an assistant
// role marker.
func (n Name) IsAssistant() bool {
	lower := strings.ToLower(string(n))
	return strings.Contains(lower, assistantMarkerEN) || strings.Contains(lower, assistantMarkerFR)
}

// HasPrefixFold reports whether the trimmed, lowercased name starts
// with the given lowercase prefix. Used to resolve kick targets.
func (n Name) HasPrefixFold(prefix string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(string(n))), prefix)
}

// NameSet is a set of participant names.
type NameSet map[Name]struct{}

// Contains reports whether name is in the set.
func (s NameSet) Contains(name Name) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name into the set.
func (s NameSet) Add(name Name) {
	s[name] = struct{}{}
}
