package roster

import "strings"

// Command delimiters embedded in display names, e.g. "Bob {{kick: ali}}".
const (
	cmdOpen  = "{{"
	cmdClose = "}}"
	cmdSep   = ":"
)

// CommandKick relocates another participant in the invoker's room to the
// holding room. It is the only key currently honored.
const CommandKick = "kick"

// Command is a moderator request embedded in a display name.
type Command struct {
	Key   string // lowercased, trimmed
	Value string // trimmed, case preserved
}

// ParseCommand extracts the first embedded command from a display name.
// The match is the leftmost open marker together with the first close
// marker after it; the delimited text must contain a colon. Returns
// false when no well-formed command is present.
func ParseCommand(name Name) (Command, bool) {
	s := string(name)
	start := strings.Index(s, cmdOpen)
	if start == -1 {
		return Command{}, false
	}
	rest := s[start+len(cmdOpen):]
	end := strings.Index(rest, cmdClose)
	if end == -1 {
		return Command{}, false
	}
	full := rest[:end]
	sep := strings.Index(full, cmdSep)
	if sep == -1 {
		return Command{}, false
	}
	return Command{
		Key:   strings.ToLower(strings.TrimSpace(full[:sep])),
		Value: strings.TrimSpace(full[sep+len(cmdSep):]),
	}, true
}
