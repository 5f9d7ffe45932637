// Package planner computes the assignment decisions for one poll
// iteration: which idle assistants to place into uncovered rooms, which
// waiting students to match with open rooms and in what priority order,
// and which embedded moderator commands to honor. The planner mutates
// the session state it is given and returns the commands to issue; the
// caller (the poll loop, or a test) executes them.
package planner

import (
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/paulsc/officehours/internal/roster"
	"github.com/paulsc/officehours/internal/session"
)

// ActionType discriminates the commands a plan can emit.
type ActionType int

const (
	// ActionAssign moves a participant into a breakout room.
	ActionAssign ActionType = iota
	// ActionBroadcast sends a message to every room.
	ActionBroadcast
	// ActionMainRoom sends a message to the main (unassigned) room only.
	ActionMainRoom
)

// AssignKind labels why an assignment was planned, for logs and metrics.
type AssignKind string

const (
	AssignAssistant AssignKind = "assistant"
	AssignStudent   AssignKind = "student"
	AssignKick      AssignKind = "kick"
)

// Action is one command for the call backend, in execution order.
type Action struct {
	Type        ActionType
	Participant roster.Name // ActionAssign only
	Room        string      // ActionAssign only
	Message     string      // ActionBroadcast / ActionMainRoom only
	Kind        AssignKind  // ActionAssign only
}

// Departure is a finalized participant visit, ready for the timings log.
type Departure struct {
	Name  roster.Name
	Times *session.Times
}

// Result is everything one iteration decided.
type Result struct {
	Actions     []Action
	Departures  []Departure
	QueueLength int
}

// Planner holds the iteration-invariant inputs of the allocation
// algorithm. The random source only breaks ties between equally
// occupied open rooms; inject a seeded one in tests.
type Planner struct {
	capacity int
	rng      *rand.Rand
	logger   *slog.Logger
}

// New creates a planner with the given per-room student capacity.
func New(capacity int, rng *rand.Rand, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{capacity: capacity, rng: rng, logger: logger}
}

// Step runs one poll iteration over the old and current snapshots,
// mutating st and returning the planned actions and finalized
// departures.
func (p *Planner) Step(old, current roster.Snapshot, now time.Time, st *session.State) Result {
	var res Result

	// Departures first: names gone from the call entirely.
	diff := roster.Diff(old, current)
	for _, name := range sortedNames(diff.Left) {
		times := st.Forget(name)
		if times == nil {
			// The backend reported a leave for someone we never tracked.
			p.logger.Debug("untracked participant left", "participant", name.String())
			continue
		}
		res.Departures = append(res.Departures, Departure{Name: name, Times: times})
	}

	// Register arrivals and place idle assistants into uncovered rooms.
	// Rooms claimed this iteration are excluded so two assistants never
	// land in the same room within one poll.
	unassigned := sortedNames(current.UnassignedParticipants())
	claimed := make(map[string]struct{})
	justAssigned := 0
	for _, name := range unassigned {
		st.Track(name, now)
		if !name.IsAssistant() {
			continue
		}
		room, ok := current.RoomForNewAssistant(claimed)
		if !ok {
			continue
		}
		res.Actions = append(res.Actions, Action{
			Type: ActionAssign, Participant: name, Room: room.Name, Kind: AssignAssistant,
		})
		claimed[room.Name] = struct{}{}
		justAssigned++
	}

	// Waiting students ordered first-come-first-served; equal join times
	// fall back to name order so the list is stable between polls.
	var students []roster.Name
	for _, name := range unassigned {
		if !name.IsAssistant() {
			students = append(students, name)
		}
	}
	slices.SortFunc(students, func(a, b roster.Name) int {
		ta, tb := st.Times(a).JoinTime, st.Times(b).JoinTime
		if !ta.Equal(tb) {
			return ta.Compare(tb)
		}
		return strings.Compare(a.String(), b.String())
	})

	if !slices.Equal(students, st.LastPublishedPriorityList) {
		st.LastPublishedPriorityList = slices.Clone(students)
		res.Actions = append(res.Actions, Action{
			Type:    ActionMainRoom,
			Message: waitingListMessage(now, students, st),
		})
	}

	// Match the longest-waiting students with the emptiest open rooms.
	openings := current.Openings(p.rng, p.capacity)
	for i, room := range openings {
		if i >= len(students) {
			break
		}
		student := students[i]
		res.Actions = append(res.Actions, Action{
			Type: ActionAssign, Participant: student, Room: room.Name, Kind: AssignStudent,
		})
		st.Times(student).Assignment = &session.Assignment{Time: now, Assistant: room.Assistants()[0]}
		justAssigned++
	}

	res.QueueLength = len(unassigned) - justAssigned
	if res.QueueLength != st.LastPublishedQueueLength {
		delta := res.QueueLength - st.LastPublishedQueueLength
		st.LastPublishedQueueLength = res.QueueLength
		res.Actions = append(res.Actions, Action{
			Type:    ActionBroadcast,
			Message: queueLengthMessage(res.QueueLength, delta),
		})
	}

	res.Actions = append(res.Actions, p.commandActions(current, st)...)
	return res
}

// commandActions scans every room for commands embedded in display
// names and plans the ones it honors. Only kick is recognized; it must
// come from an assistant, carry a non-empty prefix, and match someone
// in the invoker's own room. Targets go to the last room in snapshot
// order, which serves as the holding room.
func (p *Planner) commandActions(current roster.Snapshot, st *session.State) []Action {
	var actions []Action
	for _, room := range current.Rooms {
		for _, invoker := range room.Participants {
			cmd, ok := roster.ParseCommand(invoker)
			if !ok {
				continue
			}
			if cmd.Key != roster.CommandKick || cmd.Value == "" {
				p.logger.Warn("unknown command ignored",
					"command", cmd.Key, "value", cmd.Value, "invoker", invoker.String())
				continue
			}
			if !invoker.IsAssistant() {
				p.logger.Warn("kick refused for non-assistant", "invoker", invoker.String())
				continue
			}
			target, found := findKickTarget(room, strings.ToLower(cmd.Value))
			if !found {
				p.logger.Warn("no kick target found",
					"invoker", invoker.String(), "prefix", cmd.Value)
				continue
			}
			if times := st.Times(target); times != nil {
				times.Kicked = true
			}
			holding := current.Rooms[len(current.Rooms)-1].Name
			p.logger.Info("honoring kick command",
				"invoker", invoker.String(), "target", target.String(), "room", holding)
			actions = append(actions, Action{
				Type: ActionAssign, Participant: target, Room: holding, Kind: AssignKick,
			})
		}
	}
	return actions
}

// findKickTarget returns the first participant in room whose trimmed,
// lowercased name starts with prefix. First match in participant-list
// order wins.
func findKickTarget(room roster.Room, prefix string) (roster.Name, bool) {
	for _, p := range room.Participants {
		if p.HasPrefixFold(prefix) {
			return p, true
		}
	}
	return "", false
}

// sortedNames returns the set's names in ascending order. Map iteration
// order is unspecified; sorting keeps iterations reproducible.
func sortedNames(set roster.NameSet) []roster.Name {
	names := make([]roster.Name, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
