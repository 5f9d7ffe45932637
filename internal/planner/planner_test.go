package planner

import (
	"math/rand"
	"testing"
	"time"

	"github.com/paulsc/officehours/internal/roster"
	"github.com/paulsc/officehours/internal/session"
)

var t0 = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

func newTestPlanner(capacity int) *Planner {
	return New(capacity, rand.New(rand.NewSource(1)), nil)
}

// assignActions filters a result's assign actions by kind.
func assignActions(res Result, kind AssignKind) []Action {
	var out []Action
	for _, a := range res.Actions {
		if a.Type == ActionAssign && a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func broadcasts(res Result) []Action {
	var out []Action
	for _, a := range res.Actions {
		if a.Type == ActionBroadcast {
			out = append(out, a)
		}
	}
	return out
}

func mainRoomMessages(res Result) []Action {
	var out []Action
	for _, a := range res.Actions {
		if a.Type == ActionMainRoom {
			out = append(out, a)
		}
	}
	return out
}

func TestStudentAssignedToOnlyOpening(t *testing.T) {
	st := session.NewState()
	st.LastPublishedQueueLength = 1
	snapshot := roster.Snapshot{
		Rooms: []roster.Room{
			{Name: "A", Participants: []roster.Name{"TA [assistant]"}},
			{Name: "B"},
		},
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{"alice"}},
	}

	res := newTestPlanner(1).Step(snapshot, snapshot, t0, st)

	students := assignActions(res, AssignStudent)
	if len(students) != 1 {
		t.Fatalf("got %d student assignments, want 1", len(students))
	}
	if students[0].Participant != "alice" || students[0].Room != "A" {
		t.Errorf("assigned %q to %q, want alice to A", students[0].Participant, students[0].Room)
	}
	if res.QueueLength != 0 {
		t.Errorf("QueueLength = %d, want 0", res.QueueLength)
	}

	bs := broadcasts(res)
	if len(bs) != 1 {
		t.Fatalf("got %d broadcasts, want 1", len(bs))
	}
	want := "Now waiting: 0 (Δ = -1)"
	if bs[0].Message != want {
		t.Errorf("broadcast = %q, want %q", bs[0].Message, want)
	}

	times := st.Times("alice")
	if times == nil || times.Assignment == nil {
		t.Fatal("alice has no assignment recorded")
	}
	if times.Assignment.Assistant != "TA [assistant]" {
		t.Errorf("recorded assistant = %q, want TA", times.Assignment.Assistant)
	}
	if !times.Assignment.Time.Equal(t0) {
		t.Errorf("recorded assignment time = %v, want %v", times.Assignment.Time, t0)
	}
}

func TestTwoAssistantsGetDistinctRooms(t *testing.T) {
	st := session.NewState()
	snapshot := roster.Snapshot{
		Rooms: []roster.Room{{Name: "R1"}, {Name: "R2"}},
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{
			"TA1 [assistant]", "TA2 [assistant]",
		}},
	}

	res := newTestPlanner(1).Step(snapshot, snapshot, t0, st)

	placements := assignActions(res, AssignAssistant)
	if len(placements) != 2 {
		t.Fatalf("got %d assistant placements, want 2", len(placements))
	}
	if placements[0].Room == placements[1].Room {
		t.Errorf("both assistants sent to room %q", placements[0].Room)
	}
}

func TestDeparturesAreFinalized(t *testing.T) {
	st := session.NewState()
	st.Track("alice", t0.Add(-time.Minute))
	old := roster.Snapshot{
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{"alice"}},
	}
	current := roster.Snapshot{}

	res := newTestPlanner(1).Step(old, current, t0, st)

	if len(res.Departures) != 1 || res.Departures[0].Name != "alice" {
		t.Fatalf("Departures = %v, want alice", res.Departures)
	}
	if st.Times("alice") != nil {
		t.Error("alice still tracked after departure")
	}
}

func TestUntrackedDepartureIgnored(t *testing.T) {
	st := session.NewState()
	old := roster.Snapshot{
		Rooms: []roster.Room{{Name: "A", Participants: []roster.Name{"ghost"}}},
	}

	res := newTestPlanner(1).Step(old, roster.Snapshot{}, t0, st)

	if len(res.Departures) != 0 {
		t.Errorf("Departures = %v, want none for untracked name", res.Departures)
	}
}

func TestPriorityOrderIsFirstComeFirstServed(t *testing.T) {
	st := session.NewState()
	p := newTestPlanner(1)

	// bob arrives first.
	first := roster.Snapshot{
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{"bob"}},
	}
	p.Step(roster.Snapshot{}, first, t0, st)

	// alice arrives a poll later, together with one opening. bob has
	// waited longer and must win the room despite sorting after alice
	// by name.
	second := roster.Snapshot{
		Rooms: []roster.Room{{Name: "A", Participants: []roster.Name{"TA [assistant]"}}},
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{
			"alice", "bob",
		}},
	}
	res := p.Step(first, second, t0.Add(2*time.Second), st)

	students := assignActions(res, AssignStudent)
	if len(students) != 1 {
		t.Fatalf("got %d student assignments, want 1", len(students))
	}
	if students[0].Participant != "bob" {
		t.Errorf("assigned %q, want bob (longest waiting)", students[0].Participant)
	}
}

func TestEqualJoinTimesBreakTiesByName(t *testing.T) {
	st := session.NewState()
	snapshot := roster.Snapshot{
		Rooms: []roster.Room{{Name: "A", Participants: []roster.Name{"TA [assistant]"}}},
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{
			"zoe", "alice",
		}},
	}

	res := newTestPlanner(1).Step(snapshot, snapshot, t0, st)

	students := assignActions(res, AssignStudent)
	if len(students) != 1 {
		t.Fatalf("got %d student assignments, want 1", len(students))
	}
	if students[0].Participant != "alice" {
		t.Errorf("assigned %q, want alice (name tie-break)", students[0].Participant)
	}
}

func TestWaitlistPublishedOnlyOnChange(t *testing.T) {
	st := session.NewState()
	p := newTestPlanner(1)
	snapshot := roster.Snapshot{
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{"alice"}},
	}

	first := p.Step(roster.Snapshot{}, snapshot, t0, st)
	if len(mainRoomMessages(first)) != 1 {
		t.Fatalf("first iteration published %d waitlists, want 1", len(mainRoomMessages(first)))
	}

	second := p.Step(snapshot, snapshot, t0.Add(2*time.Second), st)
	if len(mainRoomMessages(second)) != 0 {
		t.Errorf("unchanged list re-published: %v", mainRoomMessages(second))
	}
}

func TestQueueBroadcastSuppressedWhenUnchanged(t *testing.T) {
	st := session.NewState()
	p := newTestPlanner(1)
	snapshot := roster.Snapshot{
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{"alice"}},
	}

	p.Step(roster.Snapshot{}, snapshot, t0, st)
	res := p.Step(snapshot, snapshot, t0.Add(2*time.Second), st)

	if len(broadcasts(res)) != 0 {
		t.Errorf("unchanged queue length re-broadcast: %v", broadcasts(res))
	}
}

func TestKickCommand(t *testing.T) {
	st := session.NewState()
	st.Track("alice", t0)
	snapshot := roster.Snapshot{
		Rooms: []roster.Room{
			{Name: "A", Participants: []roster.Name{
				"Bob [assistant] {{kick: ali}}", "alice", "ali_baba",
			}},
			{Name: "Holding"},
		},
	}

	res := newTestPlanner(1).Step(snapshot, snapshot, t0, st)

	kicks := assignActions(res, AssignKick)
	if len(kicks) != 1 {
		t.Fatalf("got %d kicks, want 1", len(kicks))
	}
	// First prefix match in participant-list order wins.
	if kicks[0].Participant != "alice" {
		t.Errorf("kicked %q, want alice", kicks[0].Participant)
	}
	if kicks[0].Room != "Holding" {
		t.Errorf("kick target sent to %q, want the last room", kicks[0].Room)
	}
	if times := st.Times("alice"); times == nil || !times.Kicked {
		t.Error("alice's timing record not flagged as kicked")
	}
}

func TestKickRequiresAssistantInvoker(t *testing.T) {
	st := session.NewState()
	snapshot := roster.Snapshot{
		Rooms: []roster.Room{
			{Name: "A", Participants: []roster.Name{"Bob {{kick: ali}}", "alice"}},
		},
	}

	res := newTestPlanner(1).Step(snapshot, snapshot, t0, st)

	if kicks := assignActions(res, AssignKick); len(kicks) != 0 {
		t.Errorf("non-assistant kick honored: %v", kicks)
	}
}

func TestKickWithEmptyValueIgnored(t *testing.T) {
	st := session.NewState()
	snapshot := roster.Snapshot{
		Rooms: []roster.Room{
			{Name: "A", Participants: []roster.Name{"Bob [assistant] {{kick:}}", "alice"}},
		},
	}

	res := newTestPlanner(1).Step(snapshot, snapshot, t0, st)

	if kicks := assignActions(res, AssignKick); len(kicks) != 0 {
		t.Errorf("empty kick honored: %v", kicks)
	}
}

func TestExcessStudentsRemainQueued(t *testing.T) {
	st := session.NewState()
	snapshot := roster.Snapshot{
		Rooms: []roster.Room{{Name: "A", Participants: []roster.Name{"TA [assistant]"}}},
		Unassigned: &roster.Room{Name: "Unassigned", Participants: []roster.Name{
			"alice", "bob", "carol",
		}},
	}

	res := newTestPlanner(1).Step(snapshot, snapshot, t0, st)

	if got := len(assignActions(res, AssignStudent)); got != 1 {
		t.Fatalf("got %d student assignments, want 1 (single opening)", got)
	}
	if res.QueueLength != 2 {
		t.Errorf("QueueLength = %d, want 2", res.QueueLength)
	}
}
