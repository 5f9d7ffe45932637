package roster

import "testing"

func TestDiffIdentical(t *testing.T) {
	s := snapshotFixture()

	d := Diff(s, s)
	if len(d.Left) != 0 {
		t.Errorf("Diff(s, s).Left = %v, want empty", d.Left)
	}
	if len(d.NewUnassigned) != 0 {
		t.Errorf("Diff(s, s).NewUnassigned = %v, want empty", d.NewUnassigned)
	}
}

func TestDiffDeparture(t *testing.T) {
	old := Snapshot{
		Rooms:      []Room{{Name: "A", Participants: []Name{"alice"}}},
		Unassigned: &Room{Name: "Unassigned", Participants: []Name{"bob"}},
	}
	current := Snapshot{
		Rooms: []Room{{Name: "A", Participants: []Name{"alice"}}},
	}

	d := Diff(old, current)
	if len(d.Left) != 1 || !d.Left.Contains("bob") {
		t.Errorf("Left = %v, want {bob}", d.Left)
	}
	if len(d.NewUnassigned) != 0 {
		t.Errorf("NewUnassigned = %v, want empty", d.NewUnassigned)
	}
}

func TestDiffMoveIsNotDeparture(t *testing.T) {
	old := Snapshot{
		Unassigned: &Room{Name: "Unassigned", Participants: []Name{"alice"}},
	}
	current := Snapshot{
		Rooms: []Room{{Name: "A", Participants: []Name{"alice"}}},
	}

	d := Diff(old, current)
	if len(d.Left) != 0 {
		t.Errorf("Left = %v, want empty for a room move", d.Left)
	}
}

func TestDiffNewUnassigned(t *testing.T) {
	old := Snapshot{
		Unassigned: &Room{Name: "Unassigned", Participants: []Name{"alice"}},
	}
	current := Snapshot{
		Unassigned: &Room{Name: "Unassigned", Participants: []Name{"alice", "bob"}},
	}

	d := Diff(old, current)
	if len(d.NewUnassigned) != 1 || !d.NewUnassigned.Contains("bob") {
		t.Errorf("NewUnassigned = %v, want {bob}", d.NewUnassigned)
	}
}
