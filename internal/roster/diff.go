package roster

// StateDiff is the change between two consecutive snapshots. Departures
// are never signaled by the backend; this set difference is the sole
// mechanism for detecting them.
type StateDiff struct {
	// Left holds names present anywhere in the old snapshot but absent
	// from the new one.
	Left NameSet
	// NewUnassigned holds names in the new unassigned pool that were not
	// in the old one.
	NewUnassigned NameSet
}

// Diff compares two consecutive snapshots. Pure set algebra, no side
// effects.
func Diff(old, current Snapshot) StateDiff {
	oldAll := old.AllParticipants()
	newAll := current.AllParticipants()
	oldUnassigned := old.UnassignedParticipants()

	d := StateDiff{Left: NameSet{}, NewUnassigned: NameSet{}}
	for name := range oldAll {
		if !newAll.Contains(name) {
			d.Left.Add(name)
		}
	}
	for name := range current.UnassignedParticipants() {
		if !oldUnassigned.Contains(name) {
			d.NewUnassigned.Add(name)
		}
	}
	return d
}
