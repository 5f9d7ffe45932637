package roster

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Snapshot is one polled, consistent view of all breakout rooms plus the
// unassigned pool. The backend is the sole authority for the invariant
// that a name appears in at most one room; snapshots do not deduplicate.
type Snapshot struct {
	Rooms      []Room
	Unassigned *Room // nil when the backend reported no unassigned pool
}

// UnassignedParticipants returns the names in the unassigned pool.
func (s Snapshot) UnassignedParticipants() NameSet {
	set := NameSet{}
	if s.Unassigned == nil {
		return set
	}
	for _, p := range s.Unassigned.Participants {
		set.Add(p)
	}
	return set
}

// AllParticipants returns the union of every room's names and the
// unassigned pool. Used for membership comparison only; it carries no
// ordering.
func (s Snapshot) AllParticipants() NameSet {
	set := s.UnassignedParticipants()
	for _, r := range s.Rooms {
		for _, p := range r.Participants {
			set.Add(p)
		}
	}
	return set
}

// RoomForNewAssistant picks the room an idle assistant should be sent
// to: among rooms with no assistant and not in exclude, the one with the
// highest occupancy. The tie-break between equally occupied rooms is
// undefined (stable under no particular order). Returns false when no
// room qualifies.
func (s Snapshot) RoomForNewAssistant(exclude map[string]struct{}) (Room, bool) {
	var best Room
	found := false
	for _, r := range s.Rooms {
		if r.HasAssistant() {
			continue
		}
		if _, claimed := exclude[r.Name]; claimed {
			continue
		}
		if !found || r.Occupancy() > best.Occupancy() {
			best = r
			found = true
		}
	}
	return best, found
}

// Openings returns the rooms able to take another student: an assistant
// present and student occupancy below capacity, ordered by ascending
// student occupancy. Candidates are shuffled before the stable sort so
// that ties are broken uniformly at random on each call, spreading
// students across otherwise-equal rooms over time.
func (s Snapshot) Openings(rng *rand.Rand, capacity int) []Room {
	var candidates []Room
	for _, r := range s.Rooms {
		if r.HasAssistant() && r.StudentOccupancy() < capacity {
			candidates = append(candidates, r)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].StudentOccupancy() < candidates[j].StudentOccupancy()
	})
	return candidates
}

// DumpLines renders the snapshot for debug logging: one line per room,
// assistants first and marked with a star, then the unassigned pool.
func (s Snapshot) DumpLines() []string {
	var lines []string
	appendRoom := func(label string, participants []Name, empty bool) {
		if empty {
			lines = append(lines, label+": -")
			return
		}
		lines = append(lines, label+":")
		sorted := make([]Name, len(participants))
		copy(sorted, participants)
		sort.Slice(sorted, func(i, j int) bool {
			ai, aj := sorted[i].IsAssistant(), sorted[j].IsAssistant()
			if ai != aj {
				return ai
			}
			return sorted[i] < sorted[j]
		})
		for _, p := range sorted {
			prefix := "   "
			if p.IsAssistant() {
				prefix = " * "
			}
			lines = append(lines, prefix+p.String())
		}
	}
	for _, r := range s.Rooms {
		appendRoom(r.Name, r.Participants, r.IsEmpty())
	}
	if s.Unassigned == nil || s.Unassigned.IsEmpty() {
		appendRoom("Unassigned", nil, true)
	} else {
		appendRoom("Unassigned", s.Unassigned.Participants, false)
	}
	return lines
}

// String renders a compact one-line summary, e.g. "3 rooms, 2 unassigned".
func (s Snapshot) String() string {
	unassigned := 0
	if s.Unassigned != nil {
		unassigned = s.Unassigned.Occupancy()
	}
	counts := make([]string, 0, len(s.Rooms))
	for _, r := range s.Rooms {
		counts = append(counts, fmt.Sprintf("%s=%d", r.Name, r.Occupancy()))
	}
	return fmt.Sprintf("unassigned=%d rooms=[%s]", unassigned, strings.Join(counts, " "))
}
