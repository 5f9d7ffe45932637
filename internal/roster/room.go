package roster

// Room is one breakout room's occupancy at a single poll.
type Room struct {
	Name         string
	Participants []Name
}

// Occupancy returns the total participant count.
func (r Room) Occupancy() int { return len(r.Participants) }

// StudentOccupancy returns the participant count excluding assistants.
func (r Room) StudentOccupancy() int { return r.Occupancy() - len(r.Assistants()) }

// IsEmpty reports whether the room has no participants.
func (r Room) IsEmpty() bool { return r.Occupancy() == 0 }

// Assistants returns the participants flagged as assistants, in room order.
func (r Room) Assistants() []Name {
	var out []Name
	for _, p := range r.Participants {
		if p.IsAssistant() {
			out = append(out, p)
		}
	}
	return out
}

// HasAssistant reports whether at least one assistant is present.
func (r Room) HasAssistant() bool {
	for _, p := range r.Participants {
		if p.IsAssistant() {
			return true
		}
	}
	return false
}
