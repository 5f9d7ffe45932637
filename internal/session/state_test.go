package session

import (
	"testing"
	"time"
)

func TestTrackIsIdempotent(t *testing.T) {
	st := NewState()
	first := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Minute)

	st.Track("alice", first)
	st.Track("alice", later)

	times := st.Times("alice")
	if times == nil {
		t.Fatal("Times(alice) = nil after Track")
	}
	if !times.JoinTime.Equal(first) {
		t.Errorf("JoinTime = %v, want first join %v", times.JoinTime, first)
	}
	if st.Tracked() != 1 {
		t.Errorf("Tracked() = %d, want 1", st.Tracked())
	}
}

func TestForget(t *testing.T) {
	st := NewState()
	st.Track("alice", time.Now())

	if removed := st.Forget("alice"); removed == nil {
		t.Error("Forget(alice) = nil, want record")
	}
	if st.Times("alice") != nil {
		t.Error("Times(alice) still set after Forget")
	}
	if removed := st.Forget("ghost"); removed != nil {
		t.Errorf("Forget(ghost) = %v, want nil", removed)
	}
}
