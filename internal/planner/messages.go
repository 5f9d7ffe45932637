package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulsc/officehours/internal/roster"
	"github.com/paulsc/officehours/internal/session"
)

// waitDurationBucket renders a wait duration in the coarse human
// buckets shown to waiting students: under a minute, about a minute,
// then rounded minutes.
func waitDurationBucket(wait time.Duration) string {
	sec := wait.Seconds()
	switch {
	case sec < 60:
		return "less than a minute"
	case sec < 100: // round a bit
		return "about a minute"
	default:
		return fmt.Sprintf("about %d min", int(sec+30)/60)
	}
}

// waitingListMessage formats the announcement published to the main
// room whenever the priority list changes.
func waitingListMessage(now time.Time, students []roster.Name, st *session.State) string {
	if len(students) == 0 {
		return fmt.Sprintf("Waiting list at %s: (empty)", now.Format("15h04"))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Waiting list at %s: \n", now.Format("15h04"))
	for i, name := range students {
		wait := now.Sub(st.Times(name).JoinTime)
		fmt.Fprintf(&b, "%3d. %s – waiting %s\n", i+1, name.String(), waitDurationBucket(wait))
	}
	b.WriteString("----")
	return b.String()
}

// queueLengthMessage formats the broadcast sent when the published
// queue length changes; the delta sign is always explicit.
func queueLengthMessage(length, delta int) string {
	return fmt.Sprintf("Now waiting: %d (Δ = %+d)", length, delta)
}
