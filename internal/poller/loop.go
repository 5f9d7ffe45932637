package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/paulsc/officehours/internal/planner"
	"github.com/paulsc/officehours/internal/roster"
	"github.com/paulsc/officehours/internal/session"
	"github.com/paulsc/officehours/internal/timelog"
)

// CallClient is the narrow surface of the conferencing backend the loop
// depends on. The LiveKit client implements it; tests use a fake.
type CallClient interface {
	// FetchSnapshot returns the current room occupancy, or an error on
	// transient backend failure.
	FetchSnapshot(ctx context.Context) (roster.Snapshot, error)
	// Assign moves a participant into a room.
	Assign(ctx context.Context, participant roster.Name, room string) error
	// Broadcast sends a message to every room.
	Broadcast(ctx context.Context, message string) error
	// SendToMainRoom sends a message to the unassigned pool only.
	SendToMainRoom(ctx context.Context, message string) error
}

// Loop configuration errors.
var (
	ErrNoClient  = errors.New("call client is required")
	ErrNoPlanner = errors.New("planner is required")
)

// Options configures a Loop. Client, Planner and Interval are required;
// the log sinks and metrics are optional and skipped when nil.
type Options struct {
	Client   CallClient
	Planner  *planner.Planner
	Interval time.Duration
	Timings  *timelog.TimingsLog
	States   *timelog.StateLog
	Metrics  *Metrics
	Logger   *slog.Logger
	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

// Loop drives the periodic poll cycle. It owns the session state and
// the previous snapshot; everything is mutated from Run's goroutine
// only, so no locking is involved.
type Loop struct {
	client   CallClient
	planner  *planner.Planner
	interval time.Duration
	timings  *timelog.TimingsLog
	states   *timelog.StateLog
	metrics  *Metrics
	logger   *slog.Logger
	now      func() time.Time

	state *session.State
	old   roster.Snapshot
}

// NewLoop validates opts and creates a Loop with a fresh session state.
func NewLoop(opts Options) (*Loop, error) {
	if opts.Client == nil {
		return nil, ErrNoClient
	}
	if opts.Planner == nil {
		return nil, ErrNoPlanner
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("invalid poll interval %v", opts.Interval)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Loop{
		client:   opts.Client,
		planner:  opts.Planner,
		interval: opts.Interval,
		timings:  opts.Timings,
		states:   opts.States,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
		state:    session.NewState(),
	}, nil
}

// Run fetches the initial snapshot and then polls until the context is
// cancelled. Failure to obtain the very first snapshot is fatal and
// returned to the caller; later fetch failures only skip an iteration.
func (l *Loop) Run(ctx context.Context) error {
	initial, err := l.client.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch initial snapshot: %w", err)
	}
	l.old = initial
	l.logger.Info("initial snapshot fetched", "state", initial.String())

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("poll loop stopping due to context cancellation")
			return ctx.Err()
		case <-ticker.C:
		}
		l.iterate(ctx)
	}
}

// iterate runs one poll cycle. Any command failure is logged and
// counted but never aborts the cycle.
func (l *Loop) iterate(ctx context.Context) {
	started := time.Now()
	now := l.now()

	current, err := l.client.FetchSnapshot(ctx)
	if err != nil {
		l.logger.Warn("cannot fetch snapshot, skipping this iteration", "error", err.Error())
		if l.metrics != nil {
			l.metrics.IncPolls(StatusFailure)
		}
		return
	}

	l.recordState(now, current)
	if l.logger.Enabled(ctx, slog.LevelDebug) {
		l.logger.Debug("call state", "dump", strings.Join(current.DumpLines(), "\n"))
	}

	result := l.planner.Step(l.old, current, now, l.state)
	for _, dep := range result.Departures {
		l.finalizeDeparture(dep, now)
	}
	for _, action := range result.Actions {
		l.execute(ctx, action)
	}

	if l.metrics != nil {
		l.metrics.SetQueueLength(result.QueueLength)
		l.metrics.IncPolls(StatusSuccess)
		l.metrics.ObservePollDuration(time.Since(started).Seconds())
	}
	l.old = current
}

// finalizeDeparture writes the participant's final timings row.
func (l *Loop) finalizeDeparture(dep planner.Departure, now time.Time) {
	l.logger.Info("participant left",
		"participant", dep.Name.String(),
		"joined", timelog.FormatTime(dep.Times.JoinTime),
		"served", dep.Times.Assignment != nil,
		"kicked", dep.Times.Kicked)
	if l.timings == nil {
		return
	}
	if err := l.timings.Record(dep.Name, dep.Times, now); err != nil {
		l.logger.Error("failed to record departure", "participant", dep.Name.String(), "error", err.Error())
	}
}

// recordState appends one occupancy row to the state log.
func (l *Loop) recordState(now time.Time, current roster.Snapshot) {
	if l.states == nil {
		return
	}
	var counts []int
	for _, r := range current.Rooms {
		if n := r.Occupancy(); n > 0 {
			counts = append(counts, n)
		}
	}
	unassigned := 0
	if current.Unassigned != nil {
		unassigned = current.Unassigned.Occupancy()
	}
	if err := l.states.Record(now, unassigned, counts); err != nil {
		l.logger.Error("failed to record state row", "error", err.Error())
	}
}

// execute issues one planned command to the backend. Failures are
// logged and counted; the plan's remaining actions still run.
func (l *Loop) execute(ctx context.Context, action planner.Action) {
	switch action.Type {
	case planner.ActionAssign:
		l.logger.Info("assigning participant",
			"participant", action.Participant.String(), "room", action.Room, "kind", string(action.Kind))
		if err := l.client.Assign(ctx, action.Participant, action.Room); err != nil {
			l.logger.Error("assign command failed",
				"participant", action.Participant.String(), "room", action.Room, "error", err.Error())
			if l.metrics != nil {
				l.metrics.IncCommandFailures("assign")
			}
			return
		}
		if l.metrics != nil {
			l.metrics.IncAssignments(string(action.Kind))
		}
	case planner.ActionBroadcast:
		l.logger.Info("broadcasting", "message", action.Message)
		if err := l.client.Broadcast(ctx, action.Message); err != nil {
			l.logger.Error("broadcast command failed", "error", err.Error())
			if l.metrics != nil {
				l.metrics.IncCommandFailures("broadcast")
			}
		}
	case planner.ActionMainRoom:
		l.logger.Info("sending to main room", "message", action.Message)
		if err := l.client.SendToMainRoom(ctx, action.Message); err != nil {
			l.logger.Error("main room message failed", "error", err.Error())
			if l.metrics != nil {
				l.metrics.IncCommandFailures("main_room")
			}
		}
	}
}
