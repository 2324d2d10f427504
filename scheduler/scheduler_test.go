package scheduler

import (
	"testing"
	"time"
)

type memState struct {
	data map[string]string
}

func newMemState() *memState { return &memState{data: map[string]string{}} }

func (m *memState) Get(name string) (string, error) { return m.data[name], nil }
func (m *memState) Set(name, value string) error {
	m.data[name] = value
	return nil
}

type countingUsers struct {
	resets int
}

func (c *countingUsers) ResetMonthlyTripCounts() error {
	c.resets++
	return nil
}

type panickingChat struct {
	calls int
}

func (p *panickingChat) ClearOldMessages(daysOld int) error {
	p.calls++
	panic("transcript table gone")
}

func TestTick_ResetsWhenStoredMonthIsStale(t *testing.T) {
	state := newMemState()
	state.data[lastResetKey] = "2026-07"
	users := &countingUsers{}
	s := New(state, users, nil)

	s.tick(time.Date(2026, 8, 1, 0, 30, 0, 0, time.UTC))
	if users.resets != 1 {
		t.Fatalf("resets = %d", users.resets)
	}
	if state.data[lastResetKey] != "2026-08" {
		t.Fatalf("stored month = %q", state.data[lastResetKey])
	}
}

// A process started on the 1st, after going down before the reset
// fired, must still perform the pending reset on its first tick.
func TestTick_RestartOnMonthBoundaryStillResets(t *testing.T) {
	state := newMemState()
	state.data[lastResetKey] = "2026-07"
	users := &countingUsers{}
	s := New(state, users, nil)

	s.runTick(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	if users.resets != 1 {
		t.Fatal("pending reset was skipped after restart")
	}
}

func TestTick_NoResetWithinSameMonth(t *testing.T) {
	state := newMemState()
	state.data[lastResetKey] = "2026-08"
	users := &countingUsers{}
	s := New(state, users, nil)

	s.tick(time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC))
	s.tick(time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC))
	if users.resets != 0 {
		t.Fatalf("resets = %d", users.resets)
	}
}

func TestTick_FirstRunRecordsMonthWithoutReset(t *testing.T) {
	state := newMemState()
	users := &countingUsers{}
	s := New(state, users, nil)

	s.tick(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	if users.resets != 0 {
		t.Fatalf("resets = %d", users.resets)
	}
	if state.data[lastResetKey] != "2026-08" {
		t.Fatalf("stored month = %q", state.data[lastResetKey])
	}
}

// A panicking job must not kill the loop: the next tick still runs
// and still performs the reset.
func TestRunTick_SurvivesPanickingJob(t *testing.T) {
	state := newMemState()
	state.data[lastResetKey] = "2026-08"
	users := &countingUsers{}
	chat := &panickingChat{}
	s := New(state, users, chat)

	s.runTick(time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC))
	s.runTick(time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC))

	if chat.calls != 2 {
		t.Fatalf("chat job ran %d times, loop did not survive the panic", chat.calls)
	}
	if users.resets != 1 {
		t.Fatalf("resets = %d", users.resets)
	}
}
