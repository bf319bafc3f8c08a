package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	created  = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expires  = created.Add(30 * time.Minute)
	deletion = expires.Add(5 * time.Hour)
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		submitted bool
		want      Phase
	}{
		{"just created", created, false, PhaseSubmissionOpen},
		{"mid window", created.Add(15 * time.Minute), false, PhaseSubmissionOpen},
		{"mid window with marker", created.Add(15 * time.Minute), true, PhaseAlreadySubmitted},
		{"one second before expiry", expires.Add(-time.Second), false, PhaseSubmissionOpen},
		{"exactly at expiry", expires, false, PhaseDownloadWindow},
		{"marker is irrelevant after expiry", expires.Add(time.Hour), true, PhaseDownloadWindow},
		{"one second before deletion", deletion.Add(-time.Second), false, PhaseDownloadWindow},
		{"exactly at deletion", deletion, false, PhaseTerminal},
		{"long after deletion", deletion.Add(24 * time.Hour), true, PhaseTerminal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.now, expires, deletion, tc.submitted))
		})
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	now := created.Add(10 * time.Minute)
	first := Evaluate(now, expires, deletion, false)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Evaluate(now, expires, deletion, false))
	}
}

func TestEvaluate_MonotonicForward(t *testing.T) {
	// walking the clock forward must never move the phase backward
	order := map[Phase]int{
		PhaseSubmissionOpen: 0,
		PhaseDownloadWindow: 1,
		PhaseTerminal:       2,
	}
	prev := -1
	for now := created; now.Before(deletion.Add(time.Hour)); now = now.Add(7 * time.Minute) {
		rank := order[Evaluate(now, expires, deletion, false)]
		require.GreaterOrEqual(t, rank, prev, "phase moved backward at %v", now)
		prev = rank
	}
}

func TestCountdown(t *testing.T) {
	assert.Equal(t, "Submissions open for: 0h 29m 30s",
		Countdown(created.Add(30*time.Second), expires, deletion))

	assert.Equal(t, "Download available for: 4h 59m 0s",
		Countdown(expires.Add(time.Minute), expires, deletion))

	assert.Equal(t, "Session permanently closed.",
		Countdown(deletion.Add(time.Second), expires, deletion))
}

func TestWatcher_ClosesAtTerminal(t *testing.T) {
	w := NewWatcher(expires, deletion, false)
	w.interval = time.Millisecond

	// clock that jumps past deletion on the second reading
	calls := 0
	w.now = func() time.Time {
		calls++
		if calls == 1 {
			return expires.Add(time.Minute)
		}
		return deletion.Add(time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got []Status
	for st := range w.Run(ctx) {
		got = append(got, st)
	}

	require.Len(t, got, 2)
	assert.Equal(t, PhaseDownloadWindow, got[0].Phase)
	assert.Equal(t, PhaseTerminal, got[1].Phase)
	assert.Equal(t, "Session permanently closed.", got[1].Countdown)
}

func TestWatcher_CancelStopsTicks(t *testing.T) {
	w := NewWatcher(expires, deletion, false)
	w.interval = time.Millisecond
	w.now = func() time.Time { return created }

	ctx, cancel := context.WithCancel(context.Background())
	ch := w.Run(ctx)

	st, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, PhaseSubmissionOpen, st.Phase)

	cancel()
	for range ch {
		// drain whatever was in flight; the channel must close
	}
}
