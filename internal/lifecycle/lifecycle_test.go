package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Tests Evaluate phase derivation
func TestEvaluate_Phases(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		soldOut  bool
		expected Phase
	}{
		{
			name:     "before_start_is_upcoming",
			now:      start.Add(-time.Hour),
			expected: PhaseUpcoming,
		},
		{
			name:     "at_start_is_active",
			now:      start,
			expected: PhaseActive,
		},
		{
			name:     "between_start_and_end_is_active",
			now:      start.Add(48 * time.Hour),
			expected: PhaseActive,
		},
		{
			name:     "at_end_is_active",
			now:      end,
			expected: PhaseActive,
		},
		{
			name:     "after_end_is_ended",
			now:      end.Add(time.Second),
			expected: PhaseEnded,
		},
		{
			name:     "sold_out_ends_even_mid_window",
			now:      start.Add(time.Hour),
			soldOut:  true,
			expected: PhaseEnded,
		},
		{
			name:     "sold_out_ends_even_before_start",
			now:      start.Add(-time.Hour),
			soldOut:  true,
			expected: PhaseEnded,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := Evaluate(tc.now, start, end, tc.soldOut)
			require.Equal(t, tc.expected, snap.Phase)
		})
	}
}

// Tests remaining-time decomposition
func TestEvaluate_Remaining(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 4, 5, 6, 0, time.UTC)

	t.Run("active_counts_down_to_end", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		snap := Evaluate(now, start, end, false)
		require.Equal(t, TimeRemaining{Days: 2, Hours: 4, Minutes: 5, Seconds: 6}, snap.Remaining)
	})

	t.Run("upcoming_also_counts_down_to_end", func(t *testing.T) {
		now := start.Add(-24 * time.Hour)
		snap := Evaluate(now, start, end, false)
		require.Equal(t, TimeRemaining{Days: 3, Hours: 4, Minutes: 5, Seconds: 6}, snap.Remaining)
	})

	t.Run("ended_reports_zero", func(t *testing.T) {
		snap := Evaluate(end.Add(time.Hour), start, end, false)
		require.True(t, snap.Remaining.IsZero())
	})

	t.Run("sold_out_reports_zero_despite_time_left", func(t *testing.T) {
		snap := Evaluate(start.Add(time.Hour), start, end, true)
		require.True(t, snap.Remaining.IsZero())
	})

	t.Run("sub_second_remainder_truncates", func(t *testing.T) {
		now := end.Add(-1500 * time.Millisecond)
		snap := Evaluate(now, start, end, false)
		require.Equal(t, TimeRemaining{Seconds: 1}, snap.Remaining)
	})
}

// Tests Watcher publishing and shutdown
func TestWatcher_StopsAfterEnded(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	// Fake clock jumps past the end date on the second reading
	var mu sync.Mutex
	calls := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return start.Add(time.Minute)
		}
		return end.Add(time.Minute)
	}

	w := Watch(context.Background(), WatchConfig{
		StartDate: start,
		EndDate:   end,
		Interval:  time.Millisecond,
		Clock:     clock,
	})
	defer w.Stop()

	first, ok := <-w.Snapshots()
	require.True(t, ok)
	require.Equal(t, PhaseActive, first.Phase)
	require.False(t, first.Remaining.IsZero())

	second, ok := <-w.Snapshots()
	require.True(t, ok)
	require.Equal(t, PhaseEnded, second.Phase)

	// Ended snapshot terminates the watcher and closes the channel
	_, ok = <-w.Snapshots()
	require.False(t, ok)
}

func TestWatcher_SoldOutEndsStream(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	w := Watch(context.Background(), WatchConfig{
		StartDate: start,
		EndDate:   end,
		SoldOut:   func() bool { return true },
		Interval:  time.Millisecond,
		Clock:     func() time.Time { return start.Add(time.Minute) },
	})
	defer w.Stop()

	snap, ok := <-w.Snapshots()
	require.True(t, ok)
	require.Equal(t, PhaseEnded, snap.Phase)

	_, ok = <-w.Snapshots()
	require.False(t, ok)
}

func TestWatcher_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	start := time.Now().UTC()
	w := Watch(ctx, WatchConfig{
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Interval:  time.Millisecond,
	})

	snap, ok := <-w.Snapshots()
	require.True(t, ok)
	require.Equal(t, PhaseActive, snap.Phase)

	cancel()
	w.Stop()

	// Channel drains and closes after cancellation
	for range w.Snapshots() {
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	start := time.Now().UTC()
	w := Watch(context.Background(), WatchConfig{
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Interval:  time.Millisecond,
	})

	<-w.Snapshots()
	w.Stop()
	w.Stop()
}
