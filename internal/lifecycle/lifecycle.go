package lifecycle

import "time"

// Phase is the derived auction lifecycle state
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseActive   Phase = "active"
	PhaseEnded    Phase = "ended"
)

// TimeRemaining is a non-negative breakdown of the time left until the
// auction's end date
type TimeRemaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// IsZero reports whether no time remains
func (t TimeRemaining) IsZero() bool {
	return t.Days == 0 && t.Hours == 0 && t.Minutes == 0 && t.Seconds == 0
}

// Snapshot is the result of a single lifecycle evaluation
type Snapshot struct {
	Phase     Phase         `json:"phase"`
	Remaining TimeRemaining `json:"time_remaining"`
}

// Evaluate derives the auction phase and remaining time for a product given
// the current clock. Pure with respect to its inputs.
//
// Remaining always counts down to endDate, including during the upcoming
// phase. The alternative (counting down to startDate before the auction
// opens) was rejected so every call site shares one convention.
func Evaluate(now, startDate, endDate time.Time, soldOut bool) Snapshot {
	var phase Phase
	switch {
	case soldOut || now.After(endDate):
		phase = PhaseEnded
	case now.Before(startDate):
		phase = PhaseUpcoming
	default:
		phase = PhaseActive
	}

	snap := Snapshot{Phase: phase}
	if phase != PhaseEnded {
		snap.Remaining = remainingUntil(now, endDate)
	}
	return snap
}

// remainingUntil decomposes the interval [now, end] into whole days, hours,
// minutes and seconds, clamping negative intervals to zero
func remainingUntil(now, end time.Time) TimeRemaining {
	diff := end.Sub(now)
	if diff <= 0 {
		return TimeRemaining{}
	}

	return TimeRemaining{
		Days:    int(diff / (24 * time.Hour)),
		Hours:   int(diff % (24 * time.Hour) / time.Hour),
		Minutes: int(diff % time.Hour / time.Minute),
		Seconds: int(diff % time.Minute / time.Second),
	}
}
