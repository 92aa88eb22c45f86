// Package countdown derives auction remaining time from the fixed end
// timestamp and wall-clock time alone. It never consults the network, so the
// countdown keeps moving while fetches are slow or failing.
package countdown

import (
	"context"
	"fmt"
	"time"
)

const EndedLabel = "ended"

// Remaining is the decomposition of the time left until an auction's end.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Ended   bool
}

// Split decomposes endAt - now. Ended is true for every now >= endAt.
func Split(endAt, now time.Time) Remaining {
	diff := endAt.Sub(now)
	if diff <= 0 {
		return Remaining{Ended: true}
	}

	ms := diff.Milliseconds()
	return Remaining{
		Days:    int(ms / 86400000),
		Hours:   int(ms % 86400000 / 3600000),
		Minutes: int(ms % 3600000 / 60000),
		Seconds: int(ms % 60000 / 1000),
	}
}

// Format renders remaining time with tiered precision: day-scale auctions
// show days and hours, hour-scale show down to seconds, and the last hour
// shows minutes and seconds.
func Format(endAt, now time.Time) string {
	r := Split(endAt, now)
	if r.Ended {
		return EndedLabel
	}

	if r.Days > 0 {
		return fmt.Sprintf("%dd %dh", r.Days, r.Hours)
	}
	if r.Hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", r.Hours, r.Minutes, r.Seconds)
	}
	return fmt.Sprintf("%dm %ds", r.Minutes, r.Seconds)
}

// Ticker periodically re-renders the countdown for one end timestamp and
// delivers the result on C. It stops, and closes C, when the context is
// cancelled, so an abandoned view never leaks its timer.
type Ticker struct {
	C <-chan string
}

func NewTicker(ctx context.Context, endAt time.Time, interval time.Duration) *Ticker {
	out := make(chan string, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		emit := func(now time.Time) bool {
			select {
			case out <- Format(endAt, now):
			case <-ctx.Done():
				return false
			}
			return true
		}

		if !emit(time.Now()) {
			return
		}

		for {
			select {
			case now := <-ticker.C:
				if !emit(now) {
					return
				}
				if !endAt.After(now) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Ticker{C: out}
}
