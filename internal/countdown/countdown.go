package countdown

import (
	"sync"
	"time"
)

// Parts is a remaining duration broken into display units
type Parts struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// IsZero reports whether nothing remains
func (p Parts) IsZero() bool {
	return p == Parts{}
}

// Remaining splits target-now into days, hours, minutes and seconds.
// A non-positive difference yields all zeros.
func Remaining(now, target time.Time) Parts {
	diff := target.Sub(now)
	if diff <= 0 {
		return Parts{}
	}

	secs := int64(diff / time.Second)
	return Parts{
		Days:    int(secs / 86400),
		Hours:   int(secs % 86400 / 3600),
		Minutes: int(secs % 3600 / 60),
		Seconds: int(secs % 60),
	}
}

// Timer recomputes the remaining time once per tick and reports it to
// onTick. It stops by itself once the target is reached.
type Timer struct {
	target time.Time
	clock  func() time.Time
	onTick func(Parts)

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start launches a one-second Timer counting down to target
func Start(target time.Time, onTick func(Parts)) *Timer {
	return StartWith(target, time.Second, time.Now, onTick)
}

// StartWith launches a Timer with an explicit interval and clock
func StartWith(target time.Time, interval time.Duration, clock func() time.Time, onTick func(Parts)) *Timer {
	t := &Timer{
		target: target,
		clock:  clock,
		onTick: onTick,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.run(interval)
	return t
}

func (t *Timer) run(interval time.Duration) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			now := t.clock()
			if !t.target.After(now) {
				t.onTick(Parts{})
				return
			}
			t.onTick(Remaining(now, t.target))
		}
	}
}

// Stop cancels the timer and waits for the tick goroutine to exit.
// Safe to call more than once and after the timer finished on its own.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}

// Done is closed once the timer has stopped for any reason
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
