package game

import "time"

// Refinery turns one gas into one fuel over a fixed duration.
// Gas is debited when a conversion starts and fuel is credited when it ends.
type Refinery struct {
	Duration time.Duration
	OnDone   func()

	ledger  *Ledger
	sched   *Scheduler
	started time.Duration
	job     Handle
}

// NewRefinery creates an idle refinery.
func NewRefinery(ledger *Ledger, sched *Scheduler, d time.Duration) *Refinery {
	return &Refinery{Duration: d, ledger: ledger, sched: sched}
}

// Convert starts a conversion. It fails while busy or without gas.
func (r *Refinery) Convert() bool {
	if r.Busy() {
		return false
	}
	if !r.ledger.RemoveGas(1) {
		return false
	}
	r.started = r.sched.Now()
	r.job = r.sched.After(r.Duration, r.finish)
	return true
}

func (r *Refinery) finish() {
	r.ledger.AddFuel(1)
	if r.OnDone != nil {
		r.OnDone()
	}
}

// Busy reports whether a conversion is in progress.
func (r *Refinery) Busy() bool { return r.job.Pending() }

// Progress is 0..1 for the running conversion, 0 when idle.
func (r *Refinery) Progress() float64 {
	if !r.Busy() || r.Duration <= 0 {
		return 0
	}
	p := float64(r.sched.Now()-r.started) / float64(r.Duration)
	return min(p, 1)
}

// Cancel abandons a running conversion and refunds its gas.
func (r *Refinery) Cancel() bool {
	if !r.Busy() {
		return false
	}
	r.job.Cancel()
	r.job = Handle{}
	r.ledger.AddGas(1)
	return true
}
