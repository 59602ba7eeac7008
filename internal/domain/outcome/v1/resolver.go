package v1

import (
	tickv1 "github.com/8abak/ctrade-segments/internal/domain/tick/v1"
)

// Resolution incrementally determines the first-touch outcome of one
// event. Forward ticks are fed in id order, in as many chunks as the
// caller likes, so a long duration horizon can be paged through the
// tick store instead of materialized in one fetch. Excursion and scan
// state carry across feeds.
type Resolution struct {
	ev      Event
	outcome Outcome
	scanned int
	done    bool
}

// NewResolution starts resolving ev.
func NewResolution(ev Event) *Resolution {
	return &Resolution{
		ev: ev,
		outcome: Outcome{
			EventID: ev.ID,
			Kind:    KindTimeout,
		},
	}
}

// Feed scans the next forward ticks, which must start strictly after
// the anchor and after any previously fed tick, and reports whether the
// outcome is now final. Feeds after that are no-ops.
//
// When a single tick satisfies both the target and the stop condition
// (a wide gap tick jumping past both), the target is checked first. Fixed
// policy, applied uniformly to all callers.
func (r *Resolution) Feed(forward []tickv1.Tick) bool {
	if r.done {
		return true
	}

	dir := float64(r.ev.Direction)
	target := r.ev.AnchorPrice + dir*r.ev.TargetDistance
	stop := r.ev.AnchorPrice - dir*r.ev.StopDistance

	for _, t := range forward {
		if r.ev.Horizon.Kind == HorizonTicks && r.scanned >= r.ev.Horizon.Ticks {
			// horizon fully elapsed with neither side touched
			return r.finalTimeout(r.ev.Horizon.Ticks)
		}
		if r.ev.Horizon.Kind == HorizonDuration && t.Timestamp.Sub(r.ev.AnchorTimestamp) > r.ev.Horizon.Duration {
			return r.finalTimeout(r.scanned)
		}

		excursion := dir * (t.Price - r.ev.AnchorPrice)
		if excursion > r.outcome.MFE {
			r.outcome.MFE = excursion
		}
		if excursion < r.outcome.MAE {
			r.outcome.MAE = excursion
		}
		r.scanned++

		if dir*(t.Price-target) >= 0 {
			return r.resolved(KindTargetHit, t)
		}
		if dir*(t.Price-stop) <= 0 {
			return r.resolved(KindStopHit, t)
		}
	}

	if r.ev.Horizon.Kind == HorizonTicks && r.scanned >= r.ev.Horizon.Ticks {
		return r.finalTimeout(r.ev.Horizon.Ticks)
	}
	return false
}

// Outcome returns the resolution so far. A tick horizon is exhausted
// once the full count has been scanned; a duration horizon only once a
// tick at or beyond the cutoff has been seen. Anything else is an
// incomplete forward window: a provisional timeout, eligible for
// re-resolution.
func (r *Resolution) Outcome() Outcome {
	o := r.outcome
	if !r.done {
		o.TicksToResolution = r.scanned
	}
	return o
}

func (r *Resolution) finalTimeout(ticks int) bool {
	r.outcome.TicksToResolution = ticks
	r.outcome.Final = true
	r.done = true
	return true
}

func (r *Resolution) resolved(kind Kind, t tickv1.Tick) bool {
	id := t.ID
	ts := t.Timestamp
	r.outcome.Kind = kind
	r.outcome.ResolvedTickID = &id
	r.outcome.ResolvedTimestamp = &ts
	r.outcome.TicksToResolution = r.scanned
	r.outcome.Final = true
	r.done = true
	return true
}

// Resolve walks a complete forward window in one pass. forward must
// start strictly after the anchor tick and be ordered by id.
func Resolve(ev Event, forward []tickv1.Tick) Outcome {
	r := NewResolution(ev)
	r.Feed(forward)
	return r.Outcome()
}
