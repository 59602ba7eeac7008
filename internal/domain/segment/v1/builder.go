package v1

import (
	"fmt"
	"time"

	"github.com/8abak/ctrade-segments/pkg/errors"

	tickv1 "github.com/8abak/ctrade-segments/internal/domain/tick/v1"
)

// Options configures a Builder.
type Options struct {
	// Scale stamped onto emitted segments.
	Scale Scale
	// Threshold is the reversal threshold R in price units. A leg's
	// direction confirms at +-R from the anchor, and a confirmed leg
	// closes on an R retracement from its extreme.
	Threshold float64
	// SubThreshold is the finer threshold r < R for nested sub-moves.
	// Zero disables sub-move tracking.
	SubThreshold float64
	// GapThreshold force-closes the current leg at the previous tick
	// when the time gap between consecutive ticks exceeds it. Zero
	// disables gap resets.
	GapThreshold time.Duration
}

// Builder is the streaming segment-construction state machine. It is a
// pure function of the tick sequence pushed into it: feeding the same
// ticks from the same starting point always emits the same segments,
// which is what makes crash-resume from the last persisted segment safe.
//
// Builders are single-threaded; one instance per scale.
type Builder struct {
	opts Options

	started bool
	last    tickv1.Tick

	anchor    tickv1.Tick
	extreme   tickv1.Tick
	direction Direction

	// Tick counts are inclusive of the anchor tick.
	ticksSinceAnchor int
	ticksAtExtreme   int

	// Excursions above/below the anchor price, tracked for the
	// zero-displacement tie-break on gap-reset closes.
	maxAbove float64
	maxBelow float64

	sub       *Builder
	subBuffer []SubMove

	gapDrops int
}

// NewBuilder creates a builder for one scale.
func NewBuilder(opts Options) *Builder {
	b := &Builder{opts: opts}
	if opts.SubThreshold > 0 {
		b.sub = NewBuilder(Options{
			Scale:     opts.Scale,
			Threshold: opts.SubThreshold,
		})
	}
	return b
}

// SeedFromSegment primes the builder for resumption after the given
// persisted segment: its end tick is treated as the first tick of a
// fresh run. State is derived purely from the segment row, never from
// prior in-memory state.
func (b *Builder) SeedFromSegment(s Segment) {
	b.Push(tickv1.Tick{ // nolint:errcheck // first push cannot fail
		ID:        s.EndTickID,
		Timestamp: s.EndTimestamp,
		Price:     s.EndPrice,
	})
}

// LastTickID returns the id of the most recently pushed tick, or zero
// before the first push.
func (b *Builder) LastTickID() int64 {
	if !b.started {
		return 0
	}
	return b.last.ID
}

// GapDrops returns the number of degenerate legs dropped at gap resets.
func (b *Builder) GapDrops() int {
	return b.gapDrops
}

// Push advances the state machine by one tick and returns any segments
// closed by it. Ticks must arrive in strictly increasing id order;
// violations are fatal, never silently reordered.
func (b *Builder) Push(t tickv1.Tick) ([]Closed, error) {
	if b.started && t.ID <= b.last.ID {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("tick %d arrived after tick %d", t.ID, b.last.ID),
			errors.OutOfOrderTick,
			"id",
		)
	}

	if !b.started {
		b.restart(t)
		b.started = true
		b.last = t
		return nil, nil
	}

	var closed []Closed

	if b.opts.GapThreshold > 0 && t.Timestamp.Sub(b.last.Timestamp) > b.opts.GapThreshold {
		if c, ok := b.closeAtGap(); ok {
			closed = append(closed, c)
		}
		b.restart(t)
		b.last = t
		return closed, nil
	}

	b.ticksSinceAnchor++
	b.trackExcursion(t.Price)
	b.pushSub(t)

	switch b.direction {
	case DirectionUnknown:
		if t.Price-b.anchor.Price >= b.opts.Threshold {
			b.confirm(DirectionUp, t)
		} else if b.anchor.Price-t.Price >= b.opts.Threshold {
			b.confirm(DirectionDown, t)
		}

	case DirectionUp:
		if t.Price > b.extreme.Price {
			b.extreme = t
			b.ticksAtExtreme = b.ticksSinceAnchor
		} else if b.extreme.Price-t.Price >= b.opts.Threshold {
			closed = append(closed, b.closeAtExtreme())
			b.handOver(DirectionDown, t)
		}

	case DirectionDown:
		if t.Price < b.extreme.Price {
			b.extreme = t
			b.ticksAtExtreme = b.ticksSinceAnchor
		} else if t.Price-b.extreme.Price >= b.opts.Threshold {
			closed = append(closed, b.closeAtExtreme())
			b.handOver(DirectionUp, t)
		}
	}

	b.last = t
	return closed, nil
}

// restart re-anchors the machine at t with no direction, as on a cold
// start or after a gap reset.
func (b *Builder) restart(t tickv1.Tick) {
	b.anchor = t
	b.extreme = t
	b.direction = DirectionUnknown
	b.ticksSinceAnchor = 1
	b.ticksAtExtreme = 1
	b.maxAbove = 0
	b.maxBelow = 0

	if b.sub != nil {
		b.sub = NewBuilder(Options{
			Scale:     b.opts.Scale,
			Threshold: b.opts.SubThreshold,
		})
		b.sub.Push(t) // nolint:errcheck // first push cannot fail
		b.subBuffer = nil
	}
}

// confirm fixes the leg direction the first time price moves a full
// threshold away from the anchor. The confirming tick becomes the leg's
// extreme.
func (b *Builder) confirm(dir Direction, t tickv1.Tick) {
	b.direction = dir
	b.extreme = t
	b.ticksAtExtreme = b.ticksSinceAnchor
}

// handOver begins the next leg after a reversal close: the old extreme
// becomes the new anchor (segments tile with shared boundary ticks) and
// the reversal-confirming tick seeds the new leg's extreme.
func (b *Builder) handOver(dir Direction, t tickv1.Tick) {
	b.ticksSinceAnchor = b.ticksSinceAnchor - b.ticksAtExtreme + 1
	b.anchor = b.extreme
	b.extreme = t
	b.ticksAtExtreme = b.ticksSinceAnchor
	b.direction = dir
	b.maxAbove = 0
	b.maxBelow = 0
	b.trackExcursion(t.Price)
}

// closeAtExtreme emits the confirmed leg anchor -> extreme.
func (b *Builder) closeAtExtreme() Closed {
	return b.finish(Segment{
		Scale:          b.opts.Scale,
		StartTickID:    b.anchor.ID,
		EndTickID:      b.extreme.ID,
		StartTimestamp: b.anchor.Timestamp,
		EndTimestamp:   b.extreme.Timestamp,
		StartPrice:     b.anchor.Price,
		EndPrice:       b.extreme.Price,
		Direction:      b.direction,
		Span:           b.extreme.Price - b.anchor.Price,
		TickCount:      b.ticksAtExtreme,
	})
}

// closeAtGap force-closes the current leg at the previous tick. A
// single-tick leg has no body to emit and is dropped (the gap-reset
// boundary failure case); the caller re-anchors at the current tick
// either way.
func (b *Builder) closeAtGap() (Closed, bool) {
	if b.ticksSinceAnchor <= 1 {
		b.gapDrops++
		return Closed{}, false
	}

	dir := b.direction
	if dir == DirectionUnknown {
		dir = b.tieBreak()
	}

	return b.finish(Segment{
		Scale:          b.opts.Scale,
		StartTickID:    b.anchor.ID,
		EndTickID:      b.last.ID,
		StartTimestamp: b.anchor.Timestamp,
		EndTimestamp:   b.last.Timestamp,
		StartPrice:     b.anchor.Price,
		EndPrice:       b.last.Price,
		Direction:      dir,
		Span:           b.last.Price - b.anchor.Price,
		TickCount:      b.ticksSinceAnchor,
	}), true
}

// tieBreak resolves the direction of an unconfirmed leg closed early by
// a gap reset: net displacement first, then the larger intra-leg
// excursion, then Up.
func (b *Builder) tieBreak() Direction {
	switch {
	case b.last.Price > b.anchor.Price:
		return DirectionUp
	case b.last.Price < b.anchor.Price:
		return DirectionDown
	case b.maxBelow > b.maxAbove:
		return DirectionDown
	default:
		return DirectionUp
	}
}

// finish attaches the buffered sub-moves to the segment and computes
// its run statistics. A sub-move is attributed to the segment that
// contains its end tick: the tracker runs continuously across reversal
// hand-overs, so one closing past the parent's extreme carries over
// into the next leg. A carried sub-move never starts before the shared
// boundary tick.
func (b *Builder) finish(seg Segment) Closed {
	var inside, carry []SubMove
	for _, sm := range b.subBuffer {
		if sm.EndTickID <= seg.EndTickID {
			inside = append(inside, sm)
		} else {
			carry = append(carry, sm)
		}
	}
	b.subBuffer = carry

	seg.Runs2, seg.Runs5, seg.Class = runStats(seg, inside)

	return Closed{Segment: seg, SubMoves: inside}
}

func (b *Builder) trackExcursion(price float64) {
	if d := price - b.anchor.Price; d > b.maxAbove {
		b.maxAbove = d
	}
	if d := b.anchor.Price - price; d > b.maxBelow {
		b.maxBelow = d
	}
}

// pushSub feeds the nested tracker and buffers any sub-moves it closes.
func (b *Builder) pushSub(t tickv1.Tick) {
	if b.sub == nil {
		return
	}

	closed, err := b.sub.Push(t)
	if err != nil {
		// ordering was already validated by the parent
		return
	}

	for _, c := range closed {
		b.subBuffer = append(b.subBuffer, SubMove{
			StartTickID:    c.Segment.StartTickID,
			EndTickID:      c.Segment.EndTickID,
			StartTimestamp: c.Segment.StartTimestamp,
			EndTimestamp:   c.Segment.EndTimestamp,
			StartPrice:     c.Segment.StartPrice,
			EndPrice:       c.Segment.EndPrice,
			Direction:      c.Segment.Direction,
			TickCount:      c.Segment.TickCount,
		})
	}
}

// runStats derives the density statistics of a segment from the
// sub-moves that closed inside it: counts of runs at least 2 and at
// least 5 ticks long, and a zigzag/spike label. A segment that retraced
// against its own direction at least twice is a zigzag; one that ran
// through is a spike.
func runStats(seg Segment, subs []SubMove) (runs2, runs5 int, class RunClass) {
	counter := 0
	for _, sm := range subs {
		if sm.TickCount >= 2 {
			runs2++
		}
		if sm.TickCount >= 5 {
			runs5++
		}
		if sm.Direction == seg.Direction.Opposite() {
			counter++
		}
	}

	class = RunClassSpike
	if counter >= 2 {
		class = RunClassZigzag
	}
	return runs2, runs5, class
}
