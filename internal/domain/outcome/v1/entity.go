package v1

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
)

// HorizonKind distinguishes the two supported horizon variants.
// Tick-count and wall-clock bounded scans are never conflated.
type HorizonKind string

const (
	// HorizonTicks bounds the forward scan by a tick count.
	HorizonTicks HorizonKind = "ticks"
	// HorizonDuration bounds the forward scan by wall-clock time from
	// the anchor timestamp.
	HorizonDuration HorizonKind = "duration"
)

// Horizon is the maximum forward window of an event.
type Horizon struct {
	Kind     HorizonKind
	Ticks    int
	Duration time.Duration
}

// TicksHorizon returns a tick-count horizon.
func TicksHorizon(n int) Horizon {
	return Horizon{Kind: HorizonTicks, Ticks: n}
}

// DurationHorizon returns a wall-clock horizon.
func DurationHorizon(d time.Duration) Horizon {
	return Horizon{Kind: HorizonDuration, Duration: d}
}

// Event is a candidate decision point: an anchor tick, the direction
// whose continuation is being tested, and the target/stop/horizon that
// define its first-touch race.
type Event struct {
	ID              string
	AnchorTickID    int64
	AnchorTimestamp time.Time
	AnchorPrice     float64
	Direction       segmentv1.Direction
	TargetDistance  float64
	StopDistance    float64
	Horizon         Horizon
}

// NewEventID returns a sortable unique event id.
func NewEventID(at time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(at.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(at), entropy).String()
}

// Kind is the resolution of an event.
type Kind string

const (
	// KindTargetHit means the target price was touched first.
	KindTargetHit Kind = "target_hit"
	// KindStopHit means the stop price was touched first.
	KindStopHit Kind = "stop_hit"
	// KindTimeout means neither was touched within the horizon.
	KindTimeout Kind = "timeout"
)

// Outcome is the resolution of one event. Exactly one outcome exists per
// event. Final=false marks a provisional timeout recorded because the
// forward window had not yet fully elapsed in available data; such
// outcomes are re-resolvable once more ticks arrive.
type Outcome struct {
	EventID           string
	Kind              Kind
	ResolvedTickID    *int64
	ResolvedTimestamp *time.Time
	TicksToResolution int
	MFE               float64
	MAE               float64
	Final             bool
}
