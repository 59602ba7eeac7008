package v1

import (
	"time"
)

// Scale identifies one reversal-threshold regime. Each scale runs its own
// builder instance over the same tick stream and owns its own resume
// cursor.
type Scale string

const (
	// ScaleMicro is the finest top-level regime.
	ScaleMicro Scale = "micro"
	// ScaleMedium is the intermediate regime.
	ScaleMedium Scale = "medium"
	// ScaleMacro is the coarsest regime.
	ScaleMacro Scale = "macro"
)

// Direction is the direction of a leg, usable directly as a signed
// multiplier in price arithmetic.
type Direction int8

const (
	// DirectionUnknown marks a candidate leg that has not yet confirmed.
	DirectionUnknown Direction = 0
	// DirectionUp marks a rising leg.
	DirectionUp Direction = 1
	// DirectionDown marks a falling leg.
	DirectionDown Direction = -1
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "unknown"
	}
}

// Opposite returns the reversed direction.
func (d Direction) Opposite() Direction {
	return -d
}

// Segment is a maximal directional run at a given reversal-threshold
// scale. Consecutive segments at the same scale tile the tick stream:
// the end tick of one is the start tick of the next, except across a
// gap-reset boundary where a new segment starts fresh.
type Segment struct {
	ID             int64
	Scale          Scale
	StartTickID    int64
	EndTickID      int64
	StartTimestamp time.Time
	EndTimestamp   time.Time
	StartPrice     float64
	EndPrice       float64
	Direction      Direction
	Span           float64
	TickCount      int

	// Sub-move density statistics, computed at close.
	Runs2 int
	Runs5 int
	Class RunClass
}

// SubMove is a finer-threshold directional run nested inside one segment.
// The parent segment id is assigned at persistence time.
type SubMove struct {
	SegmentID      int64
	StartTickID    int64
	EndTickID      int64
	StartTimestamp time.Time
	EndTimestamp   time.Time
	StartPrice     float64
	EndPrice       float64
	Direction      Direction
	TickCount      int
}

// RunClass labels the internal texture of a segment from its sub-moves.
type RunClass string

const (
	// RunClassZigzag marks a segment that retraced internally at least
	// twice against its own direction.
	RunClassZigzag RunClass = "zigzag"
	// RunClassSpike marks a segment that ran through with little
	// internal retracement.
	RunClassSpike RunClass = "spike"
)

// Closed is one emitted segment together with the sub-moves that closed
// inside it.
type Closed struct {
	Segment  Segment
	SubMoves []SubMove
}

// Cursor is the persisted per-scale resume position: the tick id through
// which segmentation has been durably committed.
type Cursor struct {
	Scale          Scale
	LastDoneTickID int64
}
