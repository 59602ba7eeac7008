package v1

import (
	"time"
)

// Tick is the immutable input unit of the pipeline: a monotonically
// increasing id, a non-decreasing timestamp and the representative price
// the segmenter tracks (raw mid or smoothed level, depending on the
// resolved field mapping).
type Tick struct {
	ID        int64
	Timestamp time.Time
	Price     float64
}

// RawTick is the wire shape of an ingested tick as published on the tick
// feed topic. Mid is derived from bid/ask when not supplied.
type RawTick struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Mid       float64   `json:"mid,omitempty"`
}

// MidPrice returns the representative price of a raw tick.
func (t RawTick) MidPrice() float64 {
	if t.Mid != 0 {
		return t.Mid
	}
	return (t.Bid + t.Ask) / 2
}
