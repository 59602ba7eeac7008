package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
	tickv1 "github.com/8abak/ctrade-segments/internal/domain/tick/v1"
)

var anchorTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func upEvent(target, stop float64, h Horizon) Event {
	return Event{
		ID:              "evt-1",
		AnchorTickID:    10,
		AnchorTimestamp: anchorTime,
		AnchorPrice:     100,
		Direction:       segmentv1.DirectionUp,
		TargetDistance:  target,
		StopDistance:    stop,
		Horizon:         h,
	}
}

func forwardTicks(prices ...float64) []tickv1.Tick {
	ticks := make([]tickv1.Tick, len(prices))
	for i, p := range prices {
		ticks[i] = tickv1.Tick{
			ID:        int64(11 + i),
			Timestamp: anchorTime.Add(time.Duration(i+1) * time.Second),
			Price:     p,
		}
	}
	return ticks
}

func TestResolve_FirstTouch(t *testing.T) {
	testCases := []struct {
		name      string
		ev        Event
		forward   []tickv1.Tick
		wantKind  Kind
		wantTicks int
		wantID    int64
	}{
		{
			name:      "stop touched before a later target",
			ev:        upEvent(2.0, 0.5, TicksHorizon(10)),
			forward:   forwardTicks(100.5, 101.0, 99.5, 102.5),
			wantKind:  KindStopHit,
			wantTicks: 3,
			wantID:    13,
		},
		{
			name:      "target touched first",
			ev:        upEvent(2.0, 1.0, TicksHorizon(10)),
			forward:   forwardTicks(100.5, 101.0, 102.1, 98.0),
			wantKind:  KindTargetHit,
			wantTicks: 3,
			wantID:    13,
		},
		{
			name:      "gap through the stop on the first tick",
			ev:        upEvent(2.0, 1.0, TicksHorizon(10)),
			forward:   forwardTicks(97),
			wantKind:  KindStopHit,
			wantTicks: 1,
			wantID:    11,
		},
		{
			name: "down direction target below the anchor",
			ev: Event{
				ID:              "evt-2",
				AnchorTickID:    10,
				AnchorTimestamp: anchorTime,
				AnchorPrice:     100,
				Direction:       segmentv1.DirectionDown,
				TargetDistance:  2.0,
				StopDistance:    1.0,
				Horizon:         TicksHorizon(10),
			},
			forward:   forwardTicks(99.5, 97.9),
			wantKind:  KindTargetHit,
			wantTicks: 2,
			wantID:    12,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := Resolve(tc.ev, tc.forward)

			assert.Equal(t, tc.ev.ID, o.EventID)
			assert.Equal(t, tc.wantKind, o.Kind)
			assert.Equal(t, tc.wantTicks, o.TicksToResolution)
			require.NotNil(t, o.ResolvedTickID)
			assert.Equal(t, tc.wantID, *o.ResolvedTickID)
			assert.True(t, o.Final)
		})
	}
}

func TestResolve_TargetCheckedBeforeStop(t *testing.T) {
	// With zero distances both conditions hold on the very first tick;
	// the fixed policy awards the target.
	ev := upEvent(0, 0, TicksHorizon(10))
	o := Resolve(ev, forwardTicks(100))

	assert.Equal(t, KindTargetHit, o.Kind)
	assert.Equal(t, 1, o.TicksToResolution)
}

func TestResolve_NeverConsidersUnreachedTarget(t *testing.T) {
	// 97 only satisfies the stop side; repeated runs must agree.
	ev := upEvent(2.0, 1.0, TicksHorizon(10))
	for i := 0; i < 3; i++ {
		o := Resolve(ev, forwardTicks(97))
		assert.Equal(t, KindStopHit, o.Kind)
	}
}

func TestResolve_TickHorizonTimeout(t *testing.T) {
	t.Run("exactly horizon ticks available", func(t *testing.T) {
		ev := upEvent(5.0, 5.0, TicksHorizon(3))
		o := Resolve(ev, forwardTicks(100.5, 99.8, 100.2))

		assert.Equal(t, KindTimeout, o.Kind)
		assert.Nil(t, o.ResolvedTickID)
		assert.Nil(t, o.ResolvedTimestamp)
		assert.Equal(t, 3, o.TicksToResolution)
		assert.True(t, o.Final)
	})

	t.Run("more ticks than the horizon", func(t *testing.T) {
		ev := upEvent(5.0, 5.0, TicksHorizon(3))
		o := Resolve(ev, forwardTicks(100.5, 99.8, 100.2, 108, 90))

		// Ticks past the horizon never influence the outcome.
		assert.Equal(t, KindTimeout, o.Kind)
		assert.Equal(t, 3, o.TicksToResolution)
		assert.True(t, o.Final)
	})

	t.Run("window shorter than the horizon is provisional", func(t *testing.T) {
		ev := upEvent(5.0, 5.0, TicksHorizon(3))
		o := Resolve(ev, forwardTicks(100.5, 99.8))

		assert.Equal(t, KindTimeout, o.Kind)
		assert.Equal(t, 2, o.TicksToResolution)
		assert.False(t, o.Final)
	})
}

func TestResolve_DurationHorizon(t *testing.T) {
	ev := upEvent(5.0, 5.0, DurationHorizon(10*time.Minute))

	ticks := []tickv1.Tick{
		{ID: 11, Timestamp: anchorTime.Add(1 * time.Minute), Price: 100.5},
		{ID: 12, Timestamp: anchorTime.Add(5 * time.Minute), Price: 99.8},
		{ID: 13, Timestamp: anchorTime.Add(11 * time.Minute), Price: 108},
	}

	t.Run("tick beyond the cutoff finalizes the timeout", func(t *testing.T) {
		o := Resolve(ev, ticks)

		assert.Equal(t, KindTimeout, o.Kind)
		assert.Equal(t, 2, o.TicksToResolution)
		assert.True(t, o.Final)
	})

	t.Run("window ending inside the cutoff is provisional", func(t *testing.T) {
		o := Resolve(ev, ticks[:2])

		assert.Equal(t, KindTimeout, o.Kind)
		assert.Equal(t, 2, o.TicksToResolution)
		assert.False(t, o.Final)
	})
}

func TestResolve_Excursions(t *testing.T) {
	ev := upEvent(5.0, 5.0, TicksHorizon(3))
	o := Resolve(ev, forwardTicks(101.5, 98.0, 103.0))

	assert.Equal(t, KindTimeout, o.Kind)
	assert.InDelta(t, 3.0, o.MFE, 1e-9)
	assert.InDelta(t, -2.0, o.MAE, 1e-9)
}

func TestResolve_EmptyForward(t *testing.T) {
	ev := upEvent(2.0, 1.0, TicksHorizon(10))
	o := Resolve(ev, nil)

	assert.Equal(t, KindTimeout, o.Kind)
	assert.Equal(t, 0, o.TicksToResolution)
	assert.False(t, o.Final)
}

func TestResolution_FeedAcrossPages(t *testing.T) {
	ev := upEvent(2.0, 1.0, DurationHorizon(10*time.Minute))
	forward := forwardTicks(100.5, 99.8, 101.0, 102.3)

	whole := Resolve(ev, forward)

	r := NewResolution(ev)
	done := r.Feed(forward[:2])
	require.False(t, done)

	// a snapshot between pages carries the scan state so far
	partial := r.Outcome()
	assert.Equal(t, KindTimeout, partial.Kind)
	assert.False(t, partial.Final)
	assert.Equal(t, 2, partial.TicksToResolution)
	assert.InDelta(t, 0.5, partial.MFE, 1e-9)
	assert.InDelta(t, -0.2, partial.MAE, 1e-9)

	done = r.Feed(forward[2:])
	require.True(t, done)
	assert.Equal(t, whole, r.Outcome())

	// feeds after a final outcome change nothing
	assert.True(t, r.Feed(forwardTicks(90.0)))
	assert.Equal(t, whole, r.Outcome())
}
