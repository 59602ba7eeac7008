package resolver

import (
	"context"

	outcomev1 "github.com/8abak/ctrade-segments/internal/domain/outcome/v1"
	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
	outcomeinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/outcome"
	segmentinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/segment"
	tickinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/tick"
	"github.com/8abak/ctrade-segments/pkg/errors"
	"github.com/8abak/ctrade-segments/pkg/logger"
)

// EmptyForwardPolicy selects what happens to an event with no forward
// ticks at all. The choice is explicit per deployment, never guessed.
type EmptyForwardPolicy string

const (
	// EmptyForwardSkip leaves the event untouched for a later pass.
	EmptyForwardSkip EmptyForwardPolicy = "skip"
	// EmptyForwardTimeout records an immediate provisional timeout with
	// zero ticks-to-resolution.
	EmptyForwardTimeout EmptyForwardPolicy = "timeout"
)

// Params configures a resolution run.
type Params struct {
	TargetDistance float64
	StopDistance   float64
	Horizon        outcomev1.Horizon

	OnEmptyForward EmptyForwardPolicy

	// BatchSize bounds events per run; ForwardFetch bounds the forward
	// ticks fetched for duration horizons (tick horizons fetch exactly
	// the horizon count).
	BatchSize    int
	ForwardFetch int

	// SeedScale is the scale whose segment boundaries seed new events.
	SeedScale segmentv1.Scale
}

// Stats summarizes one resolution run.
type Stats struct {
	Seeded      int
	Resolved    int
	Provisional int
	Skipped     int
}

// Usecase walks unresolved events forward through the tick stream and
// records their first-touch outcomes. Commits are per-event idempotent
// upserts with no ordering dependency between events.
type Usecase struct {
	tickRepo    tickinfra.TickRepository
	segmentRepo segmentinfra.SegmentRepository
	outcomeRepo outcomeinfra.OutcomeRepository
	logger      logger.Interface
	params      Params
}

// NewUsecase creates a resolver usecase.
func NewUsecase(
	tickRepo tickinfra.TickRepository,
	segmentRepo segmentinfra.SegmentRepository,
	outcomeRepo outcomeinfra.OutcomeRepository,
	logger logger.Interface,
	params Params,
) *Usecase {
	return &Usecase{
		tickRepo:    tickRepo,
		segmentRepo: segmentRepo,
		outcomeRepo: outcomeRepo,
		logger:      logger,
		params:      params,
	}
}

// Seed creates events from segment boundaries not yet covered: each
// newly closed segment's end tick anchors an event testing the reversal
// direction. Re-seeding is idempotent.
func (u *Usecase) Seed(ctx context.Context) (int, error) {
	maxAnchor, err := u.outcomeRepo.MaxAnchorTickID(ctx)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	segments, err := u.segmentRepo.ListEndingAfter(ctx, u.params.SeedScale, maxAnchor, u.params.BatchSize)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	seeded := 0
	for _, seg := range segments {
		ev := &outcomev1.Event{
			ID:              outcomev1.NewEventID(seg.EndTimestamp),
			AnchorTickID:    seg.EndTickID,
			AnchorTimestamp: seg.EndTimestamp,
			AnchorPrice:     seg.EndPrice,
			Direction:       seg.Direction.Opposite(),
			TargetDistance:  u.params.TargetDistance,
			StopDistance:    u.params.StopDistance,
			Horizon:         u.params.Horizon,
		}
		if err := u.outcomeRepo.InsertEvent(ctx, ev); err != nil {
			return seeded, errors.TracerFromError(err)
		}
		seeded++
	}

	return seeded, nil
}

// Run resolves a batch of unresolved events. Per-event failures are
// isolated: a missing anchor tick skips that event and the run
// continues.
func (u *Usecase) Run(ctx context.Context) (Stats, error) {
	stats := Stats{}

	events, err := u.outcomeRepo.ListUnresolved(ctx, u.params.BatchSize)
	if err != nil {
		return stats, errors.TracerFromError(err)
	}

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		anchor, err := u.tickRepo.GetByID(ctx, ev.AnchorTickID)
		if err != nil {
			return stats, errors.TracerFromError(err)
		}
		if anchor == nil {
			stats.Skipped++
			u.logger.Warn("anchor tick not found, skipping event",
				logger.Field{Key: "event_id", Value: ev.ID},
				logger.Field{Key: "anchor_tick_id", Value: ev.AnchorTickID},
				logger.Field{Key: "code", Value: errors.MissingAnchorTick},
			)
			continue
		}

		res := outcomev1.NewResolution(*ev)
		from := ev.AnchorTickID
		limit := u.forwardLimit(ev)
		scanned := 0
		for {
			forward, err := u.tickRepo.FetchAfter(ctx, from, limit)
			if err != nil {
				return stats, errors.TracerFromError(err)
			}
			scanned += len(forward)
			if len(forward) == 0 {
				break
			}
			if res.Feed(forward) || len(forward) < limit {
				break
			}
			from = forward[len(forward)-1].ID
		}

		if scanned == 0 && u.params.OnEmptyForward == EmptyForwardSkip {
			stats.Skipped++
			continue
		}

		o := res.Outcome()
		if err := u.outcomeRepo.UpsertOutcome(ctx, &o); err != nil {
			return stats, errors.TracerFromError(err)
		}

		if o.Final {
			stats.Resolved++
		} else {
			stats.Provisional++
			u.logger.Debug("forward window incomplete, outcome provisional",
				logger.Field{Key: "event_id", Value: ev.ID},
				logger.Field{Key: "ticks_scanned", Value: o.TicksToResolution},
				logger.Field{Key: "code", Value: errors.IncompleteForwardWindow},
			)
		}
	}

	u.logger.Info("resolver run finished",
		logger.Field{Key: "events", Value: len(events)},
		logger.Field{Key: "resolved", Value: stats.Resolved},
		logger.Field{Key: "provisional", Value: stats.Provisional},
		logger.Field{Key: "skipped", Value: stats.Skipped},
	)

	return stats, nil
}

// forwardLimit is the page size of the forward walk: a tick horizon
// needs exactly its tick count, a duration horizon pages by the
// configured fetch size until its cutoff is crossed or the stream runs
// out.
func (u *Usecase) forwardLimit(ev *outcomev1.Event) int {
	if ev.Horizon.Kind == outcomev1.HorizonTicks {
		return ev.Horizon.Ticks
	}
	return u.params.ForwardFetch
}
