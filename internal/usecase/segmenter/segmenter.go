package segmenter

import (
	"context"
	"fmt"
	"time"

	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
	segmentinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/segment"
	tickinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/tick"
	"github.com/8abak/ctrade-segments/pkg/errors"
	"github.com/8abak/ctrade-segments/pkg/logger"
	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

// Params configures one segmentation run for one scale.
type Params struct {
	Scale        segmentv1.Scale
	Threshold    float64
	SubThreshold float64
	GapThreshold time.Duration

	BatchSize int

	// Caps bound a single invocation so a long backfill can be
	// interrupted and resumed at the next segment boundary. Zero means
	// unbounded.
	MaxSegmentsPerRun int
	MaxTicksPerRun    int

	// LiveExtend lets the run fold new ticks that continue the same leg
	// into the most recently emitted segment, replacing it.
	LiveExtend bool
}

// Stats summarizes one run, reported even when the run fails so the
// scheduler can see how far it got.
type Stats struct {
	TicksProcessed    int
	SegmentsCommitted int
	GapDrops          int
	ReplacedLast      bool
}

// Usecase drives the segment builder over the persisted tick stream,
// committing each closed segment atomically with its sub-moves and the
// cursor advance. One instance per scale; no state is shared between
// scales.
type Usecase struct {
	db          postgresql.PostgreSQLClient
	tickRepo    tickinfra.TickRepository
	segmentRepo segmentinfra.SegmentRepository
	logger      logger.Interface
	params      Params
}

// NewUsecase creates a segmenter usecase.
func NewUsecase(
	db postgresql.PostgreSQLClient,
	tickRepo tickinfra.TickRepository,
	segmentRepo segmentinfra.SegmentRepository,
	logger logger.Interface,
	params Params,
) *Usecase {
	return &Usecase{
		db:          db,
		tickRepo:    tickRepo,
		segmentRepo: segmentRepo,
		logger:      logger,
		params:      params,
	}
}

// Run processes ticks from the resume position until the stream or a
// per-run cap is exhausted. Partial (unclosed) legs are never persisted;
// they are rebuilt from the last committed segment on the next run.
func (u *Usecase) Run(ctx context.Context) (Stats, error) {
	stats := Stats{}

	builder := segmentv1.NewBuilder(segmentv1.Options{
		Scale:        u.params.Scale,
		Threshold:    u.params.Threshold,
		SubThreshold: u.params.SubThreshold,
		GapThreshold: u.params.GapThreshold,
	})

	streamFrom, replacePending, err := u.seed(ctx, builder)
	if err != nil {
		return stats, err
	}

	u.logger.Info("segmenter run starting",
		logger.Field{Key: "scale", Value: u.params.Scale},
		logger.Field{Key: "threshold", Value: u.params.Threshold},
		logger.Field{Key: "from_tick", Value: streamFrom},
		logger.Field{Key: "live_extend", Value: replacePending},
	)

	lastID := streamFrom
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		batch, err := u.tickRepo.FetchAfter(ctx, lastID, u.params.BatchSize)
		if err != nil {
			return stats, errors.TracerFromError(err)
		}
		if len(batch) == 0 {
			break
		}

		for _, t := range batch {
			closed, err := builder.Push(t)
			if err != nil {
				// out-of-order ticks are a stream-integrity failure:
				// stop this scale, do not guess
				return stats, err
			}
			stats.TicksProcessed++

			for _, c := range closed {
				wasReplacing := replacePending
				if err := u.commit(ctx, c, &replacePending); err != nil {
					return stats, err
				}
				stats.SegmentsCommitted++
				if wasReplacing {
					stats.ReplacedLast = true
				}

				if u.params.MaxSegmentsPerRun > 0 && stats.SegmentsCommitted >= u.params.MaxSegmentsPerRun {
					stats.GapDrops = builder.GapDrops()
					u.logRunDone(stats, "segment cap reached")
					return stats, nil
				}
			}
		}

		lastID = batch[len(batch)-1].ID

		if u.params.MaxTicksPerRun > 0 && stats.TicksProcessed >= u.params.MaxTicksPerRun {
			stats.GapDrops = builder.GapDrops()
			u.logRunDone(stats, "tick cap reached")
			return stats, nil
		}
	}

	stats.GapDrops = builder.GapDrops()
	u.logRunDone(stats, "stream exhausted")
	return stats, nil
}

// seed primes the builder from persisted state: cold start from the
// cursor, resume from the last segment's end tick, or the live-extend
// replay from the last segment's start anchor.
func (u *Usecase) seed(ctx context.Context, builder *segmentv1.Builder) (streamFrom int64, replacePending bool, err error) {
	last, err := u.segmentRepo.GetLast(ctx, u.params.Scale)
	if err != nil {
		return 0, false, errors.TracerFromError(err)
	}

	if last == nil {
		cursor, err := u.segmentRepo.GetCursor(ctx, u.params.Scale)
		if err != nil {
			return 0, false, errors.TracerFromError(err)
		}
		return cursor, false, nil
	}

	if u.params.LiveExtend {
		ok, err := u.shouldExtend(ctx, last)
		if err != nil {
			return 0, false, err
		}
		if ok {
			start, err := u.tickRepo.GetByID(ctx, last.StartTickID)
			if err != nil {
				return 0, false, errors.TracerFromError(err)
			}
			if start == nil {
				return 0, false, errors.NewErrorDetails(
					fmt.Sprintf("start tick %d of last segment not found", last.StartTickID),
					errors.MissingAnchorTick,
					"start_tick_id",
				)
			}
			if _, err := builder.Push(*start); err != nil {
				return 0, false, err
			}
			return start.ID, true, nil
		}
	}

	builder.SeedFromSegment(*last)
	return last.EndTickID, false, nil
}

// shouldExtend reports whether the first new tick continues the last
// segment's leg (the time gap since its end is within the gap
// threshold). Across a larger gap the builder's gap reset handles the
// boundary and the last segment stays untouched.
func (u *Usecase) shouldExtend(ctx context.Context, last *segmentv1.Segment) (bool, error) {
	next, err := u.tickRepo.FetchAfter(ctx, last.EndTickID, 1)
	if err != nil {
		return false, errors.TracerFromError(err)
	}
	if len(next) == 0 {
		return false, nil
	}
	if u.params.GapThreshold > 0 && next[0].Timestamp.Sub(last.EndTimestamp) > u.params.GapThreshold {
		return false, nil
	}
	return true, nil
}

// commit writes one closed segment, its sub-moves and the cursor advance
// in a single transaction. The first commit of a live-extend run also
// deletes the segment being replaced, in the same transaction.
func (u *Usecase) commit(ctx context.Context, c segmentv1.Closed, replacePending *bool) error {
	err := postgresql.WithTx(ctx, u.db, func(txCtx context.Context) error {
		if *replacePending {
			if err := u.segmentRepo.DeleteLast(txCtx, u.params.Scale); err != nil {
				return err
			}
		}
		if err := u.segmentRepo.Append(txCtx, &c.Segment, c.SubMoves); err != nil {
			return err
		}
		return u.segmentRepo.SetCursor(txCtx, u.params.Scale, c.Segment.EndTickID)
	})
	if err != nil {
		return errors.TracerFromError(err)
	}

	u.logger.Debug("segment committed",
		logger.Field{Key: "scale", Value: c.Segment.Scale},
		logger.Field{Key: "start_tick", Value: c.Segment.StartTickID},
		logger.Field{Key: "end_tick", Value: c.Segment.EndTickID},
		logger.Field{Key: "direction", Value: c.Segment.Direction.String()},
		logger.Field{Key: "span", Value: c.Segment.Span},
		logger.Field{Key: "sub_moves", Value: len(c.SubMoves)},
		logger.Field{Key: "replaced", Value: *replacePending},
	)

	*replacePending = false
	return nil
}

func (u *Usecase) logRunDone(stats Stats, reason string) {
	if stats.GapDrops > 0 {
		u.logger.Warn("degenerate single-tick legs dropped at gap resets",
			logger.Field{Key: "scale", Value: u.params.Scale},
			logger.Field{Key: "gap_drops", Value: stats.GapDrops},
			logger.Field{Key: "code", Value: errors.GapResetBoundaryFailure},
		)
	}
	u.logger.Info("segmenter run finished",
		logger.Field{Key: "scale", Value: u.params.Scale},
		logger.Field{Key: "reason", Value: reason},
		logger.Field{Key: "ticks", Value: stats.TicksProcessed},
		logger.Field{Key: "segments", Value: stats.SegmentsCommitted},
		logger.Field{Key: "gap_drops", Value: stats.GapDrops},
	)
}
