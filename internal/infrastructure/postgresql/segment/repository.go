package segment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

// Repository persists segments, their sub-moves and the per-scale resume
// cursor. Atomicity of a segment commit (segment + sub-moves + cursor
// advance) is the caller's responsibility via postgresql.WithTx.
type Repository struct {
	client postgresql.PostgreSQLClient
}

// NewRepository creates a new segment repository.
func NewRepository(client postgresql.PostgreSQLClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Append inserts a closed segment and its sub-moves. A replayed segment
// (same scale and start tick) is ignored, which makes crash-resume
// replays safe.
func (r *Repository) Append(ctx context.Context, seg *segmentv1.Segment, subMoves []segmentv1.SubMove) error {
	query := `INSERT INTO segments
			(scale, start_tick_id, end_tick_id, start_ts, end_ts, start_price, end_price, direction, span, tick_count, runs2, runs5, class)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		  ON CONFLICT (scale, start_tick_id) DO NOTHING
		  RETURNING id`

	err := r.client.QueryRow(ctx, query,
		seg.Scale, seg.StartTickID, seg.EndTickID, seg.StartTimestamp, seg.EndTimestamp,
		seg.StartPrice, seg.EndPrice, seg.Direction, seg.Span, seg.TickCount,
		seg.Runs2, seg.Runs5, seg.Class,
	).Scan(&seg.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// idempotency-key conflict: the segment is already there
			return nil
		}
		return fmt.Errorf("failed to insert segment: %w", err)
	}

	for i := range subMoves {
		subMoves[i].SegmentID = seg.ID
	}

	return r.insertSubMoves(ctx, subMoves)
}

func (r *Repository) insertSubMoves(ctx context.Context, subMoves []segmentv1.SubMove) error {
	if len(subMoves) == 0 {
		return nil
	}

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"sub_moves"},
		[]string{"segment_id", "start_tick_id", "end_tick_id", "start_ts", "end_ts", "start_price", "end_price", "direction", "tick_count"},
		pgx.CopyFromSlice(len(subMoves), func(i int) ([]any, error) {
			sm := subMoves[i]
			return []any{
				sm.SegmentID, sm.StartTickID, sm.EndTickID, sm.StartTimestamp, sm.EndTimestamp,
				sm.StartPrice, sm.EndPrice, sm.Direction, sm.TickCount,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy sub-moves: %w", err)
	}

	return nil
}

// GetLast returns the most recently emitted segment for a scale, or nil
// when none exists. Used to seed cold-start resumption and the
// live-extend path.
func (r *Repository) GetLast(ctx context.Context, scale segmentv1.Scale) (*segmentv1.Segment, error) {
	query := `SELECT id, scale, start_tick_id, end_tick_id, start_ts, end_ts, start_price, end_price, direction, span, tick_count, runs2, runs5, class
		  FROM segments
		  WHERE scale = $1
		  ORDER BY end_tick_id DESC
		  LIMIT 1`

	seg := &segmentv1.Segment{}
	err := r.client.QueryRow(ctx, query, scale).Scan(
		&seg.ID, &seg.Scale, &seg.StartTickID, &seg.EndTickID, &seg.StartTimestamp, &seg.EndTimestamp,
		&seg.StartPrice, &seg.EndPrice, &seg.Direction, &seg.Span, &seg.TickCount,
		&seg.Runs2, &seg.Runs5, &seg.Class,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last segment: %w", err)
	}

	return seg, nil
}

// DeleteLast removes the most recently emitted segment for a scale,
// cascading to its sub-moves. This is the only permitted mutation of
// already-emitted state and is confined by construction to the single
// most recent segment; it exists for the live-extend path, which
// re-emits a replacement covering the same leg plus the new ticks.
func (r *Repository) DeleteLast(ctx context.Context, scale segmentv1.Scale) error {
	query := `DELETE FROM segments
		  WHERE id = (SELECT id FROM segments WHERE scale = $1 ORDER BY end_tick_id DESC LIMIT 1)`

	if _, err := r.client.Exec(ctx, query, scale); err != nil {
		return fmt.Errorf("failed to delete last segment: %w", err)
	}

	return nil
}

// ListEndingAfter returns up to limit segments for a scale whose end
// tick is strictly after afterTickID, in stream order. Used to seed
// outcome events from segment boundaries.
func (r *Repository) ListEndingAfter(ctx context.Context, scale segmentv1.Scale, afterTickID int64, limit int) ([]*segmentv1.Segment, error) {
	query := `SELECT id, scale, start_tick_id, end_tick_id, start_ts, end_ts, start_price, end_price, direction, span, tick_count, runs2, runs5, class
		  FROM segments
		  WHERE scale = $1 AND end_tick_id > $2
		  ORDER BY end_tick_id ASC
		  LIMIT $3`

	rows, err := r.client.Query(ctx, query, scale, afterTickID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []*segmentv1.Segment
	for rows.Next() {
		seg := &segmentv1.Segment{}
		err := rows.Scan(
			&seg.ID, &seg.Scale, &seg.StartTickID, &seg.EndTickID, &seg.StartTimestamp, &seg.EndTimestamp,
			&seg.StartPrice, &seg.EndPrice, &seg.Direction, &seg.Span, &seg.TickCount,
			&seg.Runs2, &seg.Runs5, &seg.Class,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, seg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating segments: %w", err)
	}

	return segments, nil
}

// GetCursor returns the persisted resume cursor for a scale, zero when
// the scale has never committed.
func (r *Repository) GetCursor(ctx context.Context, scale segmentv1.Scale) (int64, error) {
	query := `SELECT last_done_tick_id FROM segment_cursors WHERE scale = $1`

	var id int64
	err := r.client.QueryRow(ctx, query, scale).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get cursor: %w", err)
	}

	return id, nil
}

// SetCursor advances the resume cursor for a scale. Committed in the
// same transaction as the segment it belongs to.
func (r *Repository) SetCursor(ctx context.Context, scale segmentv1.Scale, tickID int64) error {
	query := `INSERT INTO segment_cursors (scale, last_done_tick_id)
		  VALUES ($1, $2)
		  ON CONFLICT (scale) DO UPDATE SET last_done_tick_id = EXCLUDED.last_done_tick_id`

	if _, err := r.client.Exec(ctx, query, scale, tickID); err != nil {
		return fmt.Errorf("failed to set cursor: %w", err)
	}

	return nil
}
