package outcome

import (
	"context"
	"fmt"
	"time"

	outcomev1 "github.com/8abak/ctrade-segments/internal/domain/outcome/v1"
	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

// Repository persists events and their outcomes. All writes are
// idempotent: repeated resolution passes over the same events are safe.
type Repository struct {
	client postgresql.PostgreSQLClient
}

// NewRepository creates a new outcome repository.
func NewRepository(client postgresql.PostgreSQLClient) *Repository {
	return &Repository{
		client: client,
	}
}

// InsertEvent stores a candidate event. Re-seeding the same anchor with
// the same parameters is a no-op.
func (r *Repository) InsertEvent(ctx context.Context, ev *outcomev1.Event) error {
	query := `INSERT INTO events
			(id, anchor_tick_id, anchor_ts, anchor_price, direction, target_distance, stop_distance, horizon_kind, horizon_ticks, horizon_duration_ms)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		  ON CONFLICT DO NOTHING`

	_, err := r.client.Exec(ctx, query,
		ev.ID, ev.AnchorTickID, ev.AnchorTimestamp, ev.AnchorPrice, ev.Direction,
		ev.TargetDistance, ev.StopDistance,
		ev.Horizon.Kind, ev.Horizon.Ticks, ev.Horizon.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// ListUnresolved returns events with no outcome yet, or with only a
// provisional (non-final) timeout, oldest anchors first.
func (r *Repository) ListUnresolved(ctx context.Context, limit int) ([]*outcomev1.Event, error) {
	query := `SELECT e.id, e.anchor_tick_id, e.anchor_ts, e.anchor_price, e.direction, e.target_distance, e.stop_distance, e.horizon_kind, e.horizon_ticks, e.horizon_duration_ms
		  FROM events e
		  LEFT JOIN outcomes o ON o.event_id = e.id
		  WHERE o.event_id IS NULL OR o.final = false
		  ORDER BY e.anchor_tick_id ASC
		  LIMIT $1`

	rows, err := r.client.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved events: %w", err)
	}
	defer rows.Close()

	var events []*outcomev1.Event
	for rows.Next() {
		ev := &outcomev1.Event{}
		var durationMs int64
		err := rows.Scan(
			&ev.ID, &ev.AnchorTickID, &ev.AnchorTimestamp, &ev.AnchorPrice, &ev.Direction,
			&ev.TargetDistance, &ev.StopDistance,
			&ev.Horizon.Kind, &ev.Horizon.Ticks, &durationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Horizon.Duration = msToDuration(durationMs)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// MaxAnchorTickID returns the highest anchor tick id of any seeded
// event, zero when no events exist. Used as the seeding resume point.
func (r *Repository) MaxAnchorTickID(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(anchor_tick_id), 0) FROM events`

	var id int64
	if err := r.client.QueryRow(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get max anchor tick id: %w", err)
	}

	return id, nil
}

// UpsertOutcome stores a resolution. A final outcome is never
// overwritten; a provisional timeout is replaced by whatever a later
// pass resolves once more forward ticks exist.
func (r *Repository) UpsertOutcome(ctx context.Context, o *outcomev1.Outcome) error {
	query := `INSERT INTO outcomes
			(event_id, kind, resolved_tick_id, resolved_ts, ticks_to_resolution, mfe, mae, final)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		  ON CONFLICT (event_id) DO UPDATE SET
			kind = EXCLUDED.kind,
			resolved_tick_id = EXCLUDED.resolved_tick_id,
			resolved_ts = EXCLUDED.resolved_ts,
			ticks_to_resolution = EXCLUDED.ticks_to_resolution,
			mfe = EXCLUDED.mfe,
			mae = EXCLUDED.mae,
			final = EXCLUDED.final
		  WHERE outcomes.final = false`

	_, err := r.client.Exec(ctx, query,
		o.EventID, o.Kind, o.ResolvedTickID, o.ResolvedTimestamp,
		o.TicksToResolution, o.MFE, o.MAE, o.Final,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert outcome: %w", err)
	}

	return nil
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
