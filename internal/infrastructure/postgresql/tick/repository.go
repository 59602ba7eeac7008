package tick

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	tickv1 "github.com/8abak/ctrade-segments/internal/domain/tick/v1"
	"github.com/8abak/ctrade-segments/pkg/errors"
	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

// Repository reads the ordered tick stream and ingests raw ticks.
type Repository struct {
	client  postgresql.PostgreSQLClient
	mapping FieldMapping
}

// NewRepository creates a tick repository over an already-resolved field
// mapping.
func NewRepository(client postgresql.PostgreSQLClient, mapping FieldMapping) *Repository {
	return &Repository{
		client:  client,
		mapping: mapping,
	}
}

// ResolveMapping discovers the tick field mapping from
// information_schema once at startup.
func ResolveMapping(ctx context.Context, client postgresql.PostgreSQLClient, cfg Config) (FieldMapping, error) {
	query := `SELECT column_name FROM information_schema.columns WHERE table_name = $1`

	rows, err := client.Query(ctx, query, cfg.Table)
	if err != nil {
		return FieldMapping{}, fmt.Errorf("failed to inspect table %s: %w", cfg.Table, err)
	}
	defer rows.Close()

	columns := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return FieldMapping{}, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return FieldMapping{}, fmt.Errorf("error iterating columns: %w", err)
	}

	m := FieldMapping{Table: cfg.Table, IDColumn: "id"}

	switch {
	case columns["timestamp"]:
		m.TimestampColumn = "timestamp"
	case columns["ts"]:
		m.TimestampColumn = "ts"
	}

	switch {
	case cfg.UseSmoothed && columns[cfg.SmoothedColumn]:
		m.PriceExpr = cfg.SmoothedColumn
	case columns["mid"]:
		m.PriceExpr = "mid"
	case columns["price"]:
		m.PriceExpr = "price"
	case columns["bid"] && columns["ask"]:
		m.PriceExpr = "(bid+ask)/2"
	}

	if !columns[m.IDColumn] || m.TimestampColumn == "" || m.PriceExpr == "" {
		return FieldMapping{}, errors.NewErrorDetails(
			fmt.Sprintf("cannot resolve tick fields for table %s", cfg.Table),
			errors.InvalidTickMapping,
			"table",
		)
	}

	return m, nil
}

// Mapping returns the resolved field mapping.
func (r *Repository) Mapping() FieldMapping {
	return r.mapping
}

// FetchAfter returns up to limit ticks with id strictly greater than
// lastID, in ascending id order.
func (r *Repository) FetchAfter(ctx context.Context, lastID int64, limit int) ([]tickv1.Tick, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s > $1 ORDER BY %s ASC LIMIT $2`,
		r.mapping.IDColumn, r.mapping.TimestampColumn, r.mapping.PriceExpr,
		r.mapping.Table, r.mapping.IDColumn, r.mapping.IDColumn)

	rows, err := r.client.Query(ctx, query, lastID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticks: %w", err)
	}
	defer rows.Close()

	var ticks []tickv1.Tick
	for rows.Next() {
		var t tickv1.Tick
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Price); err != nil {
			return nil, fmt.Errorf("failed to scan tick: %w", err)
		}
		ticks = append(ticks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticks: %w", err)
	}

	return ticks, nil
}

// GetByID returns a single tick, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (*tickv1.Tick, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		r.mapping.IDColumn, r.mapping.TimestampColumn, r.mapping.PriceExpr,
		r.mapping.Table, r.mapping.IDColumn)

	t := &tickv1.Tick{}
	err := r.client.QueryRow(ctx, query, id).Scan(&t.ID, &t.Timestamp, &t.Price)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tick %d: %w", id, err)
	}

	return t, nil
}

// StoreBatch ingests a batch of raw ticks via COPY. Used by the live
// feed consumer; ids are assigned by the ticks table sequence.
func (r *Repository) StoreBatch(ctx context.Context, ticks []tickv1.RawTick) error {
	if len(ticks) == 0 {
		return nil
	}

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{r.mapping.Table},
		[]string{r.mapping.TimestampColumn, "bid", "ask", "mid"},
		pgx.CopyFromSlice(len(ticks), func(i int) ([]any, error) {
			t := ticks[i]
			return []any{t.Timestamp, t.Bid, t.Ask, t.MidPrice()}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy ticks: %w", err)
	}

	return nil
}
