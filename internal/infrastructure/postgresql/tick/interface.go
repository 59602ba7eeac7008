package tick

import (
	"context"

	tickv1 "github.com/8abak/ctrade-segments/internal/domain/tick/v1"
)

// TickRepository is the interface for the tick stream. Ticks are
// returned strictly in ascending id order; gaps in time are expected and
// meaningful, gaps in id are not.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type TickRepository interface {
	FetchAfter(ctx context.Context, lastID int64, limit int) ([]tickv1.Tick, error)
	GetByID(ctx context.Context, id int64) (*tickv1.Tick, error)
	StoreBatch(ctx context.Context, ticks []tickv1.RawTick) error
}
