package outcome

import (
	"context"

	outcomev1 "github.com/8abak/ctrade-segments/internal/domain/outcome/v1"
)

// OutcomeRepository is the persistence interface the resolver drives.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type OutcomeRepository interface {
	InsertEvent(ctx context.Context, ev *outcomev1.Event) error
	ListUnresolved(ctx context.Context, limit int) ([]*outcomev1.Event, error)
	MaxAnchorTickID(ctx context.Context) (int64, error)
	UpsertOutcome(ctx context.Context, o *outcomev1.Outcome) error
}
