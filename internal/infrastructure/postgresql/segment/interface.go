package segment

import (
	"context"

	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
)

// SegmentRepository is the persistence interface the segmenter drives.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type SegmentRepository interface {
	Append(ctx context.Context, seg *segmentv1.Segment, subMoves []segmentv1.SubMove) error
	DeleteLast(ctx context.Context, scale segmentv1.Scale) error
	GetCursor(ctx context.Context, scale segmentv1.Scale) (int64, error)
	GetLast(ctx context.Context, scale segmentv1.Scale) (*segmentv1.Segment, error)
	ListEndingAfter(ctx context.Context, scale segmentv1.Scale, afterTickID int64, limit int) ([]*segmentv1.Segment, error)
	SetCursor(ctx context.Context, scale segmentv1.Scale, tickID int64) error
}
