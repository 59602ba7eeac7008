package segmenter

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
	tickv1 "github.com/8abak/ctrade-segments/internal/domain/tick/v1"
	segmentMock "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/segment/mock"
	tickMock "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/tick/mock"
	"github.com/8abak/ctrade-segments/pkg/errors"
	loggerMock "github.com/8abak/ctrade-segments/pkg/logger/mock"
	pgMock "github.com/8abak/ctrade-segments/pkg/postgresql/mock"
)

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeTx satisfies pgx.Tx for the commit path; repositories are mocked
// so only Commit and Rollback are ever reached.
type fakeTx struct {
	commits   int
	rollbacks int
}

func (f *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return f, nil }
func (f *fakeTx) Commit(ctx context.Context) error {
	f.commits++
	return nil
}
func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rollbacks++
	return nil
}
func (f *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (f *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (f *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (f *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (f *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (f *fakeTx) Conn() *pgx.Conn                                               { return nil }

func makeTicks(firstID int64, prices ...float64) []tickv1.Tick {
	ticks := make([]tickv1.Tick, len(prices))
	for i, p := range prices {
		ticks[i] = tickv1.Tick{
			ID:        firstID + int64(i),
			Timestamp: testEpoch.Add(time.Duration(firstID+int64(i)) * time.Second),
			Price:     p,
		}
	}
	return ticks
}

type mocks struct {
	db    *pgMock.MockPostgreSQLClient
	ticks *tickMock.MockTickRepository
	segs  *segmentMock.MockSegmentRepository
	log   *loggerMock.MockInterface
	tx    *fakeTx
}

func newMocks(ctrl *gomock.Controller) *mocks {
	m := &mocks{
		db:    pgMock.NewMockPostgreSQLClient(ctrl),
		ticks: tickMock.NewMockTickRepository(ctrl),
		segs:  segmentMock.NewMockSegmentRepository(ctrl),
		log:   loggerMock.NewMockInterface(ctrl),
		tx:    &fakeTx{},
	}
	m.db.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).AnyTimes()
	m.log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	m.log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return m
}

func TestSegmenter_ColdStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	params := Params{Scale: segmentv1.ScaleMicro, Threshold: 1.0, BatchSize: 100}

	batch := makeTicks(1, 100, 100.5, 101.2, 100.1, 99.0)

	m.segs.EXPECT().GetLast(gomock.Any(), segmentv1.ScaleMicro).Return(nil, nil)
	m.segs.EXPECT().GetCursor(gomock.Any(), segmentv1.ScaleMicro).Return(int64(0), nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(0), 100).Return(batch, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(5), 100).Return(nil, nil)

	m.segs.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, seg *segmentv1.Segment, _ []segmentv1.SubMove) error {
			assert.Equal(t, int64(1), seg.StartTickID)
			assert.Equal(t, int64(3), seg.EndTickID)
			assert.Equal(t, segmentv1.DirectionUp, seg.Direction)
			return nil
		})
	m.segs.EXPECT().SetCursor(gomock.Any(), segmentv1.ScaleMicro, int64(3)).Return(nil)

	uc := NewUsecase(m.db, m.ticks, m.segs, m.log, params)
	stats, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, stats.TicksProcessed)
	assert.Equal(t, 1, stats.SegmentsCommitted)
	assert.False(t, stats.ReplacedLast)
	assert.Equal(t, 1, m.tx.commits)
	assert.Equal(t, 0, m.tx.rollbacks)
}

func TestSegmenter_ResumeFromLastSegment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	params := Params{Scale: segmentv1.ScaleMicro, Threshold: 1.0, BatchSize: 100}

	last := &segmentv1.Segment{
		Scale:        segmentv1.ScaleMicro,
		StartTickID:  1,
		EndTickID:    3,
		EndTimestamp: testEpoch.Add(3 * time.Second),
		StartPrice:   100,
		EndPrice:     101.2,
		Direction:    segmentv1.DirectionUp,
	}

	// The down leg confirms against the seeded anchor and closes on the
	// rebound, without re-emitting the persisted segment.
	batch := makeTicks(4, 100.1, 99.0, 100.2)

	m.segs.EXPECT().GetLast(gomock.Any(), segmentv1.ScaleMicro).Return(last, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(3), 100).Return(batch, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(6), 100).Return(nil, nil)

	m.segs.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, seg *segmentv1.Segment, _ []segmentv1.SubMove) error {
			assert.Equal(t, int64(3), seg.StartTickID)
			assert.Equal(t, int64(5), seg.EndTickID)
			assert.Equal(t, segmentv1.DirectionDown, seg.Direction)
			assert.Equal(t, 99.0, seg.EndPrice)
			return nil
		})
	m.segs.EXPECT().SetCursor(gomock.Any(), segmentv1.ScaleMicro, int64(5)).Return(nil)

	uc := NewUsecase(m.db, m.ticks, m.segs, m.log, params)
	stats, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TicksProcessed)
	assert.Equal(t, 1, stats.SegmentsCommitted)
}

func TestSegmenter_OutOfOrderTickIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	params := Params{Scale: segmentv1.ScaleMicro, Threshold: 1.0, BatchSize: 100}

	batch := []tickv1.Tick{
		{ID: 5, Timestamp: testEpoch, Price: 100},
		{ID: 4, Timestamp: testEpoch.Add(time.Second), Price: 100.5},
	}

	m.segs.EXPECT().GetLast(gomock.Any(), segmentv1.ScaleMicro).Return(nil, nil)
	m.segs.EXPECT().GetCursor(gomock.Any(), segmentv1.ScaleMicro).Return(int64(0), nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(0), 100).Return(batch, nil)

	uc := NewUsecase(m.db, m.ticks, m.segs, m.log, params)
	stats, err := uc.Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, errors.OutOfOrderTick))
	assert.Equal(t, 1, stats.TicksProcessed)
	assert.Equal(t, 0, stats.SegmentsCommitted)
}

func TestSegmenter_LiveExtendReplacesLast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	params := Params{
		Scale:        segmentv1.ScaleMicro,
		Threshold:    1.0,
		GapThreshold: 5 * time.Minute,
		BatchSize:    100,
		LiveExtend:   true,
	}

	last := &segmentv1.Segment{
		Scale:          segmentv1.ScaleMicro,
		StartTickID:    1,
		EndTickID:      3,
		StartTimestamp: testEpoch.Add(1 * time.Second),
		EndTimestamp:   testEpoch.Add(3 * time.Second),
		StartPrice:     100,
		EndPrice:       101.2,
		Direction:      segmentv1.DirectionUp,
	}
	startTick := &tickv1.Tick{ID: 1, Timestamp: testEpoch.Add(1 * time.Second), Price: 100}

	// Replay from the segment's own anchor, then close the extended leg
	// once the live ticks reverse.
	batch := makeTicks(2, 100.5, 101.2, 101.8, 100.6)

	m.segs.EXPECT().GetLast(gomock.Any(), segmentv1.ScaleMicro).Return(last, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(3), 1).Return(makeTicks(4, 101.8), nil)
	m.ticks.EXPECT().GetByID(gomock.Any(), int64(1)).Return(startTick, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(1), 100).Return(batch, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(5), 100).Return(nil, nil)

	m.segs.EXPECT().DeleteLast(gomock.Any(), segmentv1.ScaleMicro).Return(nil)
	m.segs.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, seg *segmentv1.Segment, _ []segmentv1.SubMove) error {
			assert.Equal(t, int64(1), seg.StartTickID)
			assert.Equal(t, int64(4), seg.EndTickID)
			assert.Equal(t, 101.8, seg.EndPrice)
			assert.Equal(t, segmentv1.DirectionUp, seg.Direction)
			return nil
		})
	m.segs.EXPECT().SetCursor(gomock.Any(), segmentv1.ScaleMicro, int64(4)).Return(nil)

	uc := NewUsecase(m.db, m.ticks, m.segs, m.log, params)
	stats, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, stats.ReplacedLast)
	assert.Equal(t, 1, stats.SegmentsCommitted)
}

func TestSegmenter_LiveExtendSkippedAcrossGap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	params := Params{
		Scale:        segmentv1.ScaleMicro,
		Threshold:    1.0,
		GapThreshold: 5 * time.Minute,
		BatchSize:    100,
		LiveExtend:   true,
	}

	last := &segmentv1.Segment{
		Scale:        segmentv1.ScaleMicro,
		StartTickID:  1,
		EndTickID:    3,
		EndTimestamp: testEpoch.Add(3 * time.Second),
		EndPrice:     101.2,
		Direction:    segmentv1.DirectionUp,
	}

	// The first new tick is past the gap threshold, so the last segment
	// stays untouched and the builder reseeds at its end.
	gapTick := tickv1.Tick{ID: 4, Timestamp: testEpoch.Add(10 * time.Minute), Price: 101.5}

	m.segs.EXPECT().GetLast(gomock.Any(), segmentv1.ScaleMicro).Return(last, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(3), 1).Return([]tickv1.Tick{gapTick}, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(3), 100).Return([]tickv1.Tick{gapTick}, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(4), 100).Return(nil, nil)

	uc := NewUsecase(m.db, m.ticks, m.segs, m.log, params)
	stats, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.False(t, stats.ReplacedLast)
	assert.Equal(t, 0, stats.SegmentsCommitted)
	assert.Equal(t, 1, stats.TicksProcessed)
}

func TestSegmenter_GapDropWarned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := &mocks{
		db:    pgMock.NewMockPostgreSQLClient(ctrl),
		ticks: tickMock.NewMockTickRepository(ctrl),
		segs:  segmentMock.NewMockSegmentRepository(ctrl),
		log:   loggerMock.NewMockInterface(ctrl),
	}
	m.log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.log.EXPECT().Warn("degenerate single-tick legs dropped at gap resets", gomock.Any()).Times(1)

	params := Params{
		Scale:        segmentv1.ScaleMicro,
		Threshold:    1.0,
		GapThreshold: 5 * time.Minute,
		BatchSize:    100,
	}

	// The first leg is a single tick when the gap hits, so it has no
	// body to emit and is dropped.
	batch := []tickv1.Tick{
		{ID: 1, Timestamp: testEpoch, Price: 100},
		{ID: 2, Timestamp: testEpoch.Add(10 * time.Minute), Price: 100.5},
	}

	m.segs.EXPECT().GetLast(gomock.Any(), segmentv1.ScaleMicro).Return(nil, nil)
	m.segs.EXPECT().GetCursor(gomock.Any(), segmentv1.ScaleMicro).Return(int64(0), nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(0), 100).Return(batch, nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(2), 100).Return(nil, nil)

	uc := NewUsecase(m.db, m.ticks, m.segs, m.log, params)
	stats, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.GapDrops)
	assert.Equal(t, 0, stats.SegmentsCommitted)
}

func TestSegmenter_SegmentCap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	params := Params{
		Scale:             segmentv1.ScaleMicro,
		Threshold:         1.0,
		BatchSize:         100,
		MaxSegmentsPerRun: 1,
	}

	// Wide zigzag that would close two segments if uncapped.
	batch := makeTicks(1, 100, 101.5, 100.2, 101.8)

	m.segs.EXPECT().GetLast(gomock.Any(), segmentv1.ScaleMicro).Return(nil, nil)
	m.segs.EXPECT().GetCursor(gomock.Any(), segmentv1.ScaleMicro).Return(int64(0), nil)
	m.ticks.EXPECT().FetchAfter(gomock.Any(), int64(0), 100).Return(batch, nil)

	m.segs.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	m.segs.EXPECT().SetCursor(gomock.Any(), segmentv1.ScaleMicro, gomock.Any()).Return(nil).Times(1)

	uc := NewUsecase(m.db, m.ticks, m.segs, m.log, params)
	stats, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.SegmentsCommitted)
}
