package outcome

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	outcomev1 "github.com/8abak/ctrade-segments/internal/domain/outcome/v1"
	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
	mock "github.com/8abak/ctrade-segments/pkg/postgresql/mock"
)

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// rowFunc adapts a closure to pgx.Row.
type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

func testEvent() *outcomev1.Event {
	return &outcomev1.Event{
		ID:              "01HV8Z0000000000000000TEST",
		AnchorTickID:    40,
		AnchorTimestamp: testEpoch,
		AnchorPrice:     101.2,
		Direction:       segmentv1.DirectionDown,
		TargetDistance:  2.0,
		StopDistance:    1.0,
		Horizon:         outcomev1.DurationHorizon(10 * time.Minute),
	}
}

func TestOutcomeRepository_InsertEvent(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(ev *outcomev1.Event, client *mock.MockPostgreSQLClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success with duration stored in milliseconds",
			mockFn: func(ev *outcomev1.Event, client *mock.MockPostgreSQLClient) {
				client.EXPECT().Exec(gomock.Any(), gomock.Any(),
					ev.ID, ev.AnchorTickID, ev.AnchorTimestamp, ev.AnchorPrice, ev.Direction,
					ev.TargetDistance, ev.StopDistance,
					outcomev1.HorizonDuration, 0, int64(600000),
				).Return(pgconn.CommandTag{}, nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "error",
			mockFn: func(ev *outcomev1.Event, client *mock.MockPostgreSQLClient) {
				client.EXPECT().Exec(gomock.Any(), gomock.Any(),
					gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
					gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				).Return(pgconn.CommandTag{}, stderrors.New("connection refused"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockPostgreSQLClient(ctrl)
			ev := testEvent()
			tc.mockFn(ev, client)

			repo := NewRepository(client)
			err := repo.InsertEvent(context.Background(), ev)
			tc.assertFn(t, err)
		})
	}
}

func TestOutcomeRepository_ListUnresolved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockPostgreSQLClient(ctrl)
	rows := mock.NewMockRowsInterface(ctrl)

	i := 0
	rows.EXPECT().Next().DoAndReturn(func() bool { return i < 1 }).AnyTimes()
	rows.EXPECT().Scan(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).DoAndReturn(func(dest ...any) error {
		*dest[0].(*string) = "evt-1"
		*dest[1].(*int64) = 40
		*dest[2].(*time.Time) = testEpoch
		*dest[3].(*float64) = 101.2
		*dest[4].(*segmentv1.Direction) = segmentv1.DirectionDown
		*dest[5].(*float64) = 2.0
		*dest[6].(*float64) = 1.0
		*dest[7].(*outcomev1.HorizonKind) = outcomev1.HorizonDuration
		*dest[8].(*int) = 0
		*dest[9].(*int64) = 600000
		i++
		return nil
	})
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()

	client.EXPECT().Query(gomock.Any(), gomock.Any(), 100).Return(rows, nil)

	repo := NewRepository(client)
	events, err := repo.ListUnresolved(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "evt-1", ev.ID)
	assert.Equal(t, int64(40), ev.AnchorTickID)
	// The millisecond column round-trips into a time.Duration.
	assert.Equal(t, outcomev1.DurationHorizon(10*time.Minute), ev.Horizon)
}

func TestOutcomeRepository_MaxAnchorTickID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockPostgreSQLClient(ctrl)
	client.EXPECT().QueryRow(gomock.Any(), gomock.Any()).Return(rowFunc(func(dest ...any) error {
		*dest[0].(*int64) = 90
		return nil
	}))

	repo := NewRepository(client)
	id, err := repo.MaxAnchorTickID(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(90), id)
}

func TestOutcomeRepository_UpsertOutcome(t *testing.T) {
	resolvedID := int64(55)
	resolvedTS := testEpoch.Add(15 * time.Second)

	testCases := []struct {
		name     string
		outcome  *outcomev1.Outcome
		mockFn   func(o *outcomev1.Outcome, client *mock.MockPostgreSQLClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "final resolution",
			outcome: &outcomev1.Outcome{
				EventID:           "evt-1",
				Kind:              outcomev1.KindTargetHit,
				ResolvedTickID:    &resolvedID,
				ResolvedTimestamp: &resolvedTS,
				TicksToResolution: 15,
				MFE:               2.1,
				MAE:               -0.4,
				Final:             true,
			},
			mockFn: func(o *outcomev1.Outcome, client *mock.MockPostgreSQLClient) {
				client.EXPECT().Exec(gomock.Any(), gomock.Any(),
					o.EventID, o.Kind, o.ResolvedTickID, o.ResolvedTimestamp,
					o.TicksToResolution, o.MFE, o.MAE, true,
				).Return(pgconn.CommandTag{}, nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "provisional timeout carries null resolution fields",
			outcome: &outcomev1.Outcome{
				EventID:           "evt-2",
				Kind:              outcomev1.KindTimeout,
				TicksToResolution: 3,
			},
			mockFn: func(o *outcomev1.Outcome, client *mock.MockPostgreSQLClient) {
				client.EXPECT().Exec(gomock.Any(), gomock.Any(),
					o.EventID, outcomev1.KindTimeout, (*int64)(nil), (*time.Time)(nil),
					3, 0.0, 0.0, false,
				).Return(pgconn.CommandTag{}, nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockPostgreSQLClient(ctrl)
			tc.mockFn(tc.outcome, client)

			repo := NewRepository(client)
			err := repo.UpsertOutcome(context.Background(), tc.outcome)
			tc.assertFn(t, err)
		})
	}
}
