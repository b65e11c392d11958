package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/diegoclair/shift-board/internal/domain/schedule"
	"github.com/diegoclair/shift-board/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// Wednesday of the week starting Sunday 2025-09-28
var testNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

type allMocks struct {
	mockAPI          *mocks.MockScheduleAPI
	mockDataManager  *mocks.MockDataManager
	mockSnapshotRepo *mocks.MockSnapshotRepo
	mockMoveRepo     *mocks.MockMoveRepo
	mockNotifier     *mocks.MockNotifier
	mockConfirmer    *mocks.MockConfirmer
}

func newServiceTestMock(t *testing.T) (m allMocks, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)

	dm := mocks.NewMockDataManager(ctrl)

	snapshotRepo := mocks.NewMockSnapshotRepo(ctrl)
	dm.EXPECT().Snapshot().Return(snapshotRepo).AnyTimes()

	moveRepo := mocks.NewMockMoveRepo(ctrl)
	dm.EXPECT().Move().Return(moveRepo).AnyTimes()

	dm.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(contract.DataManager) error) error {
			return fn(dm)
		}).AnyTimes()

	m = allMocks{
		mockAPI:          mocks.NewMockScheduleAPI(ctrl),
		mockDataManager:  dm,
		mockSnapshotRepo: snapshotRepo,
		mockMoveRepo:     moveRepo,
		mockNotifier:     mocks.NewMockNotifier(ctrl),
		mockConfirmer:    mocks.NewMockConfirmer(ctrl),
	}
	return
}

func newTestBoard(t *testing.T, m allMocks) *Board {
	t.Helper()

	b := NewBoard(m.mockAPI, m.mockDataManager, m.mockNotifier, m.mockConfirmer, time.UTC)
	require.NotNil(t, b)

	b.SetClock(func() time.Time { return testNow })
	require.Equal(t, schedule.StartOfWeek(testNow, time.UTC), b.WeekStart())
	return b
}

// fixtureShifts is the week of 2025-09-28.
func fixtureShifts() []entity.Shift {
	return []entity.Shift{
		{ID: 1, Name: "Lunch", RoleRequired: "Server", StartTime: "2025-10-02T14:00:00Z", EndTime: "2025-10-02T16:00:00Z"},
		{ID: 2, Name: "Prep", RoleRequired: "Cook", StartTime: "2025-10-01T15:00:00Z"},
		{ID: 3, Name: "Close", RoleRequired: "Server", StartTime: "2025-10-03T20:00:00Z", EndTime: "2025-10-03T23:00:00Z", Notes: "lock up"},
		{ID: 4, Name: "Inventory", RoleRequired: "Manager", StartTime: "tbd"},
	}
}

// newLoadedBoard returns a board that already displays fixtureShifts.
func newLoadedBoard(t *testing.T, m allMocks) *Board {
	t.Helper()

	b := newTestBoard(t, m)
	m.mockAPI.EXPECT().ListShifts(gomock.Any(), timeEq(b.anchor)).Return(fixtureShifts(), nil)
	m.mockSnapshotRepo.EXPECT().Save(gomock.Any()).Return(nil)
	require.NoError(t, b.Load(context.Background()))
	return b
}

type timeMatcher struct{ want time.Time }

func (m timeMatcher) Matches(x any) bool {
	t, ok := x.(time.Time)
	return ok && t.Equal(m.want)
}

func (m timeMatcher) String() string {
	return fmt.Sprintf("is the instant %s", m.want.Format(time.RFC3339))
}

func timeEq(t time.Time) gomock.Matcher {
	return timeMatcher{want: t}
}
