package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/washify/internal/config"
	"github.com/mamadbah2/washify/internal/domain/models"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

type mockSnapshots struct{ mock.Mock }

func (m *mockSnapshots) SaveDailySnapshot(ctx context.Context, userID string, day time.Time) (models.DailyReport, error) {
	args := m.Called(ctx, userID, day)
	return args.Get(0).(models.DailyReport), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyDailyReport(ctx context.Context, user models.User, r models.DailyReport) error {
	return m.Called(ctx, user, r).Error(0)
}

var fixedNow = time.Date(2024, time.March, 15, 21, 0, 0, 0, time.UTC)

func newScheduler(users UserLister, snaps Snapshotter, notifier DailyNotifier) *Scheduler {
	s := NewScheduler(config.ReportingConfig{CronSchedule: "0 21 * * *", Timezone: "UTC"}, users, snaps, notifier, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestDailyReports(t *testing.T) {
	withPhone := models.User{ID: "u1", ShopName: "Sparkle", Phone: "+2348031234567"}
	noPhone := models.User{ID: "u2", ShopName: "Fresh"}
	failing := models.User{ID: "u3", Phone: "+2348000000000"}

	users := new(mockUsers)
	users.On("ListUsers", mock.Anything).Return([]models.User{withPhone, noPhone, failing}, nil)

	r1 := models.DailyReport{UserID: "u1", Date: "2024-03-15", TotalOrders: 3}
	snaps := new(mockSnapshots)
	snaps.On("SaveDailySnapshot", mock.Anything, "u1", fixedNow).Return(r1, nil).Once()
	snaps.On("SaveDailySnapshot", mock.Anything, "u2", fixedNow).Return(models.DailyReport{UserID: "u2"}, nil).Once()
	snaps.On("SaveDailySnapshot", mock.Anything, "u3", fixedNow).Return(models.DailyReport{}, assert.AnError).Once()

	notifier := new(mockNotifier)
	notifier.On("NotifyDailyReport", mock.Anything, withPhone, r1).Return(nil).Once()

	err := newScheduler(users, snaps, notifier).DailyReports(context.Background())

	require.NoError(t, err)
	snaps.AssertExpectations(t)
	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "NotifyDailyReport", 1)
}

func TestDailyReportsWithoutNotifier(t *testing.T) {
	users := new(mockUsers)
	users.On("ListUsers", mock.Anything).Return([]models.User{{ID: "u1", Phone: "+1"}}, nil)
	snaps := new(mockSnapshots)
	snaps.On("SaveDailySnapshot", mock.Anything, "u1", fixedNow).Return(models.DailyReport{UserID: "u1"}, nil).Once()

	require.NoError(t, newScheduler(users, snaps, nil).DailyReports(context.Background()))
	snaps.AssertExpectations(t)
}

func TestDailyReportsListError(t *testing.T) {
	users := new(mockUsers)
	users.On("ListUsers", mock.Anything).Return(nil, assert.AnError)

	err := newScheduler(users, new(mockSnapshots), nil).DailyReports(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(config.ReportingConfig{CronSchedule: "not a cron", Timezone: "UTC"}, new(mockUsers), new(mockSnapshots), nil, nil)
	assert.Error(t, s.Start())
}
