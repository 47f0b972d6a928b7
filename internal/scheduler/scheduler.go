package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/config"
	"github.com/mamadbah2/washify/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// UserLister enumerates the shop accounts.
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Snapshotter stores the daily report of a user.
type Snapshotter interface {
	SaveDailySnapshot(ctx context.Context, userID string, day time.Time) (models.DailyReport, error)
}

// DailyNotifier delivers a daily report to the shop owner.
type DailyNotifier interface {
	NotifyDailyReport(ctx context.Context, user models.User, r models.DailyReport) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	users     UserLister
	snapshots Snapshotter
	notifier  DailyNotifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance running in the shop time
// zone. A nil notifier skips WhatsApp delivery.
func NewScheduler(cfg config.ReportingConfig, users UserLister, snapshots Snapshotter, notifier DailyNotifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(cfg.Location())),
		schedule:  cfg.CronSchedule,
		users:     users,
		snapshots: snapshots,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the daily report job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReports); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("daily_report", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReports() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.DailyReports(ctx); err != nil {
		s.logger.Error("daily report job failed", zap.Error(err))
	}
}

// DailyReports snapshots today's figures for every user and notifies the
// owners that have a phone number. A failure for one user does not stop the
// others.
func (s *Scheduler) DailyReports(ctx context.Context) error {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	today := s.now()
	var saved, notified int
	for _, user := range users {
		report, err := s.snapshots.SaveDailySnapshot(ctx, user.ID, today)
		if err != nil {
			s.logger.Error("failed to save daily report", zap.String("user_id", user.ID), zap.Error(err))
			continue
		}
		saved++

		if s.notifier == nil || user.Phone == "" {
			continue
		}
		if err := s.notifier.NotifyDailyReport(ctx, user, report); err != nil {
			s.logger.Error("failed to send daily report", zap.String("user_id", user.ID), zap.Error(err))
			continue
		}
		notified++
	}

	s.logger.Info("daily reports generated", zap.Int("users", len(users)), zap.Int("saved", saved), zap.Int("notified", notified))
	return nil
}
