package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Snapshotter builds and persists the report of one calendar day.
type Snapshotter interface {
	Snapshot(ctx context.Context, day time.Time) (models.DailyReport, error)
}

// Notifier delivers a finished daily report.
type Notifier interface {
	SendDailyReport(ctx context.Context, report models.DailyReport) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	reports  Snapshotter
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running the daily snapshot on schedule in loc.
// notifier may be nil when notifications are disabled.
func NewScheduler(schedule string, loc *time.Location, reports Snapshotter, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		reports:  reports,
		notifier: notifier,
		now:      func() time.Time { return time.Now().In(loc) },
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("daily_report", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.dailyReport); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) dailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunDailyReport(ctx); err != nil {
		s.logger.Error("daily report failed", zap.Error(err))
	}
}

// RunDailyReport snapshots today and sends it to the manager when a notifier is set.
// A notification failure is logged; the snapshot is already persisted.
func (s *Scheduler) RunDailyReport(ctx context.Context) error {
	s.logger.Info("generating daily report")

	report, err := s.reports.Snapshot(ctx, s.now())
	if err != nil {
		return err
	}

	if s.notifier == nil {
		return nil
	}

	if err := s.notifier.SendDailyReport(ctx, report); err != nil {
		s.logger.Error("failed to send daily report", zap.Error(err))
	} else {
		s.logger.Info("daily report sent successfully")
	}
	return nil
}
