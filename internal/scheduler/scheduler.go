package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/sagebot/internal/index"
	"github.com/eliseohh/sagebot/internal/log"
	"github.com/eliseohh/sagebot/internal/metrics"
)

type Deliverer interface {
	DeliverReminder(r index.Reminder) error
}

type Syncer interface {
	Sync(ctx context.Context) (index.SyncStats, error)
}

type Config struct {
	ReminderSchedule string
	SyncSchedule     string
}

// Scheduler runs reminder delivery and index syncs on cron schedules.
type Scheduler struct {
	cron      *cron.Cron
	db        *index.DB
	deliverer Deliverer
	syncer    Syncer
	now       func() time.Time
	logger    *logrus.Entry

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New validates both schedules. A nil syncer disables the sync job.
func New(cfg Config, db *index.DB, deliverer Deliverer, syncer Syncer) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		db:        db,
		deliverer: deliverer,
		syncer:    syncer,
		now:       time.Now,
		logger:    log.GetLogger(log.SchedulerModule),
		ctx:       context.Background(),
	}

	if _, err := s.cron.AddFunc(cfg.ReminderSchedule, func() { s.DeliverDue() }); err != nil {
		return nil, errors.Wrapf(err, "invalid reminder schedule %q", cfg.ReminderSchedule)
	}
	if syncer != nil {
		if _, err := s.cron.AddFunc(cfg.SyncSchedule, func() { s.runSync() }); err != nil {
			return nil, errors.Wrapf(err, "invalid sync schedule %q", cfg.SyncSchedule)
		}
	}
	return s, nil
}

// Start launches the cron loop; jobs observe ctx for cancellation.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.logger.Infof("starting scheduler with %d jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// DeliverDue sends every expired reminder and removes the ones delivered.
// Transient failures stay stored and are retried on the next tick; reminders
// whose chat can never be reached again are dropped.
func (s *Scheduler) DeliverDue() int {
	due, err := s.db.DueReminders(s.now())
	if err != nil {
		s.logger.WithError(err).Error("can not load due reminders")
		return 0
	}

	delivered := 0
	for _, r := range due {
		ll := s.logger.WithField("reminder", r.ID)
		if err := s.deliverer.DeliverReminder(r); err != nil {
			if !undeliverable(err) {
				ll.WithError(err).Warn("can not deliver reminder")
				continue
			}
			ll.WithError(err).Warn("dropping undeliverable reminder")
			if _, err := s.db.DeleteReminder(r.ID); err != nil {
				ll.WithError(err).Error("can not delete undeliverable reminder")
			}
			continue
		}
		if _, err := s.db.DeleteReminder(r.ID); err != nil {
			ll.WithError(err).Error("can not delete delivered reminder")
			continue
		}
		delivered++
		metrics.RemindersDeliveredTotal.Inc()
	}
	if delivered > 0 {
		s.logger.Infof("delivered %d reminders", delivered)
	}
	return delivered
}

// undeliverable reports Telegram errors that no retry can fix.
func undeliverable(err error) bool {
	for _, target := range []error{
		tele.ErrBlockedByUser,
		tele.ErrChatNotFound,
		tele.ErrUserIsDeactivated,
		tele.ErrKickedFromGroup,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Scheduler) runSync() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	stats, err := s.syncer.Sync(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("sync failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"courses": stats.Courses,
		"new":     stats.New,
		"changed": stats.Changed,
		"failed":  stats.Failed,
		"pruned":  stats.Pruned,
	}).Info("sync finished")
}
