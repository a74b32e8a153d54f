// Package scheduler runs periodic subscription maintenance.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/clock"
	obsmetrics "github.com/smallbiznis/vitrine/internal/observability/metrics"
	"github.com/smallbiznis/vitrine/internal/ratelimit"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const JobExpireSubscriptions = "expire_subscriptions"

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

// Locker serializes a job across instances.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    subscriptiondomain.Repository
	Clock   clock.Clock
	Config  Config              `optional:"true"`
	Locker  *ratelimit.Locker   `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Scheduler struct {
	db      *gorm.DB
	log     *zap.Logger
	cfg     Config
	genID   *snowflake.Node
	repo    subscriptiondomain.Repository
	clock   clock.Clock
	locker  Locker
	metrics *obsmetrics.Metrics
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.GenID == nil || p.Repo == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	s := &Scheduler{
		db:      p.DB,
		log:     p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:     p.Config.withDefaults(),
		genID:   p.GenID,
		repo:    p.Repo,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
	if p.Locker != nil {
		s.locker = p.Locker
	}
	return s, nil
}

// runJob runs fn under the job timeout and, when a locker is configured, a
// cross-instance lock. Timeouts are logged and swallowed.
func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context, run *jobRun) error) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	run := s.newJobRun(name, s.cfg.BatchSize)
	log := s.logger(ctx).With(zap.String("job", name), zap.String("run_id", run.runID))

	if s.locker != nil {
		key := "scheduler:" + name
		token, ok, err := s.locker.TryLock(ctx, key, s.cfg.JobTimeout)
		if err != nil {
			s.metrics.RecordJobRun(name, obsmetrics.JobResultError, 0)
			return fmt.Errorf("%s: lock: %w", name, err)
		}
		if !ok {
			s.metrics.RecordJobRun(name, obsmetrics.JobResultSkipped, 0)
			log.Debug("job held by another instance")
			return nil
		}
		defer func() {
			if err := s.locker.Release(context.Background(), key, token); err != nil {
				log.Warn("release job lock", zap.Error(err))
			}
		}()
	}

	s.logJobStart(ctx, run)
	err := fn(ctx, run)
	if err != nil {
		run.IncError()
	}
	s.logJobFinish(ctx, run)

	if err == nil {
		s.metrics.RecordJobRun(name, obsmetrics.JobResultSuccess, run.processedCount)
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.metrics.RecordJobRun(name, obsmetrics.JobResultTimeout, run.processedCount)
		log.Warn("job timed out",
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Error(err),
		)
		return nil
	}

	s.metrics.RecordJobRun(name, obsmetrics.JobResultError, run.processedCount)
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.runJob(ctx, JobExpireSubscriptions, s.ExpireSubscriptionsJob)
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ExpireSubscriptionsJob moves canceled and past due subscriptions whose
// period has ended to expired, one batch at a time until none remain.
func (s *Scheduler) ExpireSubscriptionsJob(ctx context.Context, run *jobRun) error {
	now := s.clock.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ids, err := s.repo.FindLapsed(ctx, s.db, now, s.cfg.BatchSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		affected, err := s.repo.MarkExpired(ctx, s.db, ids, now)
		if err != nil {
			return err
		}
		run.AddProcessed(int(affected))
		if affected == 0 {
			return nil
		}
	}
}
