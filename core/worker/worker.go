// Package worker runs the background side of the service: the asynq consumer
// for notification tasks and the cron schedule that completes finished events.
package worker

import (
	"context"
	"fmt"

	"mentor-scheduler/core/cache"
	"mentor-scheduler/core/config"
	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/database"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/queue"
	"mentor-scheduler/modules/class"
	"mentor-scheduler/modules/event"
	"mentor-scheduler/modules/notification"
	"mentor-scheduler/modules/notification/task"
	"mentor-scheduler/modules/role"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc"
)

// Sweeper is the periodic job the cron schedule drives.
type Sweeper interface {
	CompleteDue(ctx context.Context) (int, error)
}

// Run blocks until ctx is cancelled, then stops the cron schedule and lets
// in-flight tasks finish.
func Run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	notifSvc := notification.NewService(db)
	classSvc := class.NewService(db)
	roleSvc := role.NewService(db, cache.NewModeStore(redisClient, cfg.Redis.ModeTTL), classSvc)
	eventSvc := event.NewService(db, roleSvc, classSvc, notifSvc)

	mux := asynq.NewServeMux()
	task.NewHandler(notifSvc).Register(mux)

	srv := asynq.NewServer(queue.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: cfg.Queue.Concurrency,
		Queues:      map[string]int{constants.QueueDefault: 1},
	})

	sched, err := NewScheduler(cfg.Scheduler.CompletionSweep, eventSvc)
	if err != nil {
		return err
	}

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("start task server: %w", err)
	}
	logger.Info("Worker started",
		"concurrency", cfg.Queue.Concurrency,
		"completion_sweep", cfg.Scheduler.CompletionSweep,
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		sched.Run(ctx)
	})
	wg.Go(func() {
		<-ctx.Done()
		srv.Shutdown()
	})
	wg.Wait()

	logger.Info("Worker stopped")
	return nil
}

// Scheduler runs Sweeper.CompleteDue on a cron spec. A sweep still running
// when the next tick fires is not started twice.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
}

func NewScheduler(spec string, sweeper Sweeper) (*Scheduler, error) {
	l := cronLogger{}
	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l))),
		sweeper: sweeper,
	}
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid completion sweep %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the schedule and blocks until ctx is done and the running job,
// if any, has returned.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.SweepTimeout)
	defer cancel()

	n, err := s.sweeper.CompleteDue(ctx)
	if err != nil {
		logger.Error("Worker:CompleteDue", err)
		return
	}
	if n > 0 {
		logger.Info("Worker:CompleteDue", "completed", n)
	}
}

// cronLogger sends cron's own logging through the service logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("Cron:"+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("Cron:"+msg, append([]any{"error", err}, keysAndValues...)...)
}
