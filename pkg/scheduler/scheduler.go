// Package scheduler provides the recurring-task mechanism that drives
// provider refresh cycles. Each task is supervised: a failing invocation is
// logged and the task waits for its next tick.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one recurring unit of work.
type Task struct {
	// ID identifies the task in logs, e.g. "CAPIClusterProvider:default:refresh".
	ID string

	// Frequency is the interval between invocations.
	Frequency time.Duration

	// Timeout bounds a single invocation. Zero means no per-invocation
	// timeout.
	Timeout time.Duration

	// InitialDelay postpones the first invocation after scheduling.
	InitialDelay time.Duration

	// Fn performs one invocation. A returned error is the invocation's
	// outcome; it is logged and never propagated further.
	Fn func(ctx context.Context) error
}

// Interface accepts recurring tasks and invokes them on its own cadence.
type Interface interface {
	ScheduleTask(task Task) error
}

// TickerScheduler runs each scheduled task on its own goroutine until the
// scheduler's context is cancelled. Invocations of one task never overlap;
// tasks are independent of each other.
type TickerScheduler struct {
	ctx    context.Context
	logger *zap.SugaredLogger
	wg     sync.WaitGroup
}

// NewTickerScheduler creates a scheduler bound to ctx. Cancelling ctx stops
// every scheduled task after its current invocation completes.
func NewTickerScheduler(ctx context.Context, logger *zap.SugaredLogger) *TickerScheduler {
	return &TickerScheduler{
		ctx:    ctx,
		logger: logger,
	}
}

// ScheduleTask registers a task and starts its recurring invocation loop.
func (s *TickerScheduler) ScheduleTask(task Task) error {
	if task.ID == "" {
		return fmt.Errorf("task has no id")
	}
	if task.Fn == nil {
		return fmt.Errorf("task %q has no function", task.ID)
	}
	if task.Frequency <= 0 {
		return fmt.Errorf("task %q has no positive frequency", task.ID)
	}

	s.wg.Add(1)
	go s.run(task)

	return nil
}

// Wait blocks until every task loop has exited.
func (s *TickerScheduler) Wait() {
	s.wg.Wait()
}

func (s *TickerScheduler) run(task Task) {
	defer s.wg.Done()
	logger := s.logger.With("task", task.ID)

	if task.InitialDelay > 0 {
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(task.InitialDelay):
		}
	}

	s.invoke(task, logger)

	ticker := time.NewTicker(task.Frequency)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			logger.Debugw("stopping scheduled task")
			return
		case <-ticker.C:
			s.invoke(task, logger)
		}
	}
}

// invoke runs one supervised invocation. Errors are captured here, at the
// tick boundary, and go no further.
func (s *TickerScheduler) invoke(task Task, logger *zap.SugaredLogger) {
	ctx := s.ctx
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, task.Timeout)
		defer cancel()
	}

	if err := task.Fn(ctx); err != nil {
		logger.Errorw("scheduled task failed", "error", err)
		return
	}

	logger.Debugw("scheduled task complete")
}
