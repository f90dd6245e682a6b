package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduleTaskValidation(t *testing.T) {
	s := NewTickerScheduler(context.Background(), zap.NewNop().Sugar())

	tests := []struct {
		name    string
		task    Task
		wantErr string
	}{
		{
			name:    "missing id",
			task:    Task{Frequency: time.Second, Fn: func(context.Context) error { return nil }},
			wantErr: "no id",
		},
		{
			name:    "missing function",
			task:    Task{ID: "refresh", Frequency: time.Second},
			wantErr: "no function",
		},
		{
			name:    "missing frequency",
			task:    Task{ID: "refresh", Fn: func(context.Context) error { return nil }},
			wantErr: "no positive frequency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, s.ScheduleTask(tt.task), tt.wantErr)
		})
	}
}

func TestScheduleTaskInvokesRepeatedly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewTickerScheduler(ctx, zap.NewNop().Sugar())

	var invocations atomic.Int32
	done := make(chan struct{})

	err := s.ScheduleTask(Task{
		ID:        "test:refresh",
		Frequency: 5 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			if invocations.Add(1) == 3 {
				close(done)
			}
			return nil
		},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task was not invoked three times")
	}

	cancel()
	s.Wait()
}

func TestScheduleTaskErrorDoesNotStopTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewTickerScheduler(ctx, zap.NewNop().Sugar())

	var invocations atomic.Int32
	done := make(chan struct{})

	err := s.ScheduleTask(Task{
		ID:        "test:refresh",
		Frequency: 5 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			// Every invocation fails; the task must keep ticking.
			if invocations.Add(1) == 3 {
				close(done)
			}
			return errors.New("cycle failed")
		},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("failing task was not re-invoked")
	}

	cancel()
	s.Wait()
}

func TestScheduleTaskAppliesTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewTickerScheduler(ctx, zap.NewNop().Sugar())

	deadlines := make(chan bool, 1)

	err := s.ScheduleTask(Task{
		ID:        "test:refresh",
		Frequency: time.Minute,
		Timeout:   time.Second,
		Fn: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			select {
			case deadlines <- ok:
			default:
			}
			return nil
		},
	})
	require.NoError(t, err)

	select {
	case hasDeadline := <-deadlines:
		assert.True(t, hasDeadline)
	case <-time.After(time.Second):
		t.Fatal("task was not invoked")
	}

	cancel()
	s.Wait()
}

func TestScheduleTaskStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewTickerScheduler(ctx, zap.NewNop().Sugar())

	err := s.ScheduleTask(Task{
		ID:           "test:refresh",
		Frequency:    time.Minute,
		InitialDelay: time.Hour,
		Fn: func(ctx context.Context) error {
			t.Error("task should not run before its initial delay")
			return nil
		},
	})
	require.NoError(t, err)

	cancel()

	finished := make(chan struct{})
	go func() {
		s.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
