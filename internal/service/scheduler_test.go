package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/user/moviesearch/internal/model"
)

type countingRunner struct {
	runs   atomic.Int32
	cancel context.CancelFunc
	stopAt int32
	err    error
}

func (r *countingRunner) Run(ctx context.Context) (*model.LoadReport, error) {
	if r.runs.Add(1) >= r.stopAt {
		r.cancel()
	}
	if r.err != nil {
		return nil, r.err
	}
	return &model.LoadReport{Total: 1, Accepted: 1, Failures: []model.LoadFailure{}}, nil
}

func TestScheduler_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := &countingRunner{cancel: cancel, stopAt: 3}

	done := make(chan struct{})
	go func() {
		NewScheduler(runner, 10*time.Millisecond).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(3), runner.runs.Load())
}

func TestScheduler_KeepsRunningAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := &countingRunner{cancel: cancel, stopAt: 2, err: errors.New("es down")}

	done := make(chan struct{})
	go func() {
		NewScheduler(runner, 10*time.Millisecond).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(2), runner.runs.Load())
}
