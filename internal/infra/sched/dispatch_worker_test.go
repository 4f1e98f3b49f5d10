package sched

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockDispatchUC struct {
	runs     atomic.Int32
	recovers atomic.Int32
	runErr   error
}

func (m *mockDispatchUC) RunOnce(context.Context) (int, error) {
	m.runs.Add(1)
	return 0, m.runErr
}

func (m *mockDispatchUC) RecoverStale(context.Context, time.Duration) (int, error) {
	m.recovers.Add(1)
	return 0, nil
}

func TestWorkerRecoversThenTicks(t *testing.T) {
	uc := &mockDispatchUC{}
	log := zerolog.Nop()
	w := NewDispatchWorker(20*time.Millisecond, 0, uc, &log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// One immediate tick plus at least one ticker-driven tick.
	deadline := time.After(2 * time.Second)
	for uc.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("worker ticked %d times, expected at least 2", uc.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if uc.recovers.Load() != 1 {
		t.Errorf("expected exactly one recovery pass on startup, got %d", uc.recovers.Load())
	}
}

func TestWorkerSurvivesTickErrors(t *testing.T) {
	uc := &mockDispatchUC{runErr: errors.New("db flaked")}
	log := zerolog.Nop()
	w := NewDispatchWorker(10*time.Millisecond, 0, uc, &log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for uc.runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("worker stopped ticking after errors, ran %d times", uc.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestWorkerHonorsWarmupCancellation(t *testing.T) {
	uc := &mockDispatchUC{}
	log := zerolog.Nop()
	w := NewDispatchWorker(time.Minute, time.Hour, uc, &log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop during warmup")
	}
	if uc.runs.Load() != 0 {
		t.Errorf("no tick may run before the warmup elapses, got %d", uc.runs.Load())
	}
}
