// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"testing"
)

// countingWorker tracks how many times Run was called and returns err.
type countingWorker struct {
	runCount int
	err      error
}

func (m *countingWorker) Run(context.Context) error {
	m.runCount++
	return m.err
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &countingWorker{}
	w2 := &countingWorker{}
	w3 := &countingWorker{}

	ws := NewWorkers(w1, w2, w3)
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, w := range []*countingWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	if err := NewWorkers().Run(context.Background()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := (&Workers{}).Run(context.Background()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestWorkers_Run_SkipsNil(t *testing.T) {
	w := &countingWorker{}
	ws := NewWorkers(nil, w, nil)

	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.runCount != 1 {
		t.Errorf("expected runCount=1, got %d", w.runCount)
	}
}

func TestWorkers_Run_Order(t *testing.T) {
	order := []int{}

	newOrderWorker := func(id int) Worker {
		return &orderWorker{id: id, order: &order}
	}

	ws := NewWorkers(newOrderWorker(1), newOrderWorker(2), newOrderWorker(3))
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []int{1, 2, 3}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d]=%d, got %d", i, v, order[i])
		}
	}
}

func TestWorkers_Run_JoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errC := errors.New("c failed")
	a := &countingWorker{err: errA}
	b := &countingWorker{}
	c := &countingWorker{err: errC}

	err := NewWorkers(a, b, c).Run(context.Background())

	if !errors.Is(err, errA) || !errors.Is(err, errC) {
		t.Errorf("expected both errors joined, got %v", err)
	}
	if b.runCount != 1 || c.runCount != 1 {
		t.Errorf("expected every worker to run after a failure")
	}
}

func TestWorkers_Run_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &countingWorker{}

	err := NewWorkers(w).Run(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if w.runCount != 0 {
		t.Errorf("expected worker not to run, got runCount=%d", w.runCount)
	}
}

func TestWorkers_Run_MultipleRuns(t *testing.T) {
	w := &countingWorker{}
	ws := NewWorkers(w)

	for range 3 {
		_ = ws.Run(context.Background())
	}

	if w.runCount != 3 {
		t.Errorf("expected runCount=3 after 3 calls, got %d", w.runCount)
	}
}

// orderWorker appends its ID to a shared slice on Run.
type orderWorker struct {
	id    int
	order *[]int
}

func (o *orderWorker) Run(context.Context) error {
	*o.order = append(*o.order, o.id)
	return nil
}
