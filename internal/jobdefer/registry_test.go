package jobdefer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/container/fake"
	"github.com/gantryd/gantry/internal/events"
	"github.com/gantryd/gantry/internal/lifecycle"
)

func TestCompletion_RunsEachActionOnce(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--a", true)

	reg := NewCompletion()
	if err := reg.Defer(Action{Job: "j1", Container: "job--a", Kind: lifecycle.KindForceKill}); err != nil {
		t.Fatalf("Defer failed: %v", err)
	}

	if err := reg.RunAll(context.Background(), c); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if c.IsRunning("job--a") {
		t.Error("container still running after completion hook")
	}

	kills := c.Calls("Kill")

	// Second completion is a no-op.
	if err := reg.RunAll(context.Background(), c); err != nil {
		t.Fatalf("second RunAll failed: %v", err)
	}
	if got := c.Calls("Kill"); got != kills {
		t.Errorf("second RunAll issued %d extra kills", got-kills)
	}
}

func TestCompletion_RunsNewestFirst(t *testing.T) {
	c := fake.NewClient()
	c.Add("first", true)
	c.Add("second", true)

	var order []string
	reg := NewCompletion()
	reg.OnExecuted = func(a Action, err error) { order = append(order, a.Container) }

	reg.Defer(Action{Container: "first", Kind: lifecycle.KindForceKill})
	reg.Defer(Action{Container: "second", Kind: lifecycle.KindForceKill})

	if err := reg.RunAll(context.Background(), c); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("execution order = %v, want [second first]", order)
	}
}

func TestCompletion_DeferAfterCompletionFails(t *testing.T) {
	reg := NewCompletion()
	if err := reg.RunAll(context.Background(), fake.NewClient()); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}

	err := reg.Defer(Action{Container: "late", Kind: lifecycle.KindForceKill})
	if !errors.Is(err, ErrCompleted) {
		t.Errorf("Defer after completion = %v, want ErrCompleted", err)
	}
}

func TestCompletion_AbsentContainerIsSuccess(t *testing.T) {
	reg := NewCompletion()
	reg.Defer(Action{Container: "already-gone", Kind: lifecycle.KindForceKill})

	if err := reg.RunAll(context.Background(), fake.NewClient()); err != nil {
		t.Errorf("cleanup of absent container should succeed, got %v", err)
	}
}

func TestCompletion_FailuresDoNotStopRemainingActions(t *testing.T) {
	c := fake.NewClient()
	c.Add("a", true)
	c.Add("b", true)
	c.StatusErr = &container.DaemonError{Op: "inspect", Err: errors.New("daemon down")}

	reg := NewCompletion()
	reg.Defer(Action{Container: "a", Kind: lifecycle.KindForceKill})
	reg.Defer(Action{Container: "b", Kind: lifecycle.KindForceKill})

	err := reg.RunAll(context.Background(), c)
	if err == nil {
		t.Fatal("expected joined failure")
	}
	// Both actions were attempted despite the first failure.
	if got := c.Calls("Status"); got != 2 {
		t.Errorf("Status called %d times, want 2", got)
	}
}

func TestCompletion_ConcurrentDefer(t *testing.T) {
	reg := NewCompletion()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.Defer(Action{Container: fmt.Sprintf("c%d", i), Kind: lifecycle.KindForceKill})
		}(i)
	}
	wg.Wait()

	if got := reg.Len(); got != 100 {
		t.Errorf("Len() = %d, want 100", got)
	}
}

func TestBusObserver_EmitsExecuted(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--ok", true)

	bus := events.NewBus()
	var seen []events.Event
	bus.Subscribe(func(e events.Event) { seen = append(seen, e) })

	reg := NewCompletion()
	reg.OnExecuted = BusObserver(bus)
	reg.Defer(Action{Job: "j-ev", Container: "job--ok", Kind: lifecycle.KindForceKill})

	if err := reg.RunAll(context.Background(), c); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("events = %d, want 1", len(seen))
	}
	e := seen[0]
	if e.Type != events.CleanupExecuted {
		t.Errorf("type = %v, want %v", e.Type, events.CleanupExecuted)
	}
	if e.Job != "j-ev" || e.Container != "job--ok" {
		t.Errorf("event = %+v, want job/container attached", e)
	}
	if e.Error != "" {
		t.Errorf("executed event carries error %q", e.Error)
	}
}

func TestBusObserver_EmitsFailed(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--bad", true)
	c.StatusErr = &container.DaemonError{Op: "inspect", Err: errors.New("daemon down")}

	bus := events.NewBus()
	var seen []events.Event
	bus.Subscribe(func(e events.Event) { seen = append(seen, e) })

	reg := NewCompletion()
	reg.OnExecuted = BusObserver(bus)
	reg.Defer(Action{Job: "j-ev", Container: "job--bad", Kind: lifecycle.KindForceKill})

	if err := reg.RunAll(context.Background(), c); err == nil {
		t.Fatal("expected cleanup failure")
	}
	if len(seen) != 1 {
		t.Fatalf("events = %d, want 1", len(seen))
	}
	if seen[0].Type != events.CleanupFailed {
		t.Errorf("type = %v, want %v", seen[0].Type, events.CleanupFailed)
	}
	if seen[0].Error == "" {
		t.Error("failed event carries no error message")
	}
}

func TestAction_ExecuteStopThenKill(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--s", true)

	a := Action{Container: "job--s", Kind: lifecycle.KindStopThenKill, Grace: 5 * time.Second}
	if err := a.Execute(context.Background(), c); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := c.Calls("Stop"); got != 1 {
		t.Errorf("Stop called %d times, want 1", got)
	}
}
