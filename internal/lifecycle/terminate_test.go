package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/container/fake"
)

func TestForceKill_AbsentIsSuccess(t *testing.T) {
	c := fake.NewClient()

	if err := ForceKill(context.Background(), c, "job--gone"); err != nil {
		t.Fatalf("ForceKill on absent container: %v", err)
	}
	if got := c.Calls("Kill"); got != 0 {
		t.Errorf("Kill called %d times for absent container, want 0", got)
	}
}

func TestForceKill_KillsUntilStopped(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--a", true)
	c.KillsBeforeExit = 2 // first two kills are absorbed

	if err := ForceKill(context.Background(), c, "job--a"); err != nil {
		t.Fatalf("ForceKill failed: %v", err)
	}
	if c.IsRunning("job--a") {
		t.Error("container still running after ForceKill")
	}
	if got := c.Calls("Kill"); got != 3 {
		t.Errorf("Kill called %d times, want 3", got)
	}
}

func TestForceKill_AlreadyStoppedIsNoop(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--b", false)

	if err := ForceKill(context.Background(), c, "job--b"); err != nil {
		t.Fatalf("ForceKill failed: %v", err)
	}
	if got := c.Calls("Kill"); got != 0 {
		t.Errorf("Kill called %d times for stopped container, want 0", got)
	}
}

func TestForceKill_DaemonErrorPropagates(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--c", true)
	c.StatusErr = &container.DaemonError{Op: "inspect", Err: errors.New("connection refused")}

	err := ForceKill(context.Background(), c, "job--c")
	if !errors.Is(err, container.ErrUnavailable) {
		t.Fatalf("expected daemon error to propagate, got %v", err)
	}
}

func TestForceKill_CanceledContextBoundsLoop(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--d", true)
	c.KillsBeforeExit = 1 << 30 // container never dies

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ForceKill(ctx, c, "job--d")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestStopThenKill_StopSuffices(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--e", true)

	if err := StopThenKill(context.Background(), c, "job--e", 10*time.Second); err != nil {
		t.Fatalf("StopThenKill failed: %v", err)
	}
	if got := c.Calls("Kill"); got != 0 {
		t.Errorf("Kill called %d times after successful stop, want 0", got)
	}
	if c.IsRunning("job--e") {
		t.Error("container still running")
	}
}

func TestStopThenKill_EscalatesWhenStopIgnored(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--f", true)
	c.IgnoreStop = true

	if err := StopThenKill(context.Background(), c, "job--f", time.Second); err != nil {
		t.Fatalf("StopThenKill failed: %v", err)
	}
	if got := c.Calls("Stop"); got != 1 {
		t.Errorf("Stop called %d times, want 1", got)
	}
	if got := c.Calls("Kill"); got == 0 {
		t.Error("expected escalation to Kill")
	}
	if c.IsRunning("job--f") {
		t.Error("container still running after escalation")
	}
}

func TestStopThenKill_AbsentIsSuccess(t *testing.T) {
	c := fake.NewClient()

	if err := StopThenKill(context.Background(), c, "job--gone", time.Second); err != nil {
		t.Fatalf("StopThenKill on absent container: %v", err)
	}
}
