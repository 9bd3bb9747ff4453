package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/container/fake"
	"github.com/gantryd/gantry/internal/lifecycle"
)

func TestProbeAll_ReportsStates(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--up", true)
	c.Add("job--down", false)

	rows, err := probeAll(context.Background(), c, []string{"job--up", "job--down", "job--gone"})
	if err != nil {
		t.Fatalf("probeAll: %v", err)
	}
	want := []lifecycle.State{lifecycle.StateRunning, lifecycle.StateStopped, lifecycle.StateAbsent}
	for i, row := range rows {
		if row.State != want[i] {
			t.Errorf("rows[%d] (%s) = %v, want %v", i, row.Name, row.State, want[i])
		}
	}
}

func TestProbeAll_CollectsEveryFailure(t *testing.T) {
	c := fake.NewClient()
	c.StatusErr = &container.DaemonError{Op: "status", Err: container.ErrUnavailable}

	rows, err := probeAll(context.Background(), c, []string{"job--a", "job--b"})
	if err == nil {
		t.Fatal("expected an error when the daemon is unreachable")
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, name := range []string{"job--a", "job--b"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}
