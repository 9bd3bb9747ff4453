package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/container/fake"
)

func TestProbe_States(t *testing.T) {
	c := fake.NewClient()
	c.Add("job--up", true)
	c.Add("job--down", false)

	tests := []struct {
		name string
		want State
	}{
		{"job--up", StateRunning},
		{"job--down", StateStopped},
		{"job--missing", StateAbsent},
	}

	for _, tc := range tests {
		got, err := Probe(context.Background(), c, tc.name)
		if err != nil {
			t.Fatalf("Probe(%s) failed: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("Probe(%s) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestProbe_DaemonErrorIsNotAbsent(t *testing.T) {
	c := fake.NewClient()
	c.StatusErr = &container.DaemonError{Op: "inspect", Err: errors.New("dial unix: no such file")}

	state, err := Probe(context.Background(), c, "job--x")
	if err == nil {
		t.Fatal("expected error when daemon is unreachable")
	}
	if !errors.Is(err, container.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if state != StateUnknown {
		t.Errorf("state = %s, want %s", state, StateUnknown)
	}
}

func TestState_Strings(t *testing.T) {
	for state, want := range map[State]string{
		StateUnknown: "UNKNOWN",
		StateRunning: "RUNNING",
		StateStopped: "STOPPED",
		StateAbsent:  "ABSENT",
	} {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
