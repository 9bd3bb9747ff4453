package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/gantryd/gantry/internal/config"
	"github.com/gantryd/gantry/internal/lifecycle"
)

func TestBuildRequest_PositionalCommand(t *testing.T) {
	cfg := config.DefaultConfig()

	req, err := buildRequest(cfg, "ubuntu:24.04", []string{"echo", "hi"}, RunOptions{})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if req.Image != "ubuntu:24.04" {
		t.Errorf("image = %q", req.Image)
	}
	if req.Command.IsEmpty() {
		t.Error("command should not be empty")
	}
	if req.Command.String() != "echo 'hi'" {
		t.Errorf("command = %q", req.Command.String())
	}
	if req.JobID == "" {
		t.Error("job ID was not generated")
	}
}

func TestBuildRequest_PipeParsesPipeline(t *testing.T) {
	cfg := config.DefaultConfig()

	req, err := buildRequest(cfg, "img", nil, RunOptions{Pipe: "zcat in.gz | wc -l"})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if !req.Command.IsPipeline() {
		t.Errorf("command %q is not a pipeline", req.Command.String())
	}
}

func TestBuildRequest_PipeAndArgvConflict(t *testing.T) {
	cfg := config.DefaultConfig()

	_, err := buildRequest(cfg, "img", []string{"echo"}, RunOptions{Pipe: "ls | wc"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestBuildRequest_OnExitDirective(t *testing.T) {
	cfg := config.DefaultConfig()

	req, err := buildRequest(cfg, "img", nil, RunOptions{OnExit: "remove"})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if req.Directive != lifecycle.ForceRemove {
		t.Errorf("directive = %v, want ForceRemove", req.Directive)
	}
}

func TestBuildRequest_OnExitFallsBackToConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Invoke.OnExit = "stop"

	req, err := buildRequest(cfg, "img", nil, RunOptions{})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if req.Directive != lifecycle.GracefulStop {
		t.Errorf("directive = %v, want GracefulStop from config", req.Directive)
	}
}

func TestBuildRequest_InvalidOnExit(t *testing.T) {
	cfg := config.DefaultConfig()

	_, err := buildRequest(cfg, "img", nil, RunOptions{OnExit: "vanish"})
	if err == nil {
		t.Fatal("expected directive error")
	}
}

func TestBuildRequest_Volumes(t *testing.T) {
	cfg := config.DefaultConfig()

	req, err := buildRequest(cfg, "img", nil, RunOptions{
		Volumes: []string{"/src:/dst:ro", "/a:/b"},
	})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if len(req.Mounts) != 2 {
		t.Fatalf("mounts = %v", req.Mounts)
	}
	if req.Mounts[0].Mode != "ro" {
		t.Errorf("mode = %q, want ro", req.Mounts[0].Mode)
	}

	if _, err := buildRequest(cfg, "img", nil, RunOptions{Volumes: []string{"bare"}}); err == nil {
		t.Error("expected mount parse error")
	}
}

func TestBuildRequest_TimeoutDefaultsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Invoke.Timeout = "90s"

	req, err := buildRequest(cfg, "img", nil, RunOptions{})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if req.Timeout != 90*time.Second {
		t.Errorf("timeout = %v, want config default", req.Timeout)
	}

	req, err = buildRequest(cfg, "img", nil, RunOptions{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if req.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want flag override", req.Timeout)
	}
}

func TestBuildRequest_DistinctJobIDs(t *testing.T) {
	cfg := config.DefaultConfig()

	a, _ := buildRequest(cfg, "img", nil, RunOptions{})
	b, _ := buildRequest(cfg, "img", nil, RunOptions{})
	if a.JobID == b.JobID {
		t.Errorf("job IDs collide: %q", a.JobID)
	}
	if strings.ContainsAny(a.JobID, " \t") {
		t.Errorf("job ID %q contains whitespace", a.JobID)
	}
}
