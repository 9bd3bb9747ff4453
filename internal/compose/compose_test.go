package compose

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSingleStage_RoundTripsThroughShellSplitting(t *testing.T) {
	cases := [][]string{
		{"echo", "the Oread"},
		{"samtools", "faidx", "/data/ref.fasta"},
		{"printf", "%s\n", "a'b"},
		{"echo", "$HOME", "*", "", "two  spaces"},
		{"grep", "-e", "foo|bar", "--", "line\nbreak"},
	}

	for _, args := range cases {
		composed := SingleStage(args...).String()

		parsed, err := Parse(composed)
		if err != nil {
			t.Fatalf("re-splitting %q failed: %v", composed, err)
		}
		stages := parsed.Stages()
		if len(stages) != 1 {
			t.Fatalf("re-splitting %q produced %d stages, want 1", composed, len(stages))
		}
		if !reflect.DeepEqual(stages[0], args) {
			t.Errorf("round trip of %v via %q produced %v", args, composed, stages[0])
		}
	}
}

func TestSingleStage_QuotesArguments(t *testing.T) {
	got := SingleStage("echo", "the Oread").String()
	if got != "echo 'the Oread'" {
		t.Errorf("String() = %q, want %q", got, "echo 'the Oread'")
	}
}

func TestPipeline_GuardAndSeparators(t *testing.T) {
	c := Pipeline([]string{"a"}, []string{"b"}, []string{"c"})
	s := c.String()

	if !strings.HasPrefix(s, PipefailGuard) {
		t.Errorf("composed pipeline %q lacks pipefail guard", s)
	}
	if n := strings.Count(s, " | "); n != 2 {
		t.Errorf("composed pipeline %q has %d separators, want 2", s, n)
	}
}

func TestPipeline_EchoGrepExample(t *testing.T) {
	c := Pipeline([]string{"echo", "a"}, []string{"grep", "a"})

	want := PipefailGuard + "echo 'a' | grep 'a'"
	got := c.String()
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	// The quoted form still splits back to the original stages.
	parsed, err := Parse(strings.TrimPrefix(got, PipefailGuard))
	if err != nil {
		t.Fatalf("re-splitting %q failed: %v", got, err)
	}
	wantStages := [][]string{{"echo", "a"}, {"grep", "a"}}
	if !reflect.DeepEqual(parsed.Stages(), wantStages) {
		t.Errorf("round trip produced %v, want %v", parsed.Stages(), wantStages)
	}
}

func TestNone_ComposesToNothing(t *testing.T) {
	c := None()
	if !c.IsEmpty() {
		t.Error("None() should be empty")
	}
	if c.String() != "" {
		t.Errorf("String() = %q, want empty", c.String())
	}
	if c.Argv(nil) != nil {
		t.Errorf("Argv() = %v, want nil", c.Argv(nil))
	}
}

func TestArgv_DefaultRunscript(t *testing.T) {
	argv := SingleStage("echo", "hi").Argv(nil)
	want := []string{"/bin/bash", "-c", "echo 'hi'"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("Argv(nil) = %v, want %v", argv, want)
	}
}

func TestArgv_RunscriptOverride(t *testing.T) {
	argv := SingleStage("echo", "hi").Argv([]string{"/bin/sh", "-c"})
	if argv[0] != "/bin/sh" {
		t.Errorf("runscript override ignored: %v", argv)
	}
}

func TestValidate_RejectsEmptyPipelineStage(t *testing.T) {
	c := Pipeline([]string{"echo", "a"}, nil)
	if err := c.Validate(); !errors.Is(err, ErrEmptyStage) {
		t.Errorf("Validate() = %v, want ErrEmptyStage", err)
	}

	if err := SingleStage("echo").Validate(); err != nil {
		t.Errorf("single stage should validate, got %v", err)
	}
}

func TestParse_Pipeline(t *testing.T) {
	c, err := Parse("echo a | grep a | wc -l")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !c.IsPipeline() {
		t.Fatal("expected a pipeline")
	}
	want := [][]string{{"echo", "a"}, {"grep", "a"}, {"wc", "-l"}}
	if !reflect.DeepEqual(c.Stages(), want) {
		t.Errorf("Stages() = %v, want %v", c.Stages(), want)
	}
}

func TestParse_SingleCommand(t *testing.T) {
	c, err := Parse("ls -l '/tmp/my dir'")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.IsPipeline() {
		t.Fatal("expected a single stage")
	}
	want := [][]string{{"ls", "-l", "/tmp/my dir"}}
	if !reflect.DeepEqual(c.Stages(), want) {
		t.Errorf("Stages() = %v, want %v", c.Stages(), want)
	}
}

func TestParse_RejectsOtherOperators(t *testing.T) {
	for _, line := range []string{"a && b", "a; b", "a > /tmp/out"} {
		if _, err := Parse(line); err == nil {
			t.Errorf("Parse(%q) should fail", line)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse("   ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !c.IsEmpty() {
		t.Error("blank line should parse to the empty command")
	}
}
