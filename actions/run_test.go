package actions

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwops/batchgate/rdbms/shared"
)

// fakeStep records executions and optionally fails.
type fakeStep struct {
	name    string
	fail    bool
	calls   *[]string
	runDate string
}

func (s *fakeStep) Name() string {
	return s.name
}

func (s *fakeStep) Execute(runDate string) error {
	*s.calls = append(*s.calls, s.name)
	s.runDate = runDate
	if s.fail {
		return fmt.Errorf("external step %v failed: simulated", s.name)
	}
	return nil
}

// fakeConnections satisfies both connection interfaces without touching config files.
type fakeConnections struct {
	conns map[string]shared.ConnectionDetails
}

func (f *fakeConnections) GetConnectionType(name string) (string, error) {
	c, err := f.LoadConnection(name)
	return c.Type, err
}

func (f *fakeConnections) GetConnectionDetails(name string) (*shared.ConnectionDetails, error) {
	c, err := f.LoadConnection(name)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (f *fakeConnections) LoadConnection(name string) (shared.ConnectionDetails, error) {
	c, ok := f.conns[name]
	if !ok {
		return shared.ConnectionDetails{}, fmt.Errorf("connection %q is not configured", name)
	}
	return c, nil
}

func newPipelineConfig(dataDir string, calls *[]string) *PipelineConfig {
	appendCall := func(name string) func() error {
		return func() error {
			*calls = append(*calls, name)
			return nil
		}
	}
	return &PipelineConfig{
		LogLevel:         "error",
		RunDate:          "20260825",
		DataDir:          dataDir,
		SourceConnection: "vendor-drop",
		TargetConnection: "warehouse",
		Connections:      &fakeConnections{conns: map[string]shared.ConnectionDetails{}},
		PromoteStep:      &fakeStep{name: "promote", calls: calls},
		LoadStep:         &fakeStep{name: "load", calls: calls},
		acquireFn:        appendCall("acquire"),
		reconcileFn:      appendCall("reconcile"),
		qualityFn:        appendCall("quality-gate"),
	}
}

func TestRunPipelineSequencesStages(t *testing.T) {
	dataDir := t.TempDir()
	calls := make([]string, 0)
	cfg := newPipelineConfig(dataDir, &calls)
	if err := RunPipeline(cfg); err != nil {
		t.Fatal("unexpected error: ", err)
	}
	want := []string{"acquire", "promote", "reconcile", "load", "quality-gate"}
	if len(calls) != len(want) {
		t.Fatalf("expected stages %v; got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected stages %v; got %v", want, calls)
		}
	}
	// The external steps see the batch's run date.
	if s := cfg.PromoteStep.(*fakeStep); s.runDate != "20260825" {
		t.Fatal("expected promote step to receive run date; got ", s.runDate)
	}
	// The per-date orchestration log was written.
	logPath := filepath.Join(dataDir, "logs", "orchestration_20260825.log")
	b, err := ioutil.ReadFile(logPath)
	if err != nil {
		t.Fatal("expected orchestration log at ", logPath, ": ", err)
	}
	if !strings.Contains(string(b), "[DONE]") {
		t.Fatal("expected [DONE] in orchestration log")
	}
}

func TestRunPipelineShortCircuits(t *testing.T) {
	dataDir := t.TempDir()
	calls := make([]string, 0)
	cfg := newPipelineConfig(dataDir, &calls)
	cfg.PromoteStep = &fakeStep{name: "promote", fail: true, calls: &calls}
	err := RunPipeline(cfg)
	if err == nil {
		t.Fatal("expected error from failing promote step; got nil")
	}
	// Only acquire and promote ran; reconcile onwards never started.
	want := []string{"acquire", "promote"}
	if len(calls) != len(want) || calls[0] != "acquire" || calls[1] != "promote" {
		t.Fatalf("expected short-circuit after %v; got %v", want, calls)
	}
}

func TestRunPipelineReconcileFailureStopsLoad(t *testing.T) {
	dataDir := t.TempDir()
	calls := make([]string, 0)
	cfg := newPipelineConfig(dataDir, &calls)
	cfg.reconcileFn = func() error {
		calls = append(calls, "reconcile")
		return fmt.Errorf("RowCountMismatch: sales_fact.csv src=1 tgt=2")
	}
	err := RunPipeline(cfg)
	if err == nil || !strings.Contains(err.Error(), "RowCountMismatch") {
		t.Fatal("expected RowCountMismatch error; got ", err)
	}
	for _, c := range calls {
		if c == "load" || c == "quality-gate" {
			t.Fatal("expected no stages after reconcile failure; got ", calls)
		}
	}
}

func TestRunPipelineBadRunDate(t *testing.T) {
	calls := make([]string, 0)
	cfg := newPipelineConfig(t.TempDir(), &calls)
	cfg.RunDate = "2026-08-25"
	if err := RunPipeline(cfg); err == nil {
		t.Fatal("expected error for bad run date; got nil")
	}
}

func TestCommandStepSkipsEmptyCommand(t *testing.T) {
	log := newTestLogger()
	s := NewCommandStep(log, "promote", "")
	if err := s.Execute("20260825"); err != nil {
		t.Fatal("expected empty command to be skipped; got ", err)
	}
}

func TestCommandStepExportsRunDate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "rundate.txt")
	log := newTestLogger()
	s := NewCommandStep(log, "promote", fmt.Sprintf("echo -n $RUN_DATE > %v", out))
	if err := s.Execute("20260825"); err != nil {
		t.Fatal("unexpected error: ", err)
	}
	b, err := ioutil.ReadFile(out)
	if err != nil || string(b) != "20260825" {
		t.Fatalf("expected RUN_DATE in step environment; got %q, %v", b, err)
	}
}

func TestCommandStepFailurePropagates(t *testing.T) {
	log := newTestLogger()
	s := NewCommandStep(log, "load", "exit 3")
	err := s.Execute("20260825")
	if err == nil || !strings.Contains(err.Error(), "external step load failed") {
		t.Fatal("expected wrapped failure; got ", err)
	}
}
