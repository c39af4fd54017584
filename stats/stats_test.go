package stats

import (
	"strings"
	"testing"

	"github.com/dwops/batchgate/logger"
)

func TestStageWatcher(t *testing.T) {
	w := NewStageWatcher("reconcile")
	if s := w.RenderStats(); s.StatusText != "pending" {
		t.Fatal("expected pending before start; got ", s.StatusText)
	}
	w.Start()
	w.AddArtifacts(2)
	w.AddRows(10)
	if s := w.RenderStats(); s.StatusText != "running" || s.Artifacts != 2 || s.Rows != 10 {
		t.Fatalf("unexpected running stats: %+v", s)
	}
	w.Stop()
	s := w.RenderStats()
	if s.StatusText != "complete" {
		t.Fatal("expected complete after stop; got ", s.StatusText)
	}
	if !strings.Contains(s.String(), "Stats for reconcile complete") {
		t.Fatal("unexpected stats string: ", s.String())
	}
}

func TestRunStatsManagerOrder(t *testing.T) {
	m := NewRunStats(logger.NewLogger("stats-test", "error", false))
	m.AddStageWatcher("acquire").Start()
	m.AddStageWatcher("reconcile")
	m.AddStageWatcher("quality-gate")
	all := m.GetStats()
	if len(all) != 3 {
		t.Fatal("expected 3 stages; got ", len(all))
	}
	// Registration order is preserved.
	if all[0].StageName != "acquire" || all[1].StageName != "reconcile" || all[2].StageName != "quality-gate" {
		t.Fatalf("unexpected order: %+v", all)
	}
}
