package actions

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwops/batchgate/stats"
)

func writeBatchDirs(t *testing.T, dataDir string, stageRows map[string]int) {
	t.Helper()
	landingDir := filepath.Join(dataDir, "landing", "20260825")
	stageDir := filepath.Join(dataDir, "stage", "20260825")
	for _, d := range []string{landingDir, stageDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal("unable to create batch directory: ", err)
		}
	}
	files := map[string]string{
		"customer_data.csv": "customer_id,email\n1,a@example.com\n2,b@example.com\n",
		"sales_fact.csv":    "order_id,quantity\n1,2\n",
	}
	for name, body := range files {
		if err := ioutil.WriteFile(filepath.Join(landingDir, name), []byte(body), 0644); err != nil {
			t.Fatal("unable to write landing artifact: ", err)
		}
		staged := body
		if n, ok := stageRows[name]; ok { // if the test wants a different staged row count...
			lines := strings.SplitN(body, "\n", 2)
			staged = lines[0] + "\n" + strings.Repeat("1,1\n", n)
		}
		if err := ioutil.WriteFile(filepath.Join(stageDir, name), []byte(staged), 0644); err != nil {
			t.Fatal("unable to write staged artifact: ", err)
		}
	}
}

func TestRunReconcileRecordsStats(t *testing.T) {
	dataDir := t.TempDir()
	writeBatchDirs(t, dataDir, nil)
	w := stats.NewStageWatcher("reconcile")
	cfg := &ReconcileConfig{
		LogLevel: "error",
		RunDate:  "20260825",
		DataDir:  dataDir,
		Watcher:  w,
	}
	if err := RunReconcile(cfg); err != nil {
		t.Fatal("unexpected error: ", err)
	}
	got := w.RenderStats()
	if got.Artifacts != 2 {
		t.Fatal("expected 2 artifacts recorded; got ", got.Artifacts)
	}
	if got.Rows != 3 { // 2 customer rows + 1 sales row.
		t.Fatal("expected 3 rows recorded; got ", got.Rows)
	}
}

func TestRunReconcileRecordsStatsUpToFailure(t *testing.T) {
	dataDir := t.TempDir()
	writeBatchDirs(t, dataDir, map[string]int{"sales_fact.csv": 5})
	w := stats.NewStageWatcher("reconcile")
	cfg := &ReconcileConfig{
		LogLevel: "error",
		RunDate:  "20260825",
		DataDir:  dataDir,
		Watcher:  w,
	}
	err := RunReconcile(cfg)
	if err == nil || !strings.Contains(err.Error(), "RowCountMismatch") {
		t.Fatal("expected RowCountMismatch error; got ", err)
	}
	// Both artifacts were inspected before the pass failed.
	if got := w.RenderStats(); got.Artifacts != 2 {
		t.Fatal("expected 2 artifacts recorded; got ", got.Artifacts)
	}
}
