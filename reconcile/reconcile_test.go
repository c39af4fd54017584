package reconcile

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwops/batchgate/logger"
)

var log = logger.NewLogger("reconcile-test", "error", false)

func setupDirs(t *testing.T) (landing string, stage string) {
	t.Helper()
	base := t.TempDir()
	landing = filepath.Join(base, "landing", "20260825")
	stage = filepath.Join(base, "stage", "20260825")
	for _, d := range []string{landing, stage} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal("unexpected error creating test dirs: ", err)
		}
	}
	return
}

func writeCsv(t *testing.T, dir, name string, dataRows int) {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("order_id,qty\n")
	for i := 0; i < dataRows; i++ {
		sb.WriteString("1,2\n")
	}
	if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(sb.String()), 0644); err != nil {
		t.Fatal("unexpected error writing test csv: ", err)
	}
}

func TestReconcileMatchingCounts(t *testing.T) {
	landing, stage := setupDirs(t)
	writeCsv(t, landing, "sales_20260825.csv", 1)
	writeCsv(t, stage, "sales_20260825.csv", 1)
	writeCsv(t, landing, "customer_20260825.csv", 3)
	writeCsv(t, stage, "customer_20260825.csv", 3)
	res, err := NewReconciler(log, "20260825", landing, stage).Run()
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if res.ArtifactCount != 2 || len(res.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts; got %+v", res)
	}
	// Lexical order and per-artifact outcome.
	if res.Artifacts[0].Name != "customer_20260825.csv" || res.Artifacts[0].SourceRows != 3 {
		t.Fatalf("unexpected first artifact: %+v", res.Artifacts[0])
	}
	for _, a := range res.Artifacts {
		if a.State != StatePassed || a.Status != "passed" {
			t.Fatalf("expected passed state; got %+v", a)
		}
	}
}

func TestReconcileRowCountMismatch(t *testing.T) {
	landing, stage := setupDirs(t)
	writeCsv(t, landing, "sales_20260825.csv", 1)
	writeCsv(t, stage, "sales_20260825.csv", 2) // a duplicated row in stage.
	res, err := NewReconciler(log, "20260825", landing, stage).Run()
	if err == nil {
		t.Fatal("expected mismatch error; got nil")
	}
	if _, ok := err.(RowCountMismatchError); !ok {
		t.Fatalf("expected RowCountMismatchError; got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "RowCountMismatch") || !strings.Contains(err.Error(), "src=1 tgt=2") {
		t.Fatal("unexpected error text: ", err)
	}
	if res.Artifacts[0].State != StateFailed {
		t.Fatalf("expected failed state; got %+v", res.Artifacts[0])
	}
}

func TestReconcileMissingArtifact(t *testing.T) {
	landing, stage := setupDirs(t)
	writeCsv(t, landing, "sales_20260825.csv", 1)
	_ = stage // nothing promoted.
	_, err := NewReconciler(log, "20260825", landing, stage).Run()
	if err == nil {
		t.Fatal("expected missing artifact error; got nil")
	}
	if _, ok := err.(MissingArtifactError); !ok {
		t.Fatalf("expected MissingArtifactError; got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "MissingArtifact") || !strings.Contains(err.Error(), "sales_20260825.csv") {
		t.Fatal("unexpected error text: ", err)
	}
}

func TestReconcileFailsFast(t *testing.T) {
	landing, stage := setupDirs(t)
	writeCsv(t, landing, "a_20260825.csv", 1)
	writeCsv(t, stage, "a_20260825.csv", 5) // first artifact mismatches.
	writeCsv(t, landing, "b_20260825.csv", 1)
	res, err := NewReconciler(log, "20260825", landing, stage).Run()
	if err == nil {
		t.Fatal("expected mismatch error; got nil")
	}
	if len(res.Artifacts) != 1 { // the second artifact was never checked.
		t.Fatalf("expected fail-fast after 1 artifact; got %+v", res.Artifacts)
	}
}

func TestReconcileEmptyLandingDir(t *testing.T) {
	landing, stage := setupDirs(t)
	_ = stage
	res, err := NewReconciler(log, "20260825", landing, stage).Run()
	if err != nil {
		t.Fatal("expected empty landing dir to pass; got ", err)
	}
	if res.ArtifactCount != 0 || len(res.Artifacts) != 0 {
		t.Fatalf("expected empty result; got %+v", res)
	}
}

func TestReconcileMissingLandingDir(t *testing.T) {
	base := t.TempDir()
	_, err := NewReconciler(log, "20260825", filepath.Join(base, "landing", "20260825"), filepath.Join(base, "stage", "20260825")).Run()
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatal("expected missing landing dir error; got ", err)
	}
}
