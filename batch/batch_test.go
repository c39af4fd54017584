package batch

import (
	"path/filepath"
	"testing"
	"time"
)

func TestParseRunDate(t *testing.T) {
	// Test 1 - valid YYYYMMDD.
	d, err := ParseRunDate("20260825")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if d.String() != "20260825" {
		t.Fatal("expected 20260825; got ", d.String())
	}
	if d.Year() != 2026 {
		t.Fatal("expected year 2026; got ", d.Year())
	}
	// Test 2 - empty defaults to today.
	d, err = ParseRunDate("")
	if err != nil {
		t.Fatal("unexpected error for empty run date: ", err)
	}
	if d.String() != time.Now().Format("20060102") {
		t.Fatal("expected today's date; got ", d.String())
	}
	// Test 3 - bad formats are rejected.
	for _, bad := range []string{"2026-08-25", "20261301", "abc"} {
		if _, err := ParseRunDate(bad); err == nil {
			t.Fatalf("expected error for run date %q; got nil", bad)
		}
	}
}

func TestLayout(t *testing.T) {
	d, _ := ParseRunDate("20260825")
	l := NewLayout("/data/edw")
	if got := l.LandingDir(d); got != filepath.Join("/data/edw", "landing", "20260825") {
		t.Fatal("unexpected landing dir: ", got)
	}
	if got := l.StageDir(d); got != filepath.Join("/data/edw", "stage", "20260825") {
		t.Fatal("unexpected stage dir: ", got)
	}
	if got := l.ChecksumLogPath(d); got != filepath.Join("/data/edw", "logs", "checksums_20260825.log") {
		t.Fatal("unexpected checksum log path: ", got)
	}
	if got := l.OrchestrationLogPath(d); got != filepath.Join("/data/edw", "logs", "orchestration_20260825.log") {
		t.Fatal("unexpected orchestration log path: ", got)
	}
}

func TestNewAttemptID(t *testing.T) {
	a, b := NewAttemptID(), NewAttemptID()
	if a == "" || a == b {
		t.Fatal("expected unique non-empty attempt IDs; got ", a, b)
	}
}
