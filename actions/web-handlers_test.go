package actions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func TestSafeMapBatchInfoLaunch(t *testing.T) {
	m := newSafeMapBatchInfo()

	// Test 1 - first launch for a date wins.
	a := &batchInfo{RunDate: "20260825", AttemptId: "attempt-a", Status: "running", StartedAt: time.Now()}
	if got, ok := m.launch("20260825", a); !ok || got != a {
		t.Fatal("test 1 failed: expected first launch to register")
	}

	// Test 2 - a second launch while the first is running is rejected and
	// returns the in-flight attempt.
	b := &batchInfo{RunDate: "20260825", AttemptId: "attempt-b", Status: "running", StartedAt: time.Now()}
	got, ok := m.launch("20260825", b)
	if ok {
		t.Fatal("test 2 failed: expected launch to be rejected while running")
	}
	if got.AttemptId != "attempt-a" {
		t.Fatal("test 2 failed: expected the in-flight attempt; got ", got.AttemptId)
	}

	// Test 3 - a finished batch can be relaunched.
	m.Lock()
	a.Status = "complete"
	m.Unlock()
	if _, ok := m.launch("20260825", b); !ok {
		t.Fatal("test 3 failed: expected relaunch after completion")
	}
}

func TestGetHandlerBatchLaunchConflict(t *testing.T) {
	log := newTestLogger()
	m := newSafeMapBatchInfo()
	running := &batchInfo{RunDate: "20260825", AttemptId: "attempt-a", Status: "running", StartedAt: time.Now()}
	if _, ok := m.launch("20260825", running); !ok {
		t.Fatal("unable to seed running batch")
	}
	web := &WebServerConfig{LogLevel: "error"}
	r := mux.NewRouter()
	r.Path("/batches/{runDate}/run").Methods(http.MethodPost).HandlerFunc(GetHandlerBatchLaunch(log, m, web))

	req := httptest.NewRequest(http.MethodPost, "/batches/20260825/run", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatal("expected 409 for a date already running; got ", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "attempt-a") || !strings.Contains(body, "batch already running") {
		t.Fatal("expected conflict body naming the in-flight attempt; got ", body)
	}
}
