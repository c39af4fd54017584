package actions

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwops/batchgate/aws/s3"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/rdbms/shared"
	"github.com/dwops/batchgate/stats"
)

func newTestLogger() logger.Logger {
	return logger.NewLogger("actions-test", "error", false)
}

func newS3Connections() *fakeConnections {
	return &fakeConnections{conns: map[string]shared.ConnectionDetails{
		"vendor-drop": {
			Type:        "s3",
			LogicalName: "vendor-drop",
			Data:        map[string]string{"name": "vendor-drop", "prefix": "edw", "region": "eu-west-2"},
		},
	}}
}

func newLoadedMockClient(t *testing.T) *s3.MockClient {
	t.Helper()
	m := s3.NewMockClient()
	_ = m.Put("20260825/customer_data.csv", []byte("customer_id,email,region,is_vip\n1,a@example.com,EU,0\n"))
	_ = m.Put("20260825/product_dim.csv", []byte("product_id,category,unit_cost\n1,Books,9.99\n"))
	_ = m.Put("20260825/sales_fact.csv", []byte("order_id,order_date,customer_id,product_id,quantity,sales_amount\n1,2026-08-24,1,1,2,19.98\n"))
	return m
}

func TestRunAcquire(t *testing.T) {
	dataDir := t.TempDir()
	mock := newLoadedMockClient(t)
	cfg := &AcquireConfig{
		LogLevel:         "error",
		RunDate:          "20260825",
		DataDir:          dataDir,
		SourceConnection: "vendor-drop",
		Connections:      newS3Connections(),
		S3ClientFactory: func(bucket *s3.AwsS3Bucket) (s3.BasicClient, error) {
			return mock, nil
		},
	}
	if err := RunAcquire(cfg); err != nil {
		t.Fatal("unexpected error: ", err)
	}
	// All three artifacts landed.
	landingDir := filepath.Join(dataDir, "landing", "20260825")
	for _, name := range []string{"customer_data.csv", "product_dim.csv", "sales_fact.csv"} {
		if _, err := ioutil.ReadFile(filepath.Join(landingDir, name)); err != nil {
			t.Fatal("expected landed artifact: ", err)
		}
	}
	// One audit line per artifact.
	b, err := ioutil.ReadFile(filepath.Join(dataDir, "logs", "checksums_20260825.log"))
	if err != nil {
		t.Fatal("expected checksum log: ", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatal("expected 3 checksum entries; got ", lines)
	}
	for _, line := range lines {
		if !strings.Contains(line, "20260825") || !strings.Contains(line, "md5=") {
			t.Fatal("unexpected checksum line: ", line)
		}
	}
}

func TestRunAcquireRecordsStats(t *testing.T) {
	dataDir := t.TempDir()
	mock := newLoadedMockClient(t)
	w := stats.NewStageWatcher("acquire")
	cfg := &AcquireConfig{
		LogLevel:         "error",
		RunDate:          "20260825",
		DataDir:          dataDir,
		SourceConnection: "vendor-drop",
		Connections:      newS3Connections(),
		S3ClientFactory: func(bucket *s3.AwsS3Bucket) (s3.BasicClient, error) {
			return mock, nil
		},
		Watcher: w,
	}
	if err := RunAcquire(cfg); err != nil {
		t.Fatal("unexpected error: ", err)
	}
	got := w.RenderStats()
	if got.Artifacts != 3 {
		t.Fatal("expected 3 artifacts recorded; got ", got.Artifacts)
	}
	if got.Rows != 3 { // one data row per artifact in the mock bucket.
		t.Fatal("expected 3 rows recorded; got ", got.Rows)
	}
}

func TestRunAcquireMissingRemoteArtifact(t *testing.T) {
	dataDir := t.TempDir()
	mock := newLoadedMockClient(t)
	_ = mock.Delete("20260825/sales_fact.csv")
	cfg := &AcquireConfig{
		LogLevel:         "error",
		RunDate:          "20260825",
		DataDir:          dataDir,
		SourceConnection: "vendor-drop",
		Connections:      newS3Connections(),
		S3ClientFactory: func(bucket *s3.AwsS3Bucket) (s3.BasicClient, error) {
			return mock, nil
		},
	}
	err := RunAcquire(cfg)
	if err == nil || !strings.Contains(err.Error(), "missing required remote artifact sales_fact.csv") {
		t.Fatal("expected missing artifact error; got ", err)
	}
}

func TestRunAcquireRejectsNonS3Connection(t *testing.T) {
	cfg := &AcquireConfig{
		LogLevel:         "error",
		RunDate:          "20260825",
		DataDir:          t.TempDir(),
		SourceConnection: "warehouse",
		Connections: &fakeConnections{conns: map[string]shared.ConnectionDetails{
			"warehouse": {Type: "snowflake", LogicalName: "warehouse", Data: map[string]string{}},
		}},
	}
	err := RunAcquire(cfg)
	if err == nil || !strings.Contains(err.Error(), "must be of type S3") {
		t.Fatal("expected connection type error; got ", err)
	}
}
