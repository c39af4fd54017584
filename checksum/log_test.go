package checksum

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogAppend(t *testing.T) {
	dir := t.TempDir()
	l := NewLog(filepath.Join(dir, "logs", "checksums_20260825.log"))
	stamp := time.Date(2026, 8, 25, 6, 0, 0, 0, time.UTC)
	e1 := Entry{Stamp: stamp, RunDate: "20260825", Artifact: "sales_20260825.csv", Md5: "b1946ac92492d2347c6235b4d2611184"}
	e2 := Entry{Stamp: stamp, RunDate: "20260825", Artifact: "customer_20260825.csv", Md5: "d41d8cd98f00b204e9800998ecf8427e"}
	if err := l.Append(e1); err != nil {
		t.Fatal("unexpected error appending first entry: ", err)
	}
	if err := l.Append(e2); err != nil {
		t.Fatal("unexpected error appending second entry: ", err)
	}
	b, err := ioutil.ReadFile(l.Path())
	if err != nil {
		t.Fatal("unexpected error reading log: ", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 2 { // appends accumulate.
		t.Fatal("expected 2 lines; got ", lines)
	}
	want := "2026-08-25T06:00:00+0000 | 20260825 | sales_20260825.csv | md5=b1946ac92492d2347c6235b4d2611184"
	if lines[0] != want {
		t.Fatalf("unexpected line format:\n got %q\nwant %q", lines[0], want)
	}
}
