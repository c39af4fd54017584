// Package artifact provides helpers for the CSV batch files that flow through
// the landing and stage directories.
package artifact

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CsvExtension is the only artifact type the pipeline moves.
const CsvExtension = ".csv"

// ListDir returns the CSV artifact file names found directly in dir, sorted
// lexically so runs process artifacts in a deterministic order.
// A missing directory is reported via os.IsNotExist on the returned error.
func ListDir(dir string) ([]string, error) {
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), CsvExtension) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// DataRowCount returns the number of data rows in the CSV file, excluding the
// header line. An empty file counts as zero rows, never negative.
func DataRowCount(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	var lines int64
	r := bufio.NewReader(f)
	sawAny := false
	for {
		chunk, err := r.ReadString('\n')
		if len(chunk) > 0 {
			sawAny = true
			if strings.HasSuffix(chunk, "\n") {
				lines++
			}
		}
		if err == io.EOF {
			// Count a final line with no trailing newline.
			if len(chunk) > 0 && !strings.HasSuffix(chunk, "\n") {
				lines++
			}
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if !sawAny {
		return 0, nil
	}
	rows := lines - 1 // less the header line.
	if rows < 0 {
		rows = 0
	}
	return rows, nil
}

// Md5Checksum returns the lowercase hex MD5 of the file contents.
// MD5 is used for audit fingerprints only, not security.
func Md5Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
