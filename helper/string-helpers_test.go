package helper

import (
	"reflect"
	"strings"
	"testing"
)

func TestInterfaceToString(t *testing.T) {
	in := []interface{}{int64(3), float64(2), float64(2.5), []uint8("abc"), nil, "x"}
	expected := []string{"3", "2", "2.5", "abc", "", "x"}
	got := InterfaceToString(in)
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v; got %v", expected, got)
	}
}

func TestValidateStructIsPopulated(t *testing.T) {
	type inner struct {
		Tolerance string `errorTxt:"parity tolerance" mandatory:"yes"`
	}
	type cfg struct {
		LogLevel string `errorTxt:"log level" mandatory:"yes"`
		RunDate  string `errorTxt:"run date" mandatory:"yes"`
		Optional string
		Inner    inner
	}
	// Test 1 - all mandatory fields missing.
	err := ValidateStructIsPopulated(&cfg{})
	if err == nil {
		t.Fatal("expected an error for unset mandatory fields; got nil")
	}
	for _, txt := range []string{"log level", "run date", "parity tolerance"} {
		if !strings.Contains(err.Error(), txt) {
			t.Fatalf("expected error to mention %q; got: %v", txt, err)
		}
	}
	// Test 2 - fully populated struct passes.
	err = ValidateStructIsPopulated(&cfg{LogLevel: "info", RunDate: "20260825", Inner: inner{Tolerance: "0.01"}})
	if err != nil {
		t.Fatal("expected nil error for populated struct; got: ", err)
	}
}
