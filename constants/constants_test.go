package constants

import (
	"regexp"
	"testing"
	"time"
)

func TestRunDateFormat(t *testing.T) {
	// Check that the run date format round-trips a YYYYMMDD string.
	d, err := time.Parse(RunDateFormat, "20260825")
	if err != nil {
		t.Fatal("unable to parse a YYYYMMDD date with RunDateFormat: ", err)
	}
	if d.Format(RunDateFormat) != "20260825" {
		t.Fatal("RunDateFormat does not round-trip YYYYMMDD dates")
	}
	// Check that the log stamp format carries a time zone component.
	re := regexp.MustCompile("^.*0700$")
	if !re.MatchString(TimeFormatLogStamp) {
		t.Fatal("Unexpected time format - missing time zone component.")
	}
}
