package observ

import (
	"strings"
	"testing"
)

func TestTimerTrack(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("collect")
	done("4 classes")
	idx := tm.Begin("bodies")
	tm.End(idx, "")

	rep := tm.Report()
	if len(rep.Phases) != 2 || rep.Phases[0].Note != "4 classes" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !strings.Contains(tm.Summary(), "collect") {
		t.Fatalf("summary misses phase name:\n%s", tm.Summary())
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	if len(tm.Phases()) != 0 || tm.Report().TotalMS != 0 {
		t.Fatalf("nil timer must record nothing")
	}
}
