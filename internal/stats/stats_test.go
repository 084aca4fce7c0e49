package stats

import (
	"testing"
	"time"
)

func TestWindowSnapshotPercentiles(t *testing.T) {
	w := NewWindow(time.Hour)
	for i, ms := range []int64{100, 200, 300, 400, 500} {
		format := "html"
		if i%2 == 1 {
			format = "pdf"
		}
		w.Record(format, time.Duration(ms)*time.Millisecond, 10)
	}

	snap := w.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Nodes != 50 {
		t.Fatalf("expected nodes=50, got %d", snap.Nodes)
	}
	if snap.ByFormat["html"] != 3 || snap.ByFormat["pdf"] != 2 {
		t.Fatalf("unexpected format counts %v", snap.ByFormat)
	}
}

func TestWindowPrunesExpiredSamples(t *testing.T) {
	now := time.Now()
	w := NewWindow(time.Minute)
	w.now = func() time.Time { return now }
	w.Record("html", 100*time.Millisecond, 1)

	now = now.Add(2 * time.Minute)
	if snap := w.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	w.Record("html", 200*time.Millisecond, 1)
	snap := w.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected one fresh sample of 200ms, got %+v", snap)
	}
}

func TestWindowRecordClampsNegativeDuration(t *testing.T) {
	w := NewWindow(0)
	w.Record("txt", -10*time.Millisecond, 0)
	snap := w.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
