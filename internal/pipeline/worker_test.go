package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/html2md/internal/config"
	"github.com/dgallion1/html2md/internal/convert"
	"github.com/dgallion1/html2md/internal/parser"
	"github.com/dgallion1/html2md/internal/stats"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(st *stats.Window) *Worker {
	log := quietLogger()
	return NewWorker(convert.NewConverter("body", log), st, parser.Options{}, log)
}

func TestWorker_ProcessHTML(t *testing.T) {
	st := stats.NewWindow(time.Hour)
	job := NewJob("page.html", []byte("<h1>Title</h1><p>hello</p>"))
	newTestWorker(st).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (errors %v)", snap.Status, snap.Result.Errors)
	}
	if snap.Result.Nodes != 5 {
		t.Errorf("expected 5 nodes, got %d", snap.Result.Nodes)
	}
	for _, want := range []string{`<header level="1">`, `<text>hello</text>`} {
		if !strings.Contains(snap.Result.XML, want) {
			t.Errorf("expected %s in:\n%s", want, snap.Result.XML)
		}
	}
	if got := st.Snapshot(); got.Count != 1 || got.ByFormat["html"] != 1 || got.Nodes != 5 {
		t.Errorf("unexpected stats %+v", got)
	}
}

func TestWorker_ProcessSelector(t *testing.T) {
	job := NewJob("page.htm", []byte("<nav>menu</nav><main><p>body</p></main>"))
	job.Selector = "main"
	newTestWorker(nil).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", snap.Status)
	}
	if strings.Contains(snap.Result.XML, "menu") {
		t.Errorf("selector ignored:\n%s", snap.Result.XML)
	}
}

func TestWorker_ProcessFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		phase    string
	}{
		{"unsupported", "image.png", "x", "parsing"},
		{"bad pdf", "broken.pdf", "not a pdf", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob(tt.filename, []byte(tt.data))
			newTestWorker(nil).Process(context.Background(), job)
			snap := job.Snapshot()
			if snap.Status != StatusFailed || snap.Phase != tt.phase {
				t.Errorf("expected failed/%s, got %s/%s", tt.phase, snap.Status, snap.Phase)
			}
			if len(snap.Result.Errors) == 0 {
				t.Error("expected an error to be recorded")
			}
		})
	}
}

func TestWorker_ProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job := NewJob("a.txt", []byte("x"))
	newTestWorker(nil).Process(ctx, job)
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "cancelled" {
		t.Errorf("expected failed/cancelled, got %s/%s", snap.Status, snap.Phase)
	}
}

func TestSourceFormat(t *testing.T) {
	tests := map[string]string{
		"a.HTML":         "html",
		"a.htm":          "html",
		"notes.md":       "md",
		"notes.markdown": "md",
		"report.pdf":     "pdf",
		"README":         "unknown",
	}
	for in, want := range tests {
		if got := SourceFormat(in); got != want {
			t.Errorf("SourceFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOrchestrator_SubmitAndProcess(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	log := quietLogger()
	orch := NewOrchestrator(cfg, convert.NewConverter("", log), stats.NewWindow(time.Hour), log)
	orch.Start(context.Background())
	defer orch.Stop()

	job := NewJob("notes.txt", []byte("one\n\ntwo"))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if orch.GetJob(job.ID) != job {
		t.Fatal("submitted job not tracked")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if st := job.Snapshot().Status; st == StatusCompleted || st == StatusFailed {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (errors %v)", snap.Status, snap.Result.Errors)
	}
	if strings.Count(snap.Result.XML, "<paragraph>") != 2 {
		t.Errorf("expected two paragraphs:\n%s", snap.Result.XML)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	log := quietLogger()
	orch := NewOrchestrator(cfg, convert.NewConverter("", log), nil, log)

	if err := orch.Submit(NewJob("a.txt", nil)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob("b.txt", nil)
	if err := orch.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if second.Snapshot().Status != StatusFailed {
		t.Error("expected rejected job to be failed")
	}
	if orch.QueueDepth() != 1 || orch.TrackedJobs() != 2 {
		t.Errorf("unexpected depth %d tracked %d", orch.QueueDepth(), orch.TrackedJobs())
	}
	orch.Stop()
}
