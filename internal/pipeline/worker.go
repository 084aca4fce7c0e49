package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/html2md/internal/convert"
	"github.com/dgallion1/html2md/internal/mdast"
	"github.com/dgallion1/html2md/internal/parser"
	"github.com/dgallion1/html2md/internal/stats"
)

// Worker processes a single conversion job.
type Worker struct {
	conv    *convert.Converter
	stats   *stats.Window
	parsers parser.Options
	log     *slog.Logger
}

func NewWorker(conv *convert.Converter, st *stats.Window, parsers parser.Options, log *slog.Logger) *Worker {
	return &Worker{
		conv:    conv,
		stats:   st,
		parsers: parsers,
		log:     log,
	}
}

// Process parses the uploaded document, converts its DOM and stores the
// rendered AST on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "cancelled")
		return
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := w.parsers.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	start := time.Now()
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Convert
	job.SetStatus(StatusConverting, "converting")
	conv := w.conv
	if job.Selector != "" {
		conv = conv.WithSelector(job.Selector)
	}
	ast, err := conv.Convert(doc)
	if err != nil {
		log.Error("conversion failed", "error", err)
		job.AddError(fmt.Sprintf("convert: %s", err))
		job.SetStatus(StatusFailed, "converting")
		return
	}
	elapsed := time.Since(start)

	nodes := ast.Count()
	if w.stats != nil {
		w.stats.Record(SourceFormat(job.Filename), elapsed, nodes)
	}
	job.Complete(nodes, elapsed, mdast.XMLString(ast))
	log.Info("conversion complete", "nodes", nodes, "duration_ms", elapsed.Milliseconds())
}

// SourceFormat names the source format of filename by its extension.
func SourceFormat(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case "htm":
		return "html"
	case "markdown":
		return "md"
	case "":
		return "unknown"
	}
	return ext
}
