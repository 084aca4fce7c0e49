package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/html2md/internal/htmldom"
	"github.com/dgallion1/html2md/internal/mdast"
	"github.com/dgallion1/html2md/internal/parser"
	"github.com/dgallion1/html2md/internal/pipeline"
)

// rawUploadName is the filename assumed for a request body that is not a
// multipart upload.
const rawUploadName = "upload.html"

type convertResponse struct {
	Filename   string      `json:"filename"`
	Nodes      int         `json:"nodes"`
	DurationMs int64       `json:"duration_ms"`
	AST        *mdast.Node `json:"ast"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	format, ok := outputFormat(r)
	if !ok {
		jsonError(w, "format must be json or xml", http.StatusBadRequest)
		return
	}
	selector := r.URL.Query().Get("selector")
	if selector != "" {
		if err := htmldom.ValidateSelector(selector); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	filename, data, status, err := s.readUpload(r)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	p, err := s.parsers.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	conv := s.conv
	if selector != "" {
		conv = conv.WithSelector(selector)
	}
	ast, err := conv.Convert(doc)
	if err != nil {
		jsonError(w, "convert: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	elapsed := time.Since(start)
	nodes := ast.Count()
	s.stats.Record(pipeline.SourceFormat(filename), elapsed, nodes)

	if format == "xml" {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		if err := mdast.RenderXML(w, ast); err != nil {
			s.log.Error("write xml response", "error", err)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(convertResponse{
		Filename:   filename,
		Nodes:      nodes,
		DurationMs: elapsed.Milliseconds(),
		AST:        ast,
	})
}

// readUpload returns the uploaded document: the multipart "file" field, or
// the raw request body treated as HTML.
func (s *Server) readUpload(r *http.Request) (string, []byte, int, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := readLimited(r.Body, s.cfg.MaxUploadBytes)
		if err != nil {
			return "", nil, http.StatusRequestEntityTooLarge, err
		}
		return rawUploadName, data, 0, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, http.StatusBadRequest, fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return "", nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	data, err := readLimited(file, s.cfg.MaxUploadBytes)
	if err != nil {
		return "", nil, http.StatusRequestEntityTooLarge, err
	}
	return filename, data, 0, nil
}

func (s *Server) handleBatchConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	selector := r.FormValue("selector")
	if selector != "" {
		if err := htmldom.ValidateSelector(selector); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}
		data, err := readLimited(f, s.cfg.MaxUploadBytes)
		f.Close()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		job := pipeline.NewJob(filename, data)
		job.Selector = selector
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"job_id":   job.ID,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

func outputFormat(r *http.Request) (string, bool) {
	switch f := strings.ToLower(r.URL.Query().Get("format")); f {
	case "", "json":
		return "json", true
	case "xml":
		return "xml", true
	default:
		return f, false
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", limit)
	}
	return data, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
