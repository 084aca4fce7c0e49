package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/html2md/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleJob reports a queued conversion. With ?format=xml a completed job
// answers with the AST document itself.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()

	if format, _ := outputFormat(r); format == "xml" {
		if snap.Status != pipeline.StatusCompleted {
			jsonError(w, "job is "+string(snap.Status), http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte(snap.Result.XML))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
