package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/html2md/internal/roundtrip"
)

func (s *Server) handleRoundtrip(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1)
	data, err := readLimited(r.Body, s.cfg.MaxUploadBytes)
	if err != nil {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	report, err := roundtrip.Check(data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if !report.Matched {
		s.log.Info("round trip diverged", "divergences", len(report.Divergences), "first", report.Divergences[0].String())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
