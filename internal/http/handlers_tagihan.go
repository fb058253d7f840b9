package http

import (
	"net/http"
	"strings"

	"pondok/internal/core"
)

func (s *Server) handleTagihan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.state.TagihanBulanan())
}

func (s *Server) handleTagihanSantri(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	id := pathID(r.URL.Path, "/api/tagihan/santri/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing santri id")
		return
	}
	dues := s.state.GetTagihanSantri(id)
	if dues == nil {
		dues = []core.TagihanBulanan{}
	}
	writeJSON(w, http.StatusOK, dues)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	n := s.state.GenerateMonthlyDues(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"generated": n})
}

type settleRequest struct {
	SantriID string `json:"santriId"`
	Bulan    int    `json:"bulan"`
	Tahun    int    `json:"tahun"`
	Jenis    string `json:"jenis"`
	TTD      string `json:"ttd"`
}

// handleSettle is the UI boundary for due settlement; the signer name is
// required here, not by the core operation.
func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.TTD) == "" {
		writeError(w, http.StatusUnprocessableEntity, "ttd (signer name) is required")
		return
	}
	track := core.TagihanTrack(req.Jenis)
	if !track.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "jenis must be kas or syahriyah")
		return
	}
	if req.Bulan < 1 || req.Bulan > 12 {
		writeError(w, http.StatusUnprocessableEntity, "bulan must be 1-12")
		return
	}

	// Settling an unknown due is a silent no-op.
	s.state.SettleDue(r.Context(), req.SantriID, req.Bulan, req.Tahun, track, req.TTD)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	n := s.state.ResetMonthlyDues(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"generated": n})
}

func (s *Server) handleTunggakan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.state.ComputeArrears())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.state.Dashboard())
}
