// Package http exposes the data layer to the presentation layer as a JSON
// API: CRUD for the three entity collections, the billing operations and
// the dashboard summary.
package http

import (
	"net/http"

	"pondok/internal/auth"
	"pondok/internal/state"
)

type Server struct {
	http.Server
	state *state.AppState
	auth  *auth.Service
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, st *state.AppState, authSvc *auth.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		state: st,
		auth:  authSvc,
	}

	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/santris", s.handleSantris)
	mux.HandleFunc("/api/santris/", s.handleSantriByID)
	mux.HandleFunc("/api/transaksis", s.handleTransaksis)
	mux.HandleFunc("/api/transaksis/", s.handleTransaksiByID)
	mux.HandleFunc("/api/pembayarans", s.handlePembayarans)
	mux.HandleFunc("/api/pembayarans/", s.handlePembayaranByID)

	mux.HandleFunc("/api/tagihan", s.handleTagihan)
	mux.HandleFunc("/api/tagihan/santri/", s.handleTagihanSantri)
	mux.HandleFunc("/api/tagihan/generate", s.handleGenerate)
	mux.HandleFunc("/api/tagihan/settle", s.handleSettle)
	mux.HandleFunc("/api/tagihan/reset", s.handleReset)
	mux.HandleFunc("/api/tunggakan", s.handleTunggakan)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)

	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logout", s.handleLogout)
	mux.HandleFunc("/api/password", s.handlePassword)

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
