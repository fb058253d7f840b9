package http

import (
	"errors"
	"net/http"

	"pondok/internal/core"
	"pondok/internal/state"
)

func (s *Server) handleTransaksis(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.state.Transaksis())
	case http.MethodPost:
		var trx core.Transaksi
		if err := decodeJSON(r, &trx); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.state.AddTransaksi(r.Context(), trx)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleTransaksiByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/transaksis/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaksi id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var trx core.Transaksi
		if err := decodeJSON(r, &trx); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		updated, err := s.state.UpdateTransaksi(r.Context(), id, trx)
		if errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaksi not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.state.DeleteTransaksi(r.Context(), id); errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaksi not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

func (s *Server) handlePembayarans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.state.Pembayarans())
	case http.MethodPost:
		var p core.Pembayaran
		if err := decodeJSON(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.state.AddPembayaran(r.Context(), p)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handlePembayaranByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/pembayarans/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing pembayaran id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var p core.Pembayaran
		if err := decodeJSON(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		updated, err := s.state.UpdatePembayaran(r.Context(), id, p)
		if errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pembayaran not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.state.DeletePembayaran(r.Context(), id); errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pembayaran not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}
