package http

import (
	"errors"
	"log/slog"
	"net/http"

	"pondok/internal/core"
	"pondok/internal/state"
)

func (s *Server) handleSantris(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.state.Santris())
	case http.MethodPost:
		var santri core.Santri
		if err := decodeJSON(r, &santri); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.state.AddSantri(r.Context(), santri)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleSantriByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/santris/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing santri id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		for _, santri := range s.state.Santris() {
			if santri.ID == id {
				writeJSON(w, http.StatusOK, santri)
				return
			}
		}
		writeError(w, http.StatusNotFound, "santri not found")
	case http.MethodPut:
		var santri core.Santri
		if err := decodeJSON(r, &santri); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		updated, err := s.state.UpdateSantri(r.Context(), id, santri)
		if errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, "santri not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		err := s.state.DeleteSantri(r.Context(), id)
		if errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, "santri not found")
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to delete santri", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "delete failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}
