package http

import (
	"net/http"

	"pondok/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool       `json:"success"`
	User    *auth.User `json:"user,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := s.auth.Login(req.Email, req.Password)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true, User: &user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	s.auth.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusUnprocessableEntity, "new password is required")
		return
	}

	ok := s.auth.UpdatePassword(req.CurrentPassword, req.NewPassword)
	status := http.StatusOK
	if !ok {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]bool{"success": ok})
}
