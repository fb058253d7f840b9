// Package auth implements the local credential check: a single admin
// credential pair kept in the key-value store. There is no real identity
// backend; login and password change report success as a plain boolean and
// never raise an error toward the caller.
package auth

import (
	"encoding/json"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"pondok/internal/storage"
)

// Default credentials seeded on first use.
const (
	DefaultEmail    = "admin@pondok.com"
	defaultPassword = "admin123"
)

// User is the signed-in admin profile persisted under the user key.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type credentials struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type Service struct {
	kv storage.KV
}

func NewService(kv storage.KV) *Service {
	return &Service{kv: kv}
}

// Login checks the credential pair. On success the admin profile is stored
// under the user key and returned.
func (s *Service) Login(email, password string) (User, bool) {
	creds := s.loadCredentials()
	if email != creds.Email {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)) != nil {
		return User{}, false
	}

	user := User{ID: "1", Name: "Administrator", Email: creds.Email, Role: "admin"}
	s.storeJSON(storage.KeyUser, user)
	return user, true
}

// Logout clears the stored profile.
func (s *Service) Logout() {
	if err := s.kv.Remove(storage.KeyUser); err != nil {
		slog.Error("Failed to clear user", "error", err)
	}
}

// CurrentUser returns the stored profile, if any.
func (s *Service) CurrentUser() (User, bool) {
	raw, ok, err := s.kv.Get(storage.KeyUser)
	if err != nil || !ok {
		return User{}, false
	}
	var user User
	if json.Unmarshal([]byte(raw), &user) != nil {
		return User{}, false
	}
	return user, true
}

// UpdatePassword verifies the current password and stores a hash of the new
// one. Returns false on mismatch; never errors toward the caller.
func (s *Service) UpdatePassword(current, next string) bool {
	creds := s.loadCredentials()
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(current)) != nil {
		return false
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return false
	}
	creds.PasswordHash = string(hash)
	s.storeJSON(storage.KeyCredentials, creds)
	return true
}

// loadCredentials returns the stored pair, seeding the defaults on first
// use so a fresh install can log in.
func (s *Service) loadCredentials() credentials {
	raw, ok, err := s.kv.Get(storage.KeyCredentials)
	if err == nil && ok {
		var creds credentials
		if json.Unmarshal([]byte(raw), &creds) == nil && creds.PasswordHash != "" {
			return creds
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash default password", "error", err)
		return credentials{Email: DefaultEmail}
	}
	creds := credentials{Email: DefaultEmail, PasswordHash: string(hash)}
	s.storeJSON(storage.KeyCredentials, creds)
	return creds
}

func (s *Service) storeJSON(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode value", "key", key, "error", err)
		return
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		slog.Error("Failed to persist value", "key", key, "error", err)
	}
}
