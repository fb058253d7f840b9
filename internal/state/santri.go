package state

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"pondok/internal/core"
	"pondok/internal/storage"
)

var ErrNotFound = errors.New("record not found")

// Santris returns a copy of the roster.
func (s *AppState) Santris() []core.Santri {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Santri(nil), s.santris...)
}

// AddSantri validates and stores a new santri, then schedules a debounced
// ledger regeneration for the grown roster.
func (s *AppState) AddSantri(ctx context.Context, santri core.Santri) (core.Santri, error) {
	if err := santri.Validate(); err != nil {
		return core.Santri{}, err
	}
	santri.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.santris = append(s.santris, santri)
	s.persist(ctx, storage.KeySantris, s.santris)
	s.scheduleGenerate()

	slog.InfoContext(ctx, "Santri added", "id", santri.ID, "nama", santri.Nama)
	return santri, nil
}

// UpdateSantri replaces the santri with the given id. A changed enrollment
// date drops the santri's existing dues and schedules regeneration, so
// months now predating enrollment disappear and missing months are rebuilt.
func (s *AppState) UpdateSantri(ctx context.Context, id string, santri core.Santri) (core.Santri, error) {
	santri.ID = id
	if err := santri.Validate(); err != nil {
		return core.Santri{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.santris {
		if s.santris[i].ID != id {
			continue
		}
		enrollmentChanged := s.santris[i].TanggalMasuk != santri.TanggalMasuk
		s.santris[i] = santri
		s.persist(ctx, storage.KeySantris, s.santris)

		if enrollmentChanged {
			s.dropDuesLocked(ctx, id)
			s.scheduleGenerate()
		}

		slog.InfoContext(ctx, "Santri updated",
			"id", id, "enrollment_changed", enrollmentChanged)
		return santri, nil
	}
	return core.Santri{}, ErrNotFound
}

// DeleteSantri removes the santri and cascades to its dues, then schedules
// regeneration for the shrunk roster.
func (s *AppState) DeleteSantri(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.santris[:0]
	found := false
	for _, santri := range s.santris {
		if santri.ID == id {
			found = true
			continue
		}
		kept = append(kept, santri)
	}
	if !found {
		return ErrNotFound
	}
	s.santris = kept
	s.persist(ctx, storage.KeySantris, s.santris)
	s.dropDuesLocked(ctx, id)
	s.scheduleGenerate()

	slog.InfoContext(ctx, "Santri deleted", "id", id)
	return nil
}

// dropDuesLocked removes every due owned by santriID and persists the
// ledger. Callers must hold s.mu.
func (s *AppState) dropDuesLocked(ctx context.Context, santriID string) {
	kept := s.tagihan[:0]
	for _, t := range s.tagihan {
		if t.SantriID != santriID {
			kept = append(kept, t)
		}
	}
	s.tagihan = kept
	s.persist(ctx, storage.KeyTagihan, s.tagihan)
}
