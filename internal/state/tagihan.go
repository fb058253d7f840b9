package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pondok/internal/billing"
	"pondok/internal/core"
	"pondok/internal/storage"
)

// TagihanBulanan returns a copy of the due ledger.
func (s *AppState) TagihanBulanan() []core.TagihanBulanan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.TagihanBulanan(nil), s.tagihan...)
}

// GetTagihanSantri returns the dues belonging to one santri.
func (s *AppState) GetTagihanSantri(santriID string) []core.TagihanBulanan {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.TagihanBulanan
	for _, t := range s.tagihan {
		if t.SantriID == santriID {
			out = append(out, t)
		}
	}
	return out
}

// GenerateMonthlyDues runs a generation pass over the current roster and
// appends whatever months are missing, returning the number of new records.
// Idempotent for an unchanged roster and month.
func (s *AppState) GenerateMonthlyDues(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	generated := billing.GenerateMonthlyDues(s.santris, s.tagihan, s.now())
	if len(generated) == 0 {
		return 0
	}
	s.tagihan = append(s.tagihan, generated...)
	s.persist(ctx, storage.KeyTagihan, s.tagihan)

	slog.InfoContext(ctx, "Generated monthly dues", "count", len(generated))
	return len(generated)
}

// SettleDue marks one track of one due as paid and records the matching
// income transaction. A non-matching (santri, month, year) tuple is a silent
// no-op. The ledger is persisted before the transaction is appended.
func (s *AppState) SettleDue(ctx context.Context, santriID string, bulan, tahun int, track core.TagihanTrack, ttd string) {
	s.mu.Lock()

	updated, trx := billing.SettleDue(s.tagihan, santriID, bulan, tahun, track, ttd, s.now())
	s.tagihan = updated
	if trx == nil {
		s.mu.Unlock()
		slog.WarnContext(ctx, "Settle requested for unknown due",
			"santri_id", santriID, "bulan", bulan, "tahun", tahun, "track", track)
		return
	}
	s.persist(ctx, storage.KeyTagihan, s.tagihan)

	trx.ID = uuid.NewString()
	trx.CreatedAt = s.now().UTC().Format(time.RFC3339)
	s.transaksis = append(s.transaksis, *trx)
	s.persist(ctx, storage.KeyTransaksis, s.transaksis)
	s.mu.Unlock()

	s.publishSync(ctx, trx.ID)

	slog.InfoContext(ctx, "Due settled",
		"santri_id", santriID, "bulan", bulan, "tahun", tahun,
		"track", track, "ttd", ttd, "transaksi_id", trx.ID)
}

// ComputeArrears recomputes the arrears summary from the current snapshot.
// Never cached: the result depends on the clock.
func (s *AppState) ComputeArrears() billing.ArrearsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return billing.ComputeArrears(s.santris, s.tagihan, s.now())
}

// RefreshStatuses runs one refresher pass: prune stale dues, re-stamp
// drifted records, advance unpaid to overdue. Persists only on change.
func (s *AppState) RefreshStatuses(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, changed := billing.RefreshStatuses(s.santris, s.tagihan, s.now())
	if !changed {
		return false
	}
	s.tagihan = updated
	s.persist(ctx, storage.KeyTagihan, s.tagihan)

	slog.InfoContext(ctx, "Refreshed due statuses", "tagihan", len(s.tagihan))
	return true
}

// ResetMonthlyDues clears the ledger and regenerates it from scratch under
// the current fee policy. Recovery path after a fee-policy change.
func (s *AppState) ResetMonthlyDues(ctx context.Context) int {
	s.mu.Lock()
	s.tagihan = nil
	if err := s.kv.Remove(storage.KeyTagihan); err != nil {
		slog.ErrorContext(ctx, "Failed to clear due ledger", "error", err)
	}
	s.mu.Unlock()

	return s.GenerateMonthlyDues(ctx)
}

// HasBillingData reports whether both the roster and the ledger are
// non-empty; the refresher only runs its mount pass when true.
func (s *AppState) HasBillingData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.santris) > 0 && len(s.tagihan) > 0
}
