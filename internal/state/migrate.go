package state

import (
	"context"
	"log/slog"

	"pondok/internal/billing"
	"pondok/internal/storage"
)

// migrateLocked applies one-time data migrations at load: transactions
// persisted before the signer field existed get a default TTD, and due
// records persisted under an older fee schedule are re-stamped to the
// current policy. Runs with s.mu held; persists only what changed.
func (s *AppState) migrateLocked(ctx context.Context) {
	trxChanged := 0
	for i := range s.transaksis {
		if s.transaksis[i].TTD == "" {
			s.transaksis[i].TTD = "Admin"
			trxChanged++
		}
	}
	if trxChanged > 0 {
		s.persist(ctx, storage.KeyTransaksis, s.transaksis)
		slog.InfoContext(ctx, "Migrated transactions without signer", "count", trxChanged)
	}

	feeChanged := 0
	for i := range s.tagihan {
		if billing.SyncFeePolicy(&s.tagihan[i]) {
			feeChanged++
		}
	}
	if feeChanged > 0 {
		s.persist(ctx, storage.KeyTagihan, s.tagihan)
		slog.InfoContext(ctx, "Re-stamped dues to current fee policy", "count", feeChanged)
	}
}
