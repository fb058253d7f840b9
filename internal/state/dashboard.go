package state

import (
	"pondok/internal/billing"
	"pondok/internal/core"
)

// DashboardStats is the headline summary shown by the presentation layer.
type DashboardStats struct {
	TotalSaldo       int64 `json:"totalSaldo"`
	TotalPemasukan   int64 `json:"totalPemasukan"`
	TotalPengeluaran int64 `json:"totalPengeluaran"`
	TotalSantri      int   `json:"totalSantri"`
	TotalTunggakan   int64 `json:"totalTunggakan"`
	SantriTunggakan  int   `json:"santriTunggakan"`
}

// Dashboard aggregates transaction totals, the active roster size and the
// arrears summary in one pass over the current snapshot.
func (s *AppState) Dashboard() DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats DashboardStats
	for _, trx := range s.transaksis {
		switch trx.Jenis {
		case core.Pemasukan:
			stats.TotalPemasukan += trx.Jumlah
		case core.Pengeluaran:
			stats.TotalPengeluaran += trx.Jumlah
		}
	}
	stats.TotalSaldo = stats.TotalPemasukan - stats.TotalPengeluaran

	for _, santri := range s.santris {
		if santri.IsActive() {
			stats.TotalSantri++
		}
	}

	arrears := billing.ComputeArrears(s.santris, s.tagihan, s.now())
	stats.TotalTunggakan = arrears.Total
	stats.SantriTunggakan = arrears.JumlahSantri

	return stats
}
