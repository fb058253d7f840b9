package billing

import (
	"time"

	"pondok/internal/core"
)

// ArrearsSummary aggregates unpaid past-due amounts across the roster.
type ArrearsSummary struct {
	Total        int64 `json:"total"`
	JumlahSantri int   `json:"jumlahSantri"`
}

// ComputeArrears sums every unpaid track of every past-due record belonging
// to a currently active santri, counting each santri once. Dues predating a
// santri's enrollment month are ignored; such stale ledger entries survive
// until the next refresh prunes them. No penalty is ever added; the total is
// exactly the sum of the fixed track amounts.
//
// The result depends on now, so callers must recompute on every read.
func ComputeArrears(santris []core.Santri, dues []core.TagihanBulanan, now time.Time) ArrearsSummary {
	enrolled := make(map[string]int, len(santris)) // active santri id -> enrollment month index
	for _, s := range santris {
		if !s.IsActive() {
			continue
		}
		masuk, err := s.EnrollmentDate()
		if err != nil {
			continue
		}
		enrolled[s.ID] = monthIndex(masuk.Year(), int(masuk.Month()))
	}

	var total int64
	menunggak := make(map[string]struct{})

	for _, t := range dues {
		masukIdx, ok := enrolled[t.SantriID]
		if !ok {
			continue
		}
		if monthIndex(t.Tahun, t.Bulan) < masukIdx {
			continue
		}
		due, err := t.DueDate()
		if err != nil || !now.After(due) {
			continue
		}

		if t.StatusKas != core.Lunas {
			total += t.JumlahKas
			menunggak[t.SantriID] = struct{}{}
		}
		if t.StatusSyahriyah != core.Lunas {
			total += t.JumlahSyahriyah
			menunggak[t.SantriID] = struct{}{}
		}
	}

	return ArrearsSummary{Total: total, JumlahSantri: len(menunggak)}
}
