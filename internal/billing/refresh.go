package billing

import (
	"time"

	"pondok/internal/core"
)

// RefreshStatuses re-derives the ledger against the roster and the clock:
//
//   - dues whose owner no longer exists are dropped,
//   - dues predating their owner's enrollment month are dropped (covers a
//     santri whose enrollment date was edited forward),
//   - amount, denda and due-date fields are re-stamped to the current fee
//     policy when a stale record drifts from it,
//   - per track, belum_lunas advances to terlambat once now passes the due
//     date. Lunas is never touched and terlambat never reverts.
//
// The second return reports whether anything changed, so callers can skip
// the persistence write on a no-op pass.
func RefreshStatuses(santris []core.Santri, dues []core.TagihanBulanan, now time.Time) ([]core.TagihanBulanan, bool) {
	enrolled := make(map[string]int, len(santris))
	for _, s := range santris {
		masuk, err := s.EnrollmentDate()
		if err != nil {
			continue
		}
		enrolled[s.ID] = monthIndex(masuk.Year(), int(masuk.Month()))
	}

	changed := false
	out := make([]core.TagihanBulanan, 0, len(dues))

	for _, t := range dues {
		masukIdx, ok := enrolled[t.SantriID]
		if !ok || monthIndex(t.Tahun, t.Bulan) < masukIdx {
			changed = true
			continue
		}

		if SyncFeePolicy(&t) {
			changed = true
		}

		due, err := t.DueDate()
		if err == nil && now.After(due) {
			if t.StatusKas == core.BelumLunas {
				t.StatusKas = core.Terlambat
				changed = true
			}
			if t.StatusSyahriyah == core.BelumLunas {
				t.StatusSyahriyah = core.Terlambat
				changed = true
			}
		}

		out = append(out, t)
	}

	return out, changed
}

// SyncFeePolicy re-stamps the derived fields of a due record to the current
// fee policy, returning true when the record had drifted. The state layer
// also runs this once at load time as a schema migration for ledgers
// persisted under an older fee schedule.
func SyncFeePolicy(t *core.TagihanBulanan) bool {
	changed := false
	if t.JumlahKas != core.BiayaKasBulanan {
		t.JumlahKas = core.BiayaKasBulanan
		changed = true
	}
	if t.JumlahSyahriyah != core.BiayaSyahriyahBulanan {
		t.JumlahSyahriyah = core.BiayaSyahriyahBulanan
		changed = true
	}
	if t.DendaKas != 0 || t.DendaSyahriyah != 0 || t.TotalDenda != 0 {
		t.DendaKas, t.DendaSyahriyah, t.TotalDenda = 0, 0, 0
		changed = true
	}
	if due := core.FormatDate(core.JatuhTempo(t.Bulan, t.Tahun)); t.TanggalJatuhTempo != due {
		t.TanggalJatuhTempo = due
		changed = true
	}
	return changed
}
