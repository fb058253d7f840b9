// Package billing implements the monthly due ledger: bulk generation from
// enrollment dates, payment reconciliation, arrears aggregation and the
// recurring status refresh. All functions are pure over their inputs and take
// the current time explicitly so the temporal logic stays deterministic in
// tests; callers pass time.Now() in production.
package billing

import (
	"time"

	"pondok/internal/core"
)

// monthIndex flattens (year, month) for chronological comparison.
func monthIndex(tahun, bulan int) int {
	return tahun*12 + bulan
}

// initialStatus is the status stamped on a freshly generated due: already
// overdue when generation happens past the due date of that month.
func initialStatus(due, now time.Time) core.TagihanStatus {
	if now.After(due) {
		return core.Terlambat
	}
	return core.BelumLunas
}

// GenerateMonthlyDues derives the due records missing from the ledger: for
// every active santri enrolled on or before now, one record per calendar
// month from the enrollment month through the current month, skipping months
// already present. Re-running with an unchanged roster and month yields nil.
func GenerateMonthlyDues(santris []core.Santri, existing []core.TagihanBulanan, now time.Time) []core.TagihanBulanan {
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[t.ID] = struct{}{}
	}

	current := monthIndex(now.Year(), int(now.Month()))

	var generated []core.TagihanBulanan
	for _, s := range santris {
		if !s.IsActive() {
			continue
		}
		masuk, err := s.EnrollmentDate()
		if err != nil || masuk.After(now) {
			// Not yet enrolled (or unparseable record): no dues at all.
			continue
		}

		bulan, tahun := int(masuk.Month()), masuk.Year()
		for monthIndex(tahun, bulan) <= current {
			id := core.TagihanID(s.ID, bulan, tahun)
			if _, ok := seen[id]; !ok {
				due := core.JatuhTempo(bulan, tahun)
				status := initialStatus(due, now)
				generated = append(generated, core.TagihanBulanan{
					ID:                id,
					SantriID:          s.ID,
					Bulan:             bulan,
					Tahun:             tahun,
					JumlahKas:         core.BiayaKasBulanan,
					JumlahSyahriyah:   core.BiayaSyahriyahBulanan,
					TanggalJatuhTempo: core.FormatDate(due),
					StatusKas:         status,
					StatusSyahriyah:   status,
				})
				seen[id] = struct{}{}
			}

			bulan++
			if bulan > 12 {
				bulan = 1
				tahun++
			}
		}
	}

	return generated
}
