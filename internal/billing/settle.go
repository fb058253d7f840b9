package billing

import (
	"fmt"
	"time"

	"pondok/internal/core"
)

// SettleDue marks the given track of the due for (santriID, bulan, tahun) as
// paid, stamping the settlement date and signer, and returns the updated
// ledger together with the matching income transaction. The transaction is
// returned without ID and CreatedAt; the state layer assigns both when it
// applies the dual-write. When no due matches, the ledger is returned
// unchanged and the transaction is nil; not-found raises no error.
//
// Signer validation is a UI-boundary concern; this function accepts any ttd.
func SettleDue(dues []core.TagihanBulanan, santriID string, bulan, tahun int, track core.TagihanTrack, ttd string, now time.Time) ([]core.TagihanBulanan, *core.Transaksi) {
	today := core.FormatDate(now)

	for i := range dues {
		t := &dues[i]
		if t.SantriID != santriID || t.Bulan != bulan || t.Tahun != tahun {
			continue
		}

		switch track {
		case core.TrackKas:
			t.StatusKas = core.Lunas
			t.TanggalBayarKas = today
			t.TTDKas = ttd
		case core.TrackSyahriyah:
			t.StatusSyahriyah = core.Lunas
			t.TanggalBayarSyahriyah = today
			t.TTDSyahriyah = ttd
		default:
			return dues, nil
		}

		trx := &core.Transaksi{
			SantriID:   santriID,
			Tanggal:    today,
			Jumlah:     core.TrackAmount(track),
			Jenis:      core.Pemasukan,
			Kategori:   string(track),
			Keterangan: fmt.Sprintf("Pembayaran %s %s %d", track, core.MonthName(bulan), tahun),
			TTD:        ttd,
		}
		return dues, trx
	}

	return dues, nil
}
