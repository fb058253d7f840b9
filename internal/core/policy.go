// Package core defines the domain model and the monthly fee policy for the
// pondok administration: santri records, money movements and the monthly due
// ledger with its two obligation tracks (kas and syahriyah).
package core

import (
	"fmt"
	"time"
)

// Monthly fee policy, in whole rupiah. Every generated due must carry exactly
// these amounts; stale records are re-stamped on load and refresh.
const (
	BiayaKasBulanan       int64 = 10_000
	BiayaSyahriyahBulanan int64 = 50_000

	// JatuhTempoDay is the day of the month a due falls due.
	JatuhTempoDay = 10
)

// TrackAmount returns the fixed monthly amount for a track.
func TrackAmount(track TagihanTrack) int64 {
	if track == TrackKas {
		return BiayaKasBulanan
	}
	return BiayaSyahriyahBulanan
}

// TagihanID builds the deterministic due identifier for (santri, month, year).
func TagihanID(santriID string, bulan, tahun int) string {
	return fmt.Sprintf("%s-%d-%d", santriID, bulan, tahun)
}

// JatuhTempo returns the due date (the 10th) of the given month.
func JatuhTempo(bulan, tahun int) time.Time {
	return time.Date(tahun, time.Month(bulan), JatuhTempoDay, 0, 0, 0, 0, time.UTC)
}

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthName returns the Indonesian month name for bulan in 1..12, or an
// empty string otherwise.
func MonthName(bulan int) string {
	if bulan < 1 || bulan > 12 {
		return ""
	}
	return monthNames[bulan-1]
}
