package core

import (
	"errors"
	"strings"
	"time"
)

const (
	SantriAktif    SantriStatus = "aktif"
	SantriNonaktif SantriStatus = "nonaktif"

	Pemasukan   TransaksiJenis = "pemasukan"
	Pengeluaran TransaksiJenis = "pengeluaran"

	Lunas      TagihanStatus = "lunas"
	BelumLunas TagihanStatus = "belum_lunas"
	Terlambat  TagihanStatus = "terlambat"

	TrackKas       TagihanTrack = "kas"
	TrackSyahriyah TagihanTrack = "syahriyah"
)

// DateLayout is the wire format for all date fields (matches the JSON
// persisted by earlier versions of the application).
const DateLayout = "2006-01-02"

type (
	SantriStatus   string
	TransaksiJenis string
	TagihanStatus  string
	TagihanTrack   string

	// Santri is a student/resident of the institution. Only Status and
	// TanggalMasuk participate in billing; the rest is carried for display.
	Santri struct {
		ID string `json:"id"`

		// Data pribadi
		Nama         string `json:"nama"`
		TempatLahir  string `json:"tempatLahir,omitempty"`
		TanggalLahir string `json:"tanggalLahir"`
		JenisKelamin string `json:"jenisKelamin,omitempty"`
		Alamat       string `json:"alamat"`
		NoKTP        string `json:"noKTP,omitempty"`
		NoKK         string `json:"noKK,omitempty"`

		// Data wali
		NamaWali      string `json:"namaWali"`
		PekerjaanWali string `json:"pekerjaanWali,omitempty"`
		KontakWali    string `json:"kontakWali"`
		EmailWali     string `json:"emailWali,omitempty"`
		AlamatWali    string `json:"alamatWali,omitempty"`

		// Data pendidikan
		AsalSekolah string `json:"asalSekolah,omitempty"`
		TahunLulus  string `json:"tahunLulus,omitempty"`
		NilaiUN     string `json:"nilaiUN,omitempty"`

		// Data kesehatan
		GolonganDarah   string `json:"golonganDarah,omitempty"`
		RiwayatPenyakit string `json:"riwayatPenyakit,omitempty"`
		Alergi          string `json:"alergi,omitempty"`

		// Data pondok
		TanggalMasuk string       `json:"tanggalMasuk"`
		Kamar        string       `json:"kamar,omitempty"`
		Tingkat      string       `json:"tingkat,omitempty"`
		Status       SantriStatus `json:"status"`

		// Data tambahan
		Hobi     string `json:"hobi,omitempty"`
		CitaCita string `json:"cita_cita,omitempty"`
		Motivasi string `json:"motivasi,omitempty"`
		Foto     string `json:"foto,omitempty"`
	}

	// Transaksi is a single money movement, either entered manually or
	// emitted by due settlement. Jumlah is in whole rupiah.
	Transaksi struct {
		ID         string         `json:"id"`
		SantriID   string         `json:"santriId,omitempty"`
		Tanggal    string         `json:"tanggal"`
		Jumlah     int64          `json:"jumlah"`
		Jenis      TransaksiJenis `json:"jenis"`
		Kategori   string         `json:"kategori"`
		Keterangan string         `json:"keterangan"`
		TTD        string         `json:"ttd"`
		CreatedAt  string         `json:"createdAt"`
	}

	// Pembayaran is a standalone payment record. It is persisted and
	// editable but not consumed by the billing engine.
	Pembayaran struct {
		ID                string        `json:"id"`
		SantriID          string        `json:"santriId"`
		Bulan             string        `json:"bulan"`
		Tahun             int           `json:"tahun"`
		JenisKekurangan   TagihanTrack  `json:"jenisKekurangan"`
		Jumlah            int64         `json:"jumlah"`
		Status            TagihanStatus `json:"status"`
		TanggalBayar      string        `json:"tanggalBayar,omitempty"`
		TanggalJatuhTempo string        `json:"tanggalJatuhTempo"`
		Denda             int64         `json:"denda,omitempty"`
		TTD               string        `json:"ttd"`
	}

	// TagihanBulanan holds one month of dues for one santri, with the kas
	// and syahriyah tracks settled independently. The denda fields are part
	// of the persisted shape but always zero.
	TagihanBulanan struct {
		ID                    string        `json:"id"`
		SantriID              string        `json:"santriId"`
		Bulan                 int           `json:"bulan"`
		Tahun                 int           `json:"tahun"`
		JumlahKas             int64         `json:"jumlahKas"`
		JumlahSyahriyah       int64         `json:"jumlahSyahriyah"`
		TanggalJatuhTempo     string        `json:"tanggalJatuhTempo"`
		StatusKas             TagihanStatus `json:"statusKas"`
		StatusSyahriyah       TagihanStatus `json:"statusSyahriyah"`
		TanggalBayarKas       string        `json:"tanggalBayarKas,omitempty"`
		TanggalBayarSyahriyah string        `json:"tanggalBayarSyahriyah,omitempty"`
		DendaKas              int64         `json:"dendaKas"`
		DendaSyahriyah        int64         `json:"dendaSyahriyah"`
		TotalDenda            int64         `json:"totalDenda"`
		TTDKas                string        `json:"ttdKas,omitempty"`
		TTDSyahriyah          string        `json:"ttdSyahriyah,omitempty"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidJenis  = errors.New("invalid transaction type")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidTrack  = errors.New("invalid due track")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyKategori = errors.New("empty category")
)

// ParseDate parses a wire-format date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders t in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// EnrollmentDate returns the parsed TanggalMasuk.
func (s Santri) EnrollmentDate() (time.Time, error) {
	return ParseDate(s.TanggalMasuk)
}

// IsActive reports whether the santri participates in billing.
func (s Santri) IsActive() bool {
	return s.Status == SantriAktif
}

func (s Santri) Validate() error {
	if strings.TrimSpace(s.Nama) == "" {
		return ErrEmptyName
	}
	if s.Status != SantriAktif && s.Status != SantriNonaktif {
		return ErrInvalidStatus
	}
	if _, err := s.EnrollmentDate(); err != nil {
		return err
	}
	return nil
}

func (t Transaksi) Validate() error {
	if t.Jumlah <= 0 {
		return ErrInvalidAmount
	}
	if t.Jenis != Pemasukan && t.Jenis != Pengeluaran {
		return ErrInvalidJenis
	}
	if strings.TrimSpace(t.Kategori) == "" {
		return ErrEmptyKategori
	}
	if _, err := ParseDate(t.Tanggal); err != nil {
		return err
	}
	return nil
}

// StatusFor returns the status of the given track.
func (t TagihanBulanan) StatusFor(track TagihanTrack) TagihanStatus {
	if track == TrackKas {
		return t.StatusKas
	}
	return t.StatusSyahriyah
}

// DueDate returns the parsed TanggalJatuhTempo.
func (t TagihanBulanan) DueDate() (time.Time, error) {
	return ParseDate(t.TanggalJatuhTempo)
}

func (tr TagihanTrack) Valid() bool {
	return tr == TrackKas || tr == TrackSyahriyah
}
