package state

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"pondok/internal/core"
	"pondok/internal/storage"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// capturePublisher records published transaction ids.
type capturePublisher struct {
	mu  sync.Mutex
	ids []string
}

func (p *capturePublisher) PublishTransactionSync(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
	return nil
}

func (p *capturePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ids...)
}

func seedKV(t *testing.T, kv storage.KV, key string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal seed for %s: %v", key, err)
	}
	if err := kv.Set(key, string(raw)); err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
}

func testSantri(id, tanggalMasuk string) core.Santri {
	return core.Santri{ID: id, Nama: "Santri " + id, TanggalMasuk: tanggalMasuk, Status: core.SantriAktif}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached within deadline")
}

func TestLoad_GeneratesDuesAtStartup(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{testSantri("s1", "2024-01-01")})

	s := New(kv, WithClock(func() time.Time { return testNow }))
	defer s.Close()

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	dues := s.TagihanBulanan()
	if len(dues) != 3 {
		t.Fatalf("expected 3 generated dues, got %d", len(dues))
	}

	// The generated ledger must also have been persisted.
	raw, ok, err := kv.Get(storage.KeyTagihan)
	if err != nil || !ok {
		t.Fatalf("ledger not persisted: ok=%v err=%v", ok, err)
	}
	var persisted []core.TagihanBulanan
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("decode persisted ledger: %v", err)
	}
	if len(persisted) != 3 {
		t.Fatalf("persisted ledger has %d dues, want 3", len(persisted))
	}
}

func TestLoad_MigratesLegacyRecords(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{testSantri("s1", "2024-03-01")})
	seedKV(t, kv, storage.KeyTransaksis, []core.Transaksi{
		{ID: "t1", Tanggal: "2024-03-01", Jumlah: 5_000, Jenis: core.Pengeluaran, Kategori: "listrik"},
	})
	seedKV(t, kv, storage.KeyTagihan, []core.TagihanBulanan{
		{ID: "s1-3-2024", SantriID: "s1", Bulan: 3, Tahun: 2024,
			JumlahKas: 7_500, JumlahSyahriyah: 40_000,
			TanggalJatuhTempo: "2024-03-01",
			StatusKas:         core.BelumLunas, StatusSyahriyah: core.BelumLunas},
	})

	s := New(kv, WithClock(func() time.Time { return testNow }))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	trxs := s.Transaksis()
	if len(trxs) != 1 || trxs[0].TTD != "Admin" {
		t.Fatalf("legacy transaction must get the default signer, got %+v", trxs)
	}

	dues := s.TagihanBulanan()
	if len(dues) != 1 {
		t.Fatalf("expected 1 due, got %d", len(dues))
	}
	if dues[0].JumlahKas != core.BiayaKasBulanan || dues[0].JumlahSyahriyah != core.BiayaSyahriyahBulanan {
		t.Fatalf("due not re-stamped: (%d, %d)", dues[0].JumlahKas, dues[0].JumlahSyahriyah)
	}
	if dues[0].TanggalJatuhTempo != "2024-03-10" {
		t.Fatalf("jatuh tempo = %s, want 2024-03-10", dues[0].TanggalJatuhTempo)
	}
}

func TestSettleDue_DualWrite(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{testSantri("s1", "2024-02-01")})

	pub := &capturePublisher{}
	s := New(kv, WithClock(func() time.Time { return testNow }), WithPublisher(pub))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s.SettleDue(context.Background(), "s1", 2, 2024, core.TrackKas, "Budi")

	dues := s.GetTagihanSantri("s1")
	var feb core.TagihanBulanan
	for _, d := range dues {
		if d.Bulan == 2 {
			feb = d
		}
	}
	if feb.StatusKas != core.Lunas || feb.TTDKas != "Budi" {
		t.Fatalf("due not settled: %+v", feb)
	}

	trxs := s.Transaksis()
	if len(trxs) != 1 {
		t.Fatalf("expected 1 settlement transaction, got %d", len(trxs))
	}
	trx := trxs[0]
	if trx.ID == "" || trx.CreatedAt == "" {
		t.Fatal("settlement transaction must carry ID and CreatedAt")
	}
	if trx.Jumlah != core.BiayaKasBulanan || trx.Jenis != core.Pemasukan {
		t.Fatalf("transaction = %+v", trx)
	}

	if got := pub.published(); len(got) != 1 || got[0] != trx.ID {
		t.Fatalf("published ids = %v, want [%s]", got, trx.ID)
	}

	// Both collections reached the store.
	for _, key := range []string{storage.KeyTagihan, storage.KeyTransaksis} {
		if _, ok, _ := kv.Get(key); !ok {
			t.Fatalf("%s not persisted", key)
		}
	}
}

func TestSettleDue_UnknownDueNoTransaction(t *testing.T) {
	kv := storage.NewMemoryKV()
	pub := &capturePublisher{}
	s := New(kv, WithClock(func() time.Time { return testNow }), WithPublisher(pub))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s.SettleDue(context.Background(), "ghost", 2, 2024, core.TrackKas, "Budi")

	if len(s.Transaksis()) != 0 {
		t.Fatal("no transaction may be recorded for an unknown due")
	}
	if len(pub.published()) != 0 {
		t.Fatal("nothing may be published for an unknown due")
	}
}

func TestAddSantri_TriggersDebouncedGeneration(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := New(kv,
		WithClock(func() time.Time { return testNow }),
		WithGenerateDebounce(5*time.Millisecond))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	created, err := s.AddSantri(context.Background(), core.Santri{
		Nama: "Ahmad", TanggalMasuk: "2024-01-01", Status: core.SantriAktif,
	})
	if err != nil {
		t.Fatalf("AddSantri: %v", err)
	}
	if created.ID == "" {
		t.Fatal("AddSantri must assign an id")
	}

	waitFor(t, func() bool { return len(s.GetTagihanSantri(created.ID)) == 3 })
}

func TestUpdateSantri_EnrollmentChangeRebuildsDues(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{testSantri("s1", "2024-01-01")})

	s := New(kv,
		WithClock(func() time.Time { return testNow }),
		WithGenerateDebounce(5*time.Millisecond))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.GetTagihanSantri("s1")) != 3 {
		t.Fatalf("precondition: expected 3 dues")
	}

	updated := testSantri("s1", "2024-03-01")
	if _, err := s.UpdateSantri(context.Background(), "s1", updated); err != nil {
		t.Fatalf("UpdateSantri: %v", err)
	}

	// Old dues are dropped and only the months since the new enrollment
	// date come back.
	waitFor(t, func() bool {
		dues := s.GetTagihanSantri("s1")
		return len(dues) == 1 && dues[0].Bulan == 3
	})
}

func TestDeleteSantri_CascadesToDues(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{
		testSantri("s1", "2024-01-01"),
		testSantri("s2", "2024-03-01"),
	})

	s := New(kv,
		WithClock(func() time.Time { return testNow }),
		WithGenerateDebounce(5*time.Millisecond))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.DeleteSantri(context.Background(), "s1"); err != nil {
		t.Fatalf("DeleteSantri: %v", err)
	}
	if len(s.GetTagihanSantri("s1")) != 0 {
		t.Fatal("dues of a deleted santri must be dropped")
	}
	if len(s.Santris()) != 1 {
		t.Fatal("roster must shrink to one")
	}

	if err := s.DeleteSantri(context.Background(), "ghost"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResetMonthlyDues(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{testSantri("s1", "2024-01-01")})

	s := New(kv, WithClock(func() time.Time { return testNow }))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Settle one track, then reset: the payment is gone, the ledger fresh.
	s.SettleDue(context.Background(), "s1", 1, 2024, core.TrackKas, "Budi")

	n := s.ResetMonthlyDues(context.Background())
	if n != 3 {
		t.Fatalf("reset regenerated %d dues, want 3", n)
	}
	for _, d := range s.TagihanBulanan() {
		if d.StatusKas == core.Lunas {
			t.Fatal("reset must rebuild dues unpaid")
		}
	}
}

func TestAddTransaksi_ValidatesAndPublishes(t *testing.T) {
	kv := storage.NewMemoryKV()
	pub := &capturePublisher{}
	s := New(kv, WithClock(func() time.Time { return testNow }), WithPublisher(pub))
	defer s.Close()

	if _, err := s.AddTransaksi(context.Background(), core.Transaksi{
		Tanggal: "2024-03-01", Jumlah: 0, Jenis: core.Pemasukan, Kategori: "kas",
	}); err != core.ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	created, err := s.AddTransaksi(context.Background(), core.Transaksi{
		Tanggal: "2024-03-01", Jumlah: 25_000, Jenis: core.Pengeluaran, Kategori: "listrik", TTD: "Admin",
	})
	if err != nil {
		t.Fatalf("AddTransaksi: %v", err)
	}
	if created.ID == "" || created.CreatedAt == "" {
		t.Fatal("AddTransaksi must stamp ID and CreatedAt")
	}

	if got, ok := s.GetTransaksi(created.ID); !ok || got.Kategori != "listrik" {
		t.Fatalf("GetTransaksi = (%+v, %v)", got, ok)
	}
	if got := pub.published(); len(got) != 1 || got[0] != created.ID {
		t.Fatalf("published ids = %v", got)
	}
}

func TestUpdateTransaksi_KeepsCreatedAt(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := New(kv, WithClock(func() time.Time { return testNow }))
	defer s.Close()

	created, err := s.AddTransaksi(context.Background(), core.Transaksi{
		Tanggal: "2024-03-01", Jumlah: 25_000, Jenis: core.Pengeluaran, Kategori: "listrik", TTD: "Admin",
	})
	if err != nil {
		t.Fatalf("AddTransaksi: %v", err)
	}

	updated, err := s.UpdateTransaksi(context.Background(), created.ID, core.Transaksi{
		Tanggal: "2024-03-02", Jumlah: 30_000, Jenis: core.Pengeluaran, Kategori: "listrik", TTD: "Admin",
	})
	if err != nil {
		t.Fatalf("UpdateTransaksi: %v", err)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatal("update must keep the original CreatedAt")
	}
	if updated.Jumlah != 30_000 {
		t.Fatalf("Jumlah = %d, want 30000", updated.Jumlah)
	}
}

func TestDeleteTransaksi_LeavesSettledDuePaid(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{testSantri("s1", "2024-03-01")})

	s := New(kv, WithClock(func() time.Time { return testNow }))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s.SettleDue(context.Background(), "s1", 3, 2024, core.TrackKas, "Budi")
	trxs := s.Transaksis()
	if len(trxs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(trxs))
	}

	if err := s.DeleteTransaksi(context.Background(), trxs[0].ID); err != nil {
		t.Fatalf("DeleteTransaksi: %v", err)
	}

	dues := s.GetTagihanSantri("s1")
	if dues[0].StatusKas != core.Lunas {
		t.Fatal("deleting the settlement transaction must not un-pay the due")
	}
}

func TestDashboard(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{
		testSantri("s1", "2024-02-01"),
		{ID: "s2", Nama: "Nonaktif", TanggalMasuk: "2024-01-01", Status: core.SantriNonaktif},
	})
	seedKV(t, kv, storage.KeyTransaksis, []core.Transaksi{
		{ID: "t1", Tanggal: "2024-03-01", Jumlah: 100_000, Jenis: core.Pemasukan, Kategori: "donasi", TTD: "Admin"},
		{ID: "t2", Tanggal: "2024-03-02", Jumlah: 40_000, Jenis: core.Pengeluaran, Kategori: "listrik", TTD: "Admin"},
	})

	s := New(kv, WithClock(func() time.Time { return testNow }))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	stats := s.Dashboard()
	if stats.TotalPemasukan != 100_000 || stats.TotalPengeluaran != 40_000 || stats.TotalSaldo != 60_000 {
		t.Fatalf("money totals = %+v", stats)
	}
	if stats.TotalSantri != 1 {
		t.Fatalf("TotalSantri = %d, want 1 (only active)", stats.TotalSantri)
	}
	// s1 owes Feb and Mar, both past the 10th: 2 x 60000.
	if stats.TotalTunggakan != 120_000 || stats.SantriTunggakan != 1 {
		t.Fatalf("arrears = (%d, %d), want (120000, 1)", stats.TotalTunggakan, stats.SantriTunggakan)
	}
}
