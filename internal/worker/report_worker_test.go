package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"pondok/internal/amqp"
	"pondok/internal/core"
	"pondok/internal/sheets/memory"
	"pondok/internal/state"
	"pondok/internal/storage"
)

type failingWriter struct{}

func (failingWriter) AppendTransaction(context.Context, core.Transaksi) (string, error) {
	return "", errors.New("quota exceeded")
}

func newWorkerState(t *testing.T) *state.AppState {
	t.Helper()
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	s := state.New(storage.NewMemoryKV(), state.WithClock(func() time.Time { return now }))
	t.Cleanup(s.Close)
	return s
}

func TestHandleSyncMessage_MirrorsTransaction(t *testing.T) {
	s := newWorkerState(t)
	trx, err := s.AddTransaksi(context.Background(), core.Transaksi{
		Tanggal: "2024-03-15", Jumlah: 10_000, Jenis: core.Pemasukan, Kategori: "kas", TTD: "Budi",
	})
	if err != nil {
		t.Fatalf("AddTransaksi: %v", err)
	}

	store := memory.New()
	w := NewReportWorker(s, store)

	msg := amqp.NewTransactionSyncMessage(trx.ID)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 report row, got %d", len(rows))
	}
	if rows[0].ID != trx.ID || rows[0].Jumlah != 10_000 {
		t.Fatalf("row = %+v", rows[0])
	}
}

func TestHandleSyncMessage_DeletedTransactionDropped(t *testing.T) {
	s := newWorkerState(t)
	store := memory.New()
	w := NewReportWorker(s, store)

	msg := amqp.NewTransactionSyncMessage("gone")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("a missing transaction must be dropped without error, got %v", err)
	}
	if len(store.Rows()) != 0 {
		t.Fatal("nothing may be appended for a missing transaction")
	}
}

func TestHandleSyncMessage_WriterErrorPropagates(t *testing.T) {
	s := newWorkerState(t)
	trx, err := s.AddTransaksi(context.Background(), core.Transaksi{
		Tanggal: "2024-03-15", Jumlah: 10_000, Jenis: core.Pemasukan, Kategori: "kas", TTD: "Budi",
	})
	if err != nil {
		t.Fatalf("AddTransaksi: %v", err)
	}

	w := NewReportWorker(s, failingWriter{})
	if err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(trx.ID)); err == nil {
		t.Fatal("writer failures must propagate so the message is redelivered")
	}
}
