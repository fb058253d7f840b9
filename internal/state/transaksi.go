package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pondok/internal/core"
	"pondok/internal/storage"
)

// Transaksis returns a copy of the transaction book.
func (s *AppState) Transaksis() []core.Transaksi {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaksi(nil), s.transaksis...)
}

// AddTransaksi validates and stores a manually entered transaction and
// notifies the report pipeline.
func (s *AppState) AddTransaksi(ctx context.Context, trx core.Transaksi) (core.Transaksi, error) {
	if err := trx.Validate(); err != nil {
		return core.Transaksi{}, err
	}
	trx.ID = uuid.NewString()
	trx.CreatedAt = s.now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	s.transaksis = append(s.transaksis, trx)
	s.persist(ctx, storage.KeyTransaksis, s.transaksis)
	s.mu.Unlock()

	s.publishSync(ctx, trx.ID)

	slog.InfoContext(ctx, "Transaksi added",
		"id", trx.ID, "jenis", trx.Jenis, "kategori", trx.Kategori, "jumlah", trx.Jumlah)
	return trx, nil
}

// UpdateTransaksi replaces the transaction with the given id, keeping its
// original creation timestamp.
func (s *AppState) UpdateTransaksi(ctx context.Context, id string, trx core.Transaksi) (core.Transaksi, error) {
	if err := trx.Validate(); err != nil {
		return core.Transaksi{}, err
	}

	s.mu.Lock()
	for i := range s.transaksis {
		if s.transaksis[i].ID != id {
			continue
		}
		trx.ID = id
		trx.CreatedAt = s.transaksis[i].CreatedAt
		s.transaksis[i] = trx
		s.persist(ctx, storage.KeyTransaksis, s.transaksis)
		s.mu.Unlock()

		s.publishSync(ctx, id)
		slog.InfoContext(ctx, "Transaksi updated", "id", id)
		return trx, nil
	}
	s.mu.Unlock()
	return core.Transaksi{}, ErrNotFound
}

// DeleteTransaksi removes a transaction unconditionally. A due settled by
// this transaction stays marked paid; the two records are not reconciled
// after creation.
func (s *AppState) DeleteTransaksi(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.transaksis[:0]
	found := false
	for _, trx := range s.transaksis {
		if trx.ID == id {
			found = true
			continue
		}
		kept = append(kept, trx)
	}
	if !found {
		return ErrNotFound
	}
	s.transaksis = kept
	s.persist(ctx, storage.KeyTransaksis, s.transaksis)

	slog.InfoContext(ctx, "Transaksi deleted", "id", id)
	return nil
}

// GetTransaksi returns a single transaction by id; used by the report
// worker to resolve sync messages.
func (s *AppState) GetTransaksi(id string) (core.Transaksi, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, trx := range s.transaksis {
		if trx.ID == id {
			return trx, true
		}
	}
	return core.Transaksi{}, false
}

// publishSync hands a transaction id to the report pipeline. Publish
// failures never fail the mutation; the record is already persisted.
func (s *AppState) publishSync(ctx context.Context, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction sync", "id", id, "error", err)
	}
}

// Pembayarans returns a copy of the standalone payment records.
func (s *AppState) Pembayarans() []core.Pembayaran {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Pembayaran(nil), s.pembayarans...)
}

func (s *AppState) AddPembayaran(ctx context.Context, p core.Pembayaran) (core.Pembayaran, error) {
	if p.Jumlah <= 0 {
		return core.Pembayaran{}, core.ErrInvalidAmount
	}
	p.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pembayarans = append(s.pembayarans, p)
	s.persist(ctx, storage.KeyPembayarans, s.pembayarans)
	return p, nil
}

func (s *AppState) UpdatePembayaran(ctx context.Context, id string, p core.Pembayaran) (core.Pembayaran, error) {
	if p.Jumlah <= 0 {
		return core.Pembayaran{}, core.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pembayarans {
		if s.pembayarans[i].ID != id {
			continue
		}
		p.ID = id
		s.pembayarans[i] = p
		s.persist(ctx, storage.KeyPembayarans, s.pembayarans)
		return p, nil
	}
	return core.Pembayaran{}, ErrNotFound
}

func (s *AppState) DeletePembayaran(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.pembayarans[:0]
	found := false
	for _, p := range s.pembayarans {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrNotFound
	}
	s.pembayarans = kept
	s.persist(ctx, storage.KeyPembayarans, s.pembayarans)
	return nil
}
