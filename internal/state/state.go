// Package state owns the application's collections: the santri roster, the
// transaction book, the standalone payment records and the monthly due
// ledger. A single AppState instance is the composition root for all data
// access; every mutation updates the in-memory snapshot and mirrors the
// affected collection to the key-value store synchronously.
//
// A mutex serializes access where the original browser application relied on
// a single JavaScript thread. Persistence writes are fire-and-forget: a
// failing write is logged and execution continues, leaving memory
// authoritative until the next successful write.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pondok/internal/core"
	"pondok/internal/storage"
)

// TransactionPublisher notifies the report pipeline of a new or changed
// transaction. Implemented by the AMQP client; nil disables publishing.
type TransactionPublisher interface {
	PublishTransactionSync(ctx context.Context, id string) error
}

// DefaultGenerateDebounce is the settle-down delay between a roster change
// and the ledger regeneration it triggers.
const DefaultGenerateDebounce = 100 * time.Millisecond

type AppState struct {
	mu        sync.Mutex
	kv        storage.KV
	publisher TransactionPublisher
	now       func() time.Time
	debounce  time.Duration
	genTimer  *time.Timer

	santris     []core.Santri
	transaksis  []core.Transaksi
	pembayarans []core.Pembayaran
	tagihan     []core.TagihanBulanan
}

type Option func(*AppState)

// WithClock overrides the time source; tests pin the temporal logic with it.
func WithClock(now func() time.Time) Option {
	return func(s *AppState) { s.now = now }
}

// WithPublisher wires the transaction-sync publisher.
func WithPublisher(p TransactionPublisher) Option {
	return func(s *AppState) { s.publisher = p }
}

// WithGenerateDebounce overrides the roster-change regeneration delay.
func WithGenerateDebounce(d time.Duration) Option {
	return func(s *AppState) { s.debounce = d }
}

func New(kv storage.KV, opts ...Option) *AppState {
	s := &AppState{
		kv:       kv,
		now:      time.Now,
		debounce: DefaultGenerateDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads all collections from the store, applies one-time migrations and
// runs a generation pass so a month rollover is picked up at every process
// start (the process-start equivalent of an app reload).
func (s *AppState) Load(ctx context.Context) error {
	s.mu.Lock()

	if err := s.loadCollections(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.migrateLocked(ctx)
	s.mu.Unlock()

	n := s.GenerateMonthlyDues(ctx)
	slog.InfoContext(ctx, "State loaded",
		"santris", len(s.santris),
		"transaksis", len(s.transaksis),
		"tagihan", len(s.tagihan),
		"generated_dues", n)
	return nil
}

func (s *AppState) loadCollections(ctx context.Context) error {
	if err := s.loadKey(ctx, storage.KeySantris, &s.santris); err != nil {
		return err
	}
	if err := s.loadKey(ctx, storage.KeyTransaksis, &s.transaksis); err != nil {
		return err
	}
	if err := s.loadKey(ctx, storage.KeyPembayarans, &s.pembayarans); err != nil {
		return err
	}
	return s.loadKey(ctx, storage.KeyTagihan, &s.tagihan)
}

func (s *AppState) loadKey(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Close stops any pending debounced regeneration.
func (s *AppState) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genTimer != nil {
		s.genTimer.Stop()
		s.genTimer = nil
	}
}

// persist marshals a collection and writes it under key. Failures are logged
// and swallowed; the in-memory snapshot stays authoritative.
func (s *AppState) persist(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode collection", "key", key, "error", err)
		return
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		slog.ErrorContext(ctx, "Failed to persist collection", "key", key, "error", err)
	}
}

// scheduleGenerate arms (or re-arms) the debounced regeneration after a
// roster change. Callers must hold s.mu.
func (s *AppState) scheduleGenerate() {
	if s.genTimer != nil {
		s.genTimer.Stop()
	}
	s.genTimer = time.AfterFunc(s.debounce, func() {
		s.GenerateMonthlyDues(context.Background())
	})
}
