package state

import (
	"context"
	"testing"
	"time"

	"pondok/internal/core"
	"pondok/internal/storage"
)

func TestRefresher_StartStop(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := New(kv, WithClock(func() time.Time { return testNow }))
	defer s.Close()

	r := NewRefresher(s, time.Hour)
	if r.IsRunning() {
		t.Fatal("refresher must not be running initially")
	}

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !r.IsRunning() {
		t.Fatal("refresher must report running after Start")
	}

	if err := r.Start(ctx); err == nil {
		t.Fatal("second Start must fail")
	}

	if err := r.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if r.IsRunning() {
		t.Fatal("refresher must report stopped after Stop")
	}

	// Stop on a stopped refresher is a no-op.
	if err := r.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestRefresher_DefaultInterval(t *testing.T) {
	r := NewRefresher(nil, 0)
	if r.interval != DefaultRefreshInterval {
		t.Fatalf("interval = %v, want %v", r.interval, DefaultRefreshInterval)
	}
}

func TestRefresher_MountPassAdvancesStatuses(t *testing.T) {
	kv := storage.NewMemoryKV()
	seedKV(t, kv, storage.KeySantris, []core.Santri{testSantri("s1", "2024-03-01")})

	// Generate before the due date, then start the refresher with the clock
	// moved past it.
	early := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	clock := early
	s := New(kv, WithClock(func() time.Time { return clock }))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dues := s.TagihanBulanan(); dues[0].StatusKas != core.BelumLunas {
		t.Fatalf("precondition: status = %s", dues[0].StatusKas)
	}

	clock = testNow // March 15

	r := NewRefresher(s, time.Hour)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Stop(context.Background())

	waitFor(t, func() bool {
		dues := s.TagihanBulanan()
		return len(dues) == 1 && dues[0].StatusKas == core.Terlambat
	})
}
