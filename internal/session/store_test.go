package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestStoreCreateGetDelete(t *testing.T) {
	st := NewStore(nil, StoreConfig{}, zap.NewNop())
	defer st.Close()

	s, err := st.Create()
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if s.ID() == "" {
		t.Fatal("expected a session id")
	}

	got, err := st.Get(s.ID())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != s {
		t.Fatal("expected Get to return the created session")
	}

	if err := st.Delete(s.ID()); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := st.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := st.Delete(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestStoreSessionsAreIndependent(t *testing.T) {
	st := NewStore(nil, StoreConfig{}, zap.NewNop())
	defer st.Close()

	a, _ := st.Create()
	b, _ := st.Create()

	press(t, a, "1", "2")
	press(t, b, "9")

	if got := a.Snapshot().State.CurrentOperand; got != "12" {
		t.Fatalf("expected session a to read 12, got %q", got)
	}
	if got := b.Snapshot().State.CurrentOperand; got != "9" {
		t.Fatalf("expected session b to read 9, got %q", got)
	}
}

func TestStoreMaxSessions(t *testing.T) {
	st := NewStore(nil, StoreConfig{MaxSessions: 2}, zap.NewNop())
	defer st.Close()

	for i := 0; i < 2; i++ {
		if _, err := st.Create(); err != nil {
			t.Fatalf("Create %d returned error: %v", i, err)
		}
	}
	if _, err := st.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", st.Len())
	}
}

func TestStoreSweepEvictsIdleSessions(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(nil, StoreConfig{TTL: time.Minute}, zap.NewNop())
	st.now = func() time.Time { return now }
	defer st.Close()

	idle, _ := st.Create()
	now = now.Add(50 * time.Second)
	active, _ := st.Create()
	press(t, active, "1")

	if n := st.Sweep(now.Add(30 * time.Second)); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, err := st.Get(idle.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session to be evicted, got %v", err)
	}
	if _, err := st.Get(active.ID()); err != nil {
		t.Fatalf("expected active session to survive, got %v", err)
	}
}

func TestStoreSweepWithoutTTLKeepsEverything(t *testing.T) {
	st := NewStore(nil, StoreConfig{}, zap.NewNop())
	defer st.Close()

	st.Create()
	if n := st.Sweep(time.Now().Add(24 * time.Hour)); n != 0 {
		t.Fatalf("expected no evictions, got %d", n)
	}
}

func TestStoreRunStopsOnContextCancel(t *testing.T) {
	st := NewStore(nil, StoreConfig{TTL: time.Minute, SweepInterval: time.Millisecond}, zap.NewNop())
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStoreCloseClosesSessions(t *testing.T) {
	st := NewStore(nil, StoreConfig{}, zap.NewNop())
	s, _ := st.Create()
	ch := s.Subscribe()

	st.Close()

	if st.Len() != 0 {
		t.Fatalf("expected empty store, got %d", st.Len())
	}
	select {
	case _, ok := <-ch:
		if ok {
			// Drain anything published before close.
			for range ch {
			}
		}
	case <-time.After(time.Second):
		t.Fatal("expected subscriber channel to be closed")
	}
}
