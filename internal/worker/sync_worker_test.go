package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"worktracker/internal/amqp"
	"worktracker/internal/ledger"
	"worktracker/internal/store"
)

type mirrorRecorder struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (m *mirrorRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.calls = append(m.calls, r.Method+" "+r.URL.Path)
	fail := m.fail
	m.mu.Unlock()
	if fail {
		http.Error(w, "mirror down", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func TestHandleMirrorsUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, err := ledger.New(ctx, store.NewMemStore())
	if err != nil {
		t.Fatal(err)
	}
	mirror := &mirrorRecorder{}
	srv := httptest.NewServer(mirror)
	defer srv.Close()

	w := NewSyncWorker(nil, repo, srv.URL)

	if err := w.Handle(ctx, amqp.NewEntryEvent(101, amqp.OpUpsert)); err != nil {
		t.Fatalf("upsert mirror: %v", err)
	}
	if err := w.Handle(ctx, amqp.NewEntryEvent(101, amqp.OpDelete)); err != nil {
		t.Fatalf("delete mirror: %v", err)
	}

	want := []string{"PUT /entries/101", "DELETE /entries/101"}
	if len(mirror.calls) != 2 || mirror.calls[0] != want[0] || mirror.calls[1] != want[1] {
		t.Fatalf("mirror calls: %v, want %v", mirror.calls, want)
	}
}

func TestHandleSkipsVanishedEntry(t *testing.T) {
	ctx := context.Background()
	repo, err := ledger.New(ctx, store.NewMemStore())
	if err != nil {
		t.Fatal(err)
	}
	mirror := &mirrorRecorder{}
	srv := httptest.NewServer(mirror)
	defer srv.Close()

	w := NewSyncWorker(nil, repo, srv.URL)

	// Upserting an id the repository no longer has is not an error.
	if err := w.Handle(ctx, amqp.NewEntryEvent(999, amqp.OpUpsert)); err != nil {
		t.Fatalf("vanished entry should be skipped: %v", err)
	}
	if len(mirror.calls) != 0 {
		t.Fatalf("unexpected mirror calls: %v", mirror.calls)
	}
}

func TestHandleReportsMirrorFailure(t *testing.T) {
	ctx := context.Background()
	repo, err := ledger.New(ctx, store.NewMemStore())
	if err != nil {
		t.Fatal(err)
	}
	mirror := &mirrorRecorder{fail: true}
	srv := httptest.NewServer(mirror)
	defer srv.Close()

	w := NewSyncWorker(nil, repo, srv.URL)

	if err := w.Handle(ctx, amqp.NewEntryEvent(101, amqp.OpUpsert)); err == nil {
		t.Fatal("expected error so the event gets requeued")
	}
}
