package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"worktracker/internal/core"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "worktracker.json")

	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	// Nothing saved yet.
	if _, err := fs.Load(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	d := Seed()
	if err := fs.Save(ctx, d); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, d) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, d)
	}
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "worktracker.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	_, err = fs.Load(ctx)
	if !errors.Is(err, core.ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestFileStoreEmptyFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worktracker.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Load(context.Background()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty file, got %v", err)
	}
}

func TestFileStoreOverwritesWholeSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "worktracker.json")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Save(ctx, Seed()); err != nil {
		t.Fatal(err)
	}
	small := &core.Dataset{Users: Seed().Users}
	if err := fs.Save(ctx, small); err != nil {
		t.Fatal(err)
	}

	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Entries) != 0 {
		t.Fatalf("old entries survived the overwrite: %+v", got.Entries)
	}
}

func TestMemStoreContract(t *testing.T) {
	ctx := context.Background()
	ms := NewMemStore()

	if _, err := ms.Load(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	d := Seed()
	if err := ms.Save(ctx, d); err != nil {
		t.Fatal(err)
	}

	got, err := ms.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Mutating what Load returned must not reach the stored snapshot.
	got.Entries[0].Title = "changed"
	again, _ := ms.Load(ctx)
	if again.Entries[0].Title != "Website Design" {
		t.Fatal("MemStore leaked its internal dataset")
	}
}

func TestSeedIsCanonical(t *testing.T) {
	d := Seed()
	if len(d.Users) != 3 || len(d.Entries) != 1 {
		t.Fatalf("seed shape: %d users, %d entries", len(d.Users), len(d.Entries))
	}

	roles := map[int64]core.Role{1: core.RoleAdmin, 2: core.RoleMiddleman, 3: core.RoleUser}
	for id, want := range roles {
		u, ok := d.UserByID(id)
		if !ok || u.Role != want {
			t.Errorf("user %d: got %+v", id, u)
		}
	}

	e := d.Entries[0]
	if e.ID != 101 || e.UserID != 3 || e.MiddlemanID != 2 {
		t.Errorf("seed entry references: %+v", e)
	}
	if e.AmountAgreed != 5000000 || e.AmountReceived != 2500000 {
		t.Errorf("seed entry amounts: %d / %d", e.AmountAgreed, e.AmountReceived)
	}
	if e.CommissionCents() != 250000 {
		t.Errorf("seed commission = %d, want 250000", e.CommissionCents())
	}

	// Seed calls are independent of each other.
	other := Seed()
	other.Entries[0].Notes = "scribbled"
	if Seed().Entries[0].Notes != "Half paid upfront" {
		t.Fatal("Seed returns shared state")
	}
}

func TestOpenFactory(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file", Config{Backend: FileBackend, SnapshotPath: filepath.Join(dir, "wt.json")}, false},
		{"memory", Config{Backend: MemoryBackend}, false},
		{"unknown", Config{Backend: "redis"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Open(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if res.Store == nil {
				t.Fatal("nil store")
			}
		})
	}
}
