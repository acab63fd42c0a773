package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "moneyx.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	if _, ok, err := repo.Load(ctx, "user-1"); err != nil || ok {
		t.Fatalf("Load() on empty db = ok:%v err:%v", ok, err)
	}

	want := store.MockState("user-1")
	if err := repo.Save(ctx, "user-1", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, ok, err := repo.Load(ctx, "user-1")
	if err != nil || !ok {
		t.Fatalf("Load() = ok:%v err:%v", ok, err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	if _, ok, _ := repo.Load(ctx, "someone-else"); ok {
		t.Error("snapshots must be scoped per user")
	}
}

func TestSnapshotVersion(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, "u", store.Empty("u")); err != nil {
			t.Fatal(err)
		}
	}
	if v, err := repo.SnapshotVersion(ctx, "u"); err != nil || v != 3 {
		t.Fatalf("SnapshotVersion() = %d, %v; want 3", v, err)
	}
	if v, err := repo.SnapshotVersion(ctx, "nobody"); err != nil || v != 0 {
		t.Errorf("version of missing snapshot = %d, %v", v, err)
	}
}

func TestStoreCommitsThroughRepository(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	s := store.New(store.WithPersister(repo))
	s.Seed(ctx, "u", store.Empty("u"))
	err := s.Update(ctx, "u", func(st *store.State) error {
		st.Accounts = append(st.Accounts, core.Account{ID: "a", Name: "Cash", Type: core.Cash, Balance: decimal.RequireFromString("12.50")})
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, ok, err := repo.Load(ctx, "u")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if a := got.Account("a"); a == nil || !a.Balance.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("persisted account = %+v", a)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moneyx.db")
	for i := 0; i < 2; i++ {
		repo, err := NewSQLiteRepository(path, nil)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		repo.Close()
	}
}

func TestSheetExports(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	if _, ok, err := repo.ExportRef(ctx, "txn-1"); err != nil || ok {
		t.Fatalf("ExportRef() on empty = %v, %v", ok, err)
	}
	if err := repo.RecordExport(ctx, "u", "txn-1", "Transactions!A2:G2"); err != nil {
		t.Fatal(err)
	}
	if err := repo.RecordExport(ctx, "u", "txn-1", "Transactions!A9:G9"); err != nil {
		t.Fatal(err)
	}
	ref, ok, err := repo.ExportRef(ctx, "txn-1")
	if err != nil || !ok || ref != "Transactions!A9:G9" {
		t.Fatalf("ExportRef() = %q, %v, %v", ref, ok, err)
	}
	if n, _ := repo.ExportCount(ctx, "u"); n != 1 {
		t.Errorf("ExportCount() = %d, want 1", n)
	}

	if err := repo.ForgetExport(ctx, "txn-1"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := repo.ExportRef(ctx, "txn-1"); ok {
		t.Error("export still recorded after ForgetExport")
	}
}
