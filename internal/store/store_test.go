package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
)

type failingPersister struct{ calls int }

func (f *failingPersister) Save(ctx context.Context, userID string, s State) error {
	f.calls++
	return errors.New("disk full")
}

type recordingPersister struct{ saved []State }

func (r *recordingPersister) Save(ctx context.Context, userID string, s State) error {
	r.saved = append(r.saved, s.Clone())
	return nil
}

func TestUpdateRequiresActiveUser(t *testing.T) {
	s := New()
	err := s.Update(context.Background(), "user-123", func(*State) error { return nil })
	if !errors.Is(err, core.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure, got %v", err)
	}

	s.Seed(context.Background(), "user-123", MockState("user-123"))
	err = s.Update(context.Background(), "someone-else", func(*State) error { return nil })
	if !errors.Is(err, core.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure for foreign user, got %v", err)
	}
}

func TestUpdateDiscardsDraftOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed(ctx, "u", MockState("u"))

	boom := errors.New("boom")
	err := s.Update(ctx, "u", func(st *State) error {
		st.Account("acc-1").Balance = decimal.Zero
		st.RemoveBill("bill-1")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	snap, _ := s.Snapshot()
	if !snap.Account("acc-1").Balance.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("balance changed: %s", snap.Account("acc-1").Balance)
	}
	if snap.Bill("bill-1") == nil {
		t.Fatalf("bill removed despite failed update")
	}
}

func TestUpdatePersisterFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	p := &failingPersister{}
	s := New(WithPersister(p))
	s.Seed(ctx, "u", MockState("u"))

	err := s.Update(ctx, "u", func(st *State) error {
		st.Account("acc-1").Balance = decimal.NewFromInt(1)
		return nil
	})
	if err == nil {
		t.Fatalf("expected persist error")
	}
	if p.calls != 1 {
		t.Fatalf("expected one save, got %d", p.calls)
	}
	snap, _ := s.Snapshot()
	if !snap.Account("acc-1").Balance.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("balance changed: %s", snap.Account("acc-1").Balance)
	}
}

func TestUpdateCommitsAndPersists(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{}
	s := New(WithPersister(p))
	s.Seed(ctx, "u", MockState("u"))

	if err := s.Update(ctx, "u", func(st *State) error {
		st.RemoveGoal("goal-2")
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	snap, _ := s.Snapshot()
	if snap.Goal("goal-2") != nil {
		t.Fatalf("goal still present")
	}
	if len(p.saved) != 1 || p.saved[0].Goal("goal-2") != nil {
		t.Fatalf("persister did not receive committed state")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed(ctx, "u", MockState("u"))

	snap, ok := s.Snapshot()
	if !ok {
		t.Fatalf("expected loaded state")
	}
	snap.Budgets[0].Categories[0].Allocated = decimal.Zero
	*snap.Goals[0].TargetDate = core.NewDate(1999, 1, 1)
	snap.Accounts[0].Name = "changed"

	again, _ := s.Snapshot()
	if again.Budgets[0].Categories[0].Allocated.IsZero() {
		t.Fatalf("budget lines shared with snapshot")
	}
	if again.Goals[0].TargetDate.Year() == 1999 {
		t.Fatalf("goal target date shared with snapshot")
	}
	if again.Accounts[0].Name == "changed" {
		t.Fatalf("accounts shared with snapshot")
	}
}

func TestResetClearsState(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed(ctx, "u", MockState("u"))
	s.Reset()
	if _, ok := s.Owner(); ok {
		t.Fatalf("expected no owner after reset")
	}
	if _, ok := s.Snapshot(); ok {
		t.Fatalf("expected no snapshot after reset")
	}
}

func TestMockStateShape(t *testing.T) {
	st := MockState("user-123")
	cases := []struct {
		name string
		got  int
		want int
	}{
		{"categories", len(st.Categories), 12},
		{"accounts", len(st.Accounts), 4},
		{"transactions", len(st.Transactions), 7},
		{"bills", len(st.Bills), 4},
		{"goals", len(st.Goals), 3},
		{"budgets", len(st.Budgets), 1},
		{"notifications", len(st.Notifications), 4},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: got %d want %d", tc.name, tc.got, tc.want)
		}
	}
	for _, tx := range st.Transactions {
		if st.Category(tx.CategoryID) == nil {
			t.Errorf("transaction %s references unknown category %s", tx.ID, tx.CategoryID)
		}
		if st.Account(tx.AccountID) == nil {
			t.Errorf("transaction %s references unknown account %s", tx.ID, tx.AccountID)
		}
	}
}

func TestInitialStatePrefersSeedFile(t *testing.T) {
	dir := t.TempDir()

	st, err := InitialState(dir, "u")
	if err != nil {
		t.Fatalf("initial state: %v", err)
	}
	if len(st.Accounts) != 4 {
		t.Fatalf("expected mock dataset without seed file, got %d accounts", len(st.Accounts))
	}

	seed := `{"accounts":[{"id":"acc-x","name":"Wallet","type":"Cash","balance":"12.50","userId":"other"}]}`
	if err := os.WriteFile(filepath.Join(dir, SeedFileName), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err = InitialState(dir, "u")
	if err != nil {
		t.Fatalf("initial state: %v", err)
	}
	if len(st.Accounts) != 1 || st.Accounts[0].UserID != "u" {
		t.Fatalf("unexpected seeded accounts: %+v", st.Accounts)
	}
	if !st.Accounts[0].Balance.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("balance = %s", st.Accounts[0].Balance)
	}

	if err := os.WriteFile(filepath.Join(dir, SeedFileName), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := InitialState(dir, "u"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRemoveHelpersPreserveOrder(t *testing.T) {
	st := MockState("u")
	if !st.RemoveTransaction("trans-3") {
		t.Fatalf("expected removal")
	}
	if st.RemoveTransaction("trans-3") {
		t.Fatalf("second removal should report false")
	}
	want := []string{"trans-1", "trans-2", "trans-4", "trans-5", "trans-6", "trans-7"}
	for i, tx := range st.Transactions {
		if tx.ID != want[i] {
			t.Fatalf("position %d: got %s want %s", i, tx.ID, want[i])
		}
	}
}
