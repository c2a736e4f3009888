package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oqba26/monthlypay/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "monthlypay-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func somePersons() []models.Person {
	uid := "owner-1"
	return []models.Person{
		{ID: "p1", Name: "Ali", UserID: &uid, CreatedAt: 1000},
		{ID: "p2", Name: "sara", CreatedAt: 2000},
	}
}

func somePayments() []models.PaymentRecord {
	return []models.PaymentRecord{
		{ID: "m1", PersonID: "p1", Amount: 200000, ShamsiYear: 1403, ShamsiMonth: 1, Timestamp: 10},
		{ID: "m2", PersonID: "p1", Amount: 250000, ShamsiYear: 1403, ShamsiMonth: 2, Timestamp: 20},
		{ID: "m3", PersonID: "p2", Amount: 200000, ShamsiYear: 1403, ShamsiMonth: 1, Timestamp: 30},
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("ReplaceAll inserts and lists", func(t *testing.T) {
		if err := store.ReplaceAll(ctx, somePersons(), somePayments()); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}

		persons, err := store.ListPersons(ctx)
		if err != nil {
			t.Fatalf("ListPersons failed: %v", err)
		}
		if len(persons) != 2 {
			t.Fatalf("Expected 2 persons, got %d", len(persons))
		}
		// Ordered by name, case-insensitive
		if persons[0].Name != "Ali" || persons[1].Name != "sara" {
			t.Errorf("Unexpected order: %q, %q", persons[0].Name, persons[1].Name)
		}
		if persons[0].UserID == nil || *persons[0].UserID != "owner-1" {
			t.Errorf("UserID not preserved: %v", persons[0].UserID)
		}
		if persons[1].UserID != nil {
			t.Errorf("Expected nil UserID, got %v", *persons[1].UserID)
		}

		payments, err := store.ListPayments(ctx)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 3 {
			t.Fatalf("Expected 3 payments, got %d", len(payments))
		}
		// Newest first
		if payments[0].ID != "m3" || payments[2].ID != "m1" {
			t.Errorf("Unexpected payment order: %s ... %s", payments[0].ID, payments[2].ID)
		}
	})

	t.Run("ListPaymentsForPerson filters", func(t *testing.T) {
		payments, err := store.ListPaymentsForPerson(ctx, "p1")
		if err != nil {
			t.Fatalf("ListPaymentsForPerson failed: %v", err)
		}
		if len(payments) != 2 {
			t.Fatalf("Expected 2 payments for p1, got %d", len(payments))
		}
		for _, rec := range payments {
			if rec.PersonID != "p1" {
				t.Errorf("Got payment for %s", rec.PersonID)
			}
		}
	})

	t.Run("ReplaceAll with empty snapshot empties tables", func(t *testing.T) {
		if err := store.ReplaceAll(ctx, nil, nil); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}
		persons, _ := store.ListPersons(ctx)
		payments, _ := store.ListPayments(ctx)
		if len(persons) != 0 || len(payments) != 0 {
			t.Errorf("Expected empty store, got %d persons, %d payments", len(persons), len(payments))
		}
	})
}

func TestReplaceAllAtomicity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, somePersons(), somePayments()); err != nil {
		t.Fatalf("Seeding ReplaceAll failed: %v", err)
	}

	// A duplicate primary key in the incoming set forces the insert phase to
	// fail after the delete phase has run.
	bad := []models.Person{
		{ID: "dup", Name: "First", CreatedAt: 1},
		{ID: "dup", Name: "Second", CreatedAt: 2},
	}
	if err := store.ReplaceAll(ctx, bad, nil); err == nil {
		t.Fatal("Expected ReplaceAll to fail on duplicate id")
	}

	// The failed replace must have rolled back completely.
	persons, err := store.ListPersons(ctx)
	if err != nil {
		t.Fatalf("ListPersons failed: %v", err)
	}
	if len(persons) != 2 {
		t.Fatalf("Expected old state (2 persons) after rollback, got %d", len(persons))
	}
	payments, err := store.ListPayments(ctx)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("Expected old state (3 payments) after rollback, got %d", len(payments))
	}
}

func TestSubscribe(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ch, cancel := store.Subscribe()
	defer cancel()

	if err := store.ReplaceAll(ctx, somePersons(), nil); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("Expected a change notification after ReplaceAll")
	}

	// A failed replace must not notify.
	bad := []models.Person{{ID: "x", Name: "a"}, {ID: "x", Name: "b"}}
	if err := store.ReplaceAll(ctx, bad, nil); err == nil {
		t.Fatal("Expected ReplaceAll to fail")
	}
	select {
	case <-ch:
		t.Fatal("Got a notification for a rolled-back transaction")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := store.GetSetting(ctx, "nope")
		if err != nil {
			t.Fatalf("GetSetting failed: %v", err)
		}
		if ok {
			t.Error("Expected missing key")
		}
	})

	t.Run("set, overwrite, delete", func(t *testing.T) {
		if err := store.SetSetting(ctx, "font", "Estedad"); err != nil {
			t.Fatalf("SetSetting failed: %v", err)
		}
		if err := store.SetSetting(ctx, "font", "Vazir"); err != nil {
			t.Fatalf("SetSetting overwrite failed: %v", err)
		}
		value, ok, err := store.GetSetting(ctx, "font")
		if err != nil || !ok {
			t.Fatalf("GetSetting failed: %v ok=%v", err, ok)
		}
		if value != "Vazir" {
			t.Errorf("Expected Vazir, got %q", value)
		}

		if err := store.DeleteSetting(ctx, "font"); err != nil {
			t.Fatalf("DeleteSetting failed: %v", err)
		}
		_, ok, _ = store.GetSetting(ctx, "font")
		if ok {
			t.Error("Expected key gone after delete")
		}
		// Deleting again is not an error
		if err := store.DeleteSetting(ctx, "font"); err != nil {
			t.Errorf("DeleteSetting on missing key failed: %v", err)
		}
	})
}
