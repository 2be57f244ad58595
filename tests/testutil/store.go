package testutil

import (
	"context"
	"testing"

	"github.com/maildeck/maildeck/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewSeededStore creates an in-memory store populated with the sample
// mailbox.
func NewSeededStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s := NewTestStore(t)
	if err := s.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("seeding test store: %v", err)
	}
	return s
}
