package ledger

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.ReadAll(ctx); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound before init, got %v", err)
	}
	if err := s.Append(ctx, entry(t, "10-01-2024", "1", core.Income, "")); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable before init, got %v", err)
	}

	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{"03-01-2024", "01-01-2024", "02-01-2024"} {
		if err := s.Append(ctx, entry(t, d, "1", core.Expense, d)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadAll(ctx)
	if err != nil || len(got) != 3 {
		t.Fatalf("unexpected read: %v (err=%v)", got, err)
	}
	if got[0].Description != "03-01-2024" || got[2].Description != "02-01-2024" {
		t.Fatalf("order not preserved: %+v", got)
	}

	// mutating the snapshot must not affect the store
	got[0].Description = "changed"
	again, _ := s.ReadAll(ctx)
	if again[0].Description != "03-01-2024" {
		t.Fatalf("store mutated through snapshot")
	}
}
