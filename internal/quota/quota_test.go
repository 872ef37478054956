package quota

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shagarchive/shagqa/internal/log"
)

func openTestCounter(t *testing.T, limit int) *Counter {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "quota.db"), limit, log.NewNop())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCounter_AllowsUnderLimit(t *testing.T) {
	c := openTestCounter(t, 3)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	ok, used, err := c.Allow(ctx, now)
	if err != nil {
		t.Fatalf("Allow() error: %v", err)
	}
	if !ok || used != 0 {
		t.Errorf("Allow() = (%v, %d), want (true, 0)", ok, used)
	}
}

func TestCounter_BlocksAtLimit(t *testing.T) {
	c := openTestCounter(t, 2)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for range 2 {
		if err := c.Record(ctx, now); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	ok, used, err := c.Allow(ctx, now)
	if err != nil {
		t.Fatalf("Allow() error: %v", err)
	}
	if ok {
		t.Error("Allow() = true at limit, want false")
	}
	if used != 2 {
		t.Errorf("used = %d, want 2", used)
	}
}

func TestCounter_ResetsNextDay(t *testing.T) {
	c := openTestCounter(t, 1)
	ctx := context.Background()
	day1 := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Hour)

	if err := c.Record(ctx, day1); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	if ok, _, _ := c.Allow(ctx, day1); ok {
		t.Error("Allow() should block on day one")
	}
	if ok, _, _ := c.Allow(ctx, day2); !ok {
		t.Error("Allow() should reset on the next calendar day")
	}
}

func TestCounter_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quota.db")
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	c, err := Open(path, 5, log.NewNop())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := c.Record(ctx, now); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	c.Close()

	reopened, err := Open(path, 5, log.NewNop())
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	_, used, err := reopened.Allow(ctx, now)
	if err != nil {
		t.Fatalf("Allow() error: %v", err)
	}
	if used != 1 {
		t.Errorf("used after reopen = %d, want 1", used)
	}
}
