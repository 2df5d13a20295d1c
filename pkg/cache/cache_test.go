package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFileCache_SetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "render:abc", []byte("<div>fragment</div>"), 0); err != nil {
		t.Fatal(err)
	}

	data, hit, err := c.Get(ctx, "render:abc")
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if string(data) != "<div>fragment</div>" {
		t.Errorf("got %q", data)
	}
}

func TestFileCache_MissIsNotAnError(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	_, hit, err := c.Get(context.Background(), "render:absent")
	if err != nil {
		t.Fatalf("miss returned error: %v", err)
	}
	if hit {
		t.Error("expected miss")
	}
}

func TestFileCache_Expiry(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}

	_, hit, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCache_Delete(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry should be a miss")
	}

	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Errorf("delete of missing key: %v", err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)
	removed, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared cache should miss")
	}
}

func TestNullCache_AlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("null cache must never hit")
	}
}

func TestDefaultKeyer_Deterministic(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.RenderKey("flowchart", "A -> B", "title=T\n", "theme1")
	b := k.RenderKey("flowchart", "A -> B", "title=T\n", "theme1")
	if a != b {
		t.Errorf("identical inputs produced different keys: %q vs %q", a, b)
	}

	if k.RenderKey("flowchart", "A -> B", "", "t") == k.RenderKey("state", "A -> B", "", "t") {
		t.Error("kind must be part of the key")
	}
	if k.RenderKey("flowchart", "A -> B", "", "t1") == k.RenderKey("flowchart", "A -> B", "", "t2") {
		t.Error("theme must be part of the key")
	}
}

func TestScopedKeyer_Prefix(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "site:docs:")

	got := scoped.RenderKey("gantt", "x", "", "t")
	want := "site:docs:" + base.RenderKey("gantt", "x", "", "t")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRetryWithBackoff_NonRetryableFailsFast(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")

	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want sentinel", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable error called fn %d times, want 1", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if !IsRetryable(Retryable(errors.New("net"))) {
		t.Error("wrapped error should be retryable")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestHash_Stable(t *testing.T) {
	if Hash([]byte("abc")) != Hash([]byte("abc")) {
		t.Error("hash must be stable")
	}
	if len(Hash([]byte("abc"))) != 64 {
		t.Errorf("hash length = %d, want 64", len(Hash([]byte("abc"))))
	}
}
