package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errFlaky = errors.New("connection reset")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get(k) = hit %v, err %v", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get(k) = %q, want payload", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned as hit")
	}

	// Zero TTL never expires.
	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL should be a hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("no header line"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheBinaryPayload(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	payload := []byte("Title,Name\nA,\xe9mile\n\x00\n")
	if err := c.Set(ctx, "table", payload, time.Hour); err != nil {
		t.Fatal(err)
	}
	got, hit, err := c.Get(ctx, "table")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload changed: %q", got)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "live", []byte("a"), time.Hour)
	_ = c.Set(ctx, "dead", []byte("b"), time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	n, err := c.Clear(ctx, true)
	if err != nil {
		t.Fatalf("Clear(expiredOnly): %v", err)
	}
	if n != 1 {
		t.Errorf("Clear(expiredOnly) removed %d, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "live"); !hit {
		t.Error("live entry removed by expired-only clear")
	}

	n, err = c.Clear(ctx, false)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 1 {
		t.Errorf("Clear removed %d, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "live"); hit {
		t.Error("entry survived full clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashJSON(t *testing.T) {
	a, err := HashJSON(map[string]int{"x": 1, "y": 2})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashJSON(map[string]int{"y": 2, "x": 1})
	if a != b {
		t.Error("map key order should not change the hash")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON(func) should fail")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	t1 := k.TableKey("s3://bucket/artists.csv", TableKeyOpts{Kind: "artists"})
	t2 := k.TableKey("s3://bucket/artists.csv", TableKeyOpts{Kind: "memberships"})
	t3 := k.TableKey("s3://bucket/other.csv", TableKeyOpts{Kind: "artists"})
	if t1 == t2 || t1 == t3 {
		t.Error("different table inputs should produce different keys")
	}
	if !strings.HasPrefix(t1, "table:") {
		t.Errorf("TableKey = %q, want table: prefix", t1)
	}
	if t1 != k.TableKey("s3://bucket/artists.csv", TableKeyOpts{Kind: "artists"}) {
		t.Error("TableKey should be deterministic")
	}

	a1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	a2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	a3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Labels: true})
	if a1 == a2 || a1 == a3 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(a1, "artifact:") {
		t.Errorf("ArtifactKey = %q, want artifact: prefix", a1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	want := "staging:" + inner.TableKey("a.csv", TableKeyOpts{Kind: "artists"})
	if got := scoped.TableKey("a.csv", TableKeyOpts{Kind: "artists"}); got != want {
		t.Errorf("TableKey = %q, want %q", got, want)
	}
	want = "staging:" + inner.ArtifactKey("h", ArtifactKeyOpts{Format: "dot"})
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "dot"}); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if key != "prefix:"+NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errFlaky)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errFlaky.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errFlaky) {
		t.Error("wrapped error should unwrap")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = time.Second })
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrUnavailable
	})
	if err != ErrUnavailable || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errFlaky)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errFlaky)
	})
	if !errors.Is(err, errFlaky) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errFlaky)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
