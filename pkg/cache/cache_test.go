package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

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
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte(`{"a":1}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get(k) = hit %v, err %v", hit, err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Get(k) = %s", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned as hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := fc.(*FileCache)

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	fc, _ := NewFileCache(dir)
	c := fc.(*FileCache)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", c.Dir(), dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Clear should recreate the directory: %v", err)
	}
}

func TestFileCacheKinds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fc, _ := NewFileCache(dir)
	c := fc.(*FileCache)

	k := NewDefaultKeyer()
	rk := k.ResolveKey("doc", ResolveKeyOpts{ViewportW: 800, ViewportH: 600})
	ak := k.ArtifactKey("refs", ArtifactKeyOpts{Format: "svg"})
	_ = c.Set(ctx, rk, []byte("refs"), 0)
	_ = c.Set(ctx, ak, []byte("<svg/>"), 0)
	_ = c.Set(ctx, "loose", []byte("x"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	for _, kind := range []string{KindResolve, KindArtifact, "other"} {
		if _, err := os.Stat(filepath.Join(dir, kind)); err != nil {
			t.Errorf("missing %s directory: %v", kind, err)
		}
	}

	usage, err := c.Usage()
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if len(usage) != 3 {
		t.Fatalf("Usage() = %d kinds, want 3", len(usage))
	}
	if usage[0].Kind != KindArtifact || usage[0].Entries != 1 || usage[0].Bytes == 0 {
		t.Errorf("artifact usage = %+v", usage[0])
	}
	if usage[1].Kind != "other" || usage[1].Expired != 1 {
		t.Errorf("other usage = %+v", usage[1])
	}

	if err := c.Clear(KindArtifact); err != nil {
		t.Fatalf("Clear(artifact): %v", err)
	}
	if _, hit, _ := c.Get(ctx, ak); hit {
		t.Error("artifact survived Clear(artifact)")
	}
	if _, hit, _ := c.Get(ctx, rk); !hit {
		t.Error("resolve entry should survive Clear(artifact)")
	}
}

func TestFileCacheUsageMissingDir(t *testing.T) {
	c := &FileCache{dir: filepath.Join(t.TempDir(), "gone")}
	usage, err := c.Usage()
	if err != nil || len(usage) != 0 {
		t.Errorf("Usage() = %v, %v; want empty", usage, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := c.(NullCache); !ok {
		t.Errorf("Open(default) = %T, want *NullCache", c)
	}

	c, err = Open(ctx, Options{Backend: "FILE", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := c.(*FileCache); !ok {
		t.Errorf("Open(file) = %T, want *FileCache", c)
	}

	if _, err := Open(ctx, Options{Backend: BackendFile}); err == nil {
		t.Error("Open(file) without a directory should fail")
	}
	if _, err := Open(ctx, Options{Backend: "memcached"}); err == nil {
		t.Error("Open(unknown) should fail")
	}
	if _, err := Open(ctx, Options{Backend: BackendRedis}); err == nil {
		t.Error("Open(redis) without a url should fail")
	}
}

func TestNewRedisCache(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("invalid url should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0"); err == nil {
		t.Error("unreachable server should fail")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if !IsRetryable(classify(redis.ErrClosed)) {
		t.Error("closed client should be retryable")
	}
	if IsRetryable(classify(redis.Nil)) {
		t.Error("redis.Nil should not be retryable")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	rk1 := k.ResolveKey("doc", ResolveKeyOpts{ViewportW: 800, ViewportH: 600})
	rk2 := k.ResolveKey("doc", ResolveKeyOpts{ViewportW: 1024, ViewportH: 600})
	if rk1 == rk2 {
		t.Error("Different ResolveKeyOpts should produce different keys")
	}
	if rk1 != k.ResolveKey("doc", ResolveKeyOpts{ViewportW: 800, ViewportH: 600}) {
		t.Error("ResolveKey should be deterministic")
	}
	if k.ResolveKey("doc", ResolveKeyOpts{}) == k.ResolveKey("doc", ResolveKeyOpts{Strict: true}) {
		t.Error("Strict mode should change the key")
	}

	ak1 := k.ArtifactKey("refs", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("refs", ArtifactKeyOpts{Format: "png", Scale: 2})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if ak1[:13] != "artifact:svg:" {
		t.Errorf("ArtifactKey should carry the format: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")

	key := scoped.ResolveKey("doc", ResolveKeyOpts{})
	if len(key) < 15 || key[:9] != "user:123:" {
		t.Errorf("ScopedKeyer ResolveKey should be prefixed: %s", key)
	}
	want := "user:123:" + NewDefaultKeyer().ArtifactKey("refs", ArtifactKeyOpts{Format: "json"})
	if got := scoped.ArtifactKey("refs", ArtifactKeyOpts{Format: "json"}); got != want {
		t.Errorf("ScopedKeyer ArtifactKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	want := "prefix:" + NewDefaultKeyer().ResolveKey("d", ResolveKeyOpts{})
	if got := scoped.ResolveKey("d", ResolveKeyOpts{}); got != want {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(os.ErrNotExist) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	old := defaultBackoff
	defaultBackoff.Initial = time.Millisecond
	defer func() { defaultBackoff = old }()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return os.ErrNotExist
	})
	if err != os.ErrNotExist {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("Should give up after 3 attempts: calls %d, err %v", calls, err)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestBackoffCapsDelay(t *testing.T) {
	b := Backoff{Attempts: 4, Initial: time.Millisecond, Max: 2 * time.Millisecond}
	calls := 0
	start := time.Now()
	err := b.Do(context.Background(), func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if calls != 4 || !errors.Is(err, ErrNetwork) {
		t.Errorf("calls = %d, err = %v", calls, err)
	}
	// 1ms + 2ms + 2ms of waiting; an uncapped schedule would sleep 7ms.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("backoff took %s", elapsed)
	}
}
