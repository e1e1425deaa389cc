package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStorageTest(t *testing.T) (*RedisStorage, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStorage(rdb, "cd:test"), mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("get = %q, %v", got, err)
	}
	if err := s.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = s.Get(ctx, "k")
	if string(got) != "v2" {
		t.Fatalf("expected overwrite, got %q", got)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete must be idempotent: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted key missing, got %v", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "storage.json")
	exerciseStorage(t, NewFileStorage(path))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 storage file, got %v", info.Mode().Perm())
	}
}

func TestRedisStorage(t *testing.T) {
	s, _, done := newRedisStorageTest(t)
	defer done()
	exerciseStorage(t, s)
}

func TestRedisStorageTTL(t *testing.T) {
	s, mr, done := newRedisStorageTest(t)
	defer done()
	ctx := context.Background()

	if err := s.Set(ctx, "feedback", []byte("1"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("cd:test:feedback") {
		t.Fatal("expected prefixed key in redis")
	}
	mr.FastForward(2 * time.Hour)
	if _, err := s.Get(ctx, "feedback"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestRedisStorageUnavailable(t *testing.T) {
	s, mr, done := newRedisStorageTest(t)
	defer done()
	mr.Close()

	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestFileStorageExpiry(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "storage.json"))
	now := time.Unix(1_700_000_000, 0)
	fs.now = func() time.Time { return now }
	ctx := context.Background()

	if err := fs.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	now = now.Add(time.Hour)
	if _, err := fs.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestFileStorageCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileStorage(path).Get(context.Background(), "k"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestFileStorageWatchReportsExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	fs := NewFileStorage(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	if err := fs.Watch(ctx, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("watch: %v", err)
	}

	other := NewFileStorage(path)
	if err := other.Set(context.Background(), DefaultKey, []byte("x"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change notification")
	}
}
