package kv

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/claireundgeorge/accessible-site/internal/data/db"
)

type backend interface {
	Get(ctx context.Context, visitorID, key string) (string, bool, error)
	Set(ctx context.Context, visitorID, key, value string) error
	Delete(ctx context.Context, visitorID string, keys ...string) error
}

func exerciseBackend(t *testing.T, b backend) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "v1", "claire-george-disability"); err != nil || ok {
		t.Fatalf("Get on empty: ok=%v err=%v", ok, err)
	}
	if err := b.Set(ctx, "v1", "claire-george-disability", "wheelchair"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Set(ctx, "v1", "claire-george-disability", "null"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if err := b.Set(ctx, "v1", "claire-george-visited", "1"); err != nil {
		t.Fatalf("Set visited: %v", err)
	}
	if err := b.Set(ctx, "v2", "claire-george-disability", "dyslexia"); err != nil {
		t.Fatalf("Set other visitor: %v", err)
	}

	v, ok, err := b.Get(ctx, "v1", "claire-george-disability")
	if err != nil || !ok || v != "null" {
		t.Fatalf("Get: want=%q got=%q ok=%v err=%v", "null", v, ok, err)
	}

	if err := b.Delete(ctx, "v1", "claire-george-disability", "claire-george-persona"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "v1", "claire-george-disability"); ok {
		t.Fatalf("key should be deleted")
	}
	if _, ok, _ := b.Get(ctx, "v1", "claire-george-visited"); !ok {
		t.Fatalf("untouched key should survive")
	}
	if v, _, _ := b.Get(ctx, "v2", "claire-george-disability"); v != "dyslexia" {
		t.Fatalf("namespaces leaked: got=%q", v)
	}
	if err := b.Delete(ctx, "v1"); err != nil {
		t.Fatalf("Delete without keys: %v", err)
	}
}

func TestMemory(t *testing.T) {
	exerciseBackend(t, NewMemory())
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := NewRedis(rdb, "test:persona:", time.Hour)
	exerciseBackend(t, store)

	if !mr.Exists("test:persona:v2") {
		t.Fatalf("expected hash key test:persona:v2, keys=%v", mr.Keys())
	}
	if ttl := mr.TTL("test:persona:v2"); ttl != time.Hour {
		t.Fatalf("ttl: got=%s", ttl)
	}
	mr.FastForward(2 * time.Hour)
	if _, ok, _ := store.Get(context.Background(), "v2", "claire-george-disability"); ok {
		t.Fatalf("entry should expire with ttl")
	}
}

func TestRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewRedis(rdb, "", 0)
	mr.Close()
	if _, _, err := store.Get(context.Background(), "v", "k"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func TestSQL(t *testing.T) {
	exerciseBackend(t, NewSQL(openSQLite(t), nil))
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"08006", true},
		{"40001", true},
		{"40P01", true},
		{"23505", false},
	}
	for _, tc := range cases {
		err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: tc.code})
		if got := IsTransient(err); got != tc.want {
			t.Fatalf("IsTransient(%s): want=%v got=%v", tc.code, tc.want, got)
		}
	}
	if IsTransient(nil) {
		t.Fatalf("IsTransient(nil) should be false")
	}
}
