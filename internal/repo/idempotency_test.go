package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
)

func newIdempotencyDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("idem_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateAndGetIdempotency_RoundTrip(t *testing.T) {
	db := newIdempotencyDB(t)
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "exercise", "k-1", "log-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.ResultID != "log-1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "exercise", "k-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.ResultID != "log-1" || got.Status != 201 {
		t.Fatalf("unexpected replay record: %+v", got)
	}
}

func TestGetIdempotency_ExpiredAndMissing(t *testing.T) {
	db := newIdempotencyDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "exercise", "k-old", "log-1", 201, time.Millisecond); err != nil {
		t.Fatalf("create: %v", err)
	}
	later := time.Now().UTC().Add(time.Minute)
	if _, err := GetIdempotency(ctx, db, "u1", "exercise", "k-old", later); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}

	if _, err := GetIdempotency(ctx, db, "u1", "exercise", "never-seen", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing record, got %v", err)
	}

	if _, err := GetIdempotency(ctx, db, "u1", "  ", "k", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank route, got %v", err)
	}
}

func TestCreateIdempotency_DuplicateKey(t *testing.T) {
	db := newIdempotencyDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "checkin", "k-1", "c-1", 201, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "checkin", "k-1", "c-2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same key is fine under a different route or user.
	if _, err := CreateIdempotency(ctx, db, "u1", "exercise", "k-1", "l-1", 201, time.Hour); err != nil {
		t.Fatalf("same key, other route: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u2", "checkin", "k-1", "c-3", 201, time.Hour); err != nil {
		t.Fatalf("same key, other user: %v", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newIdempotencyDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "exercise", "dead", "l-1", 201, time.Millisecond); err != nil {
		t.Fatalf("create expired: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "exercise", "alive", "l-2", 201, time.Hour); err != nil {
		t.Fatalf("create live: %v", err)
	}

	n, err := PurgeExpiredIdempotency(ctx, db, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("PurgeExpiredIdempotency: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged row, got %d", n)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "exercise", "alive", time.Now().UTC()); err != nil {
		t.Fatalf("live record should survive purge: %v", err)
	}
}
