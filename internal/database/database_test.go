// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/worldpulse/internal/catalog"
	"github.com/tomtom215/worldpulse/internal/config"
)

// testDBSemaphore serializes DuckDB usage across tests. Concurrent CGO calls
// from many in-memory databases can hang under CI pressure.
var testDBSemaphore = make(chan struct{}, 1)

var testDBMutex sync.Mutex

// setupTestDB creates an in-memory database. The semaphore is held until the
// test completes.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Failed to close test database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatal("Timeout creating test database")
		return nil
	}
}

// setupSeededDB returns a database with the default catalog loaded.
func setupSeededDB(t *testing.T) *DB {
	t.Helper()
	db := setupTestDB(t)
	if err := db.SeedCatalog(context.Background(), catalog.Default()); err != nil {
		t.Fatalf("SeedCatalog() error = %v", err)
	}
	return db
}

func TestNewAppliesMigrations(t *testing.T) {
	db := setupTestDB(t)

	version, err := db.GetCurrentSchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentSchemaVersion() error = %v", err)
	}
	if want := len(getMigrations()); version != want {
		t.Errorf("schema version = %d, want %d", version, want)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := db.runVersionedMigrations(); err != nil {
		t.Fatalf("second migration run error = %v", err)
	}
	applied, err := db.getAppliedMigrations(context.Background())
	if err != nil {
		t.Fatalf("getAppliedMigrations() error = %v", err)
	}
	if len(applied) != len(getMigrations()) {
		t.Errorf("applied = %d migrations, want %d", len(applied), len(getMigrations()))
	}
}

func TestPingNilDB(t *testing.T) {
	var db *DB
	if err := db.Ping(context.Background()); err == nil {
		t.Error("expected error from nil DB")
	}
}

func TestIsTransactionConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"conflict", errors.New("TransactionContext Error: Transaction conflict: cannot update"), true},
		{"update conflict", errors.New("Conflict on update!"), true},
		{"constraint", errors.New("Constraint Error: duplicate key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransactionConflict(tt.err); got != tt.want {
				t.Errorf("isTransactionConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	if w.String() != "" {
		t.Errorf("empty builder = %q, want empty", w.String())
	}
	w.add("a = ?", 1)
	w.add("b >= ?", 2)
	if got, want := w.String(), " WHERE a = ? AND b >= ?"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if len(w.args) != 2 {
		t.Errorf("args = %d, want 2", len(w.args))
	}
}
