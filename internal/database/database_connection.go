// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
database_connection.go - Connection Pool and Write Retries

DuckDB uses optimistic concurrency: two transactions writing the same
natural key do not block, one of them fails at commit with a
"Transaction conflict" error. Every upsert therefore runs inside
withRetry, which re-runs the whole transaction on conflict with a short
exponential backoff (1ms, 2ms, 4ms). The losing writer re-executes its
INSERT ... ON CONFLICT DO UPDATE and overwrites, so a key never ends up
duplicated.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/tomtom215/worldpulse/internal/metrics"
)

const maxWriteRetries = 3

func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// isTransactionConflict reports whether err is a retryable DuckDB write conflict.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on update") ||
		strings.Contains(msg, "cannot update a table that has been altered")
}

// isInternalError reports a DuckDB INTERNAL error, which is never retried.
func isInternalError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "INTERNAL")
}

// withRetry runs fn in a transaction and retries it on write conflicts.
// op and table label the query metrics.
func (db *DB) withRetry(ctx context.Context, op, table string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err := db.runTx(ctx, fn)
		if err == nil {
			metrics.RecordDBQuery(op, table, time.Since(start), nil)
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			metrics.RecordDBQuery(op, table, time.Since(start), err)
			return fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
		}
		if isInternalError(err) || !isTransactionConflict(err) {
			metrics.RecordDBQuery(op, table, time.Since(start), err)
			return err
		}
		if attempt < maxWriteRetries-1 {
			backoff := time.Millisecond * time.Duration(1<<uint(attempt))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	metrics.RecordDBQuery(op, table, time.Since(start), lastErr)
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (db *DB) runTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// observe records a read query in the DB metrics.
func observe(op, table string, start time.Time, err error) {
	metrics.RecordDBQuery(op, table, time.Since(start), err)
}
