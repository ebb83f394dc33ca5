/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CollectionStore persists whole named collections as opaque JSON
// documents. Save replaces the entire value; there is no incremental
// patching. Overlapping saves to the same name are last-write-wins.
type CollectionStore interface {
	// Load returns the persisted document for a collection, or nil when
	// the collection was never written.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save overwrites the persisted document for a collection.
	Save(ctx context.Context, name string, data []byte) error
}

// PostgresStore is the production CollectionStore, one jsonb slot per
// collection name.
type PostgresStore struct{}

// NewPostgresStore returns a CollectionStore backed by the shared pool
func NewPostgresStore() *PostgresStore {
	return &PostgresStore{}
}

// isKnownCollection reports whether name is one of the fixed slots.
func isKnownCollection(name string) bool {
	for _, known := range KnownCollections {
		if name == known {
			return true
		}
	}

	return false
}

// Load fetches the stored document for a collection. Unknown names read
// as never written; only writes are restricted to the fixed slots.
func (ps *PostgresStore) Load(ctx context.Context, name string) ([]byte, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var data []byte

	query := `SELECT data FROM collections WHERE name = $1`

	err := pool.QueryRow(ctx, query, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load collection %q: %w", name, err)
	}

	return data, nil
}

// Save upserts the stored document for a collection
func (ps *PostgresStore) Save(ctx context.Context, name string, data []byte) error {
	if !isKnownCollection(name) {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}

	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	query := `
		INSERT INTO collections (name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`

	if _, err := pool.Exec(ctx, query, name, data); err != nil {
		return fmt.Errorf("failed to save collection %q: %w", name, err)
	}

	return nil
}
